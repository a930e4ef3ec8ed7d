package devserver

import (
  "fmt"
  "math"
  "net/url"
  "time"
  "github.com/google/uuid"
  "github.com/yungbote/roadmap-client/internal/types"
)

// buildRoadmap generates a roadmap document for a user. The shape mirrors
// what the production service produces: ordered phases joined to weekly
// goals by phase name, tasks sized from the user's weekly availability, and
// per-skill video references.
func buildRoadmap(user *types.User, targetRole string, now time.Time) *types.Roadmap {
  duration := durationForLevel(user.ExperienceLevel)
  phases := phasesFor(targetRole, user.Skills, duration)

  roadmap := &types.Roadmap{
    ID:            uuid.New(),
    UserID:        user.ID,
    TargetRole:    targetRole,
    TotalDuration: duration,
    Phases:        phases,
    CreatedAt:     now,
    UpdatedAt:     now,
  }

  tasksPerWeek := user.WeeklyTimeAvailability / 3
  if tasksPerWeek < 2 {
    tasksPerWeek = 2
  }
  if tasksPerWeek > 5 {
    tasksPerWeek = 5
  }
  hoursPerTask := float64(user.WeeklyTimeAvailability) / float64(tasksPerWeek)
  if hoursPerTask <= 0 {
    hoursPerTask = 2
  }

  for week := 1; week <= duration; week++ {
    phase := phaseForWeek(phases, week, duration)
    goal := types.WeeklyGoal{
      ID:         fmt.Sprintf("week%d", week),
      WeekNumber: week,
      Phase:      phase.Name,
      VideoLinks: videoLinksFor(phase.Skills),
    }
    for t := 1; t <= tasksPerWeek; t++ {
      goal.Tasks = append(goal.Tasks, types.Task{
        ID:             fmt.Sprintf("week%d-task%d", week, t),
        Title:          fmt.Sprintf("%s practice block %d", phase.Name, t),
        Description:    fmt.Sprintf("Week %d focus work for the %s phase", week, phase.Name),
        EstimatedHours: math.Round(hoursPerTask*10) / 10,
      })
    }
    roadmap.WeeklyGoals = append(roadmap.WeeklyGoals, goal)
  }

  recompute(roadmap)
  return roadmap
}

func durationForLevel(level types.ExperienceLevel) int {
  switch level {
  case types.ExperienceAdvanced:
    return 12
  case types.ExperienceIntermediate:
    return 16
  default:
    return 24
  }
}

func phasesFor(targetRole string, skills []types.Skill, duration int) []types.Phase {
  names := make([]string, 0, len(skills))
  for _, skill := range skills {
    names = append(names, skill.Name)
  }
  half := (len(names) + 1) / 2
  return []types.Phase{
    {
      Order:       1,
      Name:        "Foundations",
      Description: "Close the gaps in the fundamentals before role-specific work",
      Skills:      names[:half],
    },
    {
      Order:       2,
      Name:        fmt.Sprintf("%s Core", targetRole),
      Description: fmt.Sprintf("Deep practice on the day-to-day skills of a %s", targetRole),
      Skills:      names[half:],
    },
    {
      Order:       3,
      Name:        "Job Readiness",
      Description: "Portfolio, interview preparation and applied projects",
      Skills:      names,
    },
  }
}

// phaseForWeek assigns weeks 40/40/20 across the three phases.
func phaseForWeek(phases []types.Phase, week, duration int) *types.Phase {
  firstEnd := duration * 2 / 5
  secondEnd := duration * 4 / 5
  switch {
  case week <= firstEnd:
    return &phases[0]
  case week <= secondEnd:
    return &phases[1]
  default:
    return &phases[2]
  }
}

func videoLinksFor(skills []string) []types.SkillVideoGroup {
  limit := len(skills)
  if limit > 2 {
    limit = 2
  }
  groups := make([]types.SkillVideoGroup, 0, limit)
  for _, skill := range skills[:limit] {
    groups = append(groups, types.SkillVideoGroup{
      Skill: skill,
      Videos: []types.VideoLink{
        {
          Title:    fmt.Sprintf("%s crash course", skill),
          URL:      "https://www.youtube.com/results?search_query=" + url.QueryEscape(skill+" crash course"),
          Platform: "YouTube",
        },
      },
    })
  }
  return groups
}

// recompute rebuilds every derived field from task completion state: goal
// and phase progress, aggregate totals, and the two opaque scores.
func recompute(roadmap *types.Roadmap) {
  totalTasks := 0
  completedTasks := 0
  completedGoals := 0

  phaseTotals := map[string]int{}
  phaseCompleted := map[string]int{}

  for i := range roadmap.WeeklyGoals {
    goal := &roadmap.WeeklyGoals[i]
    goalTotal := len(goal.Tasks)
    goalCompleted := 0
    for _, task := range goal.Tasks {
      if task.Completed {
        goalCompleted++
      }
    }
    totalTasks += goalTotal
    completedTasks += goalCompleted
    phaseTotals[goal.Phase] += goalTotal
    phaseCompleted[goal.Phase] += goalCompleted

    goal.Progress = percent(goalCompleted, goalTotal)
    goal.Completed = goalTotal > 0 && goalCompleted == goalTotal
    if goal.Completed {
      completedGoals++
    }
  }

  for i := range roadmap.Phases {
    phase := &roadmap.Phases[i]
    phase.Progress = percent(phaseCompleted[phase.Name], phaseTotals[phase.Name])
  }

  roadmap.TotalTasks = totalTasks
  roadmap.CompletedTasks = completedTasks
  roadmap.Progress = percent(completedTasks, totalTasks)
  roadmap.ConsistencyScore = percent(completedGoals, len(roadmap.WeeklyGoals))
  roadmap.JobReadinessScore = int(math.Round(0.6*float64(roadmap.Progress) + 0.4*float64(roadmap.ConsistencyScore)))
}

func percent(part, whole int) int {
  if whole <= 0 {
    return 0
  }
  return int(math.Round(100 * float64(part) / float64(whole)))
}

// currentWeekFor derives the projection from roadmap age, clamped to the
// plan duration.
func currentWeekFor(roadmap *types.Roadmap, createdAt, now time.Time) *types.CurrentWeekProjection {
  week := int(now.Sub(createdAt).Hours()/(24*7)) + 1
  if week < 1 {
    week = 1
  }
  if week > roadmap.TotalDuration {
    week = roadmap.TotalDuration
  }
  projection := &types.CurrentWeekProjection{CurrentWeek: week}
  for i := range roadmap.WeeklyGoals {
    if roadmap.WeeklyGoals[i].WeekNumber == week {
      projection.WeeklyGoal = &roadmap.WeeklyGoals[i]
      break
    }
  }
  return projection
}
