package types

import (
  "time"
  "github.com/google/uuid"
)

// Roadmap is the full aggregate the service returns for one user. The
// derived fields (Progress, CompletedTasks, TotalTasks and the two scores)
// are computed server-side and must be treated as opaque by the client.
type Roadmap struct {
  ID                uuid.UUID    `json:"id"`
  UserID            uuid.UUID    `json:"userId"`
  TargetRole        string       `json:"targetRole"`
  TotalDuration     int          `json:"totalDuration"`
  Phases            []Phase      `json:"phases"`
  WeeklyGoals       []WeeklyGoal `json:"weeklyGoals"`
  Progress          int          `json:"progress"`
  CompletedTasks    int          `json:"completedTasks"`
  TotalTasks        int          `json:"totalTasks"`
  JobReadinessScore int          `json:"jobReadinessScore"`
  ConsistencyScore  int          `json:"consistencyScore"`
  CreatedAt         time.Time    `json:"createdAt"`
  UpdatedAt         time.Time    `json:"updatedAt"`
}

// PhaseFor resolves the phase a weekly goal belongs to. The association is
// by phase name, not by id; the first name match wins.
func (r *Roadmap) PhaseFor(goal *WeeklyGoal) *Phase {
  if r == nil || goal == nil {
    return nil
  }
  for i := range r.Phases {
    if r.Phases[i].Name == goal.Phase {
      return &r.Phases[i]
    }
  }
  return nil
}

func (r *Roadmap) GoalByID(weekID string) *WeeklyGoal {
  if r == nil {
    return nil
  }
  for i := range r.WeeklyGoals {
    if r.WeeklyGoals[i].ID == weekID {
      return &r.WeeklyGoals[i]
    }
  }
  return nil
}

func (r *Roadmap) Task(weekID, taskID string) *Task {
  goal := r.GoalByID(weekID)
  if goal == nil {
    return nil
  }
  for i := range goal.Tasks {
    if goal.Tasks[i].ID == taskID {
      return &goal.Tasks[i]
    }
  }
  return nil
}
