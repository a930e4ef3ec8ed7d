package devserver

import (
  "context"
  "errors"
  "fmt"
  "net/http/httptest"
  "testing"
  "time"
  "github.com/yungbote/roadmap-client/internal/apierr"
  "github.com/yungbote/roadmap-client/internal/clients/roadmapapi"
  "github.com/yungbote/roadmap-client/internal/logger"
  "github.com/yungbote/roadmap-client/internal/types"
)

func mustTestLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  t.Cleanup(log.Sync)
  return log
}

func newTestStack(t *testing.T) roadmapapi.Client {
  t.Helper()
  log := mustTestLogger(t)
  store, err := OpenStore(log)
  if err != nil {
    t.Fatalf("OpenStore: %v", err)
  }
  server := httptest.NewServer(NewServer(log, store).Handler())
  t.Cleanup(server.Close)

  client, err := roadmapapi.New(log, roadmapapi.Config{BaseURL: server.URL})
  if err != nil {
    t.Fatalf("roadmapapi.New: %v", err)
  }
  return client
}

func registerTestUser(t *testing.T, client roadmapapi.Client) *types.User {
  t.Helper()
  email := fmt.Sprintf("user-%d@example.com", time.Now().UnixNano())
  user, _, err := client.Register(context.Background(), roadmapapi.RegisterRequest{
    Name:     "Test User",
    Email:    email,
    Password: "secret123",
  })
  if err != nil {
    t.Fatalf("Register: %v", err)
  }
  return user
}

func fillProfile(t *testing.T, client roadmapapi.Client) *types.User {
  t.Helper()
  user, err := client.UpdateProfile(context.Background(), roadmapapi.ProfileUpdate{
    Name:                   "Test User",
    TargetRole:             "Backend Developer",
    ExperienceLevel:        types.ExperienceIntermediate,
    WeeklyTimeAvailability: 10,
    Skills: []types.Skill{
      {Name: "Go", Level: types.ExperienceIntermediate},
      {Name: "SQL", Level: types.ExperienceBeginner},
    },
  })
  if err != nil {
    t.Fatalf("UpdateProfile: %v", err)
  }
  return user
}

func TestFetchWithoutRoadmapIsNotFound(t *testing.T) {
  client := newTestStack(t)
  registerTestUser(t, client)

  _, err := client.GetRoadmap(context.Background())
  if !errors.Is(err, apierr.ErrNoRoadmap) {
    t.Fatalf("want ErrNoRoadmap, got %v", err)
  }
}

func TestCreateRequiresSkills(t *testing.T) {
  client := newTestStack(t)
  registerTestUser(t, client)

  _, err := client.CreateRoadmap(context.Background(), "Backend Developer")
  var apiErr *apierr.Error
  if !errors.As(err, &apiErr) || apiErr.Status != 400 {
    t.Fatalf("want 400 validation rejection, got %v", err)
  }
}

func TestFullRoadmapLifecycle(t *testing.T) {
  client := newTestStack(t)
  registerTestUser(t, client)
  fillProfile(t, client)

  roadmap, err := client.CreateRoadmap(context.Background(), "Backend Developer")
  if err != nil {
    t.Fatalf("CreateRoadmap: %v", err)
  }
  if roadmap.TargetRole != "Backend Developer" {
    t.Fatalf("unexpected target role %q", roadmap.TargetRole)
  }
  if roadmap.TotalDuration != 16 {
    t.Fatalf("intermediate plan should span 16 weeks, got %d", roadmap.TotalDuration)
  }
  if len(roadmap.WeeklyGoals) != roadmap.TotalDuration {
    t.Fatalf("want one goal per week, got %d", len(roadmap.WeeklyGoals))
  }
  if roadmap.TotalTasks == 0 || roadmap.CompletedTasks != 0 || roadmap.Progress != 0 {
    t.Fatalf("fresh roadmap has unexpected metrics: %+v", roadmap)
  }

  // Every goal joins to a real phase by name.
  for i := range roadmap.WeeklyGoals {
    if roadmap.PhaseFor(&roadmap.WeeklyGoals[i]) == nil {
      t.Fatalf("goal %s references unknown phase %q", roadmap.WeeklyGoals[i].ID, roadmap.WeeklyGoals[i].Phase)
    }
  }

  // A second creation is rejected while one exists.
  if _, err := client.CreateRoadmap(context.Background(), "Backend Developer"); err == nil {
    t.Fatalf("second creation should be rejected")
  }

  week, err := client.GetCurrentWeek(context.Background())
  if err != nil {
    t.Fatalf("GetCurrentWeek: %v", err)
  }
  if week.CurrentWeek != 1 || week.WeeklyGoal == nil {
    t.Fatalf("fresh roadmap should be in week 1, got %+v", week)
  }

  goal := roadmap.WeeklyGoals[0]
  task := goal.Tasks[0]
  updated, err := client.UpdateTaskCompletion(context.Background(), goal.ID, task.ID, true)
  if err != nil {
    t.Fatalf("UpdateTaskCompletion: %v", err)
  }
  if got := updated.Task(goal.ID, task.ID); got == nil || !got.Completed {
    t.Fatalf("task not completed in response")
  }
  if updated.CompletedTasks != 1 {
    t.Fatalf("want 1 completed task, got %d", updated.CompletedTasks)
  }
  if updated.CompletedTasks > updated.TotalTasks {
    t.Fatalf("invariant violated: %d > %d", updated.CompletedTasks, updated.TotalTasks)
  }
  wantProgress := int(float64(updated.CompletedTasks)/float64(updated.TotalTasks)*100 + 0.5)
  if updated.Progress != wantProgress {
    t.Fatalf("progress %d does not match %d/%d", updated.Progress, updated.CompletedTasks, updated.TotalTasks)
  }

  // Completing every task of week 1 completes the goal.
  for _, tk := range goal.Tasks[1:] {
    if updated, err = client.UpdateTaskCompletion(context.Background(), goal.ID, tk.ID, true); err != nil {
      t.Fatalf("UpdateTaskCompletion: %v", err)
    }
  }
  if g := updated.GoalByID(goal.ID); g == nil || !g.Completed || g.Progress != 100 {
    t.Fatalf("goal should be completed, got %+v", g)
  }
  if updated.ConsistencyScore == 0 || updated.JobReadinessScore == 0 {
    t.Fatalf("scores should move once a week completes: %+v", updated)
  }

  if err := client.DeleteRoadmap(context.Background()); err != nil {
    t.Fatalf("DeleteRoadmap: %v", err)
  }
  if _, err := client.GetRoadmap(context.Background()); !errors.Is(err, apierr.ErrNoRoadmap) {
    t.Fatalf("roadmap should be gone, got %v", err)
  }
  if err := client.DeleteRoadmap(context.Background()); err == nil {
    t.Fatalf("second delete should report not found")
  }
}

func TestTaskToggleUnknownTask(t *testing.T) {
  client := newTestStack(t)
  registerTestUser(t, client)
  fillProfile(t, client)
  if _, err := client.CreateRoadmap(context.Background(), "Backend Developer"); err != nil {
    t.Fatalf("CreateRoadmap: %v", err)
  }

  _, err := client.UpdateTaskCompletion(context.Background(), "week1", "missing-task", true)
  var apiErr *apierr.Error
  if !errors.As(err, &apiErr) || apiErr.Status != 404 {
    t.Fatalf("want 404 for unknown task, got %v", err)
  }
}

func TestAuthRequired(t *testing.T) {
  client := newTestStack(t)
  _, err := client.GetRoadmap(context.Background())
  var apiErr *apierr.Error
  if !errors.As(err, &apiErr) || apiErr.Status != 401 {
    t.Fatalf("want 401 without token, got %v", err)
  }
}

func TestLoginRoundTrip(t *testing.T) {
  client := newTestStack(t)
  created := registerTestUser(t, client)
  client.ClearToken()

  user, token, err := client.Login(context.Background(), created.Email, "secret123")
  if err != nil {
    t.Fatalf("Login: %v", err)
  }
  if token == "" || user.ID != created.ID {
    t.Fatalf("unexpected login result: %+v", user)
  }

  me, err := client.GetCurrentUser(context.Background())
  if err != nil {
    t.Fatalf("GetCurrentUser: %v", err)
  }
  if me.ID != created.ID {
    t.Fatalf("unexpected current user: %+v", me)
  }
}

func TestLoginRejectsBadPassword(t *testing.T) {
  client := newTestStack(t)
  created := registerTestUser(t, client)
  client.ClearToken()

  _, _, err := client.Login(context.Background(), created.Email, "wrong-password")
  var apiErr *apierr.Error
  if !errors.As(err, &apiErr) || apiErr.Status != 401 {
    t.Fatalf("want 401 for bad password, got %v", err)
  }
}
