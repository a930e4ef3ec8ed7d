package app

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yungbote/roadmap-client/internal/clients/roadmapapi"
	"github.com/yungbote/roadmap-client/internal/devserver"
	"github.com/yungbote/roadmap-client/internal/guard"
	"github.com/yungbote/roadmap-client/internal/logger"
	"github.com/yungbote/roadmap-client/internal/notify"
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

func newTestApp(t *testing.T) (*App, *notify.Recorder) {
	t.Helper()
	log := mustTestLogger(t)
	store, err := devserver.OpenStore(log)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	server := httptest.NewServer(devserver.NewServer(log, store).Handler())
	t.Cleanup(server.Close)

	recorder := notify.NewRecorder()
	a, err := New(log, Config{APIBaseURL: server.URL, RequestTimeout: 10 * time.Second}, recorder)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.Start(context.Background())
	t.Cleanup(func() { a.Close(context.Background()) })
	return a, recorder
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestGuardBeforeAndAfterResolution(t *testing.T) {
	log := mustTestLogger(t)
	a, err := New(log, Config{APIBaseURL: "http://localhost:0"}, notify.NewRecorder())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Before Start the session is unresolved: the placeholder dominates.
	if got := a.GuardFor(guard.DashboardPath); got.Decision != guard.ShowLoadingPlaceholder {
		t.Fatalf("unresolved session should show placeholder, got %+v", got)
	}

	a.Start(context.Background())
	if got := a.GuardFor(guard.DashboardPath); got.Decision != guard.Redirect || got.Target != guard.LoginPath {
		t.Fatalf("anonymous dashboard visit = %+v, want redirect to login", got)
	}
	if got := a.GuardFor(guard.LoginPath); got.Decision != guard.ShowRequestedView {
		t.Fatalf("anonymous login visit = %+v, want requested view", got)
	}
	if got := a.GuardFor("/"); got.Decision != guard.Redirect || got.Target != guard.DashboardPath {
		t.Fatalf("root = %+v, want redirect to dashboard", got)
	}
}

func TestFullSessionFlow(t *testing.T) {
	a, recorder := newTestApp(t)
	ctx := context.Background()

	user, err := a.Sessions.Register(ctx, roadmapapi.RegisterRequest{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := a.GuardFor(guard.LoginPath); got.Decision != guard.Redirect || got.Target != guard.DashboardPath {
		t.Fatalf("authenticated login visit = %+v, want redirect to dashboard", got)
	}

	// The profile flow fills skills, then creates the roadmap.
	if _, err := a.Sessions.UpdateProfile(ctx, roadmapapi.ProfileUpdate{
		Name:                   user.Name,
		TargetRole:             "Backend Developer",
		ExperienceLevel:        types.ExperienceBeginner,
		WeeklyTimeAvailability: 8,
		Skills:                 []types.Skill{{Name: "Go", Level: types.ExperienceBeginner}},
	}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	result := a.Roadmaps.CreateRoadmap(ctx, "Backend Developer")
	if !result.Success {
		t.Fatalf("CreateRoadmap failed: %+v", result)
	}

	a.RefreshDashboard(ctx)
	roadmap := a.Roadmaps.Roadmap()
	if roadmap == nil || roadmap.TargetRole != "Backend Developer" {
		t.Fatalf("dashboard refresh should load the roadmap, got %+v", roadmap)
	}
	week := a.Roadmaps.CurrentWeek()
	if week == nil || week.CurrentWeek != 1 {
		t.Fatalf("dashboard refresh should load the current week, got %+v", week)
	}

	goal := roadmap.WeeklyGoals[0]
	if res := a.Roadmaps.UpdateTaskCompletion(ctx, goal.ID, goal.Tasks[0].ID, true); !res.Success {
		t.Fatalf("UpdateTaskCompletion failed: %+v", res)
	}
	if a.Roadmaps.Roadmap() == roadmap {
		t.Fatalf("mutation must replace the aggregate")
	}

	// Logout clears everything through the subscription, never directly.
	a.Sessions.Logout()
	if a.Roadmaps.Roadmap() != nil || a.Roadmaps.CurrentWeek() != nil {
		t.Fatalf("post-logout roadmap state must be nil")
	}
	if a.Sessions.IsAuthenticated() {
		t.Fatalf("post-logout session must be unauthenticated")
	}

	wantTexts := map[string]bool{}
	for _, ev := range recorder.Events() {
		wantTexts[ev.Text] = true
	}
	if !wantTexts["Roadmap generated successfully!"] || !wantTexts["Task completed!"] {
		t.Fatalf("expected notifications missing: %+v", recorder.Events())
	}
}

func TestLoginTriggersBackgroundRoadmapLoad(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	if _, err := a.Sessions.Register(ctx, roadmapapi.RegisterRequest{
		Name:     "Jo",
		Email:    "jo@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := a.Sessions.UpdateProfile(ctx, roadmapapi.ProfileUpdate{
		Name:                   "Jo",
		TargetRole:             "Data Engineer",
		ExperienceLevel:        types.ExperienceAdvanced,
		WeeklyTimeAvailability: 12,
		Skills:                 []types.Skill{{Name: "Python", Level: types.ExperienceAdvanced}},
	}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if res := a.Roadmaps.CreateRoadmap(ctx, "Data Engineer"); !res.Success {
		t.Fatalf("CreateRoadmap failed: %+v", res)
	}

	a.Sessions.Logout()
	if a.Roadmaps.Roadmap() != nil {
		t.Fatalf("logout should clear the roadmap")
	}

	if _, err := a.Sessions.Login(ctx, "jo@example.com", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	waitUntil(t, 2*time.Second, func() bool { return a.Roadmaps.Roadmap() != nil })
	if got := a.Roadmaps.Roadmap().TargetRole; got != "Data Engineer" {
		t.Fatalf("unexpected roadmap after re-login: %q", got)
	}
}
