package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/roadmap-client/internal/app"
	"github.com/yungbote/roadmap-client/internal/guard"
	"github.com/yungbote/roadmap-client/internal/logger"
	"github.com/yungbote/roadmap-client/internal/notify"
	"github.com/yungbote/roadmap-client/internal/utils"
)

// Walks one full client session against the roadmap service: resolve the
// stored session, log in when credentials are configured, load the
// dashboard state, and print a summary.
func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)
	notifier := notify.NewWriterNotifier(os.Stdout)

	a, err := app.New(log, cfg, notifier)
	if err != nil {
		log.Fatal("Failed to build app", "error", err)
	}
	ctx := context.Background()
	a.Start(ctx)
	defer a.Close(ctx)

	if !a.Sessions.IsAuthenticated() {
		email := utils.GetEnv("ROADMAP_EMAIL", "", log)
		password := utils.GetEnv("ROADMAP_PASSWORD", "", log)
		if email == "" || password == "" {
			log.Info("No session and no credentials configured; set ROADMAP_EMAIL and ROADMAP_PASSWORD")
			return
		}
		if _, err := a.Sessions.Login(ctx, email, password); err != nil {
			log.Fatal("Login failed", "error", err)
		}
	}

	outcome := a.GuardFor(guard.DashboardPath)
	if outcome.Decision != guard.ShowRequestedView {
		log.Fatal("Dashboard not accessible", "decision", outcome.Decision, "target", outcome.Target)
	}

	a.RefreshDashboard(ctx)

	roadmap := a.Roadmaps.Roadmap()
	if roadmap == nil {
		log.Info("No roadmap yet; create one from the profile page flow")
		return
	}
	log.Info("Roadmap loaded",
		"target_role", roadmap.TargetRole,
		"progress", roadmap.Progress,
		"completed_tasks", roadmap.CompletedTasks,
		"total_tasks", roadmap.TotalTasks,
		"job_readiness", roadmap.JobReadinessScore,
		"consistency", roadmap.ConsistencyScore,
	)
	if week := a.Roadmaps.CurrentWeek(); week != nil && week.WeeklyGoal != nil {
		log.Info("Current week",
			"week", week.CurrentWeek,
			"phase", week.WeeklyGoal.Phase,
			"tasks", len(week.WeeklyGoal.Tasks),
		)
	}
}
