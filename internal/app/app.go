package app

import (
	"context"
	"fmt"

	"github.com/yungbote/roadmap-client/internal/clients/roadmapapi"
	"github.com/yungbote/roadmap-client/internal/guard"
	"github.com/yungbote/roadmap-client/internal/logger"
	"github.com/yungbote/roadmap-client/internal/notify"
	"github.com/yungbote/roadmap-client/internal/observability"
	"github.com/yungbote/roadmap-client/internal/roadmap"
	"github.com/yungbote/roadmap-client/internal/session"
)

// App is the dependency-injected container the view layer (and tests) work
// against. There is no global state; multiple isolated instances can
// coexist.
type App struct {
	Log      *logger.Logger
	Config   Config
	API      roadmapapi.Client
	Sessions *session.Store
	Roadmaps *roadmap.Synchronizer
	Notifier notify.Notifier

	shutdownTracing func(context.Context) error
}

func New(log *logger.Logger, cfg Config, notifier notify.Notifier) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(log)
	}

	api, err := roadmapapi.New(log, roadmapapi.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}

	sessions := session.NewStore(log, api)
	roadmaps := roadmap.NewSynchronizer(log, api, notifier)
	roadmaps.Attach(sessions)

	return &App{
		Log:      log,
		Config:   cfg,
		API:      api,
		Sessions: sessions,
		Roadmaps: roadmaps,
		Notifier: notifier,
	}, nil
}

// Start initializes tracing and performs the one-time session resolution
// from the configured token.
func (a *App) Start(ctx context.Context) {
	a.shutdownTracing = observability.InitTracing(ctx, a.Log, observability.Config{
		ServiceName: "roadmap-client",
	})
	a.Sessions.Resolve(ctx, a.Config.Token)
}

// RefreshDashboard reproduces the dashboard's load ordering: fetch the
// roadmap first, then the current week only when a roadmap exists.
func (a *App) RefreshDashboard(ctx context.Context) {
	a.Roadmaps.FetchRoadmap(ctx)
	if a.Roadmaps.Roadmap() != nil {
		a.Roadmaps.FetchCurrentWeek(ctx)
	}
}

// GuardFor evaluates the access guard for a path against current session
// state.
func (a *App) GuardFor(path string) guard.Outcome {
	return guard.ForPath(path, a.Sessions.IsAuthenticated(), a.Sessions.Loading())
}

func (a *App) Close(ctx context.Context) {
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			a.Log.Warn("Tracing shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
