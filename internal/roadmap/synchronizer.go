package roadmap

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/roadmap-client/internal/apierr"
	"github.com/yungbote/roadmap-client/internal/clients/roadmapapi"
	"github.com/yungbote/roadmap-client/internal/logger"
	"github.com/yungbote/roadmap-client/internal/notify"
	"github.com/yungbote/roadmap-client/internal/session"
	"github.com/yungbote/roadmap-client/internal/types"
)

// Result is the discriminated outcome of a mutating operation. Failures are
// reported here and through the notifier; they never surface as errors to
// the view layer.
type Result struct {
	Success bool
	Message string
}

// Synchronizer owns the client-side copy of the roadmap aggregate and the
// current-week projection. Every mutation replaces the aggregate wholesale
// with the server's authoritative response; derived metrics are never
// recomputed locally.
//
// Each operation snapshots a session generation before its network call and
// discards the response if the generation moved (logout, deletion, or a
// newer load superseded it), so late responses can never clobber newer
// state.
type Synchronizer struct {
	log      *logger.Logger
	api      roadmapapi.Client
	notifier notify.Notifier

	mu          sync.RWMutex
	roadmap     *types.Roadmap
	currentWeek *types.CurrentWeekProjection
	loading     bool
	gen         uint64

	flight singleflight.Group
}

func NewSynchronizer(log *logger.Logger, api roadmapapi.Client, notifier notify.Notifier) *Synchronizer {
	return &Synchronizer{
		log:      log.With("store", "RoadmapSynchronizer"),
		api:      api,
		notifier: notifier,
	}
}

// Attach subscribes to the session store's authentication transitions:
// logging in loads the roadmap in the background, logging out clears all
// roadmap state synchronously so nothing leaks into the next session.
func (s *Synchronizer) Attach(sessions *session.Store) {
	sessions.OnAuthChange(func(ev session.Event) {
		if ev.Authenticated {
			gen := s.bumpGen()
			go s.fetchRoadmap(context.Background(), gen)
			return
		}
		s.reset()
	})
}

// FetchRoadmap loads the current user's roadmap. A missing roadmap is an
// expected terminal state, presented as a nil aggregate without any
// notification; other read failures are logged and leave prior state.
func (s *Synchronizer) FetchRoadmap(ctx context.Context) {
	s.fetchRoadmap(ctx, s.currentGen())
}

func (s *Synchronizer) fetchRoadmap(ctx context.Context, gen uint64) {
	s.setLoading(true)
	defer s.setLoading(false)

	// Concurrent fetches of the same generation collapse into one round
	// trip; the key carries the generation so a fresher caller never shares
	// a stale in-flight result.
	res, err, _ := s.flight.Do(fmt.Sprintf("roadmap-%d", gen), func() (interface{}, error) {
		return s.api.GetRoadmap(ctx)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug("Discarding stale roadmap fetch", "fetch_gen", gen, "current_gen", s.gen)
		return
	}
	if err != nil {
		if apierr.IsNotFound(err) {
			s.roadmap = nil
			return
		}
		s.log.Error("Failed to fetch roadmap", "error", err)
		return
	}
	s.roadmap = res.(*types.Roadmap)
}

// FetchCurrentWeek loads the server-computed current-week projection. It is
// independent of FetchRoadmap; callers decide ordering.
func (s *Synchronizer) FetchCurrentWeek(ctx context.Context) {
	gen := s.currentGen()
	week, err := s.api.GetCurrentWeek(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug("Discarding stale current-week fetch", "fetch_gen", gen, "current_gen", s.gen)
		return
	}
	if err != nil {
		s.log.Error("Failed to fetch current week", "error", err)
		return
	}
	s.currentWeek = week
}

// CreateRoadmap asks the service to generate a roadmap for the given target
// role. Validation of the role and of the user's skills happens server-side.
func (s *Synchronizer) CreateRoadmap(ctx context.Context, targetRole string) Result {
	gen := s.currentGen()
	s.setLoading(true)
	defer s.setLoading(false)

	created, err := s.api.CreateRoadmap(ctx, targetRole)
	if err != nil {
		message := apierr.MessageOr(err, "Failed to create roadmap")
		s.log.Warn("Roadmap creation failed", "target_role", targetRole, "error", err)
		s.notifier.Error(message)
		return Result{Success: false, Message: message}
	}

	s.mu.Lock()
	if gen == s.gen {
		// A mutation supersedes any read still in flight.
		s.gen++
		s.roadmap = created
	}
	s.mu.Unlock()

	s.notifier.Success("Roadmap generated successfully!")
	return Result{Success: true}
}

// UpdateTaskCompletion toggles one task's completion flag. No optimistic
// update is applied; on success the whole aggregate is replaced with the
// response so server-recomputed progress fields come along.
func (s *Synchronizer) UpdateTaskCompletion(ctx context.Context, weekID, taskID string, completed bool) Result {
	gen := s.currentGen()
	updated, err := s.api.UpdateTaskCompletion(ctx, weekID, taskID, completed)
	if err != nil {
		message := apierr.MessageOr(err, "Failed to update task")
		s.log.Warn("Task update failed", "week_id", weekID, "task_id", taskID, "error", err)
		s.notifier.Error(message)
		return Result{Success: false, Message: message}
	}

	s.mu.Lock()
	if gen == s.gen {
		s.gen++
		s.roadmap = updated
	}
	s.mu.Unlock()

	if completed {
		s.notifier.Success("Task completed!")
	} else {
		s.notifier.Success("Task marked incomplete")
	}
	return Result{Success: true}
}

// DeleteRoadmap destroys the roadmap and clears both the aggregate and the
// current-week projection.
func (s *Synchronizer) DeleteRoadmap(ctx context.Context) Result {
	gen := s.currentGen()
	if err := s.api.DeleteRoadmap(ctx); err != nil {
		message := apierr.MessageOr(err, "Failed to delete roadmap")
		s.log.Warn("Roadmap deletion failed", "error", err)
		s.notifier.Error(message)
		return Result{Success: false, Message: message}
	}

	s.mu.Lock()
	if gen == s.gen {
		s.gen++
		s.roadmap = nil
		s.currentWeek = nil
	}
	s.mu.Unlock()

	s.notifier.Success("Roadmap deleted successfully")
	return Result{Success: true}
}

func (s *Synchronizer) Roadmap() *types.Roadmap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roadmap
}

func (s *Synchronizer) CurrentWeek() *types.CurrentWeekProjection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentWeek
}

// Loading reports whether a load or creation is in flight. It is a coarse
// render signal, not a lock; correctness comes from the generation guard.
func (s *Synchronizer) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Synchronizer) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Synchronizer) currentGen() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

func (s *Synchronizer) bumpGen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// reset drops all roadmap state and invalidates every in-flight response.
func (s *Synchronizer) reset() {
	s.mu.Lock()
	s.gen++
	s.roadmap = nil
	s.currentWeek = nil
	s.loading = false
	s.mu.Unlock()
}
