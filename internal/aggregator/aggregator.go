// Package aggregator fans out to the read endpoints once a session exists
// and combines the results into one snapshot for presentational code.
package aggregator

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hcissey0/fitplan/internal/api"
	"github.com/hcissey0/fitplan/internal/cache"
	"github.com/hcissey0/fitplan/internal/models"
	"github.com/hcissey0/fitplan/internal/notify"
	"github.com/hcissey0/fitplan/internal/session"
	"github.com/hcissey0/fitplan/internal/utils"
)

// Snapshot is the aggregator's exposed state, rebuilt wholesale on every
// refresh. ActivePlan is the first plan flagged is_active, or nil.
type Snapshot struct {
	Plans           []models.FitnessPlan     `json:"plans"`
	ActivePlan      *models.FitnessPlan      `json:"active_plan"`
	DailyProgress   []models.DailyProgress   `json:"daily_progress"`
	WorkoutTracking []models.WorkoutTracking `json:"workout_tracking"`
	MealTracking    []models.MealTracking    `json:"meal_tracking"`
	Loaded          bool                     `json:"loaded"`
	FetchedAt       time.Time                `json:"fetched_at"`
}

// Aggregator owns the Snapshot. It reads the session only through the
// identity-change listener wired by Bind.
type Aggregator struct {
	client   *api.Client
	log      *utils.Logger
	notifier notify.Notifier
	cache    *cache.Cache

	mu      sync.RWMutex
	snap    Snapshot
	loading bool
	// gen identifies the newest Refresh; older ones finish but discard
	// their results instead of clobbering newer state.
	gen uint64
}

// New creates an Aggregator. c may be nil to run without an offline cache.
func New(client *api.Client, log *utils.Logger, notifier notify.Notifier, c *cache.Cache) *Aggregator {
	return &Aggregator{client: client, log: log, notifier: notifier, cache: c}
}

// Bind triggers a refresh whenever the session's identity transitions to a
// (possibly different) user. A nil identity (logout) leaves the snapshot
// untouched; stale data is acceptable until the next login refreshes it.
func (a *Aggregator) Bind(s *session.Store) {
	s.OnIdentityChange(func(u *models.User) {
		if u == nil {
			return
		}
		// Refresh notifies on failure itself; nothing to add here.
		_ = a.Refresh(context.Background())
	})
}

// Snapshot returns the current snapshot.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap
}

// Loading reports whether a refresh is in flight.
func (a *Aggregator) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}

// Refresh re-runs the full fetch sequence: plans, then daily progress over
// the plans' union date range, then workout and meal tracking concurrently.
// Any sub-fetch failure aborts the refresh, surfaces the error, and leaves
// the prior snapshot in place with Loaded false.
func (a *Aggregator) Refresh(ctx context.Context) error {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.loading = true
	a.mu.Unlock()

	snap, err := a.fetch(ctx)
	if err != nil {
		a.mu.Lock()
		current := gen == a.gen
		if current {
			a.snap.Loaded = false
			a.loading = false
		}
		a.mu.Unlock()
		// A superseded refresh failing is not news; only the newest one
		// gets to bother the user.
		if current {
			api.Report(a.notifier, "Failed to load your data", err)
		}
		return err
	}

	a.mu.Lock()
	if gen != a.gen {
		// Superseded by a newer refresh; drop this result.
		a.mu.Unlock()
		return nil
	}
	a.snap = *snap
	a.loading = false
	a.mu.Unlock()

	a.persist(snap)
	return nil
}

func (a *Aggregator) fetch(ctx context.Context) (*Snapshot, error) {
	plans, err := a.client.Plans(ctx)
	if err != nil {
		return nil, err
	}

	var progress []models.DailyProgress
	if start, end, ok := models.PlanDateRange(plans); ok {
		progress, err = a.client.DailyProgress(ctx, start, end)
		if err != nil {
			return nil, err
		}
	}

	var workouts []models.WorkoutTracking
	var meals []models.MealTracking
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		workouts, err = a.client.WorkoutTracking(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		meals, err = a.client.MealTracking(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{
		Plans:           plans,
		ActivePlan:      models.ActivePlan(plans),
		DailyProgress:   progress,
		WorkoutTracking: workouts,
		MealTracking:    meals,
		Loaded:          true,
		FetchedAt:       time.Now(),
	}, nil
}

func (a *Aggregator) persist(snap *Snapshot) {
	if a.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		a.log.Warn("encode snapshot for cache: %v", err)
		return
	}
	if err := a.cache.Save(data, snap.FetchedAt); err != nil {
		a.log.Warn("persist snapshot: %v", err)
	}
}

// RestoreFromCache installs the last persisted snapshot as stale data:
// Loaded stays false so callers know it predates this process. No cache,
// an empty cache or a corrupt entry all leave the snapshot empty.
func (a *Aggregator) RestoreFromCache() bool {
	if a.cache == nil {
		return false
	}
	data, fetchedAt, err := a.cache.Load()
	if err != nil {
		if err != cache.ErrEmpty {
			a.log.Warn("load snapshot cache: %v", err)
		}
		return false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		a.log.Warn("decode snapshot cache: %v", err)
		return false
	}
	snap.Loaded = false
	snap.FetchedAt = fetchedAt

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.snap.Loaded {
		// A live refresh already landed; keep it.
		return false
	}
	a.snap = snap
	return true
}
