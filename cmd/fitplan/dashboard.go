package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hcissey0/fitplan/internal/aggregator"
	"github.com/hcissey0/fitplan/internal/api"
	"github.com/hcissey0/fitplan/internal/models"
)

// now is swapped in tests to pin the clock.
var now = time.Now

func (a *app) dashboard(ctx context.Context) error {
	if err := a.guard(); err != nil {
		return err
	}

	// Show whatever the cache has while deciding whether to hit the
	// network; a bound session restore usually refreshed already.
	snap := a.agg.Snapshot()
	if !snap.Loaded {
		a.agg.RestoreFromCache()
		if err := a.agg.Refresh(ctx); err != nil {
			snap = a.agg.Snapshot()
			if snap.FetchedAt.IsZero() {
				return fmt.Errorf("load data: %s", api.Normalize(err))
			}
			fmt.Println(offlineHint(a.cfg.APIBaseURL, snap.FetchedAt))
		}
		snap = a.agg.Snapshot()
	}

	fmt.Print(renderDashboard(snap, a.sess.User(), now()))
	return nil
}

func renderDashboard(snap aggregator.Snapshot, user *models.User, t time.Time) string {
	var b strings.Builder
	today := models.DateOf(t)

	fmt.Fprintf(&b, "=== %s - %s ===\n", displayName(user), today)

	plan := snap.ActivePlan
	if plan == nil {
		b.WriteString("No active plan. Generate one with -cmd plan-generate.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Active plan %d: %s to %s\n", plan.ID, plan.StartDate, plan.EndDate)

	dow := models.DayOfWeek(t)
	if wd := plan.WorkoutDayFor(dow); wd != nil {
		if wd.IsRestDay {
			b.WriteString("\nToday's workout: rest day\n")
		} else {
			b.WriteString("\nToday's workout:\n")
			for _, ex := range wd.Exercises {
				fmt.Fprintf(&b, "  %s %s - %dx%d (id %d)\n",
					marker(models.ExerciseTrackedOn(snap.WorkoutTracking, ex.ID, today)),
					ex.Name, ex.Sets, ex.Reps, ex.ID)
			}
		}
	}

	if nd := plan.NutritionDayFor(dow); nd != nil {
		slot := models.CurrentMealSlot(t)
		fmt.Fprintf(&b, "\nToday's meals (now: %s):\n", slot)
		for _, meal := range nd.Meals {
			cursor := "  "
			if meal.MealType == slot {
				cursor = "> "
			}
			fmt.Fprintf(&b, "%s%s %-9s %s - %d kcal (id %d)\n",
				cursor,
				marker(models.MealTrackedOn(snap.MealTracking, meal.ID, today)),
				meal.MealType+":", meal.Name, meal.Calories, meal.ID)
		}
	}

	if len(snap.DailyProgress) > 0 {
		b.WriteString("\nRecent progress:\n")
		entries := snap.DailyProgress
		if len(entries) > 7 {
			entries = entries[len(entries)-7:]
		}
		for _, p := range entries {
			if p.IsRestDay {
				fmt.Fprintf(&b, "  %s  rest day\n", p.Date)
				continue
			}
			fmt.Fprintf(&b, "  %s  workout %3.0f%%  nutrition %3.0f%%\n", p.Date, p.WorkoutCompletion, p.NutritionCompletion)
		}
	}

	return b.String()
}

func offlineHint(baseURL string, fetchedAt time.Time) string {
	return fmt.Sprintf("(offline: %s unreachable, showing data from %s)",
		baseURL, fetchedAt.Format("2006-01-02 15:04"))
}

func marker(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
