package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestCurrentMealSlot(t *testing.T) {
	assert.Equal(t, MealBreakfast, CurrentMealSlot(at(6, 0)))
	assert.Equal(t, MealBreakfast, CurrentMealSlot(at(5, 0)))
	assert.Equal(t, MealBreakfast, CurrentMealSlot(at(11, 59)))
	assert.Equal(t, MealLunch, CurrentMealSlot(at(12, 0)))
	assert.Equal(t, MealLunch, CurrentMealSlot(at(13, 0)))
	assert.Equal(t, MealSnack, CurrentMealSlot(at(15, 0)))
	assert.Equal(t, MealSnack, CurrentMealSlot(at(16, 0)))
	assert.Equal(t, MealDinner, CurrentMealSlot(at(17, 0)))
	assert.Equal(t, MealDinner, CurrentMealSlot(at(20, 0)))
	assert.Equal(t, MealDinner, CurrentMealSlot(at(0, 30)))
	// Wraps past midnight: 04:59 is still dinner.
	assert.Equal(t, MealDinner, CurrentMealSlot(at(4, 59)))
}

func TestActivePlan(t *testing.T) {
	plans := []FitnessPlan{
		{ID: 1, IsActive: false},
		{ID: 2, IsActive: true},
		{ID: 3, IsActive: true},
	}
	got := ActivePlan(plans)
	assert.NotNil(t, got)
	assert.Equal(t, 2, got.ID)

	assert.Nil(t, ActivePlan(nil))
	assert.Nil(t, ActivePlan([]FitnessPlan{{ID: 9}}))
}

func TestPlanDateRange(t *testing.T) {
	plans := []FitnessPlan{
		{StartDate: "2025-02-10", EndDate: "2025-03-09"},
		{StartDate: "2025-01-01", EndDate: "2025-01-28"},
		{StartDate: "2025-03-01", EndDate: "2025-03-28"},
	}
	start, end, ok := PlanDateRange(plans)
	assert.True(t, ok)
	assert.Equal(t, "2025-01-01", start)
	assert.Equal(t, "2025-03-28", end)

	_, _, ok = PlanDateRange(nil)
	assert.False(t, ok)
}

func TestTrackedOn(t *testing.T) {
	meals := []MealTracking{
		{ID: 1, Meal: 7, DateCompleted: "2025-03-09"},
		{ID: 2, Meal: 7, DateCompleted: "2025-03-10"},
	}
	assert.True(t, MealTrackedOn(meals, 7, "2025-03-10"))
	assert.False(t, MealTrackedOn(meals, 7, "2025-03-11"))
	assert.False(t, MealTrackedOn(meals, 8, "2025-03-10"))

	workouts := []WorkoutTracking{{ID: 1, Exercise: 4, DateCompleted: "2025-03-10"}}
	assert.True(t, ExerciseTrackedOn(workouts, 4, "2025-03-10"))
	// Yesterday's record does not count today.
	assert.False(t, ExerciseTrackedOn(workouts, 4, "2025-03-09"))
}

func TestGlassesOn(t *testing.T) {
	recs := []WaterTracking{
		{Glasses: 2, DateCompleted: "2025-03-10"},
		{Glasses: 1, DateCompleted: "2025-03-10"},
		{Glasses: 5, DateCompleted: "2025-03-09"},
	}
	assert.Equal(t, 3, GlassesOn(recs, "2025-03-10"))
	assert.Equal(t, 0, GlassesOn(recs, "2025-03-11"))
}

func TestDayOfWeek(t *testing.T) {
	// 2025-03-10 is a Monday.
	assert.Equal(t, 1, DayOfWeek(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	// Sunday maps to 7, not 0.
	assert.Equal(t, 7, DayOfWeek(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)))
}

func TestDayLookups(t *testing.T) {
	p := &FitnessPlan{
		WorkoutDays:   []WorkoutDay{{ID: 10, DayOfWeek: 1}, {ID: 11, DayOfWeek: 3}},
		NutritionDays: []NutritionDay{{ID: 20, DayOfWeek: 1}},
	}
	assert.Equal(t, 11, p.WorkoutDayFor(3).ID)
	assert.Nil(t, p.WorkoutDayFor(5))
	assert.Equal(t, 20, p.NutritionDayFor(1).ID)
	assert.Nil(t, p.NutritionDayFor(2))
}
