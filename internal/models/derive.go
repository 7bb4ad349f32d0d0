package models

import "time"

// DateOf formats a wall-clock time as a wire date string.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// DayOfWeek maps a time to the 1 (Monday) .. 7 (Sunday) keying used by
// workout and nutrition days.
func DayOfWeek(t time.Time) int {
	d := int(t.Weekday())
	if d == 0 {
		d = 7
	}
	return d
}

// ActivePlan returns the first plan flagged is_active, or nil if none is.
func ActivePlan(plans []FitnessPlan) *FitnessPlan {
	for i := range plans {
		if plans[i].IsActive {
			return &plans[i]
		}
	}
	return nil
}

// PlanDateRange returns the union date span covering every plan,
// [min(start_date), max(end_date)] inclusive. ok is false when plans is
// empty. Dates in DateLayout order lexicographically, so string comparison
// is sufficient.
func PlanDateRange(plans []FitnessPlan) (start, end string, ok bool) {
	if len(plans) == 0 {
		return "", "", false
	}
	start, end = plans[0].StartDate, plans[0].EndDate
	for _, p := range plans[1:] {
		if p.StartDate < start {
			start = p.StartDate
		}
		if p.EndDate > end {
			end = p.EndDate
		}
	}
	return start, end, true
}

// CurrentMealSlot picks the meal type for a wall-clock time:
// 05:00-11:59 breakfast, 12:00-14:59 lunch, 15:00-16:59 snack,
// everything else dinner (wrapping past midnight).
func CurrentMealSlot(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return MealBreakfast
	case h >= 12 && h < 15:
		return MealLunch
	case h >= 15 && h < 17:
		return MealSnack
	default:
		return MealDinner
	}
}

// ExerciseTrackedOn reports whether any workout tracking record references
// the exercise with a completion date equal to date. Exact string equality,
// a record for yesterday never counts.
func ExerciseTrackedOn(recs []WorkoutTracking, exerciseID int, date string) bool {
	for _, r := range recs {
		if r.Exercise == exerciseID && r.DateCompleted == date {
			return true
		}
	}
	return false
}

// MealTrackedOn is ExerciseTrackedOn for meal tracking records.
func MealTrackedOn(recs []MealTracking, mealID int, date string) bool {
	for _, r := range recs {
		if r.Meal == mealID && r.DateCompleted == date {
			return true
		}
	}
	return false
}

// GlassesOn sums water glasses recorded for a date.
func GlassesOn(recs []WaterTracking, date string) int {
	total := 0
	for _, r := range recs {
		if r.DateCompleted == date {
			total += r.Glasses
		}
	}
	return total
}

// WorkoutDayFor returns the plan's workout day for a 1-7 day key, or nil.
func (p *FitnessPlan) WorkoutDayFor(dayOfWeek int) *WorkoutDay {
	for i := range p.WorkoutDays {
		if p.WorkoutDays[i].DayOfWeek == dayOfWeek {
			return &p.WorkoutDays[i]
		}
	}
	return nil
}

// NutritionDayFor returns the plan's nutrition day for a 1-7 day key, or nil.
func (p *FitnessPlan) NutritionDayFor(dayOfWeek int) *NutritionDay {
	for i := range p.NutritionDays {
		if p.NutritionDays[i].DayOfWeek == dayOfWeek {
			return &p.NutritionDays[i]
		}
	}
	return nil
}
