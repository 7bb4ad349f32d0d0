package models

// DateLayout is the wire format for all calendar dates. Tracking records
// and daily progress compare dates as strings in this layout, never as ranges.
const DateLayout = "2006-01-02"

// User is the authenticated identity returned by /users/me/. Refreshed
// wholesale on every identity fetch; never merged field-by-field.
type User struct {
	ID        int      `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Profile   *Profile `json:"profile,omitempty"`
}

// Profile holds the fitness attributes nested under a User. The core never
// fetches it independently.
type Profile struct {
	Age                int     `json:"age"`
	Weight             float64 `json:"weight"`
	Height             float64 `json:"height"`
	Gender             string  `json:"gender"`
	ActivityLevel      string  `json:"activity_level"`
	Goal               string  `json:"goal"`
	DietaryPreferences string  `json:"dietary_preferences"`
	BMI                float64 `json:"bmi"`
}

// FitnessPlan is immutable once generated. The client deletes plans by id
// and creates tracking records against their children, nothing else.
type FitnessPlan struct {
	ID            int            `json:"id"`
	IsActive      bool           `json:"is_active"`
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	WorkoutDays   []WorkoutDay   `json:"workout_days"`
	NutritionDays []NutritionDay `json:"nutrition_days"`
}

// WorkoutDay is keyed by day_of_week, 1 (Monday) through 7 (Sunday).
type WorkoutDay struct {
	ID        int        `json:"id"`
	DayOfWeek int        `json:"day_of_week"`
	IsRestDay bool       `json:"is_rest_day"`
	Exercises []Exercise `json:"exercises"`
}

type Exercise struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Sets       int    `json:"sets"`
	Reps       int    `json:"reps"`
	Duration   int    `json:"duration"`
	RestPeriod int    `json:"rest_period"`
}

// NutritionDay is keyed by day_of_week like WorkoutDay.
type NutritionDay struct {
	ID            int    `json:"id"`
	DayOfWeek     int    `json:"day_of_week"`
	TotalCalories int    `json:"total_calories"`
	Meals         []Meal `json:"meals"`
}

// Meal types as the backend emits them.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealSnack     = "snack"
	MealDinner    = "dinner"
)

type Meal struct {
	ID       int     `json:"id"`
	MealType string  `json:"meal_type"`
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// WorkoutTracking marks an exercise completed on a date.
type WorkoutTracking struct {
	ID            int    `json:"id"`
	Exercise      int    `json:"exercise"`
	DateCompleted string `json:"date_completed"`
}

// MealTracking marks a meal completed on a date.
type MealTracking struct {
	ID            int    `json:"id"`
	Meal          int    `json:"meal"`
	DateCompleted string `json:"date_completed"`
}

// WaterTracking records glasses of water on a date.
type WaterTracking struct {
	ID            int    `json:"id"`
	Glasses       int    `json:"glasses"`
	DateCompleted string `json:"date_completed"`
}

// DailyProgress is computed server-side and read-only here.
type DailyProgress struct {
	Date                string  `json:"date"`
	WorkoutCompletion   float64 `json:"workout_completion"`
	NutritionCompletion float64 `json:"nutrition_completion"`
	IsRestDay           bool    `json:"is_rest_day"`
}
