package api

import (
	"context"
	"net/url"

	"github.com/hcissey0/fitplan/internal/models"
)

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// SignupRequest carries the registration payload. Field presence is the
// caller's responsibility; the backend validates.
type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// GeneratePlanRequest asks the backend to generate a plan from the user's
// profile. Plan content is produced server-side; the client never shapes it.
type GeneratePlanRequest struct {
	StartDate string `json:"start_date,omitempty"`
	DaysCount int    `json:"days_count,omitempty"`
}

type idPayload struct {
	ID int `json:"id"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	payload := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.Post(ctx, "/auth/login/", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.Post(ctx, "/auth/signup/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the current identity.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.Get(ctx, "/users/me/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe patches identity fields and returns the updated identity.
func (c *Client) UpdateMe(ctx context.Context, fields map[string]any) (*models.User, error) {
	var out models.User
	if err := c.Patch(ctx, "/users/me/", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	var out models.Profile
	if err := c.Get(ctx, "/users/me/profile/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProfile(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	var out models.Profile
	if err := c.Post(ctx, "/users/me/profile/", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, fields map[string]any) (*models.Profile, error) {
	var out models.Profile
	if err := c.Patch(ctx, "/users/me/profile/", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Plans(ctx context.Context) ([]models.FitnessPlan, error) {
	var out []models.FitnessPlan
	if err := c.Get(ctx, "/users/me/plans/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GeneratePlan(ctx context.Context, req GeneratePlanRequest) (*models.FitnessPlan, error) {
	var out models.FitnessPlan
	if err := c.Post(ctx, "/users/me/plans/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePlan deletes a plan; the id rides in the request body.
func (c *Client) DeletePlan(ctx context.Context, id int) error {
	return c.Delete(ctx, "/users/me/plans/", idPayload{ID: id})
}

func (c *Client) WorkoutTracking(ctx context.Context) ([]models.WorkoutTracking, error) {
	var out []models.WorkoutTracking
	if err := c.Get(ctx, "/users/me/workout-tracking/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TrackWorkout(ctx context.Context, exerciseID int, date string) (*models.WorkoutTracking, error) {
	payload := map[string]any{"exercise": exerciseID, "date_completed": date}
	var out models.WorkoutTracking
	if err := c.Post(ctx, "/users/me/workout-tracking/", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWorkoutTracking(ctx context.Context, id int) error {
	return c.Delete(ctx, "/users/me/workout-tracking/", idPayload{ID: id})
}

func (c *Client) MealTracking(ctx context.Context) ([]models.MealTracking, error) {
	var out []models.MealTracking
	if err := c.Get(ctx, "/users/me/meal-tracking/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TrackMeal(ctx context.Context, mealID int, date string) (*models.MealTracking, error) {
	payload := map[string]any{"meal": mealID, "date_completed": date}
	var out models.MealTracking
	if err := c.Post(ctx, "/users/me/meal-tracking/", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMealTracking(ctx context.Context, id int) error {
	return c.Delete(ctx, "/users/me/meal-tracking/", idPayload{ID: id})
}

func (c *Client) WaterTracking(ctx context.Context) ([]models.WaterTracking, error) {
	var out []models.WaterTracking
	if err := c.Get(ctx, "/users/me/water-tracking/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TrackWater(ctx context.Context, glasses int, date string) (*models.WaterTracking, error) {
	payload := map[string]any{"glasses": glasses, "date_completed": date}
	var out models.WaterTracking
	if err := c.Post(ctx, "/users/me/water-tracking/", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWaterTracking(ctx context.Context, id int) error {
	return c.Delete(ctx, "/users/me/water-tracking/", idPayload{ID: id})
}

// DailyProgress fetches the derived per-day summaries for an inclusive
// date range.
func (c *Client) DailyProgress(ctx context.Context, startDate, endDate string) ([]models.DailyProgress, error) {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	var out []models.DailyProgress
	if err := c.Get(ctx, "/users/me/daily-progress/?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Status probes backend liveness.
func (c *Client) Status(ctx context.Context) error {
	return c.Get(ctx, "/status/", nil)
}
