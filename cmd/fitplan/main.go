package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hcissey0/fitplan/internal/aggregator"
	"github.com/hcissey0/fitplan/internal/api"
	"github.com/hcissey0/fitplan/internal/cache"
	"github.com/hcissey0/fitplan/internal/config"
	"github.com/hcissey0/fitplan/internal/models"
	"github.com/hcissey0/fitplan/internal/notify"
	"github.com/hcissey0/fitplan/internal/session"
	"github.com/hcissey0/fitplan/internal/utils"
)

func main() {
	cmd := flag.String("cmd", "dashboard", "Command: login|signup|logout|whoami|profile|profile-update|dashboard|refresh|plan-generate|plan-delete|track|untrack|water|status")
	email := flag.String("email", "", "Email (login/signup)")
	password := flag.String("password", "", "Password (login/signup)")
	username := flag.String("username", "", "Username (signup)")
	firstName := flag.String("first", "", "First name (signup)")
	lastName := flag.String("last", "", "Last name (signup)")
	id := flag.Int("id", 0, "Entity id (track/untrack/plan-delete)")
	kind := flag.String("type", "", "Tracking type: workout|meal|water (track/untrack)")
	date := flag.String("date", "", "Completion date YYYY-MM-DD, defaults to today (track)")
	glasses := flag.Int("glasses", 1, "Glasses of water (-cmd water)")
	startDate := flag.String("start", "", "Plan start date YYYY-MM-DD (plan-generate)")
	days := flag.Int("days", 0, "Plan length in days (plan-generate)")
	age := flag.Int("age", 0, "Age (profile-update)")
	weight := flag.Float64("weight", 0, "Weight in kg (profile-update)")
	height := flag.Float64("height", 0, "Height in m (profile-update)")
	gender := flag.String("gender", "", "Gender (profile-update)")
	activity := flag.String("activity", "", "Activity level (profile-update)")
	goal := flag.String("goal", "", "Goal (profile-update)")
	diet := flag.String("diet", "", "Dietary preferences (profile-update)")
	serverFlag := flag.String("server", "", "Override server base URL (e.g. https://api.example.com)")
	flag.Parse()

	cfg := config.Load()
	if *serverFlag != "" {
		cfg.APIBaseURL = strings.TrimRight(*serverFlag, "/")
	}

	log := utils.NewLogger()
	if cfg.LogFile != "" {
		fileLog, err := utils.NewFileLogger(cfg.LogFile)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		defer fileLog.Close()
		log = fileLog
	}

	client := api.NewClient(cfg.APIBaseURL, log)
	notifier := notify.NewLogNotifier(log)
	sess := session.New(client, cfg.DataDir, log, notifier)

	snapCache, err := cache.Open(cfg.CacheFile)
	if err != nil {
		log.Warn("snapshot cache unavailable: %v", err)
		snapCache = nil
	} else {
		defer snapCache.Close()
	}
	agg := aggregator.New(client, log, notifier, snapCache)
	agg.Bind(sess)

	ctx := context.Background()
	app := &app{cfg: cfg, client: client, sess: sess, agg: agg}

	// Restoring a persisted session also triggers the bound refresh, so
	// authenticated commands start from fresh data where possible.
	sess.Initialize(ctx)

	if err := app.run(ctx, *cmd, runArgs{
		email: *email, password: *password, username: *username,
		firstName: *firstName, lastName: *lastName,
		id: *id, kind: *kind, date: *date, glasses: *glasses,
		startDate: *startDate, days: *days,
		age: *age, weight: *weight, height: *height,
		gender: *gender, activity: *activity, goal: *goal, diet: *diet,
	}); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

type runArgs struct {
	email, password, username, firstName, lastName string
	id                                             int
	kind, date                                     string
	glasses                                        int
	startDate                                      string
	days                                           int
	age                                            int
	weight, height                                 float64
	gender, activity, goal, diet                   string
}

type app struct {
	cfg    *config.Config
	client *api.Client
	sess   *session.Store
	agg    *aggregator.Aggregator
}

func (a *app) run(ctx context.Context, cmd string, args runArgs) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "signup":
		return a.signup(ctx, args)
	case "logout":
		a.sess.Logout()
		fmt.Println("Signed out. Run -cmd login to sign back in.")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "profile":
		return a.profile(ctx)
	case "profile-update":
		return a.profileUpdate(ctx, args)
	case "dashboard":
		return a.dashboard(ctx)
	case "refresh":
		if err := a.guard(); err != nil {
			return err
		}
		if err := a.agg.Refresh(ctx); err != nil {
			return err
		}
		fmt.Println("Data refreshed.")
		return nil
	case "plan-generate":
		return a.planGenerate(ctx, args)
	case "plan-delete":
		return a.planDelete(ctx, args)
	case "track":
		return a.track(ctx, args)
	case "untrack":
		return a.untrack(ctx, args)
	case "water":
		return a.water(ctx, args)
	case "status":
		if err := a.client.Status(ctx); err != nil {
			return fmt.Errorf("backend unreachable: %s", api.Normalize(err))
		}
		fmt.Println("Backend is up.")
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// guard is the route-guard analog: authenticated commands refuse without a
// session and point at login instead.
func (a *app) guard() error {
	if err := a.sess.Require(); err != nil {
		return fmt.Errorf("%w; run -cmd login first", err)
	}
	return nil
}

func (a *app) login(ctx context.Context, args runArgs) error {
	// Preconditions are blocked before any network call.
	if args.email == "" || args.password == "" {
		return fmt.Errorf("-email and -password are required")
	}
	if a.sess.Authenticated() {
		fmt.Printf("Already signed in as %s.\n", a.sess.User().Username)
		return a.dashboard(ctx)
	}
	user, err := a.sess.Login(ctx, args.email, args.password)
	if err != nil {
		return fmt.Errorf("login failed: %s", api.Normalize(err))
	}
	fmt.Printf("Welcome back, %s.\n", displayName(user))
	return nil
}

func (a *app) signup(ctx context.Context, args runArgs) error {
	if args.email == "" || args.password == "" || args.username == "" {
		return fmt.Errorf("-email, -password and -username are required")
	}
	user, err := a.sess.Signup(ctx, api.SignupRequest{
		Username:  args.username,
		Email:     args.email,
		FirstName: args.firstName,
		LastName:  args.lastName,
		Password:  args.password,
	})
	if err != nil {
		return fmt.Errorf("signup failed: %s", api.Normalize(err))
	}
	fmt.Printf("Account created. Welcome, %s.\n", displayName(user))
	fmt.Println("Set up your fitness profile with -cmd profile-update, then generate a plan.")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if err := a.guard(); err != nil {
		return err
	}
	u := a.sess.User()
	fmt.Printf("%s <%s> (id %d)\n", u.Username, u.Email, u.ID)
	if u.Profile != nil {
		fmt.Printf("Goal: %s, activity: %s, BMI %.1f\n", u.Profile.Goal, u.Profile.ActivityLevel, u.Profile.BMI)
	}
	return nil
}

func (a *app) profile(ctx context.Context) error {
	if err := a.guard(); err != nil {
		return err
	}
	p, err := a.client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("fetch profile: %s", api.Normalize(err))
	}
	fmt.Printf("Age %d, weight %.1f kg, height %.2f m, BMI %.1f\n", p.Age, p.Weight, p.Height, p.BMI)
	fmt.Printf("Gender: %s, activity: %s, goal: %s, diet: %s\n", p.Gender, p.ActivityLevel, p.Goal, p.DietaryPreferences)
	return nil
}

func (a *app) profileUpdate(ctx context.Context, args runArgs) error {
	if err := a.guard(); err != nil {
		return err
	}
	fields := map[string]any{}
	if args.age > 0 {
		fields["age"] = args.age
	}
	if args.weight > 0 {
		fields["weight"] = args.weight
	}
	if args.height > 0 {
		fields["height"] = args.height
	}
	if args.gender != "" {
		fields["gender"] = args.gender
	}
	if args.activity != "" {
		fields["activity_level"] = args.activity
	}
	if args.goal != "" {
		fields["goal"] = args.goal
	}
	if args.diet != "" {
		fields["dietary_preferences"] = args.diet
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update; pass at least one profile flag")
	}

	var err error
	if a.sess.User().Profile == nil {
		p := &models.Profile{
			Age: args.age, Weight: args.weight, Height: args.height,
			Gender: args.gender, ActivityLevel: args.activity,
			Goal: args.goal, DietaryPreferences: args.diet,
		}
		_, err = a.client.CreateProfile(ctx, p)
	} else {
		_, err = a.client.UpdateProfile(ctx, fields)
	}
	if err != nil {
		return fmt.Errorf("update profile: %s", api.Normalize(err))
	}
	// Profile rides on the identity; re-fetch so the cache agrees.
	if err := a.sess.RefreshIdentity(ctx); err != nil {
		return err
	}
	fmt.Println("Profile updated.")
	return nil
}

func (a *app) planGenerate(ctx context.Context, args runArgs) error {
	if err := a.guard(); err != nil {
		return err
	}
	plan, err := a.client.GeneratePlan(ctx, api.GeneratePlanRequest{StartDate: args.startDate, DaysCount: args.days})
	if err != nil {
		return fmt.Errorf("generate plan: %s", api.Normalize(err))
	}
	fmt.Printf("Plan %d generated: %s to %s.\n", plan.ID, plan.StartDate, plan.EndDate)
	return a.agg.Refresh(ctx)
}

func (a *app) planDelete(ctx context.Context, args runArgs) error {
	if err := a.guard(); err != nil {
		return err
	}
	if args.id == 0 {
		return fmt.Errorf("-id is required")
	}
	if err := a.client.DeletePlan(ctx, args.id); err != nil {
		return fmt.Errorf("delete plan: %s", api.Normalize(err))
	}
	fmt.Printf("Plan %d deleted.\n", args.id)
	return a.agg.Refresh(ctx)
}

func (a *app) track(ctx context.Context, args runArgs) error {
	if err := a.guard(); err != nil {
		return err
	}
	if args.id == 0 {
		return fmt.Errorf("-id is required")
	}
	date := args.date
	if date == "" {
		date = models.DateOf(now())
	}
	var err error
	switch args.kind {
	case "workout":
		_, err = a.client.TrackWorkout(ctx, args.id, date)
	case "meal":
		_, err = a.client.TrackMeal(ctx, args.id, date)
	default:
		return fmt.Errorf("-type must be workout or meal")
	}
	if err != nil {
		return fmt.Errorf("track %s: %s", args.kind, api.Normalize(err))
	}
	fmt.Printf("Tracked %s %d for %s.\n", args.kind, args.id, date)
	return a.agg.Refresh(ctx)
}

func (a *app) untrack(ctx context.Context, args runArgs) error {
	if err := a.guard(); err != nil {
		return err
	}
	if args.id == 0 {
		return fmt.Errorf("-id is required")
	}
	var err error
	switch args.kind {
	case "workout":
		err = a.client.DeleteWorkoutTracking(ctx, args.id)
	case "meal":
		err = a.client.DeleteMealTracking(ctx, args.id)
	case "water":
		err = a.client.DeleteWaterTracking(ctx, args.id)
	default:
		return fmt.Errorf("-type must be workout, meal or water")
	}
	if err != nil {
		return fmt.Errorf("untrack %s: %s", args.kind, api.Normalize(err))
	}
	fmt.Printf("Removed %s tracking record %d.\n", args.kind, args.id)
	return a.agg.Refresh(ctx)
}

func (a *app) water(ctx context.Context, args runArgs) error {
	if err := a.guard(); err != nil {
		return err
	}
	today := models.DateOf(now())
	rec, err := a.client.TrackWater(ctx, args.glasses, today)
	if err != nil {
		return fmt.Errorf("track water: %s", api.Normalize(err))
	}
	fmt.Printf("Logged %d glass(es) of water (record %d).\n", rec.Glasses, rec.ID)
	if all, err := a.client.WaterTracking(ctx); err == nil {
		fmt.Printf("Total today: %d glass(es).\n", models.GlassesOn(all, today))
	}
	return nil
}

func displayName(u *models.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
