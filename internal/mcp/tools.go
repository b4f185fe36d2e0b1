package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/recommend"
	"github.com/meltforce/fittrack/internal/tracker"
)

// defaultTimeRange returns start/end defaulting to the last 7 days. A
// date-only end covers that whole day.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if len(endStr) == len(time.DateOnly) {
			end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.DateOnly, s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// workoutSummary is a workout with exercise names resolved from the catalogue.
type workoutSummary struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Date      string            `json:"date"`
	Duration  int               `json:"duration_min"`
	Calories  int               `json:"calories"`
	Notes     string            `json:"notes,omitempty"`
	Exercises []exerciseSummary `json:"exercises"`
}

type exerciseSummary struct {
	Name string              `json:"name"`
	Sets []models.WorkoutSet `json:"sets"`
}

func summarize(w models.Workout, catalogue []models.Exercise) workoutSummary {
	s := workoutSummary{
		ID:        w.ID,
		Name:      w.Name,
		Date:      w.Date.Format(time.DateOnly),
		Duration:  w.Duration,
		Calories:  w.Calories(),
		Notes:     w.Notes,
		Exercises: make([]exerciseSummary, 0, len(w.Exercises)),
	}
	for _, ex := range w.Exercises {
		s.Exercises = append(s.Exercises, exerciseSummary{
			Name: models.ExerciseName(catalogue, ex.ExerciseID),
			Sets: ex.Sets,
		})
	}
	return s
}

// workoutsBetween returns summaries of the workouts dated within [start, end]
// whose name contains nameFilter (case-insensitive).
func (h *handlers) workoutsBetween(ctx context.Context, start, end time.Time, nameFilter string) ([]workoutSummary, error) {
	workouts, err := h.ds.GetWorkouts(ctx)
	if err != nil {
		return nil, err
	}
	catalogue, err := h.ds.GetExercises(ctx, tracker.ExerciseFilter{})
	if err != nil {
		return nil, err
	}
	nameFilter = strings.ToLower(nameFilter)

	out := []workoutSummary{}
	for _, w := range workouts {
		if w.Date.Before(start) || w.Date.After(end) {
			continue
		}
		if nameFilter != "" && !strings.Contains(strings.ToLower(w.Name), nameFilter) {
			continue
		}
		out = append(out, summarize(w, catalogue))
	}
	return out, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List exercises from the catalogue. Returns name, category, target muscles, equipment and difficulty."),
	mcp.WithString("search", mcp.Description("Case-insensitive match on name or description (e.g. 'press')")),
	mcp.WithString("category", mcp.Description("Filter by category (e.g. Chest, Legs, Back, Core)")),
	mcp.WithString("difficulty", mcp.Description("Filter by difficulty"), mcp.Enum("beginner", "intermediate", "advanced")),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Query logged workouts with optional name filter. Returns date, duration, calories and each exercise with its sets."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("name", mcp.Description("Filter by workout name (partial match, e.g. 'leg')")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get a single workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription("Get the user profile: age, weight, height, fitness level and goals."),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Dashboard summary: total workouts, calories and minutes, latest workout, and progress percentage per goal."),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Calories burned per day (week), per week (month) or per month (year) for the range containing the given date."),
	mcp.WithString("range", mcp.Description("Chart range. Defaults to week."), mcp.Enum("week", "month", "year")),
	mcp.WithString("at", mcp.Description("Reference date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetRecommendations = mcp.NewTool("get_recommendations",
	mcp.WithDescription("Personalized recommendations derived from workout history, goals and fitness level, sorted by confidence."),
	mcp.WithString("type", mcp.Description("Only return one kind of recommendation"), mcp.Enum("workout", "exercise", "goal", "intensity")),
)

var toolGenerateWorkout = mcp.NewTool("generate_workout",
	mcp.WithDescription("Generate a workout plan from the catalogue for a type, duration and intensity. Optionally logs it as a workout."),
	mcp.WithString("type", mcp.Required(), mcp.Enum("strength", "cardio", "flexibility", "balanced")),
	mcp.WithNumber("duration", mcp.Required(), mcp.Description("Planned length in minutes")),
	mcp.WithString("intensity", mcp.Required(), mcp.Enum("light", "moderate", "intense")),
	mcp.WithBoolean("save", mcp.Description("Log the generated plan as a workout. Defaults to false.")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.GetExercises(ctx, tracker.ExerciseFilter{
		Search:     req.GetString("search", ""),
		Category:   req.GetString("category", ""),
		Difficulty: req.GetString("difficulty", ""),
	})
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(exercises)
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	workouts, err := h.workoutsBetween(ctx, start, end, req.GetString("name", ""))
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(workouts)
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	w, err := h.ds.GetWorkoutByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	catalogue, err := h.ds.GetExercises(ctx, tracker.ExerciseFilter{})
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(summarize(*w, catalogue))
}

func (h *handlers) getProfile(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := h.ds.GetUserProfile(ctx)
	if err != nil {
		h.log.Error("mcp get_profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(p)
}

func (h *handlers) getStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := h.ds.Summary(ctx)
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(st)
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	at := time.Now()
	if s := req.GetString("at", ""); s != "" {
		t, err := parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		at = t
	}

	rep, err := h.ds.Progress(ctx, tracker.Range(req.GetString("range", string(tracker.RangeWeek))), at)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(rep)
}

func (h *handlers) getRecommendations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := h.ds.Recommendations(ctx, models.RecommendationType(req.GetString("type", "")))
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(recs)
}

func (h *handlers) generateWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	duration, err := req.RequireInt("duration")
	if err != nil {
		return mcp.NewToolResultError("duration parameter is required"), nil
	}
	intensity, err := req.RequireString("intensity")
	if err != nil {
		return mcp.NewToolResultError("intensity parameter is required"), nil
	}

	out, err := h.ds.GenerateWorkout(ctx, recommend.GenerateRequest{
		Type:      models.WorkoutType(typ),
		Duration:  duration,
		Intensity: models.Intensity(intensity),
	}, req.GetBool("save", false))
	if err != nil {
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}
	return jsonResult(out)
}
