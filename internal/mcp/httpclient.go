package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/recommend"
	"github.com/meltforce/fittrack/internal/storage"
	"github.com/meltforce/fittrack/internal/tracker"
)

// HTTPClient implements DataSource by calling the FitTrack REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *HTTPClient) GetExercises(ctx context.Context, f tracker.ExerciseFilter) ([]models.Exercise, error) {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.Difficulty != "" {
		params.Set("difficulty", f.Difficulty)
	}

	var exercises []models.Exercise
	if err := c.get(ctx, "/api/v1/exercises", params, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *HTTPClient) GetWorkouts(ctx context.Context) ([]models.Workout, error) {
	var workouts []models.Workout
	if err := c.get(ctx, "/api/v1/workouts", nil, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (c *HTTPClient) GetWorkoutByID(ctx context.Context, id string) (*models.Workout, error) {
	var w models.Workout
	if err := c.get(ctx, "/api/v1/workouts/"+url.PathEscape(id), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *HTTPClient) GetUserProfile(ctx context.Context) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := c.get(ctx, "/api/v1/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Summary(ctx context.Context) (*tracker.Stats, error) {
	var st tracker.Stats
	if err := c.get(ctx, "/api/v1/stats", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *HTTPClient) Progress(ctx context.Context, r tracker.Range, now time.Time) (*tracker.ProgressReport, error) {
	params := url.Values{}
	params.Set("range", string(r))
	params.Set("at", now.Format(time.DateOnly))

	var rep tracker.ProgressReport
	if err := c.get(ctx, "/api/v1/progress", params, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (c *HTTPClient) Recommendations(ctx context.Context, t models.RecommendationType) ([]models.Recommendation, error) {
	params := url.Values{}
	if t != "" {
		params.Set("type", string(t))
	}

	var recs []models.Recommendation
	if err := c.get(ctx, "/api/v1/recommendations", params, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *HTTPClient) GenerateWorkout(ctx context.Context, req recommend.GenerateRequest, save bool) (*tracker.Generated, error) {
	params := url.Values{}
	params.Set("save", strconv.FormatBool(save))

	var out tracker.Generated
	if err := c.do(ctx, http.MethodPost, "/api/v1/generator", params, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
