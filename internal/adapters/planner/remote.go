package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/weegaboo/agro-mvp/internal/domain/geom"
	"github.com/weegaboo/agro-mvp/internal/platform/obs"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

// RemotePlanner implements MotionPlanner against an external planning
// service over HTTP. Transient failures are retried with exponential
// backoff; a 422 from the service maps to ErrNoPath. The client is safe
// for concurrent use.
type RemotePlanner struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewRemotePlanner(baseURL, apiKey string) (*RemotePlanner, error) {
	if baseURL == "" {
		return nil, errors.New("planner base URL is empty")
	}
	return &RemotePlanner{
		session: &http.Client{Timeout: 15 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type solveRequestBody struct {
	Start       [3]float64     `json:"start"` // x, y, heading
	Goal        [3]float64     `json:"goal"`
	TurnRadiusM float64        `json:"turn_radius_m"`
	BoundsMin   [2]float64     `json:"bounds_min"`
	BoundsMax   [2]float64     `json:"bounds_max"`
	Obstacles   [][][2]float64 `json:"obstacles"`
	BudgetMS    int64          `json:"budget_ms"`
}

type solveResponseBody struct {
	Path [][2]float64 `json:"path"`
}

func (r *RemotePlanner) Solve(ctx context.Context, req ports.SolveRequest) (_ geom.Polyline, err error) {
	defer obs.Time(ctx, "planner.Solve")(&err)

	body := solveRequestBody{
		Start:       [3]float64{req.Start.X, req.Start.Y, req.Start.Heading},
		Goal:        [3]float64{req.Goal.X, req.Goal.Y, req.Goal.Heading},
		TurnRadiusM: req.TurnRadiusM,
		BoundsMin:   [2]float64{req.Bounds.Min.X, req.Bounds.Min.Y},
		BoundsMax:   [2]float64{req.Bounds.Max.X, req.Bounds.Max.Y},
		BudgetMS:    req.TimeBudget.Milliseconds(),
	}
	for _, poly := range req.Obstacles {
		ring := make([][2]float64, 0, len(poly))
		for _, p := range poly {
			ring = append(ring, [2]float64{p.X, p.Y})
		}
		body.Obstacles = append(body.Obstacles, ring)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal solve request: %w", err)
	}

	endpoint := r.baseURL + "/v1/solve"
	resp, err := r.doWithRetry(ctx, func() (*http.Request, error) {
		return r.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusUnprocessableEntity {
			return nil, ports.ErrNoPath
		}
		return nil, fmt.Errorf("solve request failed: %w", err)
	}
	defer resp.Body.Close()

	var sr solveResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode solve response: %w", err)
	}
	if len(sr.Path) < 2 {
		return nil, fmt.Errorf("solve response path too short: %d points", len(sr.Path))
	}

	out := make(geom.Polyline, 0, len(sr.Path))
	for _, p := range sr.Path {
		out = append(out, geom.Point{X: p[0], Y: p[1]})
	}
	return out, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Body)
}

func (r *RemotePlanner) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if r.apiKey != "" {
		req.Header.Set("Authorization", r.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (r *RemotePlanner) do(req *http.Request) (*http.Response, error) {
	resp, err := r.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429, 5xx)
// with exponential backoff while respecting context cancellation.
func (r *RemotePlanner) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := r.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
