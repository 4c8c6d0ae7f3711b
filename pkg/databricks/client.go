package databricks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxErrorBody = 512

// Client talks to the workspace and jobs REST API of a Databricks instance.
// It never retries.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	validate *validator.Validate
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL:  baseURL,
		Token:    token,
		HTTP:     &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

// ListWorkspaceObjects returns every object directly under folderPath.
func (c *Client) ListWorkspaceObjects(ctx context.Context, folderPath string) ([]WorkspaceObject, error) {
	const op = "ListWorkspaceObjects"

	q := url.Values{}
	q.Set("path", folderPath)

	var res listResponse
	if err := c.do(ctx, op, http.MethodGet, "/api/2.0/workspace/list", q, nil, &res); err != nil {
		return nil, err
	}
	return res.Objects, nil
}

// SubmitRun starts a one-time run of a notebook on an existing cluster.
func (c *Client) SubmitRun(ctx context.Context, req SubmitRunRequest) (int64, error) {
	const op = "SubmitRun"

	runName := req.RunName
	if runName == "" {
		runName = DefaultRunName
	}
	payload := submitRunPayload{
		RunName:           runName,
		ExistingClusterID: req.ClusterID,
		NotebookTask:      notebookTask{NotebookPath: req.NotebookPath},
	}

	var res submitRunResponse
	if err := c.do(ctx, op, http.MethodPost, "/api/2.1/jobs/runs/submit", nil, payload, &res); err != nil {
		return 0, err
	}
	return res.RunID, nil
}

// GetRun fetches the current state of a run.
func (c *Client) GetRun(ctx context.Context, runID int64) (*Run, error) {
	const op = "GetRun"

	q := url.Values{}
	q.Set("run_id", strconv.FormatInt(runID, 10))

	var res Run
	if err := c.do(ctx, op, http.MethodGet, "/api/2.1/jobs/runs/get", q, nil, &res); err != nil {
		return nil, err
	}
	if res.RunID == 0 {
		res.RunID = runID
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) (err error) {
	ctx, span := otel.Tracer("mdc-notebook-be/databricks").Start(ctx, "databricks."+op,
		trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	span.SetAttributes(attribute.String("http.method", method), attribute.String("http.url", endpoint))

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &UpstreamError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := raw
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status: %s", bytes.TrimSpace(snippet))}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrInvalidResponse, err)}
	}
	if err := c.validate.Struct(out); err != nil {
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrInvalidResponse, err)}
	}
	return nil
}
