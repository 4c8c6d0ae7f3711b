package databricks

import (
	"errors"
	"fmt"
)

const (
	ObjectTypeNotebook  = "NOTEBOOK"
	ObjectTypeDirectory = "DIRECTORY"
	ObjectTypeFile      = "FILE"

	DefaultRunName = "Triggered from MDC App"
)

var (
	// ErrInvalidResponse marks an upstream body that does not match the expected schema.
	ErrInvalidResponse = errors.New("invalid upstream response")
	// ErrNotebookNotFound is returned by ResolveNotebook when nothing matches.
	ErrNotebookNotFound = errors.New("no matching notebook")
)

// WorkspaceObject is one entry of a workspace folder listing.
type WorkspaceObject struct {
	Path       string `json:"path" validate:"required"`
	ObjectType string `json:"object_type" validate:"required"`
	ObjectID   int64  `json:"object_id,omitempty"`
	Language   string `json:"language,omitempty"`
}

type SubmitRunRequest struct {
	RunName      string
	ClusterID    string
	NotebookPath string
}

type RunState struct {
	LifeCycleState string `json:"life_cycle_state" validate:"required"`
	ResultState    string `json:"result_state,omitempty"`
	StateMessage   string `json:"state_message,omitempty"`
}

type Run struct {
	RunID int64     `json:"run_id"`
	State *RunState `json:"state" validate:"required"`
}

// UpstreamError is the single failure type returned by Client.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("databricks %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("databricks %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// wire payloads

type listResponse struct {
	Objects []WorkspaceObject `json:"objects" validate:"required,dive"`
}

type notebookTask struct {
	NotebookPath string `json:"notebook_path"`
}

type submitRunPayload struct {
	RunName           string       `json:"run_name"`
	ExistingClusterID string       `json:"existing_cluster_id"`
	NotebookTask      notebookTask `json:"notebook_task"`
}

type submitRunResponse struct {
	RunID int64 `json:"run_id" validate:"gt=0"`
}
