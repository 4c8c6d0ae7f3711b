package dto

import "mdc-notebook-be/pkg/databricks"

type RunNotebookRequest struct {
	FileName string `json:"fileName"`
	Source   string `json:"source"`
}

type RunNotebookResponse struct {
	RunId        int64                        `json:"run_id"`
	NotebookName string                       `json:"notebook_name"`
	FileName     string                       `json:"fileName,omitempty"`
	Notebooks    []databricks.WorkspaceObject `json:"notebooks"`
}

type ListNotebooksResponse struct {
	Folder    string                       `json:"folder"`
	Notebooks []databricks.WorkspaceObject `json:"notebooks"`
}

type RunStatusResponse struct {
	RunId        int64                `json:"run_id"`
	RunStatus    *databricks.RunState `json:"runStatus"`
	Status       string               `json:"status"`
	Result       string               `json:"result"`
	StateMessage string               `json:"state_message"`
	Progress     int                  `json:"progress"`
}
