package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mdc-notebook-be/internal/config"
	"mdc-notebook-be/internal/dto"
	"mdc-notebook-be/internal/pkg/apperror"
	"mdc-notebook-be/internal/pkg/logger"
	"mdc-notebook-be/pkg/databricks"
	"mdc-notebook-be/pkg/runstatus"
)

const msgMissingConfig = "Missing required parameters or environment variables"

// Workspace is the part of the Databricks client the run endpoints need.
type Workspace interface {
	ListWorkspaceObjects(ctx context.Context, folderPath string) ([]databricks.WorkspaceObject, error)
	SubmitRun(ctx context.Context, req databricks.SubmitRunRequest) (int64, error)
	GetRun(ctx context.Context, runID int64) (*databricks.Run, error)
}

type IRunService interface {
	RunNotebook(ctx context.Context, req *dto.RunNotebookRequest) (*dto.RunNotebookResponse, error)
	ListNotebooks(ctx context.Context) (*dto.ListNotebooksResponse, error)
	GetRunStatus(ctx context.Context, runId string) (*dto.RunStatusResponse, error)
}

type runService struct {
	workspace Workspace
	cfg       config.DatabricksConfig
	logger    logger.ILogger
}

func NewRunService(workspace Workspace, cfg config.DatabricksConfig, log logger.ILogger) IRunService {
	return &runService{
		workspace: workspace,
		cfg:       cfg,
		logger:    log,
	}
}

func (s *runService) RunNotebook(ctx context.Context, req *dto.RunNotebookRequest) (*dto.RunNotebookResponse, error) {
	if req.Source == "" || s.cfg.Instance == "" || s.cfg.Token == "" || s.cfg.NotebookPath == "" {
		return nil, apperror.Validation(msgMissingConfig)
	}

	objects, err := s.workspace.ListWorkspaceObjects(ctx, s.cfg.NotebookPath)
	if err != nil {
		return nil, apperror.Upstream("Failed to trigger notebook", err)
	}

	notebooks := databricks.FilterNotebooks(objects)
	target, err := databricks.ResolveNotebook(notebooks, req.Source)
	if err != nil {
		if errors.Is(err, databricks.ErrNotebookNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("No notebook found matching source: %s", req.Source)).
				WithStatus(400)
		}
		return nil, apperror.Internal("Failed to trigger notebook", err)
	}

	runId, err := s.workspace.SubmitRun(ctx, databricks.SubmitRunRequest{
		RunName:      databricks.DefaultRunName,
		ClusterID:    s.cfg.ClusterID,
		NotebookPath: target.Path,
	})
	if err != nil {
		return nil, apperror.Upstream("Failed to trigger notebook", err)
	}

	s.logger.Info("RUN", "Notebook run submitted", map[string]interface{}{
		"run_id":   runId,
		"notebook": target.Path,
		"source":   req.Source,
		"fileName": req.FileName,
	})

	return &dto.RunNotebookResponse{
		RunId:        runId,
		NotebookName: target.Path,
		FileName:     req.FileName,
		Notebooks:    notebooks,
	}, nil
}

func (s *runService) ListNotebooks(ctx context.Context) (*dto.ListNotebooksResponse, error) {
	if s.cfg.Instance == "" || s.cfg.Token == "" || s.cfg.NotebookPath == "" {
		return nil, apperror.Internal(msgMissingConfig, nil)
	}

	objects, err := s.workspace.ListWorkspaceObjects(ctx, s.cfg.NotebookPath)
	if err != nil {
		return nil, apperror.Upstream("Failed to list notebooks", err)
	}

	return &dto.ListNotebooksResponse{
		Folder:    s.cfg.NotebookPath,
		Notebooks: databricks.FilterNotebooks(objects),
	}, nil
}

func (s *runService) GetRunStatus(ctx context.Context, runId string) (*dto.RunStatusResponse, error) {
	id, err := strconv.ParseInt(runId, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperror.Validation("runId must be a positive integer")
	}
	if s.cfg.Instance == "" || s.cfg.Token == "" {
		return nil, apperror.Internal(msgMissingConfig, nil)
	}

	run, err := s.workspace.GetRun(ctx, id)
	if err != nil {
		return nil, apperror.Upstream("Failed to fetch run status", err)
	}

	status, progress := runstatus.Translate(run.State.LifeCycleState)

	result := run.State.ResultState
	if result == "" {
		result = "N/A"
	}

	return &dto.RunStatusResponse{
		RunId:        id,
		RunStatus:    run.State,
		Status:       status,
		Result:       result,
		StateMessage: run.State.StateMessage,
		Progress:     progress,
	}, nil
}
