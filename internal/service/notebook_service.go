package service

import (
	"context"
	"strings"
	"time"

	"mdc-notebook-be/internal/dto"
	"mdc-notebook-be/internal/entity"
	"mdc-notebook-be/internal/pkg/apperror"
	"mdc-notebook-be/internal/repository/specification"
	"mdc-notebook-be/internal/repository/unitofwork"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const recentUploadsLimit = 5

type INotebookService interface {
	Create(ctx context.Context, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error)
	GetAll(ctx context.Context) ([]*dto.NotebookResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.NotebookResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.NotebookResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetDashboardMetrics(ctx context.Context) (*dto.DashboardMetricsResponse, error)
}

type notebookService struct {
	uowFactory unitofwork.RepositoryFactory
	now        func() time.Time
}

func NewNotebookService(uowFactory unitofwork.RepositoryFactory) INotebookService {
	return &notebookService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (s *notebookService) Create(ctx context.Context, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error) {
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		return nil, apperror.Validation("fileName is required")
	}

	status := entity.NotebookStatusFailed
	if req.Status != nil {
		status = *req.Status
	}

	now := s.now()
	notebook := &entity.Notebook{
		Id:        uuid.New(),
		FileName:  fileName,
		FileSize:  req.FileSize,
		Status:    status,
		TotalRows: req.TotalRows,
		TaskId:    req.TaskId,
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotebookRepository().Create(ctx, notebook); err != nil {
		return nil, apperror.Internal("Failed to create notebook", err)
	}
	return toNotebookResponse(notebook), nil
}

func (s *notebookService) GetAll(ctx context.Context) ([]*dto.NotebookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebooks, err := uow.NotebookRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, apperror.Internal("Failed to fetch notebooks", err)
	}

	result := make([]*dto.NotebookResponse, 0, len(notebooks))
	for _, n := range notebooks {
		result = append(result, toNotebookResponse(n))
	}
	return result, nil
}

func (s *notebookService) GetByID(ctx context.Context, id uuid.UUID) (*dto.NotebookResponse, error) {
	notebook, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), id)
	if err != nil {
		return nil, err
	}
	return toNotebookResponse(notebook), nil
}

func (s *notebookService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.NotebookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebook, err := s.find(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	if req.FileName != nil {
		fileName := strings.TrimSpace(*req.FileName)
		if fileName == "" {
			return nil, apperror.Validation("fileName must not be empty")
		}
		notebook.FileName = fileName
	}
	if req.FileSize != nil {
		notebook.FileSize = req.FileSize
	}
	if req.Status != nil {
		notebook.Status = *req.Status
	}
	if req.TotalRows != nil {
		notebook.TotalRows = req.TotalRows
	}
	if req.TaskId != nil {
		notebook.TaskId = req.TaskId
	}
	notebook.UpdatedAt = s.now()

	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		return nil, apperror.Internal("Failed to update notebook", err)
	}
	return toNotebookResponse(notebook), nil
}

func (s *notebookService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.find(ctx, uow, id); err != nil {
		return err
	}
	if err := uow.NotebookRepository().Delete(ctx, id); err != nil {
		return apperror.Internal("Failed to delete notebook", err)
	}
	return nil
}

// GetDashboardMetrics aggregates every run record and lists the newest few.
func (s *notebookService) GetDashboardMetrics(ctx context.Context) (*dto.DashboardMetricsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stats, err := uow.NotebookRepository().Stats(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch dashboard metrics", err)
	}

	recent, err := uow.NotebookRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: recentUploadsLimit},
	)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch dashboard metrics", err)
	}

	now := s.now()
	uploads := make([]dto.RecentUpload, 0, len(recent))
	for _, n := range recent {
		uploads = append(uploads, dto.RecentUpload{
			Id:         n.Id,
			FileName:   n.FileName,
			Status:     n.Status,
			TotalRows:  n.TotalRows,
			UploadedAt: n.CreatedAt,
			TimeAgo:    humanize.RelTime(n.CreatedAt, now, "ago", "from now"),
		})
	}

	return &dto.DashboardMetricsResponse{
		TotalUploads:      stats.Total,
		SuccessfulUploads: stats.Successful,
		FailedUploads:     stats.Failed,
		DataProcessed:     stats.RowsProcessed,
		RecentUploads:     uploads,
	}, nil
}

func (s *notebookService) find(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Notebook, error) {
	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Internal("Failed to fetch notebook", err)
	}
	if notebook == nil {
		return nil, apperror.NotFound("Notebook not found")
	}
	return notebook, nil
}

func toNotebookResponse(n *entity.Notebook) *dto.NotebookResponse {
	return &dto.NotebookResponse{
		Id:        n.Id,
		FileName:  n.FileName,
		FileSize:  n.FileSize,
		Status:    n.Status,
		TotalRows: n.TotalRows,
		TaskId:    n.TaskId,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
