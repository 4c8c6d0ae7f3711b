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

	"github.com/google/uuid"
)

type IOrganizationService interface {
	Create(ctx context.Context, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error)
	GetAll(ctx context.Context) ([]*dto.OrganizationResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.OrganizationResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type organizationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewOrganizationService(uowFactory unitofwork.RepositoryFactory) IOrganizationService {
	return &organizationService{uowFactory: uowFactory}
}

func (s *organizationService) Create(ctx context.Context, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	now := time.Now()
	org := &entity.Organization{
		Id:        uuid.New(),
		Name:      name,
		Address:   req.Address,
		Phone:     req.Phone,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.OrganizationRepository().Create(ctx, org); err != nil {
		return nil, apperror.Internal("Failed to create organization", err)
	}
	return toOrganizationResponse(org), nil
}

func (s *organizationService) GetAll(ctx context.Context) ([]*dto.OrganizationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	orgs, err := uow.OrganizationRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, apperror.Internal("Failed to fetch organizations", err)
	}

	result := make([]*dto.OrganizationResponse, 0, len(orgs))
	for _, o := range orgs {
		result = append(result, toOrganizationResponse(o))
	}
	return result, nil
}

func (s *organizationService) GetByID(ctx context.Context, id uuid.UUID) (*dto.OrganizationResponse, error) {
	org, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), id)
	if err != nil {
		return nil, err
	}
	return toOrganizationResponse(org), nil
}

func (s *organizationService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	org, err := s.find(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		org.Name = name
	}
	if req.Address != nil {
		org.Address = req.Address
	}
	if req.Phone != nil {
		org.Phone = req.Phone
	}
	if req.Email != nil {
		org.Email = req.Email
	}
	org.UpdatedAt = time.Now()

	if err := uow.OrganizationRepository().Update(ctx, org); err != nil {
		return nil, apperror.Internal("Failed to update organization", err)
	}
	return toOrganizationResponse(org), nil
}

func (s *organizationService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.find(ctx, uow, id); err != nil {
		return err
	}
	if err := uow.OrganizationRepository().Delete(ctx, id); err != nil {
		return apperror.Internal("Failed to delete organization", err)
	}
	return nil
}

func (s *organizationService) find(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Organization, error) {
	org, err := uow.OrganizationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Internal("Failed to fetch organization", err)
	}
	if org == nil {
		return nil, apperror.NotFound("Organization not found")
	}
	return org, nil
}

func toOrganizationResponse(o *entity.Organization) *dto.OrganizationResponse {
	return &dto.OrganizationResponse{
		Id:        o.Id,
		Name:      o.Name,
		Address:   o.Address,
		Phone:     o.Phone,
		Email:     o.Email,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
