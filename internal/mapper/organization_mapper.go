package mapper

import (
	"mdc-notebook-be/internal/entity"
	"mdc-notebook-be/internal/model"
)

type OrganizationMapper struct{}

func NewOrganizationMapper() *OrganizationMapper {
	return &OrganizationMapper{}
}

func (m *OrganizationMapper) ToEntity(o *model.Organization) *entity.Organization {
	if o == nil {
		return nil
	}
	return &entity.Organization{
		Id:        o.Id,
		Name:      o.Name,
		Address:   o.Address,
		Phone:     o.Phone,
		Email:     o.Email,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (m *OrganizationMapper) ToModel(o *entity.Organization) *model.Organization {
	if o == nil {
		return nil
	}
	return &model.Organization{
		Id:        o.Id,
		Name:      o.Name,
		Address:   o.Address,
		Phone:     o.Phone,
		Email:     o.Email,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (m *OrganizationMapper) ToEntities(orgs []*model.Organization) []*entity.Organization {
	entities := make([]*entity.Organization, len(orgs))
	for i, o := range orgs {
		entities[i] = m.ToEntity(o)
	}
	return entities
}
