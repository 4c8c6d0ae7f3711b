package mapper

import (
	"mdc-notebook-be/internal/entity"
	"mdc-notebook-be/internal/model"
)

type NotebookMapper struct{}

func NewNotebookMapper() *NotebookMapper {
	return &NotebookMapper{}
}

func (m *NotebookMapper) ToEntity(n *model.Notebook) *entity.Notebook {
	if n == nil {
		return nil
	}
	return &entity.Notebook{
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

func (m *NotebookMapper) ToModel(n *entity.Notebook) *model.Notebook {
	if n == nil {
		return nil
	}
	return &model.Notebook{
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

func (m *NotebookMapper) ToEntities(notebooks []*model.Notebook) []*entity.Notebook {
	entities := make([]*entity.Notebook, len(notebooks))
	for i, n := range notebooks {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
