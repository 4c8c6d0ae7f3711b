package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotebookResponse struct {
	Id        uuid.UUID `json:"id"`
	FileName  string    `json:"fileName"`
	FileSize  *int64    `json:"filesize"`
	Status    int       `json:"status"`
	TotalRows *int64    `json:"total_rows"`
	TaskId    *string   `json:"taskId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateNotebookRequest struct {
	FileName  string  `json:"fileName" validate:"required,max=255"`
	FileSize  *int64  `json:"filesize" validate:"omitempty,gte=0"`
	Status    *int    `json:"status" validate:"omitempty,oneof=0 1"`
	TotalRows *int64  `json:"total_rows" validate:"omitempty,gte=0"`
	TaskId    *string `json:"taskId" validate:"omitempty,max=255"`
}

// UpdateNotebookRequest applies only the fields present in the payload.
type UpdateNotebookRequest struct {
	FileName  *string `json:"fileName" validate:"omitempty,min=1,max=255"`
	FileSize  *int64  `json:"filesize" validate:"omitempty,gte=0"`
	Status    *int    `json:"status" validate:"omitempty,oneof=0 1"`
	TotalRows *int64  `json:"total_rows" validate:"omitempty,gte=0"`
	TaskId    *string `json:"taskId" validate:"omitempty,max=255"`
}
