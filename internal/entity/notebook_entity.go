package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotebookStatusFailed  = 0
	NotebookStatusSuccess = 1
)

type Notebook struct {
	Id        uuid.UUID
	FileName  string
	FileSize  *int64
	Status    int
	TotalRows *int64
	TaskId    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NotebookStats is the aggregate used by the dashboard.
type NotebookStats struct {
	Total         int64
	Successful    int64
	Failed        int64
	RowsProcessed int64
}
