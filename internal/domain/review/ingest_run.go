package review

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	IngestRunStatusRunning   = "running"
	IngestRunStatusSucceeded = "succeeded"
	IngestRunStatusFailed    = "failed"
)

// IngestRun records one file's pass through the pipeline: what was loaded,
// whether it finished, and per-file counters as a JSON stats blob.
type IngestRun struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FilePath string         `gorm:"column:file_path;not null" json:"file_path"`
	Category string         `gorm:"column:category;not null;size:50" json:"category"`
	Status   string         `gorm:"column:status;not null;index" json:"status"`
	Error    string         `gorm:"column:error" json:"error,omitempty"`
	Stats    datatypes.JSON `gorm:"column:stats" json:"stats,omitempty"`

	StartedAt  time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (IngestRun) TableName() string { return "ingest_runs" }
