package services

import (
	"context"
	"time"

	"github.com/username/shiprecon/src/models"
)

// Directory is the read-only view of the order-management system. A nil
// result with a nil error means the record does not exist.
type Directory interface {
	FetchOrder(ctx context.Context, mode models.Mode, orderNumber string) (*models.OrderRecord, error)
	FetchActivityByOrder(ctx context.Context, mode models.Mode, orderNumber string) (*models.ActivityPayload, error)
	FindActivityByTracking(ctx context.Context, mode models.Mode, tracking string, dateHint *time.Time) (*models.ActivityPayload, error)
}

// DirectoryService is the HTTP-backed directory plus its connectivity probe.
type DirectoryService interface {
	Directory
	Diagnose(ctx context.Context) DiagReport
}

// UploadFile is one file of a batch, already read into memory.
type UploadFile struct {
	Name   string
	Data   []byte
	Source models.SourceTag
}

// BatchOptions carries the caller's per-batch policy.
type BatchOptions struct {
	// Mode restricts every row to one mode. Nil lets the source tag decide.
	Mode *models.Mode
	// Strict voids the whole batch when any file fails.
	Strict bool
}

// RowOutcome is either a reconciliation result or the error that prevented one.
type RowOutcome struct {
	Result models.ReconciliationResult
	Err    error
}

// ReconcileService runs batches against the directory.
type ReconcileService interface {
	ReconcileBatch(ctx context.Context, files []UploadFile, opts BatchOptions) (*models.BatchResult, error)
	ReconcileRow(ctx context.Context, row models.CanonicalRow, modes []models.Mode) RowOutcome
}

// ProbeResult is the outcome of one diagnostic request.
type ProbeResult struct {
	URL     string `json:"url" yaml:"url"`
	Status  int    `json:"status" yaml:"status"`
	OK      bool   `json:"ok" yaml:"ok"`
	Message string `json:"msg,omitempty" yaml:"msg,omitempty"`
}

// DiagReport describes directory connectivity without exposing secrets.
type DiagReport struct {
	Base    string        `json:"base" yaml:"base"`
	Mode    string        `json:"mode" yaml:"mode"`
	KeyName string        `json:"keyName,omitempty" yaml:"keyName,omitempty"`
	Checked time.Time     `json:"checked" yaml:"checked"`
	Results []ProbeResult `json:"results" yaml:"results"`
}
