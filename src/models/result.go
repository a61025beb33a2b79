package models

import "github.com/shopspring/decimal"

// RowDetail is the user-facing record for one reconciled row.
type RowDetail struct {
	Row              int                 `json:"row" yaml:"row"`
	File             string              `json:"file,omitempty" yaml:"file,omitempty"`
	Line             int                 `json:"line,omitempty" yaml:"line,omitempty"`
	Source           SourceTag           `json:"source,omitempty" yaml:"source,omitempty"`
	Mode             Mode                `json:"mode" yaml:"mode"`
	Modes            []Mode              `json:"modes" yaml:"modes"`
	OrderNumber      string              `json:"orderNumber" yaml:"orderNumber"`
	PartyUpload      string              `json:"partyUpload" yaml:"partyUpload"`
	TrackingUpload   string              `json:"trackingUpload" yaml:"trackingUpload"`
	AssertedDate     string              `json:"assertedDate" yaml:"assertedDate"`
	Amount           decimal.NullDecimal `json:"amount" yaml:"amount"`
	Verdict          VerdictKind         `json:"verdict" yaml:"verdict"`
	Reason           string              `json:"reason" yaml:"reason"`
	DayDelta         *int                `json:"dayDelta" yaml:"dayDelta"`
	PrimaryVerdict   VerdictKind         `json:"poVerdict,omitempty" yaml:"poVerdict,omitempty"`
	SecondaryVerdict VerdictKind         `json:"soVerdict,omitempty" yaml:"soVerdict,omitempty"`
}

// FileError reports an upload that failed before any of its rows were evaluated.
type FileError struct {
	File    string    `json:"file" yaml:"file"`
	Source  SourceTag `json:"source,omitempty" yaml:"source,omitempty"`
	Message string    `json:"message" yaml:"message"`
	Headers []string  `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// BatchResult is the in-memory outcome of one reconciliation run.
type BatchResult struct {
	RunID      string              `json:"runId" yaml:"runId"`
	Summary    map[VerdictKind]int `json:"summary" yaml:"summary"`
	Details    []RowDetail         `json:"details" yaml:"details"`
	FileErrors []FileError         `json:"fileErrors,omitempty" yaml:"fileErrors,omitempty"`
}
