package models

// VerdictKind classifies the outcome of reconciling one row under one mode.
type VerdictKind string

const (
	VerdictMatched            VerdictKind = "MATCHED"
	VerdictNoTrackingProvided VerdictKind = "NO_TRACKING_PROVIDED"
	VerdictDateOutOfWindow    VerdictKind = "DATE_OUT_OF_WINDOW"
	VerdictPartyMismatch      VerdictKind = "PARTY_MISMATCH"
	VerdictTrackingNotFound   VerdictKind = "TRACKING_NOT_FOUND"
	VerdictNoActivity         VerdictKind = "NO_ACTIVITY"
	VerdictNoMatchOrder       VerdictKind = "NO_MATCH_ORDER"
	VerdictError              VerdictKind = "ERROR" // reserved for failed evaluations
)

// VerdictKinds lists every kind, strongest corroboration first.
var VerdictKinds = []VerdictKind{
	VerdictMatched,
	VerdictNoTrackingProvided,
	VerdictDateOutOfWindow,
	VerdictPartyMismatch,
	VerdictTrackingNotFound,
	VerdictNoActivity,
	VerdictNoMatchOrder,
	VerdictError,
}

// Verdict is the immutable outcome of one evaluation.
type Verdict struct {
	Kind          VerdictKind `json:"verdict" yaml:"verdict"`
	Reason        string      `json:"reason,omitempty" yaml:"reason,omitempty"`
	DayDelta      *int        `json:"dayDelta,omitempty" yaml:"dayDelta,omitempty"`
	FoundTracking string      `json:"foundTracking,omitempty" yaml:"foundTracking,omitempty"`
}

// ErrorVerdict wraps a row failure into the reserved ERROR kind.
func ErrorVerdict(err error) Verdict {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Verdict{Kind: VerdictError, Reason: msg}
}

// ReconciliationResult is one row's final outcome. PerMode is populated only
// when more than one mode was evaluated.
type ReconciliationResult struct {
	Chosen  Verdict          `json:"chosen" yaml:"chosen"`
	Mode    Mode             `json:"mode" yaml:"mode"`
	Modes   []Mode           `json:"modes" yaml:"modes"`
	PerMode map[Mode]Verdict `json:"perMode,omitempty" yaml:"perMode,omitempty"`
}

// Arbitrated reports whether two modes were evaluated for the row.
func (r ReconciliationResult) Arbitrated() bool {
	return len(r.PerMode) > 1
}
