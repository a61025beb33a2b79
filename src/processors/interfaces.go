package processors

import (
	"github.com/username/shiprecon/src/models"
)

// DecisionProcessor turns gathered lookup facts into a verdict.
type DecisionProcessor interface {
	Decide(in DecisionInput) models.Verdict
	WindowDays() int
}

// ArbitrationProcessor chooses one verdict among the evaluated modes.
type ArbitrationProcessor interface {
	Arbitrate(tag models.SourceTag, perMode map[models.Mode]models.Verdict) models.ReconciliationResult
}
