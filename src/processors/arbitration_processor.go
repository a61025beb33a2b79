// src/processors/arbitration_processor.go
package processors

import (
	"github.com/username/shiprecon/src/models"
)

// Tiers group verdict kinds by how much of the row the directory
// corroborated.
const (
	TierFailed       = 0 // lookup or evaluation failed
	TierNotFound     = 1 // order, activity or tracking absent
	TierDisagreement = 2 // located but party or date disagrees
	TierCorroborated = 3
)

var verdictRank = func() map[models.VerdictKind]int {
	m := make(map[models.VerdictKind]int, len(models.VerdictKinds))
	for i, k := range models.VerdictKinds {
		m[k] = len(models.VerdictKinds) - i
	}
	return m
}()

// Rank orders verdict kinds from strongest (highest) to weakest. Unknown
// kinds rank below ERROR.
func Rank(kind models.VerdictKind) int {
	return verdictRank[kind]
}

// Tier returns the corroboration tier of kind.
func Tier(kind models.VerdictKind) int {
	switch kind {
	case models.VerdictMatched, models.VerdictNoTrackingProvided:
		return TierCorroborated
	case models.VerdictDateOutOfWindow, models.VerdictPartyMismatch:
		return TierDisagreement
	case models.VerdictTrackingNotFound, models.VerdictNoActivity, models.VerdictNoMatchOrder:
		return TierNotFound
	default:
		return TierFailed
	}
}

type arbitrationProcessorImpl struct{}

// NewArbitrationProcessor creates the mode arbitrator.
func NewArbitrationProcessor() ArbitrationProcessor {
	return &arbitrationProcessorImpl{}
}

func (a *arbitrationProcessorImpl) Arbitrate(tag models.SourceTag, perMode map[models.Mode]models.Verdict) models.ReconciliationResult {
	return Arbitrate(tag, perMode)
}

// Arbitrate picks the strongest verdict among the evaluated modes. On a tie
// the source tag's preferred mode is kept. Both verdicts stay in PerMode
// whenever more than one mode was evaluated.
func Arbitrate(tag models.SourceTag, perMode map[models.Mode]models.Verdict) models.ReconciliationResult {
	var modes []models.Mode
	for _, m := range models.BothModes {
		if _, ok := perMode[m]; ok {
			modes = append(modes, m)
		}
	}
	if len(modes) == 0 {
		return models.ReconciliationResult{
			Chosen: models.ErrorVerdict(nil),
			Mode:   tag.PreferredMode(),
		}
	}

	chosen := modes[0]
	if _, ok := perMode[tag.PreferredMode()]; ok {
		chosen = tag.PreferredMode()
	}
	for _, m := range modes {
		if Rank(perMode[m].Kind) > Rank(perMode[chosen].Kind) {
			chosen = m
		}
	}

	res := models.ReconciliationResult{
		Chosen: perMode[chosen],
		Mode:   chosen,
		Modes:  modes,
	}
	if len(modes) > 1 {
		res.PerMode = make(map[models.Mode]models.Verdict, len(modes))
		for _, m := range modes {
			res.PerMode[m] = perMode[m]
		}
	}
	return res
}

// SelectModes decides which modes a row is evaluated under. An explicit
// request mode wins. Otherwise PRIMARY rows use PO only, SECONDARY rows SO
// only, and carrier or untagged rows are arbitrated across both.
func SelectModes(requested *models.Mode, tag models.SourceTag) []models.Mode {
	if requested != nil {
		return []models.Mode{*requested}
	}
	switch tag {
	case models.SourcePrimary:
		return []models.Mode{models.ModePrimary}
	case models.SourceSecondary:
		return []models.Mode{models.ModeSecondary}
	default:
		return models.BothModes
	}
}
