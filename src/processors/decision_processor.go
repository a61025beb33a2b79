package processors

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/utils"
)

// DefaultPolicyWindowDays is the date tolerance used when none is configured.
const DefaultPolicyWindowDays = 5

// DecisionInput is everything the decision cascade looks at for one row
// under one mode.
type DecisionInput struct {
	Mode           models.Mode
	PartyUpload    string
	TrackingUpload string
	AssertedDate   *time.Time
	OrderExists    bool
	Packages       []models.CanonicalPackage
	PartyDirectory string
}

type decisionProcessorImpl struct {
	windowDays int
}

// NewDecisionProcessor builds a processor with the given policy window.
// A negative window selects DefaultPolicyWindowDays.
func NewDecisionProcessor(policyWindowDays int) DecisionProcessor {
	if policyWindowDays < 0 {
		policyWindowDays = DefaultPolicyWindowDays
	}
	return &decisionProcessorImpl{windowDays: policyWindowDays}
}

func (p *decisionProcessorImpl) Decide(in DecisionInput) models.Verdict {
	return Decide(in, p.windowDays)
}

func (p *decisionProcessorImpl) WindowDays() int {
	return p.windowDays
}

// decisionState carries values derived once from the input and shared by
// the rules.
type decisionState struct {
	in       DecisionInput
	window   int
	tracking string
	found    *models.CanonicalPackage
}

type decisionRule struct {
	name string
	fire func(s *decisionState) (models.Verdict, bool)
}

// decisionRules is evaluated top to bottom; the first rule that fires wins.
// The last rule always fires.
var decisionRules = []decisionRule{
	{"order-exists", ruleOrderExists},
	{"activity-present", ruleActivityPresent},
	{"tracking-found", ruleTrackingFound},
	{"party-agrees", rulePartyAgrees},
	{"date-in-window", ruleDateInWindow},
	{"corroborated", ruleCorroborated},
}

// Decide runs the decision cascade. It is total over its inputs and has no
// side effects.
func Decide(in DecisionInput, policyWindowDays int) models.Verdict {
	v, _ := decideWithRule(in, policyWindowDays)
	return v
}

// decideWithRule also reports which rule fired.
func decideWithRule(in DecisionInput, policyWindowDays int) (models.Verdict, string) {
	s := &decisionState{
		in:       in,
		window:   policyWindowDays,
		tracking: utils.NormalizeTracking(in.TrackingUpload),
	}
	if s.tracking != "" {
		for i := range in.Packages {
			if in.Packages[i].Tracking == s.tracking {
				s.found = &in.Packages[i]
				break
			}
		}
	}

	for _, rule := range decisionRules {
		if v, ok := rule.fire(s); ok {
			return v, rule.name
		}
	}
	// Unreachable: ruleCorroborated always fires.
	v, _ := ruleCorroborated(s)
	return v, "corroborated"
}

func ruleOrderExists(s *decisionState) (models.Verdict, bool) {
	if s.in.OrderExists {
		return models.Verdict{}, false
	}
	return models.Verdict{Kind: models.VerdictNoMatchOrder}, true
}

func ruleActivityPresent(s *decisionState) (models.Verdict, bool) {
	if len(s.in.Packages) > 0 {
		return models.Verdict{}, false
	}
	return models.Verdict{Kind: models.VerdictNoActivity}, true
}

func ruleTrackingFound(s *decisionState) (models.Verdict, bool) {
	if s.tracking == "" || s.found != nil {
		return models.Verdict{}, false
	}
	seen := make([]string, 0, len(s.in.Packages))
	for _, p := range s.in.Packages {
		seen = append(seen, p.Tracking)
	}
	return models.Verdict{
		Kind:   models.VerdictTrackingNotFound,
		Reason: "Seen: " + strings.Join(seen, ", "),
	}, true
}

func rulePartyAgrees(s *decisionState) (models.Verdict, bool) {
	if utils.SameParty(s.in.PartyUpload, s.in.PartyDirectory) {
		return models.Verdict{}, false
	}
	up := utils.NormalizeParty(s.in.PartyUpload)
	dir := utils.NormalizeParty(s.in.PartyDirectory)
	if up == "" || dir == "" {
		return models.Verdict{}, false
	}
	return models.Verdict{
		Kind:   models.VerdictPartyMismatch,
		Reason: fmt.Sprintf("Upload='%s' Directory='%s'", up, dir),
	}, true
}

func ruleDateInWindow(s *decisionState) (models.Verdict, bool) {
	if s.in.AssertedDate == nil {
		return models.Verdict{}, false
	}
	compare := s.comparisonDate()
	if compare == nil {
		return models.Verdict{}, false
	}

	delta := utils.DayDelta(*s.in.AssertedDate, *compare)
	if delta > s.window {
		return models.Verdict{
			Kind: models.VerdictDateOutOfWindow,
			Reason: fmt.Sprintf("Asserted %s vs directory %s: %d days apart (window %d)",
				s.in.AssertedDate.UTC().Format(utils.ISODay), compare.UTC().Format(utils.ISODay), delta, s.window),
			DayDelta: utils.IntPtr(delta),
		}, true
	}
	v, _ := ruleCorroborated(s)
	v.DayDelta = utils.IntPtr(delta)
	return v, true
}

func ruleCorroborated(s *decisionState) (models.Verdict, bool) {
	if s.tracking == "" {
		return models.Verdict{Kind: models.VerdictNoTrackingProvided}, true
	}
	return models.Verdict{Kind: models.VerdictMatched, FoundTracking: s.found.Tracking}, true
}

// comparisonDate is the matched package's date when a tracking number was
// uploaded, otherwise the first package's date.
func (s *decisionState) comparisonDate() *time.Time {
	if s.tracking != "" {
		if s.found == nil {
			return nil
		}
		return s.found.Date
	}
	if len(s.in.Packages) == 0 {
		return nil
	}
	return s.in.Packages[0].Date
}
