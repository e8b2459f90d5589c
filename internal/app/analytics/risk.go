package analytics

import (
	"fmt"
	"time"

	"github.com/yigit/codetrack/internal/app/models"
)

// Risk reasons
const (
	ReasonNoGrowth   = "No Growth"
	ReasonNoAccounts = "No linked accounts"
)

// RiskPolicy decides whether a student is at risk.
type RiskPolicy struct {
	// Window is how recent the latest approved snapshot must be.
	Window time.Duration
	// FlagWithoutAccounts evaluates students with no linked account as inactive
	// instead of skipping them.
	FlagWithoutAccounts bool
}

// RiskAssessment is the outcome for one student. Evaluated is false when the
// student was excluded from evaluation.
type RiskAssessment struct {
	Evaluated bool   `json:"-"`
	AtRisk    bool   `json:"isRisk"`
	Reason    string `json:"reason,omitempty"`
}

// InactiveReason names the inactivity rule for the configured window.
func (p RiskPolicy) InactiveReason() string {
	return fmt.Sprintf("Inactive (>%d days)", int(p.Window.Hours()/24))
}

// Cutoff is the earliest snapshot date that still counts as recent.
func (p RiskPolicy) Cutoff(now time.Time) time.Time {
	return models.DateOnly(now).Add(-p.Window)
}

// Assess applies the rule: at risk when no approved snapshot falls inside the
// window, or when aggregate growth is not positive.
func (p RiskPolicy) Assess(sum StudentSummary, now time.Time) RiskAssessment {
	if sum.LinkedAccounts == 0 {
		if !p.FlagWithoutAccounts {
			return RiskAssessment{}
		}
		return RiskAssessment{Evaluated: true, AtRisk: true, Reason: ReasonNoAccounts}
	}

	if sum.LastActive == nil || sum.LastActive.Before(p.Cutoff(now)) {
		return RiskAssessment{Evaluated: true, AtRisk: true, Reason: p.InactiveReason()}
	}
	if sum.TotalGrowth <= 0 {
		return RiskAssessment{Evaluated: true, AtRisk: true, Reason: ReasonNoGrowth}
	}
	return RiskAssessment{Evaluated: true}
}
