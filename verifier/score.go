package verifier

import "github.com/nibirhossain/email-validator-api/models"

// Weights are the points deducted from 100 for each failing condition.
// Weights must be non-negative.
type Weights struct {
	InvalidSyntax int `validate:"min=0,max=100"`
	NoMX          int `validate:"min=0,max=100"`
	Disabled      int `validate:"min=0,max=100"`
	InboxFull     int `validate:"min=0,max=100"`
	Disposable    int `validate:"min=0,max=100"`
	RoleAccount   int `validate:"min=0,max=100"`
	CatchAll      int `validate:"min=0,max=100"`
	FreeEmail     int `validate:"min=0,max=100"`
	Undeliverable int `validate:"min=0,max=100"`
}

// DefaultWeights never deducts for an SMTP connection failure on its own;
// only pattern-matched reply text counts as evidence.
var DefaultWeights = Weights{
	InvalidSyntax: 50,
	NoMX:          40,
	Disabled:      40,
	InboxFull:     30,
	Disposable:    25,
	RoleAccount:   15,
	CatchAll:      10,
	FreeEmail:     2,
	Undeliverable: 15,
}

const DefaultSafeThreshold = 75

// Score folds the flags into 0..100.
func Score(f models.SignalFlags, w Weights) int {
	score := 100
	if !f.IsValidSyntax {
		score -= w.InvalidSyntax
	}
	if !f.MXAcceptsMail {
		score -= w.NoMX
	}
	if f.IsDisabled {
		score -= w.Disabled
	}
	if f.HasInboxFull {
		score -= w.InboxFull
	}
	if f.IsDisposable {
		score -= w.Disposable
	}
	if f.IsRoleAccount {
		score -= w.RoleAccount
	}
	if f.IsCatchAll {
		score -= w.CatchAll
	}
	if f.IsFreeEmail {
		score -= w.FreeEmail
	}
	if !f.IsDeliverable && f.SMTPChecked && hasEvidence(f) {
		score -= w.Undeliverable
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func hasEvidence(f models.SignalFlags) bool {
	return f.HasInboxFull || f.IsDisabled || f.UserUnknown
}

// DeriveStatus maps a score and its flags to safe, risky or bad. A rejected
// recipient never counts as safe, whatever its score.
func DeriveStatus(score int, f models.SignalFlags, threshold int) models.Status {
	if !f.IsValidSyntax || !f.MXAcceptsMail {
		return models.StatusBad
	}
	if f.IsDisabled || f.HasInboxFull || f.IsDisposable {
		return models.StatusBad
	}
	if score >= threshold && !hasEvidence(f) {
		return models.StatusSafe
	}
	return models.StatusRisky
}
