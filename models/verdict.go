package models

import (
	"fmt"
	"time"

	"github.com/nibirhossain/email-validator-api/utils"
)

// Status is the three-way verdict of a verification.
type Status string

const (
	StatusSafe  Status = "safe"
	StatusRisky Status = "risky"
	StatusBad   Status = "bad"
)

// SignalFlags is the flattened signal set the scoring engine consumes.
type SignalFlags struct {
	IsValidSyntax  bool `json:"is_valid_syntax"`
	IsDisposable   bool `json:"is_disposable"`
	IsRoleAccount  bool `json:"is_role_account"`
	MXAcceptsMail  bool `json:"mx_accepts_mail"`
	CanConnectSMTP bool `json:"can_connect_smtp"`
	HasInboxFull   bool `json:"has_inbox_full"`
	IsCatchAll     bool `json:"is_catch_all"`
	IsDeliverable  bool `json:"is_deliverable"`
	IsDisabled     bool `json:"is_disabled"`
	IsFreeEmail    bool `json:"is_free_email"`
	SMTPChecked    bool `json:"smtp_checked"`

	// UserUnknown counts as concrete evidence for scoring but is not part of
	// the response body.
	UserUnknown bool `json:"-"`
}

// Verdict is the response record of one verification request. It is built
// once and never mutated afterwards.
type Verdict struct {
	Status            Status    `json:"status"`
	OverallScore      int       `json:"overall_score"`
	OverallScoreLabel string    `json:"overall_score_label"`
	IsSafeToSend      bool      `json:"is_safe_to_send"`
	IsValidSyntax     bool      `json:"is_valid_syntax"`
	IsDisposable      *bool     `json:"is_disposable"`
	IsRoleAccount     *bool     `json:"is_role_account"`
	MXAcceptsMail     bool      `json:"mx_accepts_mail"`
	MXRecords         []string  `json:"mx_records"`
	CanConnectSMTP    bool      `json:"can_connect_smtp"`
	HasInboxFull      bool      `json:"has_inbox_full"`
	IsCatchAll        bool      `json:"is_catch_all"`
	IsDeliverable     bool      `json:"is_deliverable"`
	IsDisabled        bool      `json:"is_disabled"`
	IsFreeEmail       *bool     `json:"is_free_email"`
	SMTPChecked       bool      `json:"smtp_checked"`
	SMTPReason        string    `json:"smtp_reason,omitempty"`
	DidYouMean        string    `json:"did_you_mean,omitempty"`
	CheckedAt         time.Time `json:"checked_at"`
	Normalized        *string   `json:"normalized"`
	Input             string    `json:"input"`
	Error             *string   `json:"error"`
}

// ScoreLabel renders a score the way the API reports it, e.g. "85/100".
func ScoreLabel(score int) string {
	return fmt.Sprintf("%d/100", score)
}

// NewVerdict assembles a verdict from a complete signal set.
func NewVerdict(input, normalized string, flags SignalFlags, score int, status Status, mx []string, checkedAt time.Time) Verdict {
	if mx == nil {
		mx = []string{}
	}
	return Verdict{
		Status:            status,
		OverallScore:      score,
		OverallScoreLabel: ScoreLabel(score),
		IsSafeToSend:      status == StatusSafe,
		IsValidSyntax:     flags.IsValidSyntax,
		IsDisposable:      utils.Pointer(flags.IsDisposable),
		IsRoleAccount:     utils.Pointer(flags.IsRoleAccount),
		MXAcceptsMail:     flags.MXAcceptsMail,
		MXRecords:         mx,
		CanConnectSMTP:    flags.CanConnectSMTP,
		HasInboxFull:      flags.HasInboxFull,
		IsCatchAll:        flags.IsCatchAll,
		IsDeliverable:     flags.IsDeliverable,
		IsDisabled:        flags.IsDisabled,
		IsFreeEmail:       utils.Pointer(flags.IsFreeEmail),
		SMTPChecked:       flags.SMTPChecked,
		CheckedAt:         checkedAt,
		Normalized:        utils.Pointer(normalized),
		Input:             input,
	}
}

// RejectedVerdict is returned when the input could not be normalized. The
// classification fields stay null because nothing was classified.
func RejectedVerdict(input, code string, checkedAt time.Time) Verdict {
	return Verdict{
		Status:            StatusBad,
		OverallScore:      0,
		OverallScoreLabel: ScoreLabel(0),
		MXRecords:         []string{},
		CheckedAt:         checkedAt,
		Input:             input,
		Error:             utils.Pointer(code),
	}
}
