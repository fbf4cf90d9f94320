package verifier

import "regexp"

// InboxHints are conditions recognised in an SMTP reply text. A false value
// means no evidence was found, not that the condition is absent.
type InboxHints struct {
	InboxFull   bool
	Disabled    bool
	UserUnknown bool
}

var (
	inboxFullPattern   = regexp.MustCompile(`(?im)(^552\b|quota|mailbox.*full|over quota)`)
	disabledPattern    = regexp.MustCompile(`(?i)(mailbox.*disabled|inactive|deactivated|account.*disabled)`)
	userUnknownPattern = regexp.MustCompile(`(?i)(user unknown|mailbox unavailable|no such user|550 5\.1\.1)`)
)

// ParseInboxHints matches the text of an SMTP reply, code included.
func ParseInboxHints(reason string) InboxHints {
	if reason == "" {
		return InboxHints{}
	}
	return InboxHints{
		InboxFull:   inboxFullPattern.MatchString(reason),
		Disabled:    disabledPattern.MatchString(reason),
		UserUnknown: userUnknownPattern.MatchString(reason),
	}
}
