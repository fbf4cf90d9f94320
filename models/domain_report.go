package models

import "time"

// DomainReport describes a mail domain without probing any mailbox.
type DomainReport struct {
	Domain            string    `json:"domain"`
	RegistrableDomain string    `json:"registrable_domain"`
	IsFreeEmail       bool      `json:"is_free_email"`
	IsDisposable      bool      `json:"is_disposable"`
	MXAcceptsMail     bool      `json:"mx_accepts_mail"`
	MXRecords         []string  `json:"mx_records"`
	Suggestion        string    `json:"did_you_mean,omitempty"`
	WHOIS             string    `json:"whois,omitempty"`
	CheckedAt         time.Time `json:"checked_at"`
}
