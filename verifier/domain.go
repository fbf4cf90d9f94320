package verifier

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/nibirhossain/email-validator-api/models"
)

// NormalizeDomain trims, lower-cases and converts an IDN domain to its ASCII
// form. It applies the same limits as the domain half of Normalize.
func NormalizeDomain(raw string) (string, error) {
	domain := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(raw), "."))
	if domain == "" {
		return "", ErrEmptyDomain
	}
	if utf8.RuneCountInString(domain) > maxDomainLength {
		return "", ErrDomainTooLong
	}
	ascii, err := toASCII(domain)
	if err != nil {
		return "", ErrIdnConversionFailed
	}
	return ascii, nil
}

// InspectDomain reports what is known about a domain from static data and
// DNS alone.
func (v *Verifier) InspectDomain(ctx context.Context, raw string) (models.DomainReport, error) {
	domain, err := NormalizeDomain(raw)
	if err != nil {
		return models.DomainReport{}, err
	}

	if v.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.opts.RequestTimeout)
		defer cancel()
	}

	mx := ListMX(ctx, v.resolver, domain)
	registrable := RegistrableDomain(domain)
	return models.DomainReport{
		Domain:            domain,
		RegistrableDomain: registrable,
		IsFreeEmail:       IsFreeProvider(registrable),
		IsDisposable:      v.list.Contains(domain),
		MXAcceptsMail:     len(mx) > 0,
		MXRecords:         mx,
		Suggestion:        SuggestDomain(domain),
		CheckedAt:         v.now().UTC(),
	}, nil
}
