package verifier

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

const (
	maxAddressLength = 320
	maxLocalLength   = 64
	maxDomainLength  = 253
)

// Address is a canonicalized email address. Domain is always lower-case
// ASCII (punycode for internationalized names); Local keeps its case.
type Address struct {
	Local  string
	Domain string
	Raw    string
}

// String returns local@domain.
func (a Address) String() string {
	return a.Local + "@" + a.Domain
}

// NormalizeInput accepts an untyped value (typically a decoded JSON field) and
// rejects anything that is not a string.
func NormalizeInput(v any) (Address, error) {
	s, ok := v.(string)
	if !ok {
		return Address{}, ErrNotAString
	}
	return Normalize(s)
}

// Normalize trims, NFC-normalizes and splits raw on its last '@'. Lengths are
// counted in characters.
func Normalize(raw string) (Address, error) {
	trimmed := norm.NFC.String(strings.TrimSpace(raw))
	if utf8.RuneCountInString(trimmed) > maxAddressLength {
		return Address{}, ErrTooLong
	}

	at := strings.LastIndex(trimmed, "@")
	switch {
	case at == -1:
		return Address{}, ErrNoAtSymbol
	case at == 0:
		return Address{}, ErrEmptyLocalPart
	case at == len(trimmed)-1:
		return Address{}, ErrEmptyDomain
	}

	local := trimmed[:at]
	domain := strings.ToLower(trimmed[at+1:])
	if utf8.RuneCountInString(local) > maxLocalLength {
		return Address{}, ErrLocalPartTooLong
	}
	if utf8.RuneCountInString(domain) > maxDomainLength {
		return Address{}, ErrDomainTooLong
	}

	ascii, err := toASCII(domain)
	if err != nil {
		return Address{}, ErrIdnConversionFailed
	}

	return Address{Local: local, Domain: ascii, Raw: raw}, nil
}

// toASCII leaves plain ASCII domains untouched and runs IDNA lookup
// processing on everything else.
func toASCII(domain string) (string, error) {
	for i := 0; i < len(domain); i++ {
		if domain[i] >= utf8.RuneSelf {
			return idna.Lookup.ToASCII(domain)
		}
	}
	return domain, nil
}
