package verifier

import "errors"

// NormalizeError tags a rejected input with the code reported to callers.
type NormalizeError struct {
	Code string
}

func (e *NormalizeError) Error() string {
	return "normalize: " + e.Code
}

// Is matches on the code so wrapped copies still compare equal.
func (e *NormalizeError) Is(target error) bool {
	t, ok := target.(*NormalizeError)
	return ok && t.Code == e.Code
}

var (
	ErrNotAString          = &NormalizeError{Code: "not_string"}
	ErrTooLong             = &NormalizeError{Code: "too_long"}
	ErrNoAtSymbol          = &NormalizeError{Code: "no_at"}
	ErrEmptyLocalPart      = &NormalizeError{Code: "no_local"}
	ErrEmptyDomain         = &NormalizeError{Code: "no_domain"}
	ErrLocalPartTooLong    = &NormalizeError{Code: "local_too_long"}
	ErrDomainTooLong       = &NormalizeError{Code: "domain_too_long"}
	ErrIdnConversionFailed = &NormalizeError{Code: "idn_conversion_failed"}
)

var ErrNoMXRecords = errors.New("mx record not found")

// ErrorCode extracts the normalization code from err, or "" if err is not a
// normalization failure.
func ErrorCode(err error) string {
	var ne *NormalizeError
	if errors.As(err, &ne) {
		return ne.Code
	}
	return ""
}
