package verifier

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// DomainInfo is derived from an Address with no I/O.
type DomainInfo struct {
	RegistrableDomain string
	IsFreeProvider    bool
	IsRoleLocalPart   bool
}

var roleLocalParts = map[string]struct{}{
	"admin": {}, "administrator": {}, "info": {}, "support": {}, "help": {},
	"hello": {}, "sales": {}, "contact": {}, "team": {}, "abuse": {},
	"postmaster": {}, "hostmaster": {}, "webmaster": {}, "security": {}, "noc": {},
	"billing": {}, "accounts": {}, "payments": {}, "hr": {}, "careers": {},
	"jobs": {}, "legal": {}, "press": {}, "marketing": {}, "office": {},
	"no-reply": {}, "noreply": {}, "do-not-reply": {}, "donotreply": {},
	"mailer-daemon": {}, "root": {}, "www": {},
}

var freeProviders = map[string]struct{}{
	"gmail.com": {}, "googlemail.com": {}, "outlook.com": {}, "hotmail.com": {},
	"live.com": {}, "msn.com": {}, "yahoo.com": {}, "icloud.com": {}, "me.com": {},
	"aol.com": {}, "gmx.de": {}, "gmx.com": {}, "web.de": {}, "proton.me": {},
	"protonmail.com": {}, "zoho.com": {}, "yandex.com": {}, "mail.com": {},
	"fastmail.com": {}, "tuta.com": {}, "tutanota.com": {}, "pm.me": {},
	"inbox.com": {}, "mail.ru": {}, "rambler.ru": {}, "163.com": {},
	"126.com": {}, "qq.com": {}, "sina.com": {}, "sohu.com": {},
	"naver.com": {}, "daum.net": {}, "hanmail.net": {},
}

// Classify computes the registrable domain and the role/free-provider flags.
func Classify(addr Address) DomainInfo {
	registrable := RegistrableDomain(addr.Domain)
	return DomainInfo{
		RegistrableDomain: registrable,
		IsFreeProvider:    IsFreeProvider(registrable),
		IsRoleLocalPart:   IsRoleLocalPart(addr.Local),
	}
}

// RegistrableDomain returns the eTLD+1 of domain, or domain itself when the
// public suffix list cannot place it (a bare suffix, a single label).
func RegistrableDomain(domain string) string {
	domain = strings.TrimSuffix(domain, ".")
	etld1, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return domain
	}
	return etld1
}

// IsRoleLocalPart reports whether local names a function rather than a person.
// A "+tag" is ignored; the remainder is tested whole (so "no-reply" matches)
// and then by its first token split on '.', '_' or '-'.
func IsRoleLocalPart(local string) bool {
	local = strings.Trim(strings.ToLower(local), `"`)
	if i := strings.IndexByte(local, '+'); i >= 0 {
		local = local[:i]
	}
	if _, ok := roleLocalParts[local]; ok {
		return true
	}
	if i := strings.IndexAny(local, "._-"); i >= 0 {
		local = local[:i]
	}
	_, ok := roleLocalParts[local]
	return ok
}

// IsFreeProvider reports whether the registrable domain is a consumer mailbox
// provider.
func IsFreeProvider(registrable string) bool {
	_, ok := freeProviders[strings.ToLower(registrable)]
	return ok
}
