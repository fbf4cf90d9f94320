package verifier

// commonTypos maps misspelled provider domains to the intended one.
var commonTypos = map[string]string{
	"gmai.com":    "gmail.com",
	"gmal.com":    "gmail.com",
	"gmial.com":   "gmail.com",
	"gnail.com":   "gmail.com",
	"gmail.co":    "gmail.com",
	"gmail.con":   "gmail.com",
	"yaho.com":    "yahoo.com",
	"yahooo.com":  "yahoo.com",
	"yahoo.co":    "yahoo.com",
	"hotmai.com":  "hotmail.com",
	"hotmial.com": "hotmail.com",
	"hotmail.co":  "hotmail.com",
	"outlok.com":  "outlook.com",
	"outloo.com":  "outlook.com",
	"iclod.com":   "icloud.com",
	"icloud.co":   "icloud.com",
}

// SuggestDomain returns the likely intended domain, or "" when domain is not
// a known misspelling.
func SuggestDomain(domain string) string {
	return commonTypos[domain]
}
