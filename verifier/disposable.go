package verifier

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed data/disposable_domains.txt
var seedDisposableDomains string

// DisposableList is a set of throwaway-mailbox domains. Reads are concurrent;
// Replace swaps the whole set.
type DisposableList struct {
	mu      sync.RWMutex
	domains map[string]struct{}
}

// NewDisposableList returns a list seeded with the embedded domains.
func NewDisposableList() *DisposableList {
	l := &DisposableList{}
	l.Replace(parseDomainLines(seedDisposableDomains))
	return l
}

// Contains checks domain and its registrable domain.
func (l *DisposableList) Contains(domain string) bool {
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.domains[domain]; ok {
		return true
	}
	_, ok := l.domains[RegistrableDomain(domain)]
	return ok
}

// Replace installs a new set. Empty input is ignored so a bad download never
// clears the list.
func (l *DisposableList) Replace(domains []string) int {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			set[d] = struct{}{}
		}
	}
	if len(set) == 0 {
		return l.Len()
	}
	l.mu.Lock()
	l.domains = set
	l.mu.Unlock()
	return len(set)
}

// Len returns the number of domains in the set.
func (l *DisposableList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.domains)
}

func parseDomainLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
