package verifier

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// MXResolver looks up the mail exchangers of a domain.
type MXResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// NewResolver returns the system resolver, or a direct DNS client against
// server (host:port) when one is configured.
func NewResolver(server string, timeout time.Duration) MXResolver {
	if server == "" {
		return &net.Resolver{}
	}
	return &dnsResolver{
		client: &dns.Client{Net: "udp", Timeout: timeout},
		server: server,
	}
}

type dnsResolver struct {
	client *dns.Client
	server string
}

func (r *dnsResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeMX)
	m.RecursionDesired = true

	in, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if err != nil {
		return nil, err
	}
	if in.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("lookup mx %s: %s", domain, dns.RcodeToString[in.Rcode])
	}

	var records []*net.MX
	for _, rr := range in.Answer {
		if mx, ok := rr.(*dns.MX); ok {
			records = append(records, &net.MX{Host: mx.Mx, Pref: mx.Preference})
		}
	}
	if len(records) == 0 {
		return nil, ErrNoMXRecords
	}
	return records, nil
}

// lookupExchangers returns usable exchange hosts sorted by preference, without
// the trailing dot. A null MX ("." per RFC 7505) yields no hosts.
func lookupExchangers(ctx context.Context, r MXResolver, domain string) ([]string, error) {
	records, err := r.LookupMX(ctx, domain)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Pref < records[j].Pref
	})

	hosts := make([]string, 0, len(records))
	for _, mx := range records {
		host := strings.TrimSuffix(mx.Host, ".")
		if host == "" {
			continue
		}
		hosts = append(hosts, host)
	}
	if len(hosts) == 0 {
		return nil, ErrNoMXRecords
	}
	return hosts, nil
}

// ListMX is the advisory MX listing returned to callers. Any failure yields an
// empty list.
func ListMX(ctx context.Context, r MXResolver, domain string) []string {
	hosts, err := lookupExchangers(ctx, r, domain)
	if err != nil {
		return []string{}
	}
	return hosts
}
