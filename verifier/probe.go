package verifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

// ProbeOptions configures one Prober. Timeout bounds a whole Probe call and
// CatchAllTimeout bounds a DetectCatchAll call.
type ProbeOptions struct {
	Sender          string
	HelloName       string
	CheckDisposable bool
	CheckMX         bool
	CheckSMTP       bool
	CheckTypo       bool
	Port            string
	ProxyURL        string
	ConnectTimeout  time.Duration
	Timeout         time.Duration
	CatchAllTimeout time.Duration
}

// Used when ProbeOptions leaves the envelope identity empty.
const (
	DefaultSender    = "no-reply@verifier.local"
	DefaultHelloName = "verifier.local"
)

// ProbeResult is the outcome of one probe. Stages that did not run leave
// their fields false; Disposable stays nil when the lookup was skipped.
// ReplyText holds the server's own rejection reply and stays empty for
// transport failures, which only show up in SMTPReason.
type ProbeResult struct {
	SyntaxValid bool
	Disposable  *bool
	MXValid     bool
	SMTPChecked bool
	Connected   bool
	SMTPValid   bool
	SMTPReason  string
	ReplyText   string
	Suggestion  string
}

// Prober runs the syntax, disposable, MX and SMTP checks against one address.
// It never returns an error: failures end up in ProbeResult.SMTPReason.
type Prober struct {
	opts     ProbeOptions
	resolver MXResolver
	list     *DisposableList
	dialer   proxy.ContextDialer
	log      *logrus.Entry
}

// NewProber fails only on a malformed proxy URL.
func NewProber(opts ProbeOptions, resolver MXResolver, list *DisposableList, log *logrus.Entry) (*Prober, error) {
	if opts.Port == "" {
		opts.Port = "25"
	}
	if opts.Sender == "" {
		opts.Sender = DefaultSender
	}
	if opts.HelloName == "" {
		opts.HelloName = DefaultHelloName
	}
	if list == nil {
		list = NewDisposableList()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	dialer, err := newDialer(opts.ProxyURL, opts.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	return &Prober{
		opts:     opts,
		resolver: resolver,
		list:     list,
		dialer:   dialer,
		log:      log,
	}, nil
}

func newDialer(proxyURL string, timeout time.Duration) (proxy.ContextDialer, error) {
	base := &net.Dialer{Timeout: timeout}
	if proxyURL == "" {
		return base, nil
	}
	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("parse smtp proxy: %w", err)
	}
	d, err := proxy.FromURL(u, base)
	if err != nil {
		return nil, fmt.Errorf("smtp proxy: %w", err)
	}
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd, nil
	}
	return contextDialer{d}, nil
}

type contextDialer struct {
	proxy.Dialer
}

func (d contextDialer) DialContext(_ context.Context, network, addr string) (net.Conn, error) {
	return d.Dial(network, addr)
}

// Probe checks addr in order: syntax, typo, disposable, MX, SMTP. The first
// failing stage ends the probe. A timeout keeps whatever was already
// established and leaves the remaining stages unset.
func (p *Prober) Probe(ctx context.Context, addr Address) ProbeResult {
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	var res ProbeResult
	if err := checkmail.ValidateFormat(addr.String()); err != nil {
		res.SMTPReason = "regex"
		return res
	}
	res.SyntaxValid = true

	if p.opts.CheckTypo {
		res.Suggestion = SuggestDomain(addr.Domain)
	}

	if p.opts.CheckDisposable {
		disposable := p.list.Contains(addr.Domain)
		res.Disposable = &disposable
		if disposable {
			res.SMTPReason = "disposable"
			return res
		}
	}

	if !p.opts.CheckMX {
		return res
	}
	hosts, err := lookupExchangers(ctx, p.resolver, addr.Domain)
	if err != nil {
		res.SMTPReason = "mx: " + describe(err)
		p.log.WithError(err).WithField("domain", addr.Domain).Debug("mx lookup failed")
		return res
	}
	res.MXValid = true

	if !p.opts.CheckSMTP {
		return res
	}
	res.SMTPChecked = true
	connected, err := p.dialog(ctx, hosts[0], addr.String())
	res.Connected = connected
	if err != nil {
		res.SMTPReason = describe(err)
		res.ReplyText = replyText(err)
		return res
	}
	res.SMTPValid = true
	return res
}

// dialog connects to host and runs HELO, MAIL FROM and RCPT TO. No DATA is
// ever sent. A nil error means the recipient was accepted.
func (p *Prober) dialog(ctx context.Context, host, rcpt string) (connected bool, err error) {
	conn, err := p.dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, p.opts.Port))
	if err != nil {
		p.log.WithError(err).WithField("mx", host).Debug("smtp dial failed")
		return false, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return true, err
	}
	defer func() {
		if err := client.Quit(); err != nil {
			_ = client.Close()
		}
	}()

	if err := client.Hello(p.opts.HelloName); err != nil {
		return true, err
	}
	if err := client.Mail(p.opts.Sender); err != nil {
		return true, err
	}
	if err := client.Rcpt(rcpt); err != nil {
		p.log.WithField("mx", host).WithField("reply", err.Error()).Debug("rcpt rejected")
		return true, err
	}
	return true, nil
}

// replyText returns the text of an SMTP reply carried by err, or "" when err
// is a network or protocol failure.
func replyText(err error) string {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return tpErr.Error()
	}
	return ""
}

// DetectCatchAll probes a random local part on domain. Only an accepted RCPT
// counts; any failure, timeout included, reports false.
func (p *Prober) DetectCatchAll(ctx context.Context, domain string) bool {
	if !p.opts.CheckSMTP {
		return false
	}
	if p.opts.CatchAllTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.CatchAllTimeout)
		defer cancel()
	}
	return p.Probe(ctx, Address{Local: catchAllLocalPart(), Domain: domain}).SMTPValid
}

func catchAllLocalPart() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "catchall-test-" + token[:12]
}

func describe(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "timeout: " + err.Error()
	}
	return err.Error()
}
