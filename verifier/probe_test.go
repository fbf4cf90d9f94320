package verifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probeOptions(port string) ProbeOptions {
	return ProbeOptions{
		Sender:          "probe@verifier.test",
		HelloName:       "verifier.test",
		CheckDisposable: true,
		CheckMX:         true,
		CheckSMTP:       true,
		Port:            port,
		ConnectTimeout:  time.Second,
		Timeout:         2 * time.Second,
		CatchAllTimeout: time.Second,
	}
}

func newTestProber(t *testing.T, opts ProbeOptions, r MXResolver) *Prober {
	t.Helper()
	p, err := NewProber(opts, r, NewDisposableList(), quietLogger())
	require.NoError(t, err)
	return p
}

func mustAddress(t *testing.T, raw string) Address {
	t.Helper()
	addr, err := Normalize(raw)
	require.NoError(t, err)
	return addr
}

func TestProbeAccepted(t *testing.T) {
	srv := startSMTPServer(t, acceptAll)
	p := newTestProber(t, probeOptions(srv.Port()), localMX("example.com"))

	res := p.Probe(context.Background(), mustAddress(t, "alice@example.com"))

	assert.True(t, res.SyntaxValid)
	require.NotNil(t, res.Disposable)
	assert.False(t, *res.Disposable)
	assert.True(t, res.MXValid)
	assert.True(t, res.SMTPChecked)
	assert.True(t, res.Connected)
	assert.True(t, res.SMTPValid)
	assert.Empty(t, res.SMTPReason)
	assert.Equal(t, []string{"alice@example.com"}, srv.Recipients())
}

func TestProbeRejected(t *testing.T) {
	srv := startSMTPServer(t, func(string) string {
		return "550 5.1.1 <alice@example.com>: Recipient address rejected: User unknown"
	})
	p := newTestProber(t, probeOptions(srv.Port()), localMX("example.com"))

	res := p.Probe(context.Background(), mustAddress(t, "alice@example.com"))

	assert.True(t, res.MXValid)
	assert.True(t, res.Connected)
	assert.False(t, res.SMTPValid)
	assert.Contains(t, res.SMTPReason, "User unknown")
	assert.Equal(t, res.SMTPReason, res.ReplyText)
	assert.True(t, ParseInboxHints(res.ReplyText).UserUnknown)
}

func TestProbeStopsAtFirstFailingStage(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		p := newTestProber(t, probeOptions("25"), localMX())
		res := p.Probe(context.Background(), Address{Local: "bad local", Domain: "example.com"})
		assert.False(t, res.SyntaxValid)
		assert.Nil(t, res.Disposable)
		assert.False(t, res.MXValid)
		assert.False(t, res.SMTPChecked)
		assert.Equal(t, "regex", res.SMTPReason)
	})

	t.Run("disposable", func(t *testing.T) {
		p := newTestProber(t, probeOptions("25"), localMX("mailinator.com"))
		res := p.Probe(context.Background(), mustAddress(t, "x@mailinator.com"))
		assert.True(t, res.SyntaxValid)
		require.NotNil(t, res.Disposable)
		assert.True(t, *res.Disposable)
		assert.False(t, res.MXValid)
		assert.False(t, res.SMTPChecked)
		assert.Equal(t, "disposable", res.SMTPReason)
	})

	t.Run("mx", func(t *testing.T) {
		p := newTestProber(t, probeOptions("25"), localMX())
		res := p.Probe(context.Background(), mustAddress(t, "x@nomx.test"))
		assert.True(t, res.SyntaxValid)
		assert.False(t, res.MXValid)
		assert.False(t, res.SMTPChecked)
		assert.True(t, strings.HasPrefix(res.SMTPReason, "mx: "), res.SMTPReason)
	})

	t.Run("smtp disabled", func(t *testing.T) {
		opts := probeOptions("25")
		opts.CheckSMTP = false
		p := newTestProber(t, opts, localMX("example.com"))
		res := p.Probe(context.Background(), mustAddress(t, "x@example.com"))
		assert.True(t, res.MXValid)
		assert.False(t, res.SMTPChecked)
		assert.False(t, res.Connected)
	})

	t.Run("disposable check disabled", func(t *testing.T) {
		opts := probeOptions("25")
		opts.CheckDisposable = false
		opts.CheckSMTP = false
		p := newTestProber(t, opts, localMX("mailinator.com"))
		res := p.Probe(context.Background(), mustAddress(t, "x@mailinator.com"))
		assert.Nil(t, res.Disposable)
		assert.True(t, res.MXValid)
	})
}

func TestProbeConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, ln.Close())

	p := newTestProber(t, probeOptions(port), localMX("example.com"))
	res := p.Probe(context.Background(), mustAddress(t, "alice@example.com"))

	assert.True(t, res.MXValid)
	assert.True(t, res.SMTPChecked)
	assert.False(t, res.Connected)
	assert.False(t, res.SMTPValid)
	assert.NotEmpty(t, res.SMTPReason)
	assert.Empty(t, res.ReplyText)
}

func TestProbeTimeoutKeepsEarlierStages(t *testing.T) {
	srv := startSilentServer(t)
	opts := probeOptions(srv.Port())
	opts.Timeout = 200 * time.Millisecond
	p := newTestProber(t, opts, localMX("example.com"))

	start := time.Now()
	res := p.Probe(context.Background(), mustAddress(t, "alice@example.com"))

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, res.SyntaxValid)
	assert.True(t, res.MXValid)
	assert.True(t, res.SMTPChecked)
	assert.True(t, res.Connected)
	assert.False(t, res.SMTPValid)
	assert.NotEmpty(t, res.SMTPReason)
	assert.Empty(t, res.ReplyText)
}

func TestProbeTransportErrorsCarryNoReplyText(t *testing.T) {
	t.Run("silent server on a 552xx port", func(t *testing.T) {
		srv := startSilentServerOn552Port(t)
		opts := probeOptions(srv.Port())
		opts.Timeout = 200 * time.Millisecond
		p := newTestProber(t, opts, localMX("example.com"))

		res := p.Probe(context.Background(), mustAddress(t, "alice@example.com"))

		assert.True(t, res.Connected)
		assert.Contains(t, res.SMTPReason, srv.Port())
		assert.Empty(t, res.ReplyText)
	})

	t.Run("unresolvable mx host", func(t *testing.T) {
		r := mapResolver{records: map[string][]*net.MX{
			"example.com": {{Host: "mx552-inactive.invalid.", Pref: 10}},
		}}
		p := newTestProber(t, probeOptions("25"), r)

		res := p.Probe(context.Background(), mustAddress(t, "alice@example.com"))

		assert.True(t, res.MXValid)
		assert.False(t, res.Connected)
		assert.NotEmpty(t, res.SMTPReason)
		assert.Empty(t, res.ReplyText)
	})
}

func TestNewProberDefaultsEnvelope(t *testing.T) {
	srv := startSMTPServer(t, acceptAll)
	opts := probeOptions(srv.Port())
	opts.Sender = ""
	opts.HelloName = ""
	p := newTestProber(t, opts, localMX("example.com"))

	assert.Equal(t, DefaultSender, p.opts.Sender)
	assert.Equal(t, DefaultHelloName, p.opts.HelloName)

	res := p.Probe(context.Background(), mustAddress(t, "alice@example.com"))
	assert.True(t, res.SMTPValid, res.SMTPReason)
}

func TestReplyText(t *testing.T) {
	assert.Equal(t, "552 5.2.2 Mailbox full", replyText(&textproto.Error{Code: 552, Msg: "5.2.2 Mailbox full"}))
	assert.Equal(t, "550 no", replyText(fmt.Errorf("rcpt: %w", &textproto.Error{Code: 550, Msg: "no"})))
	assert.Empty(t, replyText(errors.New("dial tcp 127.0.0.1:55200: connection refused")))
}

func TestProbeUsesLowestPreferenceMX(t *testing.T) {
	srv := startSMTPServer(t, acceptAll)
	r := mapResolver{records: map[string][]*net.MX{
		"example.com": {
			{Host: "unreachable.invalid.", Pref: 20},
			{Host: "127.0.0.1.", Pref: 5},
		},
	}}
	p := newTestProber(t, probeOptions(srv.Port()), r)

	res := p.Probe(context.Background(), mustAddress(t, "alice@example.com"))
	assert.True(t, res.SMTPValid)
}

func TestProbeTypoSuggestion(t *testing.T) {
	opts := probeOptions("25")
	opts.CheckTypo = true
	opts.CheckSMTP = false
	p := newTestProber(t, opts, localMX("gmial.com"))

	res := p.Probe(context.Background(), mustAddress(t, "alice@gmial.com"))
	assert.Equal(t, "gmail.com", res.Suggestion)
}

func TestDetectCatchAll(t *testing.T) {
	t.Run("accepts anything", func(t *testing.T) {
		srv := startSMTPServer(t, acceptAll)
		p := newTestProber(t, probeOptions(srv.Port()), localMX("example.com"))

		assert.True(t, p.DetectCatchAll(context.Background(), "example.com"))
		rcpts := srv.Recipients()
		require.Len(t, rcpts, 1)
		assert.True(t, strings.HasPrefix(rcpts[0], "catchall-test-"), rcpts[0])
		assert.True(t, strings.HasSuffix(rcpts[0], "@example.com"), rcpts[0])
	})

	t.Run("rejects unknown users", func(t *testing.T) {
		srv := startSMTPServer(t, func(string) string { return "550 5.1.1 User unknown" })
		p := newTestProber(t, probeOptions(srv.Port()), localMX("example.com"))
		assert.False(t, p.DetectCatchAll(context.Background(), "example.com"))
	})

	t.Run("timeout is not catch-all", func(t *testing.T) {
		srv := startSilentServer(t)
		opts := probeOptions(srv.Port())
		opts.CatchAllTimeout = 150 * time.Millisecond
		p := newTestProber(t, opts, localMX("example.com"))
		assert.False(t, p.DetectCatchAll(context.Background(), "example.com"))
	})

	t.Run("smtp disabled", func(t *testing.T) {
		opts := probeOptions("25")
		opts.CheckSMTP = false
		p := newTestProber(t, opts, localMX("example.com"))
		assert.False(t, p.DetectCatchAll(context.Background(), "example.com"))
	})
}

func TestCatchAllLocalPartIsRandom(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		lp := catchAllLocalPart()
		assert.Len(t, lp, len("catchall-test-")+12)
		assert.False(t, seen[lp])
		seen[lp] = true
	}
}

func TestNewProberRejectsBadProxy(t *testing.T) {
	opts := probeOptions("25")
	opts.ProxyURL = "ftp://proxy.test:21"
	_, err := NewProber(opts, localMX(), nil, nil)
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "timeout: context deadline exceeded", describe(context.DeadlineExceeded))
	assert.Equal(t, "boom", describe(errors.New("boom")))
}
