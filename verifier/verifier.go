package verifier

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nibirhossain/email-validator-api/models"
)

// Options is the immutable configuration of a Verifier.
type Options struct {
	Probe          ProbeOptions
	RequestTimeout time.Duration
	SafeThreshold  int
	Weights        Weights
}

// Recorder receives pipeline observations. The metrics package implements it.
type Recorder interface {
	ObserveVerdict(status models.Status)
	ObserveProbe(kind string, d time.Duration)
	ObserveCatchAll()
}

type nopRecorder struct{}

func (nopRecorder) ObserveVerdict(models.Status) {}
func (nopRecorder) ObserveProbe(string, time.Duration) {}
func (nopRecorder) ObserveCatchAll() {}

// Verifier runs the full pipeline for one address per call. It holds no
// per-request state and is safe for concurrent use.
type Verifier struct {
	opts     Options
	prober   *Prober
	resolver MXResolver
	list     *DisposableList
	recorder Recorder
	log      *logrus.Entry
	now      func() time.Time
}

type Option func(*Verifier)

func WithResolver(r MXResolver) Option {
	return func(v *Verifier) { v.resolver = r }
}

func WithDisposableList(l *DisposableList) Option {
	return func(v *Verifier) { v.list = l }
}

func WithRecorder(r Recorder) Option {
	return func(v *Verifier) { v.recorder = r }
}

func WithLogger(l *logrus.Entry) Option {
	return func(v *Verifier) { v.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// New builds a Verifier. It fails only when the probe options are unusable.
func New(opts Options, options ...Option) (*Verifier, error) {
	v := &Verifier{
		opts:     opts,
		resolver: NewResolver("", 0),
		recorder: nopRecorder{},
		log:      logrus.NewEntry(logrus.StandardLogger()),
		now:      time.Now,
	}
	for _, o := range options {
		o(v)
	}
	if v.list == nil {
		v.list = NewDisposableList()
	}
	if v.opts.SafeThreshold == 0 {
		v.opts.SafeThreshold = DefaultSafeThreshold
	}
	if v.opts.Weights == (Weights{}) {
		v.opts.Weights = DefaultWeights
	}

	prober, err := NewProber(opts.Probe, v.resolver, v.list, v.log.WithField("component", "prober"))
	if err != nil {
		return nil, err
	}
	v.prober = prober
	return v, nil
}

// Verify checks a raw address and always returns a verdict.
func (v *Verifier) Verify(ctx context.Context, raw string) models.Verdict {
	addr, err := Normalize(raw)
	return v.verify(ctx, raw, addr, err)
}

// VerifyInput is Verify for an untyped value such as a decoded JSON field.
func (v *Verifier) VerifyInput(ctx context.Context, in any) models.Verdict {
	addr, err := NormalizeInput(in)
	raw, ok := in.(string)
	if !ok {
		raw = fmt.Sprint(in)
	}
	return v.verify(ctx, raw, addr, err)
}

func (v *Verifier) verify(ctx context.Context, raw string, addr Address, normErr error) models.Verdict {
	checkedAt := v.now().UTC()
	start := time.Now()

	if normErr != nil {
		verdict := models.RejectedVerdict(raw, ErrorCode(normErr), checkedAt)
		v.recorder.ObserveVerdict(verdict.Status)
		v.log.WithField("error", ErrorCode(normErr)).Info("email rejected")
		return verdict
	}

	if v.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.opts.RequestTimeout)
		defer cancel()
	}

	info := Classify(addr)

	var (
		primary  ProbeResult
		mx       []string
		catchAll bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.Now()
		primary = v.prober.Probe(gctx, addr)
		v.recorder.ObserveProbe("primary", time.Since(t))
		return nil
	})
	g.Go(func() error {
		mx = ListMX(gctx, v.resolver, addr.Domain)
		if len(mx) == 0 {
			return nil
		}
		t := time.Now()
		catchAll = v.prober.DetectCatchAll(gctx, addr.Domain)
		v.recorder.ObserveProbe("catch_all", time.Since(t))
		return nil
	})
	_ = g.Wait()

	flags := deriveFlags(primary, info, catchAll)
	score := Score(flags, v.opts.Weights)
	status := DeriveStatus(score, flags, v.opts.SafeThreshold)

	verdict := models.NewVerdict(raw, addr.String(), flags, score, status, mx, checkedAt)
	verdict.SMTPReason = primary.SMTPReason
	if primary.Suggestion != "" {
		verdict.DidYouMean = addr.Local + "@" + primary.Suggestion
	}

	if flags.IsCatchAll {
		v.recorder.ObserveCatchAll()
	}
	v.recorder.ObserveVerdict(status)
	v.log.WithFields(logrus.Fields{
		"domain":   addr.Domain,
		"status":   status,
		"score":    score,
		"duration": time.Since(start).String(),
	}).Info("email verified")

	return verdict
}

// deriveFlags flattens the probe outcome. Only the server's reply text is
// read as evidence; dial errors and timeouts never are.
func deriveFlags(primary ProbeResult, info DomainInfo, catchAll bool) models.SignalFlags {
	hints := ParseInboxHints(primary.ReplyText)

	return models.SignalFlags{
		IsValidSyntax:  primary.SyntaxValid,
		IsDisposable:   primary.Disposable != nil && *primary.Disposable,
		IsRoleAccount:  info.IsRoleLocalPart,
		MXAcceptsMail:  primary.MXValid,
		CanConnectSMTP: primary.SMTPChecked && primary.Connected,
		HasInboxFull:   hints.InboxFull,
		IsCatchAll:     catchAll && primary.MXValid,
		IsDeliverable:  primary.SMTPValid || (!primary.SMTPChecked && primary.MXValid && primary.SyntaxValid),
		IsDisabled:     hints.Disabled,
		IsFreeEmail:    info.IsFreeProvider,
		SMTPChecked:    primary.SMTPChecked,
		UserUnknown:    hints.UserUnknown,
	}
}
