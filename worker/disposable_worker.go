package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nibirhossain/email-validator-api/utils"
	"github.com/nibirhossain/email-validator-api/verifier"
)

// FetchFunc downloads the disposable domain list.
type FetchFunc func(url string, timeout time.Duration, out interface{}) error

// DisposableWorker keeps a DisposableList in sync with a remote JSON array
// of domains.
type DisposableWorker struct {
	list     *verifier.DisposableList
	url      string
	interval time.Duration
	fetch    FetchFunc
	logger   *logrus.Entry
}

func NewDisposableWorker(list *verifier.DisposableList, url string, interval time.Duration, logger *logrus.Entry) *DisposableWorker {
	return &DisposableWorker{
		list:     list,
		url:      url,
		interval: interval,
		fetch:    utils.FetchJSON,
		logger:   logger,
	}
}

// Start refreshes once immediately and then on every tick until ctx is done.
func (dw *DisposableWorker) Start(ctx context.Context) {
	if dw.url == "" || dw.interval <= 0 {
		dw.logger.Info("Disposable list refresh disabled")
		return
	}

	dw.logger.WithField("interval", dw.interval.String()).Info("Starting disposable list worker...")
	dw.Refresh()

	ticker := time.NewTicker(dw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			dw.Refresh()
		case <-ctx.Done():
			dw.logger.Info("Stopping disposable list worker...")
			return
		}
	}
}

// Refresh downloads the list and swaps it in. On any failure the current
// set stays in place.
func (dw *DisposableWorker) Refresh() int {
	var domains []string
	if err := dw.fetch(dw.url, time.Minute, &domains); err != nil {
		dw.logger.WithError(err).Warn("Failed to refresh disposable list")
		return dw.list.Len()
	}

	n := dw.list.Replace(domains)
	utils.LogEvent("disposable_list_refreshed", map[string]interface{}{
		"fetched": len(domains),
		"size":    n,
	})
	return n
}
