package david

import (
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/yumyai/davidscan/logger"
)

// Client wraps a Service with the retry policy DAVID needs in
// practice: the service drops requests under load, so each window gets
// up to Retries attempts with a linearly growing pause in between.
// Exhausting the attempts is not an error, the window simply has no
// report; one flaky window must not kill a multi-hour scan.
type Client struct {
	svc     Service
	retries uint
	wait    time.Duration
}

func NewClient(svc Service, retries int, wait time.Duration) *Client {
	if retries < 1 {
		retries = 1
	}
	return &Client{
		svc:     svc,
		retries: uint(retries),
		wait:    wait,
	}
}

// Submit runs the retry loop around Service.Submit. Returns nil when
// every attempt failed.
func (c *Client) Submit(ids []int, listName string) *TermClusterReport {

	var report *TermClusterReport

	err := retry.Do(
		func() error {
			r, err := c.svc.Submit(ids, listName)
			if err != nil {
				return err
			}
			report = r
			return nil
		},
		retry.Attempts(c.retries),
		retry.LastErrorOnly(true),
		// Linear backoff: wait*1 after the first failure, wait*2
		// after the second, matching DAVID's usage guidance.
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return c.wait * time.Duration(n+1)
		}),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("DAVID call failed",
				zap.String("list", listName),
				zap.Uint("attempt", n+1),
				zap.Uint("retries", c.retries),
				zap.Error(err))
		}),
	)

	if err != nil {
		logger.Error("Giving up on window",
			zap.String("list", listName),
			zap.Uint("retries", c.retries),
			zap.Error(err))
		return nil
	}

	return report
}
