package manager

import (
	"context"
	"time"

	"github.com/seeksphere/seeksphere-go/filter"
)

const (
	DefaultMonitorInterval  = 30 * time.Second
	DefaultMonitorChecks    = 10
	DefaultHealthyThreshold = 0.8
	// DefaultHealthyExpression decides whether a health body counts as healthy
	DefaultHealthyExpression = `status == "healthy"`
)

// MonitorOptions configures MonitorHealth. Zero values take the defaults.
type MonitorOptions struct {
	Interval  time.Duration
	Checks    int
	Healthy   *filter.Filter
	Threshold float64
	// OnCheck is called after every check when set
	OnCheck func(check CheckResult)
}

// CheckResult is the outcome of a single health check
type CheckResult struct {
	Number  int
	Healthy bool
	Err     error
}

// MonitorResult summarises a monitoring run
type MonitorResult struct {
	Healthy int
	Total   int
}

// Ratio is the share of healthy checks
func (r MonitorResult) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Healthy) / float64(r.Total)
}

// Passed reports whether the ratio reaches threshold
func (r MonitorResult) Passed(threshold float64) bool {
	return r.Total > 0 && r.Ratio() >= threshold
}

func (o *MonitorOptions) withDefaults() {
	if o.Interval <= 0 {
		o.Interval = DefaultMonitorInterval
	}
	if o.Checks <= 0 {
		o.Checks = DefaultMonitorChecks
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultHealthyThreshold
	}
	if o.Healthy == nil {
		o.Healthy = filter.MustCompile(DefaultHealthyExpression)
	}
}

// MonitorHealth runs periodic health checks and reports whether enough of
// them were healthy. There is no wait after the last check. A cancelled
// context stops the run early and returns the checks done so far.
func (m *Manager) MonitorHealth(ctx context.Context, opts MonitorOptions) (MonitorResult, bool, error) {
	opts.withDefaults()

	m.logger.Info().
		Dur("interval", opts.Interval).
		Int("checks", opts.Checks).
		Msg("Starting health monitoring")

	var result MonitorResult

	for i := 0; i < opts.Checks; i++ {
		check := CheckResult{Number: i + 1}

		resp, err := m.Call(ctx, OpHealthCheck, Args{})
		if err == nil {
			check.Healthy, err = opts.Healthy.Match(resp)
		}
		check.Err = err

		result.Total++
		if check.Healthy {
			result.Healthy++
			m.logger.Info().Int("check", check.Number).Msg("API is healthy")
		} else {
			m.logger.Warn().Err(err).Int("check", check.Number).Msg("API health check failed")
		}

		if opts.OnCheck != nil {
			opts.OnCheck(check)
		}

		if i == opts.Checks-1 {
			break
		}

		timer := time.NewTimer(opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, result.Passed(opts.Threshold), ctx.Err()
		case <-timer.C:
		}
	}

	passed := result.Passed(opts.Threshold)
	m.logger.Info().
		Int("healthy", result.Healthy).
		Int("total", result.Total).
		Float64("ratio", result.Ratio()).
		Bool("passed", passed).
		Msg("Health monitoring complete")

	return result, passed, nil
}
