package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/seeksphere/seeksphere-go/filter"
	"github.com/seeksphere/seeksphere-go/manager"
)

// errUnhealthy makes monitor exit non-zero when the threshold is missed
var errUnhealthy = errors.New("health threshold not reached")

var (
	monitorInterval  time.Duration
	monitorChecks    int
	monitorHealthyIf string
	monitorThreshold float64
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check API health",
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := mgr.Call(cmd.Context(), manager.OpHealthCheck, manager.Args{})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run periodic health checks",
	Long: `Run a series of health checks and report whether enough of them passed.

A check passes when the health response matches --healthy-if, an expression
over the response fields (default: status == "healthy"). The command exits
non-zero when the share of passing checks is below --threshold.`,
	PreRunE: initializeApp,
	RunE:    runMonitor,
}

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 0, "time between checks (default from config)")
	monitorCmd.Flags().IntVar(&monitorChecks, "checks", 0, "number of checks (default from config)")
	monitorCmd.Flags().StringVar(&monitorHealthyIf, "healthy-if", "", "expression deciding whether a response is healthy")
	monitorCmd.Flags().Float64Var(&monitorThreshold, "threshold", 0, "required share of healthy checks (default from config)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	mc := cfg.Monitor

	// Override config values from command line if specified
	if cmd.Flags().Changed("interval") {
		mc.Interval = monitorInterval
	}
	if cmd.Flags().Changed("checks") {
		mc.Checks = monitorChecks
	}
	if cmd.Flags().Changed("healthy-if") {
		mc.HealthyIf = monitorHealthyIf
	}
	if cmd.Flags().Changed("threshold") {
		mc.Threshold = monitorThreshold
	}

	healthy, err := filter.Compile(mc.HealthyIf)
	if err != nil {
		return fmt.Errorf("invalid --healthy-if: %w", err)
	}

	out := cmd.OutOrStdout()
	result, passed, err := mgr.MonitorHealth(cmd.Context(), manager.MonitorOptions{
		Interval:  mc.Interval,
		Checks:    mc.Checks,
		Healthy:   healthy,
		Threshold: mc.Threshold,
		OnCheck: func(check manager.CheckResult) {
			status := "healthy"
			if !check.Healthy {
				status = "unhealthy"
			}
			if check.Err != nil {
				fmt.Fprintf(out, "Health check %d/%d: %s (%v)\n", check.Number, mc.Checks, status, check.Err)
				return
			}
			fmt.Fprintf(out, "Health check %d/%d: %s\n", check.Number, mc.Checks, status)
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d/%d checks passed (%.1f%%)\n", result.Healthy, result.Total, result.Ratio()*100)
	if !passed {
		return errUnhealthy
	}
	return nil
}
