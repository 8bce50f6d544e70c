/*
Package monitoring provides metrics collection for filesystem operations
and script runs.

# Overview

Metrics implements fs.Observer, so an engine built with
fs.WithObserver(metrics) reports every call. Each collector owns its own
Prometheus registry.

# Metrics

  - llrt_fs_ops_total{op,status}
  - llrt_fs_op_duration_seconds{op}
  - llrt_fs_errors_total{op,kind}
  - llrt_fs_inflight
  - llrt_scripts_total{status}
  - llrt_script_duration_seconds
  - llrt_uptime_seconds

# Usage

	metrics := monitoring.NewMetrics()
	engine := fs.New(fs.WithObserver(metrics))

	timer := monitoring.NewTimer(metrics)
	// ... run a script ...
	timer.Stop("success")

	snap := metrics.Snapshot()

Expose the registry with promhttp if a scrape endpoint is needed:

	promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})
*/
package monitoring
