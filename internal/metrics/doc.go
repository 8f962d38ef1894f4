// Package metrics provides observability hooks for the batch commands.
//
// Components receive a Recorder through dependency injection and default to NoopRecorder,
// so metrics collection never requires nil checks at call sites:
//
//	counter := visitors.NewCounter(cfg, source, store) // NoopRecorder
//	counter.WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// Both binaries are short-lived, so there is no scrape endpoint. When a metrics file is
// configured the PrometheusRecorder writes its registry in the node_exporter textfile
// collector format at the end of the run.
package metrics
