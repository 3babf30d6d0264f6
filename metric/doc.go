// Package metric exports engine metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	eng := salvo.New(store, salvo.WithMetricsCollector(metric.NewPrometheusCollector(reg)))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metric
