// Package metrics keeps process-level counters for the assessment endpoint
// and exposes them in the Prometheus exposition format.
//
// Registry is safe for concurrent use. Gather builds *dto.MetricFamily values
// (github.com/prometheus/client_model) and ServeHTTP encodes them with
// github.com/prometheus/common/expfmt, negotiating the format from the
// request's Accept header.
//
// Exposed families:
//
//	vitalcheck_assessments_total{status}            counter
//	vitalcheck_assessment_rejections_total{reason}  counter
//	vitalcheck_assessment_failures_total            counter
//	vitalcheck_overall_score                        histogram
//
// Only aggregate counts are kept. Individual assessments are never stored.
package metrics
