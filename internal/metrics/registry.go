package metrics

import (
	"log/slog"
	"net/http"
	"sort"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// Metric family names.
const (
	NameAssessments = "vitalcheck_assessments_total"
	NameRejections  = "vitalcheck_assessment_rejections_total"
	NameFailures    = "vitalcheck_assessment_failures_total"
	NameScore       = "vitalcheck_overall_score"
)

// Rejection reasons used as the "reason" label.
const (
	ReasonMissingField = "missing_field"
	ReasonInvalidField = "invalid_field"
	ReasonInvalidBody  = "invalid_body"
	ReasonUnauthorized = "unauthorized"
)

// scoreBuckets are the histogram upper bounds, one below each status threshold.
var scoreBuckets = []float64{49, 69, 84, 100}

// Registry accumulates assessment counters.
type Registry struct {
	mu          sync.Mutex
	assessments map[string]uint64
	rejections  map[string]uint64
	failures    uint64

	scoreCount   uint64
	scoreSum     float64
	scoreBuckets []uint64 // non-cumulative per-bucket counts, parallel to scoreBuckets
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		assessments:  make(map[string]uint64),
		rejections:   make(map[string]uint64),
		scoreBuckets: make([]uint64, len(scoreBuckets)),
	}
}

// ObserveAssessment records one successful assessment.
func (r *Registry) ObserveAssessment(status string, score int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.assessments[status]++
	r.scoreCount++
	r.scoreSum += float64(score)
	for i, ub := range scoreBuckets {
		if float64(score) <= ub {
			r.scoreBuckets[i]++
			break
		}
	}
}

// ObserveRejection records a request refused before scoring.
func (r *Registry) ObserveRejection(reason string) {
	r.mu.Lock()
	r.rejections[reason]++
	r.mu.Unlock()
}

// ObserveFailure records an unexpected error during assessment.
func (r *Registry) ObserveFailure() {
	r.mu.Lock()
	r.failures++
	r.mu.Unlock()
}

// Gather returns a point-in-time copy of all metric families, sorted by name.
func (r *Registry) Gather() []*dto.MetricFamily {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := []*dto.MetricFamily{
		labelledCounter(NameAssessments, "Completed health assessments by status.", "status", r.assessments),
		labelledCounter(NameRejections, "Assessment requests rejected before scoring, by reason.", "reason", r.rejections),
		{
			Name: proto.String(NameFailures),
			Help: proto.String("Assessments that failed with an unexpected error."),
			Type: dto.MetricType_COUNTER.Enum(),
			Metric: []*dto.Metric{
				{Counter: &dto.Counter{Value: proto.Float64(float64(r.failures))}},
			},
		},
		r.scoreHistogram(),
	}

	// The text encoder refuses families without series.
	mfs := all[:0]
	for _, mf := range all {
		if len(mf.Metric) > 0 {
			mfs = append(mfs, mf)
		}
	}
	sort.Slice(mfs, func(i, j int) bool { return mfs[i].GetName() < mfs[j].GetName() })
	return mfs
}

// ServeHTTP writes the current metrics in the negotiated exposition format.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	format := expfmt.Negotiate(req.Header)
	w.Header().Set("Content-Type", string(format))

	enc := expfmt.NewEncoder(w, format)
	for _, mf := range r.Gather() {
		if err := enc.Encode(mf); err != nil {
			slog.Error("metrics: encode failed", "family", mf.GetName(), "err", err)
			return
		}
	}
	if closer, ok := enc.(expfmt.Closer); ok {
		if err := closer.Close(); err != nil {
			slog.Error("metrics: close encoder failed", "err", err)
		}
	}
}

func (r *Registry) scoreHistogram() *dto.MetricFamily {
	buckets := make([]*dto.Bucket, len(scoreBuckets))
	var cumulative uint64
	for i, ub := range scoreBuckets {
		cumulative += r.scoreBuckets[i]
		buckets[i] = &dto.Bucket{
			UpperBound:      proto.Float64(ub),
			CumulativeCount: proto.Uint64(cumulative),
		}
	}
	return &dto.MetricFamily{
		Name: proto.String(NameScore),
		Help: proto.String("Distribution of rounded overall wellness scores."),
		Type: dto.MetricType_HISTOGRAM.Enum(),
		Metric: []*dto.Metric{{
			Histogram: &dto.Histogram{
				SampleCount: proto.Uint64(r.scoreCount),
				SampleSum:   proto.Float64(r.scoreSum),
				Bucket:      buckets,
			},
		}},
	}
}

// labelledCounter builds a counter family with one series per map key,
// ordered by label value so output is stable.
func labelledCounter(name, help, label string, values map[string]uint64) *dto.MetricFamily {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	metrics := make([]*dto.Metric, 0, len(keys))
	for _, k := range keys {
		metrics = append(metrics, &dto.Metric{
			Label:   []*dto.LabelPair{{Name: proto.String(label), Value: proto.String(k)}},
			Counter: &dto.Counter{Value: proto.Float64(float64(values[k]))},
		})
	}
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: metrics,
	}
}
