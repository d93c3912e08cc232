package metrics

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// All tracked metrics are to be added here.
// UnitType of the metric i.e. Incr / Count / Latency must be prefixed with each metric name.
const (
	IncrTopKRuns          = "topk_runs"
	IncrExactFallback     = "topk_exact_fallback"
	IncrBudgetStop        = "topk_budget_stop"
	IncrExactCacheHit     = "exact_cache_hit"
	IncrExactCacheMiss    = "exact_cache_miss"
	CountTopKSamples      = "topk_samples"
	CountTopKPrecision    = "topk_precision"
	LatencyTopK           = "topk_latency"
	LatencyDatasetLoading = "dataset_loading_latency"
)

var (
	// The task latency in milliseconds.
	latencyStats    = stats.Float64("task_latency", "The task latency in milliseconds", stats.UnitMilliseconds)
	guageStatsInt   = stats.Int64("int_counter", "Integer counter", stats.UnitDimensionless)
	guageStatsFloat = stats.Float64("float_counter", "Float counter", stats.UnitDimensionless)
)

var (
	// MetricNameTag Label for the metric to be updated. To be used in filter.
	MetricNameTag, _ = tag.NewKey("metric_name")
	// AlgorithmTag Label for the top-k algorithm that produced the value.
	AlgorithmTag, _ = tag.NewKey("algorithm")
)

var (
	latencyView = &view.View{
		Name:        "latency_view",
		Measure:     latencyStats,
		Description: "The distribution of the task latencies",
		// [>=0ms, >=10ms, >=100ms, >=1s, >=10s, >=1m]
		Aggregation: view.Distribution(0, 10, 100, 1000, 10000, 60000),
		TagKeys:     []tag.Key{MetricNameTag, AlgorithmTag},
	}

	countIntView = &view.View{
		Measure:     guageStatsInt,
		Name:        "count_int_view",
		Description: "Count int view",
		Aggregation: view.Sum(),
		TagKeys:     []tag.Key{MetricNameTag, AlgorithmTag},
	}

	countFloatView = &view.View{
		Measure:     guageStatsFloat,
		Name:        "count_float_view",
		Description: "Count float view",
		Aggregation: view.LastValue(),
		TagKeys:     []tag.Key{MetricNameTag, AlgorithmTag},
	}
)

var registerOnce sync.Once
var registerErr error

// RegisterViews registers every view once per process.
func RegisterViews() error {
	registerOnce.Do(func() {
		registerErr = view.Register(latencyView, countIntView, countFloatView)
	})
	return registerErr
}

// LogExporter writes every exported view row to the logger.
type LogExporter struct{}

func (e *LogExporter) ExportView(vd *view.Data) {
	for _, row := range vd.Rows {
		fields := log.Fields{"view": vd.View.Name, "start": vd.Start, "end": vd.End}
		for _, t := range row.Tags {
			fields[t.Key.Name()] = t.Value
		}
		switch data := row.Data.(type) {
		case *view.SumData:
			fields["sum"] = data.Value
		case *view.LastValueData:
			fields["last"] = data.Value
		case *view.DistributionData:
			fields["count"] = data.Count
			fields["mean"] = data.Mean
			fields["max"] = data.Max
		case *view.CountData:
			fields["count"] = data.Value
		}
		log.WithFields(fields).Info("Metric")
	}
}

// InitMetrics Initializes metrics exporter to collect metrics.
func InitMetrics(env string, reportingPeriod time.Duration) *LogExporter {
	if env == "development" {
		return nil
	}
	logCtx := log.WithField("Tag", "Metrics")
	logCtx.Info("Initializing metrics exporter ...")

	if err := RegisterViews(); err != nil {
		logCtx.WithError(err).Error("Failed to register the view")
		return nil
	}

	exporter := &LogExporter{}
	view.RegisterExporter(exporter)
	view.SetReportingPeriod(reportingPeriod)
	return exporter
}

// Flush Unregisters the exporter after pushing the current view data to it.
func Flush(exporter *LogExporter) {
	if exporter == nil {
		return
	}
	for _, v := range []*view.View{latencyView, countIntView, countFloatView} {
		rows, err := view.RetrieveData(v.Name)
		if err != nil {
			continue
		}
		exporter.ExportView(&view.Data{View: v, Rows: rows, End: time.Now()})
	}
	view.UnregisterExporter(exporter)
}

func newContext(metricName, algorithm string) (context.Context, error) {
	mutators := []tag.Mutator{tag.Upsert(MetricNameTag, metricName)}
	if algorithm != "" {
		mutators = append(mutators, tag.Upsert(AlgorithmTag, algorithm))
	}
	return tag.New(context.Background(), mutators...)
}

// Increment Increment the given metric by 1.
func Increment(metricName string) {
	CountInt(metricName, "", int64(1))
}

// CountInt Reports the count value for given int Metric.
func CountInt(metricName, algorithm string, count int64) {
	ctx, err := newContext(metricName, algorithm)
	if err != nil {
		log.WithError(err).Error("Failed to record CountInt")
		return
	}
	stats.Record(ctx, guageStatsInt.M(count))
}

// CountFloat Reports the latest value for given float Metric.
func CountFloat(metricName, algorithm string, count float64) {
	ctx, err := newContext(metricName, algorithm)
	if err != nil {
		log.WithError(err).Error("Failed to record CountFloat")
		return
	}
	stats.Record(ctx, guageStatsFloat.M(count))
}

// RecordLatency Records latency as a metric in 'ms'.
func RecordLatency(metricName, algorithm string, latency float64) {
	ctx, err := newContext(metricName, algorithm)
	if err != nil {
		log.WithError(err).Error("Failed to record Latency")
		return
	}
	stats.Record(ctx, latencyStats.M(latency))
}
