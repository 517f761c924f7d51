package metrics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"housing_recommender/internal/lib/logger/sl"
)

// Operation — публичная операция рекомендательного движка.
type Operation string

const (
	OpRecommend Operation = "recommend"
	OpTrending  Operation = "trending"
	OpSimilar   Operation = "similar"
	OpProfile   Operation = "profile"
)

// Operations — все операции в порядке вывода статистики.
var Operations = []Operation{OpRecommend, OpTrending, OpSimilar, OpProfile}

type opCounters struct {
	callsTotal     atomic.Int64
	errorsTotal    atomic.Int64
	emptyTotal     atomic.Int64
	resultsTotal   atomic.Int64
	latencyTotalMs atomic.Int64
	lastLatencyMs  atomic.Int64
}

// RecommendMetrics — метрики вызовов движка (in-process статистика + Prometheus).
type RecommendMetrics struct {
	log *slog.Logger
	ops map[Operation]*opCounters
}

var (
	globalMetrics *RecommendMetrics
	metricsOnce   sync.Once
)

// GetRecommendMetrics возвращает глобальный экземпляр метрик.
func GetRecommendMetrics(log *slog.Logger) *RecommendMetrics {
	metricsOnce.Do(func() {
		globalMetrics = newRecommendMetrics(log)
	})
	return globalMetrics
}

func newRecommendMetrics(log *slog.Logger) *RecommendMetrics {
	ops := make(map[Operation]*opCounters, len(Operations))
	for _, op := range Operations {
		ops[op] = &opCounters{}
	}
	return &RecommendMetrics{log: log, ops: ops}
}

// RecordCall записывает один вызов операции.
func (m *RecommendMetrics) RecordCall(op Operation, latency time.Duration, err error, resultCount int) {
	if m == nil {
		return
	}
	c, ok := m.ops[op]
	if !ok {
		return
	}

	latencyMs := latency.Milliseconds()
	c.callsTotal.Add(1)
	c.latencyTotalMs.Add(latencyMs)
	c.lastLatencyMs.Store(latencyMs)
	c.resultsTotal.Add(int64(resultCount))

	outcome := outcomeOK
	switch {
	case err != nil:
		c.errorsTotal.Add(1)
		outcome = outcomeError
	case resultCount == 0:
		c.emptyTotal.Add(1)
		outcome = outcomeEmpty
	}

	observe(op, outcome, latency, resultCount)

	if m.log != nil {
		attrs := []any{
			slog.String("operation", string(op)),
			slog.Int64("latency_ms", latencyMs),
			slog.Int("results", resultCount),
		}
		if err != nil {
			attrs = append(attrs, sl.Err(err))
		}
		m.log.Debug("recommendation call completed", attrs...)
	}
}

// CallTimer помогает измерять время вызовов.
type CallTimer struct {
	metrics   *RecommendMetrics
	op        Operation
	startTime time.Time
}

// StartTimer начинает измерение времени вызова. Безопасен для nil-метрик.
func (m *RecommendMetrics) StartTimer(op Operation) *CallTimer {
	return &CallTimer{
		metrics:   m,
		op:        op,
		startTime: time.Now(),
	}
}

// Stop останавливает таймер и записывает метрики.
func (t *CallTimer) Stop(err error, resultCount int) {
	t.metrics.RecordCall(t.op, time.Since(t.startTime), err, resultCount)
}

// Stats — текущая статистика по операциям.
type Stats struct {
	Recommend OperationStats `json:"recommend"`
	Trending  OperationStats `json:"trending"`
	Similar   OperationStats `json:"similar"`
	Profile   OperationStats `json:"profile"`
}

// OperationStats — статистика по одной операции.
type OperationStats struct {
	CallsTotal    int64   `json:"calls_total"`
	ErrorsTotal   int64   `json:"errors_total"`
	EmptyTotal    int64   `json:"empty_total"`
	ErrorRate     float64 `json:"error_rate"`
	AvgResults    float64 `json:"avg_results"`
	AvgLatencyMs  float64 `json:"avg_latency_ms"`
	LastLatencyMs int64   `json:"last_latency_ms"`
}

// GetStats возвращает текущую статистику.
func (m *RecommendMetrics) GetStats() Stats {
	return Stats{
		Recommend: m.getOperationStats(OpRecommend),
		Trending:  m.getOperationStats(OpTrending),
		Similar:   m.getOperationStats(OpSimilar),
		Profile:   m.getOperationStats(OpProfile),
	}
}

func (m *RecommendMetrics) getOperationStats(op Operation) OperationStats {
	if m == nil {
		return OperationStats{}
	}
	c, ok := m.ops[op]
	if !ok {
		return OperationStats{}
	}

	calls := c.callsTotal.Load()
	errs := c.errorsTotal.Load()

	var errorRate, avgLatency, avgResults float64
	if calls > 0 {
		errorRate = float64(errs) / float64(calls)
		avgLatency = float64(c.latencyTotalMs.Load()) / float64(calls)
		avgResults = float64(c.resultsTotal.Load()) / float64(calls)
	}

	return OperationStats{
		CallsTotal:    calls,
		ErrorsTotal:   errs,
		EmptyTotal:    c.emptyTotal.Load(),
		ErrorRate:     errorRate,
		AvgResults:    avgResults,
		AvgLatencyMs:  avgLatency,
		LastLatencyMs: c.lastLatencyMs.Load(),
	}
}

// Reset сбрасывает in-process статистику (Prometheus-счётчики не трогает).
func (m *RecommendMetrics) Reset() {
	if m == nil {
		return
	}
	for _, c := range m.ops {
		c.callsTotal.Store(0)
		c.errorsTotal.Store(0)
		c.emptyTotal.Store(0)
		c.resultsTotal.Store(0)
		c.latencyTotalMs.Store(0)
		c.lastLatencyMs.Store(0)
	}
}

// WrapWithMetrics оборачивает операцию, возвращающую срез, для автоматического сбора метрик.
func WrapWithMetrics[T any](
	ctx context.Context,
	m *RecommendMetrics,
	op Operation,
	fn func(ctx context.Context) ([]T, error),
) ([]T, error) {
	timer := m.StartTimer(op)
	result, err := fn(ctx)
	timer.Stop(err, len(result))
	return result, err
}
