// Package history accumulates per-round loss and metric values emitted by
// a coordinated computation and renders them as a text or structured
// report. It is a plain in-process accumulator: append order is the only
// ordering guarantee, values are never validated, reduced or overwritten,
// and callers serialize access themselves.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Section names used as headers in the text report and as keys in the
// structured report.
const (
	SectionLossDistributed    = "History (loss, distributed)"
	SectionLossCentralized    = "History (loss, centralized)"
	SectionMetricsFit         = "History (metrics, distributed, fit)"
	SectionMetricsDistributed = "History (metrics, distributed, evaluate)"
	SectionMetricsCentralized = "History (metrics, centralized)"
)

var ErrEmptySeries = errors.New("cannot collapse an empty series")

// LossEntry is one recorded loss for one round.
type LossEntry struct {
	Round int     `json:"round"`
	Loss  float64 `json:"loss"`
}

// MetricEntry is one recorded metric value for one round.
type MetricEntry struct {
	Round int
	Value Scalar
}

// MarshalJSON renders the entry as a [round, value] pair, the shape used
// by the text report's metric dump.
func (e MetricEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Round, e.Value})
}

// History is the round ledger: two loss series and three metric tables,
// all append-only. Use New to create one per coordinating session.
type History struct {
	lossesDistributed     []LossEntry
	lossesCentralized     []LossEntry
	metricsDistributedFit map[string][]MetricEntry
	metricsDistributed    map[string][]MetricEntry
	metricsCentralized    map[string][]MetricEntry
}

func New() *History {
	return &History{
		metricsDistributedFit: make(map[string][]MetricEntry),
		metricsDistributed:    make(map[string][]MetricEntry),
		metricsCentralized:    make(map[string][]MetricEntry),
	}
}

// AddDistributedLoss appends one loss entry from distributed evaluation.
func (h *History) AddDistributedLoss(round int, loss float64) {
	h.lossesDistributed = append(h.lossesDistributed, LossEntry{Round: round, Loss: loss})
}

// AddCentralizedLoss appends one loss entry from centralized evaluation.
func (h *History) AddCentralizedLoss(round int, loss float64) {
	h.lossesCentralized = append(h.lossesCentralized, LossEntry{Round: round, Loss: loss})
}

// AddDistributedFitMetrics appends metric entries from distributed fit.
// Series are created lazily on first use of a metric name.
func (h *History) AddDistributedFitMetrics(round int, metrics map[string]Scalar) {
	appendMetrics(h.metricsDistributedFit, round, metrics)
}

// AddDistributedEvalMetrics appends metric entries from distributed
// evaluation.
func (h *History) AddDistributedEvalMetrics(round int, metrics map[string]Scalar) {
	appendMetrics(h.metricsDistributed, round, metrics)
}

// AddCentralizedMetrics appends metric entries from centralized evaluation.
func (h *History) AddCentralizedMetrics(round int, metrics map[string]Scalar) {
	appendMetrics(h.metricsCentralized, round, metrics)
}

func appendMetrics(table map[string][]MetricEntry, round int, metrics map[string]Scalar) {
	for key, value := range metrics {
		table[key] = append(table[key], MetricEntry{Round: round, Value: value})
	}
}

// DistributedLosses returns a copy of the distributed loss series in
// insertion order.
func (h *History) DistributedLosses() []LossEntry {
	return append([]LossEntry(nil), h.lossesDistributed...)
}

// CentralizedLosses returns a copy of the centralized loss series in
// insertion order.
func (h *History) CentralizedLosses() []LossEntry {
	return append([]LossEntry(nil), h.lossesCentralized...)
}

// DistributedFitMetrics returns a copy of the distributed-fit metric table.
func (h *History) DistributedFitMetrics() map[string][]MetricEntry {
	return copyTable(h.metricsDistributedFit)
}

// DistributedEvalMetrics returns a copy of the distributed-evaluate metric
// table.
func (h *History) DistributedEvalMetrics() map[string][]MetricEntry {
	return copyTable(h.metricsDistributed)
}

// CentralizedMetrics returns a copy of the centralized metric table.
func (h *History) CentralizedMetrics() map[string][]MetricEntry {
	return copyTable(h.metricsCentralized)
}

func copyTable(table map[string][]MetricEntry) map[string][]MetricEntry {
	out := make(map[string][]MetricEntry, len(table))
	for key, series := range table {
		out[key] = append([]MetricEntry(nil), series...)
	}

	return out
}

// Size returns the total number of stored entries across all series.
func (h *History) Size() uint64 {
	n := uint64(len(h.lossesDistributed) + len(h.lossesCentralized))
	for _, table := range []map[string][]MetricEntry{h.metricsDistributedFit, h.metricsDistributed, h.metricsCentralized} {
		for _, series := range table {
			n += uint64(len(series))
		}
	}

	return n
}

// String renders the text report: for each non-empty section, in fixed
// order, a header line followed by per-round loss lines or an indented
// dump of the metric table. An empty ledger renders as an empty string.
func (h *History) String() string {
	var b strings.Builder

	writeLossSection(&b, SectionLossDistributed, h.lossesDistributed)
	writeLossSection(&b, SectionLossCentralized, h.lossesCentralized)

	if len(h.metricsDistributedFit) > 0 {
		b.WriteString(SectionMetricsFit + ":\n")
		b.WriteString(dumpTable(h.metricsDistributedFit))
		b.WriteString("\n")
	}
	if len(h.metricsDistributed) > 0 {
		b.WriteString(SectionMetricsDistributed + ":\n")
		b.WriteString(dumpTable(h.metricsDistributed))
		b.WriteString("\n")
	}
	if len(h.metricsCentralized) > 0 {
		b.WriteString(SectionMetricsCentralized + ":\n")
		b.WriteString(dumpTable(h.metricsCentralized))
	}

	return b.String()
}

func writeLossSection(b *strings.Builder, header string, losses []LossEntry) {
	if len(losses) == 0 {
		return
	}

	b.WriteString(header + ":\n")
	for _, e := range losses {
		b.WriteString("\tround " + strconv.Itoa(e.Round) + ": " + strconv.FormatFloat(e.Loss, 'g', -1, 64) + "\n")
	}
}

// dumpTable renders a metric table as indented JSON with sorted keys, each
// series entry as a [round, value] pair.
func dumpTable(table map[string][]MetricEntry) string {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		// Non-finite floats are not representable in JSON.
		keys := make([]string, 0, len(table))
		for key := range table {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		var b strings.Builder
		for _, key := range keys {
			fmt.Fprintf(&b, "%s: %v\n", key, table[key])
		}

		return b.String()
	}

	return string(data)
}

// Trajectory is the round-collapsed view of one series: the stored values
// in insertion order with round indices stripped, and the round-0 baseline
// split out as Start when the series begins at round 0.
type Trajectory struct {
	Start  any   `json:"start,omitempty"`
	Rounds []any `json:"rounds"`
}

// Collapse applies the round-collapsing transform to a metric series. The
// series must be non-empty and hold numeric values (int, float or float
// sequence); anything else fails with ErrEmptySeries or ErrNonNumericValue.
func Collapse(series []MetricEntry) (Trajectory, error) {
	if len(series) == 0 {
		return Trajectory{}, ErrEmptySeries
	}

	values := make([]any, len(series))
	for i, e := range series {
		v, err := e.Value.numeric()
		if err != nil {
			return Trajectory{}, fmt.Errorf("entry at round %d: %w", e.Round, err)
		}
		values[i] = v
	}

	t := Trajectory{}
	if series[0].Round == 0 {
		t.Start = values[0]
		values = values[1:]
	}
	t.Rounds = values

	return t, nil
}

// CollapseLosses applies the round-collapsing transform to a loss series.
func CollapseLosses(series []LossEntry) (Trajectory, error) {
	if len(series) == 0 {
		return Trajectory{}, ErrEmptySeries
	}

	entries := make([]MetricEntry, len(series))
	for i, e := range series {
		entries[i] = MetricEntry{Round: e.Round, Value: Float(e.Loss)}
	}

	return Collapse(entries)
}

// StructuredReport produces the serializable report: a mapping from section
// name to the round-collapsed form of that section, with empty sections
// omitted. It fails when a metric series holds values the round-collapsing
// transform cannot render.
func (h *History) StructuredReport() (map[string]any, error) {
	rep := make(map[string]any)

	if len(h.lossesDistributed) > 0 {
		t, err := CollapseLosses(h.lossesDistributed)
		if err != nil {
			return nil, err
		}
		rep[SectionLossDistributed] = t
	}
	if len(h.lossesCentralized) > 0 {
		t, err := CollapseLosses(h.lossesCentralized)
		if err != nil {
			return nil, err
		}
		rep[SectionLossCentralized] = t
	}

	tables := []struct {
		section string
		table   map[string][]MetricEntry
	}{
		{SectionMetricsFit, h.metricsDistributedFit},
		{SectionMetricsDistributed, h.metricsDistributed},
		{SectionMetricsCentralized, h.metricsCentralized},
	}
	for _, tb := range tables {
		if len(tb.table) == 0 {
			continue
		}
		collapsed := make(map[string]Trajectory, len(tb.table))
		for key, series := range tb.table {
			t, err := Collapse(series)
			if err != nil {
				return nil, fmt.Errorf("%s, metric %q: %w", tb.section, key, err)
			}
			collapsed[key] = t
		}
		rep[tb.section] = collapsed
	}

	return rep, nil
}
