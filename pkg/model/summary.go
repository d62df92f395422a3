// Per-window summary rows and the secondary-cluster significance filter.

package model

import (
	"sort"
	"strings"
)

// ClusterSlot is one fixed position in a window's summary row. Terms
// are joined with "; " for display. Nil means the slot is empty, either
// because DAVID returned fewer clusters or the filter removed it.
type ClusterSlot struct {
	Score  *float64
	Pvalue *float64
	Terms  string
	Size   *int
}

// WindowSummary is one row of the output table: a window label plus a
// fixed number of cluster slots.
type WindowSummary struct {
	Window string
	Slots  []ClusterSlot
}

// SummaryTable accumulates one WindowSummary per processed window, in
// window-generation order.
type SummaryTable struct {
	threshold float64
	rows      []WindowSummary
}

func NewSummaryTable(pvalThreshold float64) *SummaryTable {
	return &SummaryTable{threshold: pvalThreshold}
}

// FilterClusters nulls out every secondary cluster (slot index >= 1)
// whose representative p-value is missing or above threshold. The
// primary cluster is always kept: the best cluster is reported no
// matter what, secondary clusters only when independently significant.
func FilterClusters(clusters []ClusterRecord, threshold float64) []ClusterRecord {
	for i := 1; i < len(clusters); i++ {
		p := clusters[i].Pvalue
		if p == nil || *p > threshold {
			clusters[i] = ClusterRecord{}
		}
	}
	return clusters
}

// Append filters the parsed clusters and records the summary row for
// one window. Rows keep their insertion (genome) order.
func (t *SummaryTable) Append(windowLabel string, clusters []ClusterRecord) {

	clusters = FilterClusters(clusters, t.threshold)

	row := WindowSummary{
		Window: windowLabel,
		Slots:  make([]ClusterSlot, len(clusters)),
	}

	for i, c := range clusters {
		row.Slots[i] = ClusterSlot{
			Score:  c.Score,
			Pvalue: c.Pvalue,
			Terms:  strings.Join(c.Terms, "; "),
			Size:   c.Size,
		}
	}

	t.rows = append(t.rows, row)
}

// Rows returns every summary row in genome order.
func (t *SummaryTable) Rows() []WindowSummary {
	return t.rows
}

// Filtered returns the rows that carry at least one p-value, sorted by
// primary-cluster score descending. Windows whose score is nil sort
// last; ties keep genome order.
func (t *SummaryTable) Filtered() []WindowSummary {

	var out []WindowSummary
	for _, row := range t.rows {
		if hasAnyPvalue(row) {
			out = append(out, row)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := primaryScore(out[i]), primaryScore(out[j])
		if si == nil {
			return false
		}
		if sj == nil {
			return true
		}
		return *si > *sj
	})

	return out
}

func hasAnyPvalue(row WindowSummary) bool {
	for _, s := range row.Slots {
		if s.Pvalue != nil {
			return true
		}
	}
	return false
}

func primaryScore(row WindowSummary) *float64 {
	if len(row.Slots) == 0 {
		return nil
	}
	return row.Slots[0].Score
}
