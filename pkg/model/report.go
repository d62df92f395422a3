// Parser for the tab-delimited term-cluster reports saved per window.
//
// The report repeats blocks of the form:
//
//	Annotation Cluster 1	EnrichmentScore:3.52
//	Category	Term	Count	%	Pvalue	...	FDR
//	GOTERM_BP_DIRECT	GO:0006412~translation	24	12.0	1.2e-08	...
//
// or contains the single line "No clusters returned." when DAVID gave
// us nothing for that window.

package model

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ClusterRecord is one parsed annotation cluster. Nil fields mean the
// report did not contain a usable value; they are kept nil all the way
// into the output so every window row has the same shape.
type ClusterRecord struct {
	Score  *float64
	Pvalue *float64 // p-value of the cluster's first (representative) term
	Terms  []string // up to 3 terms, category prefix stripped
	Size   *int     // gene count of the representative term
}

// maxTermsPerCluster caps how many term names are kept per cluster in
// the summary. More than a few makes the spreadsheet unreadable.
const maxTermsPerCluster = 3

// minReportFields is the column count of a full chart record row.
const minReportFields = 13

type parseState int

const (
	stateSeeking parseState = iota
	stateInClusterHeader
	stateInDataRows
)

var enrichScoreRe = regexp.MustCompile(`EnrichmentScore:([\-0-9\.eE]+)`)

// ParseReportFile parses a saved report artifact. A missing or
// unreadable file is treated the same as an empty report so that a
// partially failed run still yields one summary row per window.
func ParseReportFile(path string, maxClusters int) []ClusterRecord {

	fh, err := os.Open(path)
	if err != nil {
		return padClusters(nil, maxClusters)
	}
	defer fh.Close()

	return ParseReport(fh, maxClusters)
}

// ParseReport runs the cluster-report state machine over r and returns
// exactly maxClusters records, padding with empty records when DAVID
// returned fewer clusters.
func ParseReport(r io.Reader, maxClusters int) []ClusterRecord {

	var clusters []ClusterRecord
	var current *ClusterRecord

	state := stateSeeking

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := sc.Text()

		switch {
		case strings.HasPrefix(line, "No clusters returned."):
			return padClusters(nil, maxClusters)

		case strings.HasPrefix(line, "Annotation Cluster"):
			if current != nil {
				clusters = append(clusters, *current)
			}
			current = &ClusterRecord{Score: parseScore(line)}
			state = stateInClusterHeader

		case strings.HasPrefix(line, "Category\tTerm"):
			if state == stateInClusterHeader {
				state = stateInDataRows
			}

		case state == stateInDataRows && strings.TrimSpace(line) != "":
			addDataRow(current, line)
		}
	}

	if current != nil {
		clusters = append(clusters, *current)
	}

	return padClusters(clusters, maxClusters)
}

// parseScore pulls the enrichment score out of a cluster header line.
func parseScore(line string) *float64 {
	m := enrichScoreRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return parseFloat(m[1])
}

// addDataRow folds one chart-record line into the current cluster. The
// first row of a cluster is its representative term: its p-value and
// gene count become the cluster's Pvalue and Size.
func addDataRow(current *ClusterRecord, line string) {
	if current == nil {
		return
	}

	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) < minReportFields {
		return
	}

	if current.Pvalue == nil && len(current.Terms) == 0 {
		current.Pvalue = parseFloat(fields[4])
		current.Size = parseInt(fields[2])
	}

	if len(current.Terms) < maxTermsPerCluster {
		current.Terms = append(current.Terms, stripCategoryPrefix(fields[1]))
	}
}

// stripCategoryPrefix drops everything up to the first ':' or '~',
// e.g. "IPR000719:Protein kinase domain" -> "Protein kinase domain".
func stripCategoryPrefix(term string) string {
	if i := strings.IndexAny(term, "~:"); i >= 0 {
		return term[i+1:]
	}
	return term
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}

// padClusters truncates or pads the parsed clusters to exactly n slots.
// Fixed-width output keeps the summary schema identical across windows.
func padClusters(clusters []ClusterRecord, n int) []ClusterRecord {
	if n < 0 {
		n = 0
	}
	if len(clusters) > n {
		return clusters[:n]
	}
	for len(clusters) < n {
		clusters = append(clusters, ClusterRecord{})
	}
	return clusters
}
