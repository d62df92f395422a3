// Package david talks to the DAVID functional-annotation web service
// and owns the on-disk format of the per-window cluster reports.
package david

// Service is the capability the scan loop needs from DAVID: submit one
// window's gene IDs under a list name and get the term-cluster report
// back. The production implementation is SOAPClient; tests use stubs.
type Service interface {
	Submit(ids []int, listName string) (*TermClusterReport, error)
}

// TermClusterReport is DAVID's answer for one gene list.
type TermClusterReport struct {
	Clusters []Cluster
}

// Cluster is one annotation cluster with its enrichment score and the
// chart records of its member terms.
type Cluster struct {
	Name    string
	Score   float64
	Records []ChartRecord
}

// ChartRecord mirrors DAVID's simpleChartRecords schema, in the column
// order of the saved report.
type ChartRecord struct {
	CategoryName   string
	TermName       string
	ListHits       int
	Percent        float64
	Ease           float64 // the EASE p-value
	GeneIds        string
	ListTotals     int
	PopHits        int
	PopTotals      int
	FoldEnrichment float64
	Bonferroni     float64
	Benjamini      float64
	AFDR           float64
}
