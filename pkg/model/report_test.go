package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportColumns = "Category\tTerm\tCount\t%\tPvalue\tGenes\tList Total\tPop Hits\tPop Total\tFold Enrichment\tBonferroni\tBenjamini\tFDR"

// dataRow builds one 13-field chart record line.
func dataRow(term string, count, pval string) string {
	return strings.Join([]string{
		"GOTERM_BP_DIRECT", term, count, "12.0", pval, "945748, 945750",
		"180", "44", "4200", "5.1", "0.001", "0.002", "0.01",
	}, "\t")
}

func threeClusterReport() string {
	lines := []string{
		"Annotation Cluster 1\tEnrichmentScore:3.52",
		reportColumns,
		dataRow("GO:0006412~translation", "24", "1.2e-08"),
		dataRow("GO:0006414~translational elongation", "18", "4.5e-06"),
		dataRow("GO:0042254~ribosome biogenesis", "12", "0.0003"),
		dataRow("GO:0000028~ribosomal small subunit assembly", "6", "0.002"),
		"Annotation Cluster 2\tEnrichmentScore:1.75",
		reportColumns,
		dataRow("IPR000719:Protein kinase domain", "10", "0.05"),
		"Annotation Cluster 3\tEnrichmentScore:0.4",
		reportColumns,
		dataRow("flagellum", "not_a_count", "bad_pval"),
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestParseReportThreeClusters(t *testing.T) {

	clusters := ParseReport(strings.NewReader(threeClusterReport()), 3)
	require.Len(t, clusters, 3)

	c1 := clusters[0]
	require.NotNil(t, c1.Score)
	assert.InDelta(t, 3.52, *c1.Score, 1e-9)
	require.NotNil(t, c1.Pvalue)
	assert.InDelta(t, 1.2e-08, *c1.Pvalue, 1e-15)
	require.NotNil(t, c1.Size)
	assert.Equal(t, 24, *c1.Size)
	// Term cap: four rows in the report, three kept. Stripping removes
	// everything up to the first ':' or '~', so GO terms keep their
	// numeric accession, same as the report consumers expect.
	assert.Equal(t, []string{
		"0006412~translation",
		"0006414~translational elongation",
		"0042254~ribosome biogenesis",
	}, c1.Terms)

	c2 := clusters[1]
	require.NotNil(t, c2.Score)
	assert.InDelta(t, 1.75, *c2.Score, 1e-9)
	require.NotNil(t, c2.Pvalue)
	assert.InDelta(t, 0.05, *c2.Pvalue, 1e-9)
	assert.Equal(t, []string{"Protein kinase domain"}, c2.Terms)

	// Cluster 3 has a score but unparsable p-value and count.
	c3 := clusters[2]
	require.NotNil(t, c3.Score)
	assert.InDelta(t, 0.4, *c3.Score, 1e-9)
	assert.Nil(t, c3.Pvalue)
	assert.Nil(t, c3.Size)
	assert.Equal(t, []string{"flagellum"}, c3.Terms)
}

func TestParseReportPadding(t *testing.T) {

	report := strings.Join([]string{
		"Annotation Cluster 1\tEnrichmentScore:2.0",
		reportColumns,
		dataRow("GO:0009405~pathogenesis", "8", "0.004"),
	}, "\n")

	clusters := ParseReport(strings.NewReader(report), 3)
	require.Len(t, clusters, 3)

	assert.NotNil(t, clusters[0].Score)
	for _, c := range clusters[1:] {
		assert.Nil(t, c.Score)
		assert.Nil(t, c.Pvalue)
		assert.Nil(t, c.Size)
		assert.Empty(t, c.Terms)
	}
}

func TestParseReportTruncation(t *testing.T) {

	clusters := ParseReport(strings.NewReader(threeClusterReport()), 2)
	require.Len(t, clusters, 2)
	assert.InDelta(t, 3.52, *clusters[0].Score, 1e-9)
	assert.InDelta(t, 1.75, *clusters[1].Score, 1e-9)
}

func TestParseReportNoClusters(t *testing.T) {

	clusters := ParseReport(strings.NewReader("No clusters returned.\n"), 3)
	require.Len(t, clusters, 3)
	for _, c := range clusters {
		assert.Nil(t, c.Score)
		assert.Nil(t, c.Pvalue)
		assert.Nil(t, c.Size)
		assert.Empty(t, c.Terms)
	}
}

func TestParseReportUnparsableScore(t *testing.T) {

	report := strings.Join([]string{
		"Annotation Cluster 1\tEnrichmentScore:None",
		reportColumns,
		dataRow("GO:0006412~translation", "24", "1e-05"),
	}, "\n")

	clusters := ParseReport(strings.NewReader(report), 1)
	require.Len(t, clusters, 1)
	assert.Nil(t, clusters[0].Score)
	require.NotNil(t, clusters[0].Pvalue)
	assert.InDelta(t, 1e-05, *clusters[0].Pvalue, 1e-12)
}

func TestParseReportShortRowsIgnored(t *testing.T) {

	report := strings.Join([]string{
		"Annotation Cluster 1\tEnrichmentScore:1.0",
		reportColumns,
		"only\tthree\tfields",
		dataRow("GO:0006810~transport", "5", "0.01"),
	}, "\n")

	clusters := ParseReport(strings.NewReader(report), 1)
	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"0006810~transport"}, clusters[0].Terms)
	require.NotNil(t, clusters[0].Pvalue)
	assert.InDelta(t, 0.01, *clusters[0].Pvalue, 1e-9)
}

func TestStripCategoryPrefix(t *testing.T) {

	tests := []struct {
		in   string
		want string
	}{
		{"GO:0006412~translation", "0006412~translation"},
		{"IPR000719:Protein kinase domain", "Protein kinase domain"},
		{"hsa04010~MAPK signaling pathway", "MAPK signaling pathway"},
		{"plain term", "plain term"},
	}

	for _, tt := range tests {
		if got := stripCategoryPrefix(tt.in); got != tt.want {
			t.Errorf("stripCategoryPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseReportFileMissing(t *testing.T) {

	clusters := ParseReportFile(filepath.Join(t.TempDir(), "absent.txt"), 3)
	require.Len(t, clusters, 3)
	for _, c := range clusters {
		assert.Nil(t, c.Score)
	}
}

func TestParseReportFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "1to101_fullReport.txt")
	require.NoError(t, os.WriteFile(path, []byte(threeClusterReport()), 0o644))

	clusters := ParseReportFile(path, 3)
	require.Len(t, clusters, 3)
	require.NotNil(t, clusters[0].Score)
	assert.Equal(t, fmt.Sprintf("%.2f", 3.52), fmt.Sprintf("%.2f", *clusters[0].Score))
}
