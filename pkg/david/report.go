// Tab-delimited report artifact, one file per window. This is the
// durable record of what DAVID returned: parsing can be re-run against
// these files without touching the service again.

package david

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

var reportHeader = []string{
	"Category", "Term", "Count", "%", "Pvalue", "Genes", "List Total",
	"Pop Hits", "Pop Total", "Fold Enrichment", "Bonferroni", "Benjamini", "FDR",
}

// SaveReport writes the report to path. A nil or empty report is
// persisted as the literal "No clusters returned." marker so the
// parser can tell "nothing returned" apart from "file missing".
func SaveReport(report *TermClusterReport, path string) error {

	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	defer fh.Close()

	w := bufio.NewWriter(fh)
	if err := WriteReport(w, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	return nil
}

// WriteReport renders the report blocks: a cluster header line with the
// enrichment score, the column header, then one row per chart record.
func WriteReport(w io.Writer, report *TermClusterReport) error {

	if report == nil || len(report.Clusters) == 0 {
		_, err := io.WriteString(w, "No clusters returned.\n")
		return err
	}

	for i, cluster := range report.Clusters {
		fmt.Fprintf(w, "Annotation Cluster %d\tEnrichmentScore:%s\n",
			i+1, strconv.FormatFloat(cluster.Score, 'g', -1, 64))

		for j, col := range reportHeader {
			if j > 0 {
				io.WriteString(w, "\t")
			}
			io.WriteString(w, col)
		}
		io.WriteString(w, "\n")

		for _, rec := range cluster.Records {
			_, err := fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
				rec.CategoryName,
				rec.TermName,
				rec.ListHits,
				formatFloat(rec.Percent),
				formatFloat(rec.Ease),
				rec.GeneIds,
				rec.ListTotals,
				rec.PopHits,
				rec.PopTotals,
				formatFloat(rec.FoldEnrichment),
				formatFloat(rec.Bonferroni),
				formatFloat(rec.Benjamini),
				formatFloat(rec.AFDR),
			)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
