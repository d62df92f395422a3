// Bar charts along the genome: primary-cluster enrichment score and
// -log10 of its p-value, one bar per window.

package render

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/yumyai/davidscan/pkg/model"
)

// WriteCharts renders both per-window charts into outdir.
func WriteCharts(table *model.SummaryTable, outdir string) error {

	rows := table.Rows()

	labels := make([]string, len(rows))
	scores := make(plotter.Values, len(rows))
	neglogs := make(plotter.Values, len(rows))

	for i, row := range rows {
		labels[i] = row.Window
		if len(row.Slots) == 0 {
			continue
		}
		if s := row.Slots[0].Score; s != nil {
			scores[i] = *s
		}
		if p := row.Slots[0].Pvalue; p != nil && *p > 0 {
			neglogs[i] = -math.Log10(*p)
		}
	}

	err := writeBarChart(labels, scores,
		"Cluster 1 Enrichment Scores along Genome",
		"Enrichment Score (Cluster 1)",
		filepath.Join(outdir, "enrichment_scores_cluster1.png"))
	if err != nil {
		return err
	}

	return writeBarChart(labels, neglogs,
		"-log10(Pvalue) Cluster 1 along Genome",
		"-log10(Pvalue) Cluster 1",
		filepath.Join(outdir, "neglog10_pval_cluster1.png"))
}

func writeBarChart(labels []string, values plotter.Values, title, ylabel, path string) error {

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Window"
	p.Y.Label.Text = ylabel

	bars, err := plotter.NewBarChart(values, vg.Points(8))
	if err != nil {
		return fmt.Errorf("chart %s: %w", path, err)
	}
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = -0.5
	p.X.Tick.Label.YAlign = -0.5
	p.X.Tick.Label.Font.Size = vg.Points(5)

	if err := p.Save(12*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("chart %s: %w", path, err)
	}

	return nil
}
