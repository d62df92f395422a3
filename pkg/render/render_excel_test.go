package render

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yumyai/davidscan/pkg/model"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func sampleTable() *model.SummaryTable {

	table := model.NewSummaryTable(0.01)

	table.Append("1-101", []model.ClusterRecord{
		{Score: fptr(3.1), Pvalue: fptr(1e-4), Terms: []string{"translation"}, Size: iptr(24)},
		{Score: fptr(1.5), Pvalue: fptr(0.5), Terms: []string{"transport"}, Size: iptr(9)},
		{},
	})
	table.Append("26-126", []model.ClusterRecord{{}, {}, {}})
	table.Append("51-151", []model.ClusterRecord{
		{Score: fptr(7.4), Pvalue: fptr(1e-6), Terms: []string{"ribosome"}, Size: iptr(31)},
		{},
		{},
	})

	return table
}

func TestWriteWorkbook(t *testing.T) {

	path := filepath.Join(t.TempDir(), "LT2_DAVID_enrichment_2026-08-29.xlsx")
	table := sampleTable()

	require.NoError(t, WriteWorkbook(table, 0.01, 3, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "All Results")
	assert.Contains(t, sheets, "Filtered (P<0.01)")

	// All Results keeps genome order and every window.
	v, err := f.GetCellValue("All Results", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1-101", v)

	v, err = f.GetCellValue("All Results", "A3")
	require.NoError(t, err)
	assert.Equal(t, "26-126", v)

	// Secondary cluster at p=0.5 was filtered on append: empty cell.
	v, err = f.GetCellValue("All Results", "F2")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	// Filtered sheet drops the empty window and sorts by score.
	v, err = f.GetCellValue("Filtered (P<0.01)", "A2")
	require.NoError(t, err)
	assert.Equal(t, "51-151", v)

	v, err = f.GetCellValue("Filtered (P<0.01)", "A3")
	require.NoError(t, err)
	assert.Equal(t, "1-101", v)

	v, err = f.GetCellValue("Filtered (P<0.01)", "A4")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestWriteCharts(t *testing.T) {

	outdir := t.TempDir()

	require.NoError(t, WriteCharts(sampleTable(), outdir))

	for _, name := range []string{"enrichment_scores_cluster1.png", "neglog10_pval_cluster1.png"} {
		assert.FileExists(t, filepath.Join(outdir, name))
	}
}
