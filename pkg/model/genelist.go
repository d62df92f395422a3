package model

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yumyai/davidscan/logger"
	"go.uber.org/zap"
)

// LoadGeneList reads genome-ordered Entrez Gene IDs, one per line.
// Blank lines and '#' comments are skipped. DAVID only accepts numeric
// Entrez IDs, so non-numeric entries are dropped with a warning instead
// of failing the whole run. Order is genome position and is preserved.
func LoadGeneList(path string) ([]int, error) {

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene list: %w", err)
	}
	defer fh.Close()

	var genes []int
	dropped := 0

	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, convErr := strconv.Atoi(line)
		if convErr != nil {
			dropped++
			continue
		}
		genes = append(genes, id)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read gene list: %w", err)
	}

	if dropped > 0 {
		logger.Warn("Dropped non-numeric IDs, DAVID expects ENTREZ_GENE_ID",
			zap.Int("dropped", dropped), zap.String("file", path))
	}

	if len(genes) == 0 {
		return nil, fmt.Errorf("no valid numeric gene IDs in %s", path)
	}

	return genes, nil
}
