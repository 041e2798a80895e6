// Package render produces the catalog artifacts: a CSV dataset and a
// static searchable HTML page. It consumes a snapshot by value and never
// reaches back into the pipeline.
package render

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/adrianwedd/squishmallowdex/internal/domain"
)

// csvHeader is the stable column order of the CSV dataset.
var csvHeader = []string{
	"id",
	"name",
	"type",
	"color",
	"squad",
	"sizes",
	"collector_number",
	"year",
	"bio",
	"image_url",
	"url",
	"scraped_at",
}

// WriteCSV writes the snapshot as a spreadsheet-friendly CSV. Unknown
// numeric fields render as empty cells.
func WriteCSV(path string, records domain.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create csv file %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.Name,
			r.Type,
			r.Color,
			r.Squad,
			strings.Join(r.Sizes, "; "),
			numericCell(r.CollectorNumber),
			numericCell(r.Year),
			r.Bio,
			r.ImageURL,
			r.URL,
			r.ScrapedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flush csv")
	}

	return nil
}

func numericCell(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
