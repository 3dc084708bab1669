package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/altamash-faraz/itemcatalog/internal/model"
)

// ErrNoItemsToExport is returned when an export is requested over an empty
// working set; nothing is written in that case.
var ErrNoItemsToExport = errors.New("no items to export")

// ExportHeader is the fixed CSV column order.
var ExportHeader = []string{"Name", "Description", "Category", "Price", "Created Date"}

// ExportDateFormat is the date layout used in rows and file names.
const ExportDateFormat = "2006-01-02"

// ExportCSV serializes the full working set as CSV into w. The export
// covers all loaded items, not just the filtered view, so a narrowed
// search never silently truncates an export. Free-text fields are quoted
// by the CSV encoder as needed.
func (c *Controller) ExportCSV(w io.Writer) error {
	items := c.Items()
	if len(items) == 0 {
		return ErrNoItemsToExport
	}

	return WriteCSV(w, items)
}

// WriteCSV writes the header row and one row per item.
func WriteCSV(w io.Writer, items []model.Item) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}

	for _, item := range items {
		row := []string{
			item.Name,
			item.Description,
			item.Category,
			strconv.FormatFloat(item.Price, 'f', 2, 64),
			item.CreatedAt.Format(ExportDateFormat),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing export row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}

	return nil
}

// ExportFileName returns the download file name for an export taken at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("catalog_export_%s.csv", now.Format(ExportDateFormat))
}
