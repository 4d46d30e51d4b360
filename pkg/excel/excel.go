// Package excel renders tabular data sources to spreadsheet and CSV
// downloads.
package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// DataSource supplies one table: a header row followed by data rows. Rows are
// expected in final presentation order; the exporters never reorder them.
type DataSource interface {
	SheetName() string
	Header() []string
	Rows() [][]string
}

// TableSource is a DataSource over pre-rendered rows.
type TableSource struct {
	Name    string
	Columns []string
	Data    [][]string
}

func (s TableSource) SheetName() string { return s.Name }
func (s TableSource) Header() []string  { return s.Columns }
func (s TableSource) Rows() [][]string  { return s.Data }

// WriteXLSX renders the data source to a single-sheet workbook with a bold,
// frozen header row.
func WriteXLSX(src DataSource) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := src.SheetName()
	if sheet == "" {
		sheet = "Sheet1"
	}
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, errors.Wrap(err, "create sheet")
	}
	f.SetActiveSheet(idx)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, errors.Wrap(err, "drop default sheet")
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "header style")
	}

	header := src.Header()
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return nil, errors.Wrap(err, "write header")
	}
	if len(header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return nil, errors.Wrap(err, "header range")
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return nil, errors.Wrap(err, "style header")
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, errors.Wrap(err, "freeze header")
	}

	for i, row := range src.Rows() {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		axis := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return nil, errors.Wrapf(err, "write row %d", i+2)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "serialize workbook")
	}
	return buf.Bytes(), nil
}

// utf8BOM makes Excel open the CSV with the right encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV renders the data source as UTF-8 CSV prefixed with a BOM.
func WriteCSV(src DataSource) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(src.Header()); err != nil {
		return nil, errors.Wrap(err, "write header")
	}
	for i, row := range src.Rows() {
		if err := w.Write(row); err != nil {
			return nil, errors.Wrapf(err, "write row %d", i+1)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "flush")
	}
	return buf.Bytes(), nil
}
