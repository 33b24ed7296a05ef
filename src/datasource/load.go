package datasource

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

// Open loads a table from a .csv or .xlsx file. sheet selects the
// workbook sheet and may be empty for the first one.
func Open(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, sheet)
	case ".csv", ".txt", ".dat":
		return LoadCSV(path)
	}
	return nil, types.Errorf(types.ErrIO, "open", "unsupported data file %s", path)
}

// LoadCSV reads a CSV file whose first record names the columns. The table
// is named after the file.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.Wrap(types.ErrIO, "loadCSV", err)
	}
	defer f.Close()
	return ReadCSV(tableName(path), f)
}

// ReadCSV reads CSV records from r into a table.
func ReadCSV(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, types.Wrap(types.ErrIO, "readCSV", err)
	}
	if len(recs) == 0 {
		return nil, types.New(types.ErrData, "readCSV", "empty csv")
	}
	return fromRecords(name, recs), nil
}

// LoadXLSX reads one sheet of a workbook; an empty sheet name picks the
// first sheet. The first row names the columns.
func LoadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, types.Wrap(types.ErrIO, "loadXLSX", err)
	}
	defer f.Close()
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, types.New(types.ErrData, "loadXLSX", "workbook has no sheets")
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, types.Wrap(types.ErrIO, "loadXLSX", err)
	}
	if len(rows) == 0 {
		return nil, types.Errorf(types.ErrData, "loadXLSX", "sheet %q is empty", sheet)
	}
	logger.Debugf("xlsx %s sheet %q: %d rows", path, sheet, len(rows)-1)
	return fromRecords(sheet, rows), nil
}

func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// fromRecords builds a table from a header record and data records. The
// first column is designated X, the rest Y. Columns with a non-numeric
// non-empty cell are typed Text.
func fromRecords(name string, recs [][]string) *Table {
	header := recs[0]
	cols := make([]Column, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = strconv.Itoa(i + 1)
		}
		cols[i] = Column{Name: h, Designation: Y}
	}
	if len(cols) > 0 {
		cols[0].Designation = X
	}
	for _, rec := range recs[1:] {
		for i := range cols {
			cell := ""
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			cols[i].Cells = append(cols[i].Cells, cell)
		}
	}
	for i := range cols {
		for _, cell := range cols[i].Cells {
			if cell == "" {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				cols[i].Type = Text
				break
			}
		}
	}
	return NewTable(name, cols...)
}
