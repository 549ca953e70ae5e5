package timeseries

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ReadCSV parses a series from CSV, one sample per record and one channel per
// column. A first record whose cells do not all parse as numbers is treated as
// a header and skipped.
func ReadCSV(r io.Reader) (Series, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Series{}, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return Series{}, fmt.Errorf("reading csv: no records")
	}
	if isHeader(records[0]) {
		records = records[1:]
	}
	rows := make([][]float64, len(records))
	for i, record := range records {
		row := make([]float64, len(record))
		for j, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return Series{}, fmt.Errorf("reading csv: record %d column %d: %q is not a number", i+1, j+1, cell)
			}
			row[j] = v
		}
		rows[i] = row
	}
	return FromRows(rows)
}

// WriteCSV writes the series as CSV, one sample per record, without a header.
func WriteCSV(w io.Writer, s Series) error {
	cw := csv.NewWriter(w)
	c := s.Channels()
	record := make([]string, c)
	for i := 0; i < s.Len(); i++ {
		for j := 0; j < c; j++ {
			record[j] = strconv.FormatFloat(s.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// isHeader reports whether any cell in the record fails to parse as a number.
func isHeader(record []string) bool {
	for _, cell := range record {
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return true
		}
	}
	return false
}
