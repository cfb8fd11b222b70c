// Package training turns recorded survey responses into a tier classifier.
package training

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/phishwise/internal/apperr"
)

// DemographicColumns are dropped before alignment. A header is dropped when it
// equals or starts with one of these.
var DemographicColumns = []string{
	"Respondent_ID",
	"Timestamp",
	"Select Your Age",
	"Select Your Gender",
	"Select Your Education level",
	"IT proficiency at the",
}

// Dataset is a CSV table with every cell kept as a string.
type Dataset struct {
	Source  string
	Header  []string
	Rows    [][]string
	Dropped []string
}

// LoadDataset reads a CSV file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := apperr.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ds, err := ReadDataset(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Malformed(path, err)
	}
	ds.Source = path
	return ds, nil
}

// ReadDataset parses CSV from r. Short rows are padded with empty cells and
// long rows are truncated to the header width.
func ReadDataset(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty dataset")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}

	var keep []int
	ds := &Dataset{}
	for i, h := range header {
		if isDemographic(h) {
			ds.Dropped = append(ds.Dropped, h)
			continue
		}
		keep = append(keep, i)
		ds.Header = append(ds.Header, h)
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(ds.Rows)+2, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" && len(header) > 1 {
			continue
		}
		row := make([]string, len(keep))
		for j, col := range keep {
			if col < len(rec) {
				row[j] = rec[col]
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func isDemographic(header string) bool {
	for _, d := range DemographicColumns {
		if header == d || strings.HasPrefix(header, d) {
			return true
		}
	}
	return false
}

// Column returns the values of column i.
func (d *Dataset) Column(i int) []string {
	out := make([]string, len(d.Rows))
	for r, row := range d.Rows {
		out[r] = row[i]
	}
	return out
}
