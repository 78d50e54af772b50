// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/roams-model/roams/aerial"
)

// The input layer reads already-unit-normalized CSV tables. Columns are
// resolved by header name so column order in the files is free.

// csvTable is one parsed CSV file: a header index and the data rows.
type csvTable struct {
	path string
	cols map[string]int
	rows [][]string
}

func readTable(path string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("model: %s: reading header: %w", path, err)
	}
	t := &csvTable{path: path, cols: make(map[string]int)}
	for i, name := range header {
		t.cols[name] = i
	}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("model: %s: %w", path, err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// column returns the named column parsed as float64.
func (t *csvTable) column(name string) ([]float64, error) {
	i, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("model: %s: no column %q", t.path, name)
	}
	out := make([]float64, len(t.rows))
	for r, row := range t.rows {
		v, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			return nil, fmt.Errorf("model: %s: row %d, column %q: %w", t.path, r+2, name, err)
		}
		out[r] = v
	}
	return out, nil
}

// strings returns the named column unparsed.
func (t *csvTable) strings(name string) ([]string, error) {
	i, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("model: %s: no column %q", t.path, name)
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, nil
}

// LoadCoverage reads one asset group's survey files into coverage
// records. The sources file enumerates every surveyed source with its
// flyover count; the plumes file holds one row per detected plume. A
// plume referencing an unknown source is an input error, as is a source
// claiming fewer flyovers than it has plumes.
func LoadCoverage(sourcesPath, plumesPath string) ([]aerial.SourceCoverage, error) {
	st, err := readTable(sourcesPath)
	if err != nil {
		return nil, err
	}
	ids, err := st.strings("source_id")
	if err != nil {
		return nil, err
	}
	coverages, err := st.column("coverages")
	if err != nil {
		return nil, err
	}

	records := make([]aerial.SourceCoverage, len(ids))
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("model: %s: duplicate source %q", sourcesPath, id)
		}
		index[id] = i
		records[i] = aerial.SourceCoverage{SourceID: id, Coverages: int(coverages[i])}
	}

	pt, err := readTable(plumesPath)
	if err != nil {
		return nil, err
	}
	pids, err := pt.strings("source_id")
	if err != nil {
		return nil, err
	}
	emissions, err := pt.column("emissions")
	if err != nil {
		return nil, err
	}
	windNorm, err := pt.column("wind_norm")
	if err != nil {
		return nil, err
	}
	for i, id := range pids {
		j, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("model: %s: plume for unknown source %q", plumesPath, id)
		}
		records[j].Plumes = append(records[j].Plumes, aerial.Plume{
			Emissions: emissions[i],
			WindNorm:  windNorm[i],
		})
	}

	for _, rec := range records {
		if rec.Coverages < len(rec.Plumes) {
			return nil, fmt.Errorf("model: source %q has %d plumes but only %d coverages",
				rec.SourceID, len(rec.Plumes), rec.Coverages)
		}
	}
	return records, nil
}

// LoadSimulatedTable reads the index-aligned simulated emissions and
// production columns.
func LoadSimulatedTable(path string) (emissions, production []float64, err error) {
	t, err := readTable(path)
	if err != nil {
		return nil, nil, err
	}
	if emissions, err = t.column("emissions"); err != nil {
		return nil, nil, err
	}
	if production, err = t.column("production"); err != nil {
		return nil, nil, err
	}
	return emissions, production, nil
}

// LoadCoveredProductivity reads the covered-productivity quantization.
func LoadCoveredProductivity(path string) ([]float64, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	return t.column("productivity")
}
