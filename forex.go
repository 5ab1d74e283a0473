// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// ForexTable holds the ECB euro reference rates, one EUR-based rate per
// currency per trading day.
type ForexTable struct {
	// date (2006-01-02) -> currency -> rate
	rates map[string]map[string]decimal.Decimal
}

// LoadForexZip reads the ECB eurofxref-hist.zip archive, a single CSV with
// a Date column followed by one rate column per currency. Days without a
// quote carry "N/A" and are skipped.
func LoadForexZip(path string) (*ForexTable, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open forex archive %s: %w", path, err)
	}
	defer zr.Close()

	for _, file := range zr.File {
		if !strings.HasSuffix(file.Name, ".csv") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in %s: %w", file.Name, path, err)
		}
		table, err := readForexCSV(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s in %s: %w", file.Name, path, err)
		}
		return table, nil
	}
	return nil, fmt.Errorf("no csv file in forex archive %s", path)
}

func readForexCSV(r io.Reader) (*ForexTable, error) {
	cr := csv.NewReader(r)
	// The ECB file carries a trailing comma on every row.
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("forex csv has no data rows")
	}
	header := records[0]
	if len(header) < 2 || header[0] != "Date" {
		return nil, fmt.Errorf("unexpected forex csv header %q", header)
	}
	table := &ForexTable{rates: make(map[string]map[string]decimal.Decimal, len(records)-1)}
	for _, row := range records[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		day := make(map[string]decimal.Decimal, len(header)-1)
		for i := 1; i < len(row) && i < len(header); i++ {
			cell := strings.TrimSpace(row[i])
			if cell == "" || cell == "N/A" {
				continue
			}
			rate, err := decimal.NewFromString(cell)
			if err != nil {
				return nil, fmt.Errorf("rate %s on %s: %w", header[i], row[0], err)
			}
			day[strings.TrimSpace(header[i])] = rate
		}
		table.rates[row[0]] = day
	}
	return table, nil
}

// Fetch returns the EUR rate of a currency on a trading day given as
// 2006-01-02.
func (t *ForexTable) Fetch(date, currency string) (decimal.Decimal, error) {
	day, ok := t.rates[date]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no forex rates for %s", date)
	}
	rate, ok := day[currency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no %s rate for %s", currency, date)
	}
	return rate, nil
}
