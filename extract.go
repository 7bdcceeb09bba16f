// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sassoftware/coa-xtract/logger"
)

// sectionMarker delimits independent COA blocks inside one text blob.
// Multi-page batch documents concatenate several certificates.
const sectionMarker = "CERTIFICATE OF ANALYSIS"

// column identifies which table column the scanner is currently filling.
type column int

const (
	colNone column = iota
	colNames
	colMethods
	colUnits
	colValues
	colSpecs
)

// columnHeaders maps header words to columns, in resolution order: a line
// containing several header words resolves to the first entry listed here.
var columnHeaders = []struct {
	word string
	col  column
}{
	{"Test Name", colNames},
	{"Test Method", colMethods},
	{"Unit", colUnits},
	{"Value", colValues},
	{"Specification", colSpecs},
}

// skipMarkers flag lines that belong to document boilerplate rather than the
// test table.
var skipMarkers = []string{
	"Batch",
	"Qty /Uom",
	"Material:",
	"Our/Customer Reference",
	"Page",
	"THE PRODUCT",
}

// nonTestLabels are table rows that carry document metadata, not
// measurements. They are excluded from the name column and never assembled
// into records.
var nonTestLabels = map[string]bool{
	"DATE OF PRODUCTION": true,
	"COUNTRY OF ORIGIN":  true,
}

// knownUnits is the closed set of measurement units seen on COA documents.
var knownUnits = map[string]bool{
	"dNm":  true,
	"min.": true,
	"%":    true,
	"min":  true,
}

var (
	namePattern   = regexp.MustCompile(`^[A-Za-z0-9']`)
	methodPattern = regexp.MustCompile(`^N200\.\d+`)
	valuePattern  = regexp.MustCompile(`^\d+\.?\d*$`)
)

// columnAccepts holds one validity predicate per column. A line in a given
// column state is appended only when its predicate matches; everything else
// on the page is ignored.
var columnAccepts = map[column]func(string) bool{
	colNames: func(line string) bool {
		return namePattern.MatchString(line) && !nonTestLabels[line]
	},
	colMethods: func(line string) bool {
		return methodPattern.MatchString(line)
	},
	colUnits: func(line string) bool {
		return knownUnits[line]
	},
	colValues: func(line string) bool {
		return valuePattern.MatchString(line)
	},
	colSpecs: func(line string) bool {
		return strings.ContainsAny(line, "=-<>")
	},
}

// Analyzer extracts test records and metadata from raw COA text. It holds no
// state between calls; concurrent use on different inputs is safe.
type Analyzer struct {
	cfg *Config
}

// NewAnalyzer validates the config and creates an Analyzer.
func NewAnalyzer(cfg *Config) *Analyzer {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}
	return &Analyzer{cfg: cfg}
}

// ExtractTestRecords converts a raw multi-line text blob into an ordered list
// of test records. The text is split into COA sections on the section marker
// (the whole blob is one section when no marker occurs), each section's table
// columns are reconstructed positionally, and rows are assembled by index.
// A duplicated observation, even across sections, yields a single record.
func (a *Analyzer) ExtractTestRecords(rawText string) []TestRecord {
	if strings.TrimSpace(rawText) == "" {
		logger.Warn("empty text provided to ExtractTestRecords")
		return nil
	}

	lines := a.splitLines(rawText)
	seen := make(map[string]bool)

	var records []TestRecord
	for _, section := range sections(lines) {
		cols := scanColumns(section)
		records = append(records, assembleRows(cols, seen)...)
	}
	logger.Debug(fmt.Sprintf("extracted %d test records", len(records)), true)
	return records
}

// ExtractTestRecords extracts with the default configuration.
func ExtractTestRecords(rawText string) []TestRecord {
	return NewAnalyzer(NewDefaultConfig()).ExtractTestRecords(rawText)
}

// splitLines breaks the blob into trimmed-boundary lines and enforces the
// line ceiling so a pathological input cannot demand unbounded work.
func (a *Analyzer) splitLines(rawText string) []string {
	lines := strings.Split(strings.TrimSpace(rawText), "\n")
	if len(lines) > a.cfg.MaxLines {
		logger.Warn(fmt.Sprintf("input is very large (%d lines), truncating to first %d", len(lines), a.cfg.MaxLines), true)
		lines = lines[:a.cfg.MaxLines]
	}
	return lines
}

// sections partitions lines into COA blocks. Every marker occurrence starts a
// new block running to the next marker or the end. With no marker anywhere
// the whole text is one block, so a degraded document still gets a
// best-effort pass instead of nothing.
func sections(lines []string) [][]string {
	var starts []int
	for i, line := range lines {
		if strings.Contains(line, sectionMarker) {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		logger.Warn("no certificate marker found, processing whole text as one section")
		return [][]string{lines}
	}

	secs := make([][]string, 0, len(starts))
	for i, start := range starts {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		secs = append(secs, lines[start:end])
	}
	return secs
}

// columnSet holds the reconstructed table columns of one section.
type columnSet struct {
	names   []string
	methods []string
	units   []string
	values  []string
	specs   []string
}

func (c *columnSet) listFor(col column) *[]string {
	switch col {
	case colNames:
		return &c.names
	case colMethods:
		return &c.methods
	case colUnits:
		return &c.units
	case colValues:
		return &c.values
	case colSpecs:
		return &c.specs
	}
	return nil
}

func isSkippable(line string) bool {
	for _, marker := range skipMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func headerFor(line string) (column, bool) {
	for _, h := range columnHeaders {
		if strings.Contains(line, h.word) {
			return h.col, true
		}
	}
	return colNone, false
}

// scanColumns reconstructs the table columns of a section in a single forward
// pass. Alignment is positional: a value belongs to whichever column header
// was seen most recently, in the order it appeared, because OCR output has
// lost the original horizontal spacing.
func scanColumns(lines []string) columnSet {
	var cols columnSet
	current := colNone

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isSkippable(line) {
			continue
		}
		if col, ok := headerFor(line); ok {
			current = col
			continue
		}
		if current == colNone {
			continue
		}
		if columnAccepts[current](line) {
			list := cols.listFor(current)
			*list = append(*list, line)
		}
	}
	return cols
}

// checkAlignment logs when a column list disagrees in length with the name
// list. Rows are still zipped by index — a shorter column yields empty fields
// for the trailing rows, a longer one leaves orphaned entries unused — but
// the mismatch is worth a warning because fields after the gap may pair with
// the wrong row.
func (c *columnSet) checkAlignment() {
	n := len(c.names)
	for _, col := range []struct {
		label string
		count int
	}{
		{"method", len(c.methods)},
		{"unit", len(c.units)},
		{"value", len(c.values)},
		{"specification", len(c.specs)},
	} {
		if col.count != n {
			logger.Warn(fmt.Sprintf("column misalignment: %d names but %d %s entries", n, col.count, col.label))
		}
	}
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}

// assembleRows zips the column lists by index into records, skipping the
// non-test labels and any observation already seen in this extraction call.
func assembleRows(cols columnSet, seen map[string]bool) []TestRecord {
	cols.checkAlignment()

	var records []TestRecord
	for i, name := range cols.names {
		if nonTestLabels[name] {
			continue
		}
		rec := TestRecord{
			Name:          name,
			Method:        at(cols.methods, i),
			Unit:          at(cols.units, i),
			Value:         at(cols.values, i),
			Specification: at(cols.specs, i),
		}
		k := rec.key()
		if seen[k] {
			logger.Debug(fmt.Sprintf("dropping duplicate observation for %q", rec.Name))
			continue
		}
		seen[k] = true

		rec.Outcome = Evaluate(rec.Value, rec.Specification)
		records = append(records, rec)
	}
	return records
}
