// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	coax "github.com/sassoftware/coa-xtract"
)

var (
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

func renderOutcome(o coax.Outcome) string {
	switch o {
	case coax.Pass:
		return passStyle.Render(string(o))
	case coax.Fail:
		return failStyle.Render(string(o))
	default:
		return unknownStyle.Render(string(o))
	}
}

var displayKeys = []string{
	coax.KeyMaterial,
	coax.KeyReference,
	coax.KeyBatch,
	coax.KeyProductionDate,
	coax.KeyCountry,
}

// printResults renders the metadata block, the per-test verdict table, the
// optional visualization bars, the outcome tally and the failed-test list.
func printResults(w io.Writer, records []coax.TestRecord, metadata map[string]string, showViz bool) {
	rule := strings.Repeat("-", 80)

	fmt.Fprintln(w, "\nCOA Metadata:")
	fmt.Fprintln(w, rule)
	for _, key := range displayKeys {
		if v, ok := metadata[key]; ok {
			fmt.Fprintf(w, "%s: %s\n", key, v)
		}
	}

	fmt.Fprintln(w, "\nCOA Analysis Results:")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-20s %-10s %-20s %-10s", "Test Name", "Value", "Specification", "Result")))
	fmt.Fprintln(w, rule)
	for _, r := range records {
		fmt.Fprintf(w, "%-20s %-10s %-20s %s\n", r.Name, r.Value, r.Specification, renderOutcome(r.Outcome))
	}

	if showViz {
		fmt.Fprintln(w, "\nResult Visualization:")
		fmt.Fprintln(w, rule)
		for _, r := range records {
			bar, indicator := visualizationBar(r)
			fmt.Fprintf(w, "%-15s [%s] %s\n", r.Name, bar, indicator)
		}
	}

	s := coax.Summarize(records)
	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "Total Tests: %d\n", s.Total)
	fmt.Fprintf(w, "PASS: %d\n", s.Pass)
	fmt.Fprintf(w, "FAIL: %d\n", s.Fail)
	fmt.Fprintf(w, "UNKNOWN: %d\n", s.Unknown)

	if failed := coax.Failed(records); len(failed) > 0 {
		fmt.Fprintln(w, "\nFailed Tests:")
		for _, r := range failed {
			fmt.Fprintf(w, "- %s: %s (Spec: %s)\n", r.Name, r.Value, r.Specification)
		}
	}
}

const barWidth = 50

// visualizationBar renders a record as a fixed-width bar whose fill encodes
// the outcome. For range specifications the value's position inside the
// range is marked with '|'.
func visualizationBar(r coax.TestRecord) (string, string) {
	var fill, indicator string
	switch r.Outcome {
	case coax.Pass:
		fill, indicator = "█", "✓"
	case coax.Fail:
		fill, indicator = "▒", "✗"
	default:
		fill, indicator = "░", "?"
	}
	bar := []rune(strings.Repeat(fill, barWidth))

	b := coax.ParseSpecification(r.Specification)
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(r.Value), ",", ""), 64)
	if err == nil && b.HasLower && b.HasUpper && b.Upper > b.Lower {
		pos := int((v - b.Lower) / (b.Upper - b.Lower) * barWidth)
		if pos < 0 {
			pos = 0
		}
		if pos > barWidth-1 {
			pos = barWidth - 1
		}
		bar[pos] = '|'
	}
	return string(bar), indicator
}

// printSummaryTable prints one row per processed document plus totals.
func printSummaryTable(w io.Writer, results []fileResult) {
	heavy := strings.Repeat("=", 100)
	light := strings.Repeat("-", 100)

	fmt.Fprintln(w, "\nSummary of All Processed COAs:")
	fmt.Fprintln(w, heavy)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-30s %-20s %-15s %-8s %-8s %-8s",
		"File Name", "Material", "Batch", "Tests", "Pass", "Fail")))
	fmt.Fprintln(w, light)

	var totalTests, totalPass, totalFail int
	for _, res := range results {
		s := coax.Summarize(res.records)
		material := "N/A"
		if fields := strings.Fields(res.metadata[coax.KeyMaterial]); len(fields) > 0 {
			material = fields[0]
		}
		batch := res.metadata[coax.KeyBatch]
		if batch == "" {
			batch = "N/A"
		}
		fmt.Fprintf(w, "%-30s %-20s %-15s %-8d %-8d %-8d\n",
			clip(filepath.Base(res.name), 30), clip(material, 20), clip(batch, 15),
			s.Total, s.Pass, s.Fail)
		totalTests += s.Total
		totalPass += s.Pass
		totalFail += s.Fail
	}

	fmt.Fprintln(w, light)
	fmt.Fprintf(w, "%-30s %-20s %-15s %-8d %-8d %-8d\n", "TOTAL", "", "", totalTests, totalPass, totalFail)
	fmt.Fprintln(w, heavy)
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
