// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

import (
	"encoding/csv"
	"io"
	"strconv"
)

// metadataOrder fixes the key order in reports so output is comparable
// across runs.
var metadataOrder = []string{
	KeyMaterial,
	KeyReference,
	KeyBatch,
	KeyProductionDate,
	KeyCountry,
}

// WriteCSV writes the metadata, the record table, an outcome tally and any
// failed tests as CSV. Batch is always emitted, falling back to the sentinel
// when the metadata map somehow lacks it.
func WriteCSV(w io.Writer, records []TestRecord, metadata map[string]string) error {
	cw := csv.NewWriter(w)

	write := func(fields ...string) {
		// Write errors surface through cw.Error after Flush.
		_ = cw.Write(fields)
	}

	write("Metadata")
	for _, key := range metadataOrder {
		if v, ok := metadata[key]; ok {
			write(key, v)
		} else if key == KeyBatch {
			write(KeyBatch, batchSentinel)
		}
	}
	write("")

	write("Test Name", "Test Method", "Unit", "Value", "Specification", "Result")
	for _, r := range records {
		write(r.Name, r.Method, r.Unit, r.Value, r.Specification, string(r.Outcome))
	}
	write("")

	s := Summarize(records)
	write("Summary")
	write("Total Tests", strconv.Itoa(s.Total))
	write("PASS", strconv.Itoa(s.Pass))
	write("FAIL", strconv.Itoa(s.Fail))
	write("UNKNOWN", strconv.Itoa(s.Unknown))

	if failed := Failed(records); len(failed) > 0 {
		write("")
		write("Failed Tests")
		for _, r := range failed {
			write(r.Name, r.Value, r.Specification)
		}
	}

	cw.Flush()
	return cw.Error()
}
