// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

// Outcome is the verdict of comparing a measured value to its specification.
type Outcome string

const (
	Pass    Outcome = "PASS"
	Fail    Outcome = "FAIL"
	Unknown Outcome = "UNKNOWN"
)

// TestRecord is one row of a COA test table. Value and Specification keep the
// raw text as it appeared in the document; numeric interpretation happens only
// when the outcome is computed.
type TestRecord struct {
	Name          string
	Method        string
	Unit          string
	Value         string
	Specification string
	Outcome       Outcome
}

// key identifies an observation. Two records sharing a key are the same
// measurement (a duplicated page, repeated boilerplate) and are collapsed to
// one during extraction.
func (r TestRecord) key() string {
	return r.Name + "\x00" + r.Method + "\x00" + r.Value + "\x00" + r.Specification
}

// Summary is an outcome tally over a record list.
type Summary struct {
	Total   int
	Pass    int
	Fail    int
	Unknown int
}

// Summarize counts outcomes across records.
func Summarize(records []TestRecord) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch r.Outcome {
		case Pass:
			s.Pass++
		case Fail:
			s.Fail++
		default:
			s.Unknown++
		}
	}
	return s
}

// Failed returns the records with a FAIL outcome, in input order.
func Failed(records []TestRecord) []TestRecord {
	var out []TestRecord
	for _, r := range records {
		if r.Outcome == Fail {
			out = append(out, r)
		}
	}
	return out
}
