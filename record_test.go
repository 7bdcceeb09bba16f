// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	records := []TestRecord{
		{Name: "A", Outcome: Pass},
		{Name: "B", Outcome: Pass},
		{Name: "C", Outcome: Fail},
		{Name: "D", Outcome: Unknown},
	}

	s := Summarize(records)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Pass)
	assert.Equal(t, 1, s.Fail)
	assert.Equal(t, 1, s.Unknown)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestFailed(t *testing.T) {
	records := []TestRecord{
		{Name: "A", Outcome: Pass},
		{Name: "B", Outcome: Fail},
		{Name: "C", Outcome: Unknown},
		{Name: "D", Outcome: Fail},
	}

	failed := Failed(records)
	assert.Len(t, failed, 2)
	assert.Equal(t, "B", failed[0].Name)
	assert.Equal(t, "D", failed[1].Name)

	assert.Empty(t, Failed(nil))
}

func TestRecordKey(t *testing.T) {
	a := TestRecord{Name: "VOLATILE", Method: "N200.9500", Value: "0.99", Specification: "= < 1.30"}
	b := a
	b.Unit = "%"
	// Unit does not participate in identity.
	assert.Equal(t, a.key(), b.key())

	c := a
	c.Value = "1.05"
	assert.NotEqual(t, a.key(), c.key())
}
