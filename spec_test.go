// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSpecification(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want Bounds
	}{
		{
			name: "upper only",
			spec: "= < 1.30",
			want: Bounds{Upper: 1.30, HasUpper: true},
		},
		{
			name: "lower only",
			spec: "= > 11.00",
			want: Bounds{Lower: 11.00, HasLower: true},
		},
		{
			name: "inclusive range",
			spec: "7.50 - 12.50",
			want: Bounds{Lower: 7.50, Upper: 12.50, HasLower: true, HasUpper: true},
		},
		{
			name: "integer range",
			spec: "47 - 59",
			want: Bounds{Lower: 47, Upper: 59, HasLower: true, HasUpper: true},
		},
		{
			name: "range missing lower bound",
			spec: "- 59",
			want: Bounds{Upper: 59, HasUpper: true},
		},
		{
			name: "tight operator spacing",
			spec: "=<2.5",
			want: Bounds{Upper: 2.5, HasUpper: true},
		},
		{
			name: "empty",
			spec: "",
			want: Bounds{},
		},
		{
			name: "not applicable sentinel",
			spec: "N/A",
			want: Bounds{},
		},
		{
			name: "unrecognized text",
			spec: "conforms",
			want: Bounds{},
		},
		{
			name: "surrounding whitespace",
			spec: "  7.50 - 12.50  ",
			want: Bounds{Lower: 7.50, Upper: 12.50, HasLower: true, HasUpper: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSpecification(tt.spec))
		})
	}
}

func TestParseSpecification_PriorityOrder(t *testing.T) {
	// The "= >" form must win even though the rest of the string could look
	// like a range fragment.
	got := ParseSpecification("= > 11.00 - 12.00")
	assert.True(t, got.HasLower)
	assert.False(t, got.HasUpper)
	assert.Equal(t, 11.00, got.Lower)
}
