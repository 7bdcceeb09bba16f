// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata_EndToEnd(t *testing.T) {
	meta := newTestAnalyzer().ExtractMetadata(loadSampleText(t))

	assert.Equal(t, "D14924998 NEOPRENE GNA M2 CHP 100 ABAG25KG", meta[KeyMaterial])
	assert.Equal(t, "S030068A", meta[KeyReference])
	assert.Equal(t, "241226D257", meta[KeyBatch])
	assert.Equal(t, "20241229", meta[KeyProductionDate])
	assert.Equal(t, "US", meta[KeyCountry])
}

func TestExtractMetadata_BatchForms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "colon form",
			text: "Batch: 241226D257",
			want: "241226D257",
		},
		{
			name: "lot label",
			text: "Lot: 300123X456",
			want: "300123X456",
		},
		{
			name: "hash form",
			text: "Lot # 7A12",
			want: "7A12",
		},
		{
			name: "equals form",
			text: "Batch = 241226D257",
			want: "241226D257",
		},
		{
			name: "bare canonical code",
			text: "foo\n241226D257\nbar",
			want: "241226D257",
		},
		{
			name: "value on following line",
			text: "Batch\n241226D257\nQty / Uom",
			want: "241226D257",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := newTestAnalyzer().ExtractMetadata(tt.text)
			assert.Equal(t, tt.want, meta[KeyBatch])
		})
	}
}

func TestExtractMetadata_StructuralBatchSearch(t *testing.T) {
	// None of the cascade patterns match here: the token after the BATCH
	// header is not alphanumeric, so only the structural pass between the
	// header and the QTY line can recover the value.
	text := strings.Join([]string{
		"Product information sheet",
		"BATCH",
		"(see below)",
		"AB12",
		"QTY / UOM",
		"2,205.000 /LB",
	}, "\n")

	meta := newTestAnalyzer().ExtractMetadata(text)
	assert.Equal(t, "AB12", meta[KeyBatch])
}

func TestExtractMetadata_MissingBatchSentinel(t *testing.T) {
	meta := newTestAnalyzer().ExtractMetadata("hello\nworld")
	require.Len(t, meta, 1)
	assert.Equal(t, "N/A", meta[KeyBatch])
}

func TestExtractMetadata_EmptyText(t *testing.T) {
	meta := newTestAnalyzer().ExtractMetadata("")
	require.Len(t, meta, 1)
	assert.Equal(t, "N/A", meta[KeyBatch])
}

func TestExtractMetadata_FirstMatchWins(t *testing.T) {
	text := strings.Join([]string{
		"Material: A11111111 FOO GNA 100 BAG",
		"Material: B22222222 BAR GNA 200 BAG",
		"Reference No: AAA111",
		"Reference No: BBB222",
	}, "\n")

	meta := newTestAnalyzer().ExtractMetadata(text)
	assert.Contains(t, meta[KeyMaterial], "A11111111")
	assert.NotContains(t, meta[KeyMaterial], "B22222222")
	assert.Equal(t, "AAA111", meta[KeyReference])
}

func TestExtractMetadata_PositionalLabels(t *testing.T) {
	meta := newTestAnalyzer().ExtractMetadata("DATE OF PRODUCTION       20241229\nCOUNTRY OF ORIGIN        US")
	assert.Equal(t, "20241229", meta[KeyProductionDate])
	assert.Equal(t, "US", meta[KeyCountry])

	// A single space between label and value means the positional split
	// cannot tell them apart; the key is left unset.
	meta = newTestAnalyzer().ExtractMetadata("DATE OF PRODUCTION 20241229")
	_, ok := meta[KeyProductionDate]
	assert.False(t, ok)
}

func TestExtractMetadata_PackageConvenience(t *testing.T) {
	meta := ExtractMetadata("Batch: 241226D257")
	assert.Equal(t, "241226D257", meta[KeyBatch])
}
