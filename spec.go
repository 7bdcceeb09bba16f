// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

import (
	"regexp"
	"strconv"
	"strings"
)

// Bounds is the numeric acceptance window parsed from a specification string.
// Either side may be absent; an uninterpretable specification yields both
// sides absent rather than an error.
type Bounds struct {
	Lower    float64
	Upper    float64
	HasLower bool
	HasUpper bool
}

// Specification syntax, in priority order. The "= <" and "= >" forms must be
// tried before the range forms: "= > 11.00" contains no dash but a mangled
// range like "- 59" does, and the first match wins.
var (
	specUpperOnly = regexp.MustCompile(`^=\s*<\s*(\d+\.?\d*)`)
	specLowerOnly = regexp.MustCompile(`^=\s*>\s*(\d+\.?\d*)`)
	specRange     = regexp.MustCompile(`^(\d+\.?\d*)\s*-\s*(\d+\.?\d*)`)
	specOpenRange = regexp.MustCompile(`^-\s*(\d+\.?\d*)`)
)

// ParseSpecification turns a raw specification string into numeric bounds.
// Recognized forms: "= < N" (upper only), "= > N" (lower only), "A - B"
// (inclusive range), "- B" (range whose lower bound was lost, common in OCR
// output). Empty strings, "N/A" and anything unrecognized come back with no
// bounds set.
func ParseSpecification(spec string) Bounds {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "N/A" {
		return Bounds{}
	}

	if m := specUpperOnly.FindStringSubmatch(spec); m != nil {
		if v, ok := parseNumber(m[1]); ok {
			return Bounds{Upper: v, HasUpper: true}
		}
		return Bounds{}
	}
	if m := specLowerOnly.FindStringSubmatch(spec); m != nil {
		if v, ok := parseNumber(m[1]); ok {
			return Bounds{Lower: v, HasLower: true}
		}
		return Bounds{}
	}
	if m := specRange.FindStringSubmatch(spec); m != nil {
		lo, okLo := parseNumber(m[1])
		hi, okHi := parseNumber(m[2])
		if okLo && okHi {
			return Bounds{Lower: lo, Upper: hi, HasLower: true, HasUpper: true}
		}
		return Bounds{}
	}
	if m := specOpenRange.FindStringSubmatch(spec); m != nil {
		if v, ok := parseNumber(m[1]); ok {
			return Bounds{Upper: v, HasUpper: true}
		}
	}
	return Bounds{}
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
