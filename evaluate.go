// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sassoftware/coa-xtract/logger"
)

// Evaluate judges a measured value against a specification string and returns
// PASS, FAIL or UNKNOWN. Data-quality problems (non-numeric value, empty or
// uninterpretable specification) resolve to UNKNOWN; this function never
// fails.
func Evaluate(value, spec string) Outcome {
	if value == "" || spec == "" {
		return Unknown
	}

	// Values may carry thousands separators ("2,205.000").
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		logger.Debug(fmt.Sprintf("could not convert value %q to a number: %v", value, err))
		return Unknown
	}

	b := ParseSpecification(spec)
	if !b.HasLower && !b.HasUpper {
		logger.Debug(fmt.Sprintf("specification %q yields no numeric bounds", spec))
		return Unknown
	}
	if b.HasLower && v < b.Lower {
		return Fail
	}
	if b.HasUpper && v > b.Upper {
		return Fail
	}
	return Pass
}
