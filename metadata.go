// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sassoftware/coa-xtract/logger"
)

// Metadata keys. Batch is always present in the extracted map; the others
// are set only when a pattern matched.
const (
	KeyMaterial       = "Material"
	KeyReference      = "Reference"
	KeyBatch          = "Batch"
	KeyProductionDate = "Production Date"
	KeyCountry        = "Country"
)

// batchSentinel is reported when no batch pattern matched anywhere.
// Downstream consumers always display a batch value.
const batchSentinel = "N/A"

const (
	// The strict material form: a code followed by a description containing
	// one of the known product category abbreviations.
	strictMaterialExpr = `Material:?\s*([A-Z0-9]+\s+[A-Z0-9\s]+(?:CHP|GRT|GNA)\s+[A-Z0-9\s]+)`
	looseMaterialExpr  = `Material:?\s*(\S+)`
)

var (
	materialPattern  = compileOrFallback(strictMaterialExpr, looseMaterialExpr)
	referencePattern = regexp.MustCompile(`(?:Reference No:|CPN:|Sales Order No\.|Order No\.?)\s*([A-Z0-9]+)`)
	bareBatchPattern = regexp.MustCompile(`^[0-9]{6}[A-Z][0-9]{3}$`)
	bareTokenPattern = regexp.MustCompile(`^[0-9A-Z]+(?:[A-Z][0-9]+)?$`)
	twoSpaceSplit    = regexp.MustCompile(`\s{2,}`)
)

// batchPatterns is the ordered rule cascade for the batch field: label-colon
// forms first, the bare canonical code shape, delivery-note table rows, then
// the newline variants OCR produces. The first match anywhere wins.
var batchPatterns = compilePatterns([]string{
	`(?i)(?:Batch|Lot|Batch No\.?|Batch Number)\s*[:.]?\s*([0-9A-Z]+(?:[A-Z][0-9]+)?)`,
	`(?i)(?:Batch|Lot)\s*ID\s*[:.]?\s*([0-9A-Z]+(?:[A-Z][0-9]+)?)`,
	`^\s*([0-9]{6}[A-Z][0-9]{3})\s*$`,
	`(?i)(?:Batch|Lot)\s*#\s*[:.]?\s*([0-9A-Z]+(?:[A-Z][0-9]+)?)`,
	`(?i)(?:Batch|Lot)\s*:\s*([0-9A-Z]+(?:[A-Z][0-9]+)?)`,
	`(?i)(?:Batch|Lot)\s*=\s*([0-9A-Z]+(?:[A-Z][0-9]+)?)`,
	`(?i)Batch\s+([0-9]{6}[A-Z][0-9]{3})\s+[0-9,]+\s*/LB`,
	`(?i)Batch\s+([0-9]{6}[A-Z][0-9]{3})`,
	`(?i)Batch\s*\n\s*([0-9]{6}[A-Z][0-9]{3})`,
	`(?i)Batch\s*\n\s*([0-9A-Z]+)`,
	`(?i)(?:Batch|Lot)\s*\n\s*([0-9]{6}[A-Z][0-9]{3})\s*\n`,
	`(?i)(?:Batch|Lot)\s*\n\s*([0-9A-Z]+)\s*\n`,
	`(?i)(?:Batch|Lot)\s*\n([0-9]{6}[A-Z][0-9]{3})`,
	`(?i)(?:Batch|Lot)\s*\n([0-9A-Z]+)`,
})

// compileOrFallback compiles expr, degrading to the fallback expression when
// expr is rejected. One malformed pattern must not take the whole field down
// with it.
func compileOrFallback(expr, fallback string) *regexp.Regexp {
	re, err := regexp.Compile(expr)
	if err != nil {
		logger.Error(fmt.Sprintf("bad metadata pattern %q, using fallback: %v", expr, err))
		return regexp.MustCompile(fallback)
	}
	return re
}

// compilePatterns compiles what it can; a pattern that fails to compile is
// skipped so the rest of the cascade still runs.
func compilePatterns(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			logger.Error(fmt.Sprintf("bad batch pattern %q, skipping: %v", expr, err))
			continue
		}
		out = append(out, re)
	}
	return out
}

// ExtractMetadata walks the raw text and recovers document metadata:
// material, reference, batch, production date and country. Each field is
// matched independently and the first successful match per key wins. The
// returned map always carries a Batch entry; when no batch pattern matched
// anywhere it holds the "N/A" sentinel, which is the signal that the
// document needs manual review.
func (a *Analyzer) ExtractMetadata(rawText string) map[string]string {
	meta := make(map[string]string)
	if strings.TrimSpace(rawText) == "" {
		logger.Warn("empty text provided to ExtractMetadata")
		meta[KeyBatch] = batchSentinel
		return meta
	}

	lines := a.splitLines(rawText)

	for i, line := range lines {
		if _, ok := meta[KeyMaterial]; !ok {
			if m := materialPattern.FindStringSubmatch(line); m != nil {
				meta[KeyMaterial] = strings.TrimSpace(m[1])
				logger.Debug(fmt.Sprintf("found material: %s", meta[KeyMaterial]))
				continue
			}
		}
		if _, ok := meta[KeyReference]; !ok {
			if m := referencePattern.FindStringSubmatch(line); m != nil {
				meta[KeyReference] = strings.TrimSpace(m[1])
				logger.Debug(fmt.Sprintf("found reference: %s", meta[KeyReference]))
				continue
			}
		}
		if _, ok := meta[KeyBatch]; !ok {
			if v, found := matchBatch(lines, i); found {
				meta[KeyBatch] = v
				logger.Debug(fmt.Sprintf("found batch number: %s", v), true)
				continue
			}
		}
		if strings.Contains(line, "DATE OF PRODUCTION") {
			if _, ok := meta[KeyProductionDate]; !ok {
				if v, found := lastSegment(line); found {
					meta[KeyProductionDate] = v
				}
			}
			continue
		}
		if strings.Contains(line, "COUNTRY OF ORIGIN") {
			if _, ok := meta[KeyCountry]; !ok {
				if v, found := lastSegment(line); found {
					meta[KeyCountry] = v
				}
			}
		}
	}

	if _, ok := meta[KeyBatch]; !ok {
		if v, found := structuralBatchSearch(lines); found {
			meta[KeyBatch] = v
			logger.Debug(fmt.Sprintf("found batch number structurally: %s", v), true)
		}
	}
	if _, ok := meta[KeyBatch]; !ok {
		logger.Warn("no batch number found in the document", true)
		meta[KeyBatch] = batchSentinel
	}
	return meta
}

// ExtractMetadata extracts with the default configuration.
func ExtractMetadata(rawText string) map[string]string {
	return NewAnalyzer(NewDefaultConfig()).ExtractMetadata(rawText)
}

// matchBatch tries the cascade against one line, then against a 3-line
// window starting there so values that OCR pushed onto a following line are
// still caught.
func matchBatch(lines []string, i int) (string, bool) {
	for _, re := range batchPatterns {
		if m := re.FindStringSubmatch(lines[i]); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	if i < len(lines)-2 {
		window := strings.Join(lines[i:i+3], "\n")
		for _, re := range batchPatterns {
			if m := re.FindStringSubmatch(window); m != nil {
				return strings.TrimSpace(m[1]), true
			}
		}
	}
	return "", false
}

// structuralBatchSearch is the second pass, used when no pattern matched
// anywhere: find a BATCH/LOT header line, prefer a canonical batch code on
// the line right after it, otherwise scan the lines strictly between the
// header and the next QTY line for the first bare alphanumeric token.
func structuralBatchSearch(lines []string) (string, bool) {
	batchIdx, qtyIdx := -1, -1

	for i, line := range lines {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "BATCH") || strings.Contains(upper, "LOT") {
			batchIdx = i
			if i+1 < len(lines) {
				next := strings.TrimSpace(lines[i+1])
				if bareBatchPattern.MatchString(next) {
					return next, true
				}
			}
		} else if strings.Contains(upper, "QTY") {
			qtyIdx = i
			break
		}
	}

	if batchIdx == -1 || qtyIdx == -1 || batchIdx > qtyIdx {
		return "", false
	}
	for _, line := range lines[batchIdx+1 : qtyIdx] {
		line = strings.TrimSpace(line)
		if bareTokenPattern.MatchString(line) {
			return line, true
		}
	}
	return "", false
}

// lastSegment splits a label line on runs of two or more spaces and returns
// the final segment, which is where positional layouts put the value.
func lastSegment(line string) (string, bool) {
	parts := twoSpaceSplit.Split(line, -1)
	if len(parts) < 2 {
		return "", false
	}
	return strings.TrimSpace(parts[len(parts)-1]), true
}
