// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/semaphore"

	"github.com/sassoftware/coa-xtract/logger"
)

// coaIndicators are strings whose presence marks a page as COA content.
// A page needs at least three of them to be kept; delivery notes, invoices
// and cover pages in the same file are discarded.
var coaIndicators = []string{
	sectionMarker,
	"Test Name",
	"Test Method",
	"Unit",
	"Value",
	"Specification",
	"Batch",
	"Material:",
	"Reference No:",
}

// isCOAPage reports whether a page of extracted text looks like COA content.
func isCOAPage(text string) bool {
	matches := 0
	for _, indicator := range coaIndicators {
		if strings.Contains(text, indicator) {
			matches++
		}
	}
	return matches >= 3
}

// Processor defines the contract for pulling COA text out of a PDF file.
type Processor interface {
	Extract(ctx context.Context, path string) (string, bool, error)
}

// PageStrategy defines how to extract text from a single page.
// Different strategies handle errors differently (strict vs. best-effort).
type PageStrategy interface {
	ExtractPage(ctx context.Context, page *pdf.Page) (string, error)
}

// StrictPageStrategy enforces strict parsing.
// If any page fails, the entire extraction fails.
type StrictPageStrategy struct{}

func (s *StrictPageStrategy) ExtractPage(ctx context.Context, page *pdf.Page) (string, error) {
	return page.GetPlainText(cacheFonts(page))
}

// BestEffortPageStrategy tolerates errors.
// If a page fails, it simply skips that page.
type BestEffortPageStrategy struct{}

func (b *BestEffortPageStrategy) ExtractPage(ctx context.Context, page *pdf.Page) (string, error) {
	text, err := page.GetPlainText(cacheFonts(page))
	if err != nil {
		logger.Debug(fmt.Sprintf("best-effort: failed to extract page text, skipping: %v", err), true)
		return "", nil
	}
	return text, nil
}

// processor manages PDF extraction with concurrency control, delegates
// page-level work to the chosen PageStrategy, and feeds the resulting text
// into the analyzer.
type processor struct {
	cfg      *Config
	sem      *semaphore.Weighted
	strategy PageStrategy
	analyzer *Analyzer
}

// NewProcessor validates the config and creates a new processor.
// Selects the correct PageStrategy (Strict or BestEffort).
func NewProcessor(cfg *Config) *processor {
	var strategy PageStrategy
	switch cfg.ParsingMode {
	case Strict:
		strategy = &StrictPageStrategy{}
	case BestEffort:
		strategy = &BestEffortPageStrategy{}
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}

	logger.Debug(fmt.Sprintf("Processor initialized: parsing_mode=%v, max_concurrent_pdfs=%d, max_workers_per_pdf=%d",
		cfg.ParsingMode, cfg.MaxConcurrentPDFs, cfg.MaxWorkersPerPDF), true)

	return &processor{
		cfg:      cfg,
		sem:      semaphore.NewWeighted(int64(cfg.MaxConcurrentPDFs)),
		strategy: strategy,
		analyzer: &Analyzer{cfg: cfg},
	}
}

// Extract pulls COA page text out of a PDF in page order. Pages that do not
// look like COA content are dropped, and output is cut at
// Config.MaxTotalChars when that limit is set. The truncated flag reports
// whether the limit was hit.
func (p *processor) Extract(ctx context.Context, path string) (string, bool, error) {
	logger.Debug(fmt.Sprintf("Starting extraction: path=%s", path), true)

	if err := p.acquireSlot(ctx); err != nil {
		return "", false, err
	}
	defer p.sem.Release(1)

	f, r, err := pdf.Open(path)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to open PDF: path=%s err=%v", path, err))
		return "", false, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	logger.Debug(fmt.Sprintf("Total pages detected: path=%s pages=%d", path, total), true)
	if total == 0 {
		return "", false, nil
	}

	numWorkers := p.adjustWorkerCount(p.cfg.MaxWorkersPerPDF)
	jobs, results := make(chan int, total), make(chan pageResult, total)

	var wg sync.WaitGroup
	p.startWorkers(ctx, r, jobs, results, numWorkers, &wg)
	p.feedJobs(ctx, total, jobs)
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	text, truncated, err := p.collectInOrder(results)
	if err != nil {
		return "", false, err
	}

	logger.Debug(fmt.Sprintf("Extraction completed: path=%s truncated=%v total_chars=%d", path, truncated, len(text)), true)
	return text, truncated, nil
}

// Analyze extracts COA text from a PDF and runs the analyzer over it,
// returning the test records and document metadata.
func (p *processor) Analyze(ctx context.Context, path string) ([]TestRecord, map[string]string, error) {
	text, truncated, err := p.Extract(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if truncated {
		logger.Warn(fmt.Sprintf("extracted text truncated at %d chars: %s", p.cfg.MaxTotalChars, path))
	}
	return p.analyzer.ExtractTestRecords(text), p.analyzer.ExtractMetadata(text), nil
}

// collectInOrder reassembles page text in page order, keeps only COA-looking
// pages separated by blank lines, and truncates once MaxTotalChars is hit.
func (p *processor) collectInOrder(results chan pageResult) (string, bool, error) {
	buffer := make(map[int]pageResult)
	nextPage := 1
	var out strings.Builder
	truncated := false

	for res := range results {
		if res.err != nil && p.cfg.ParsingMode == Strict {
			logger.Debug(fmt.Sprintf("Strict mode error — stopping extraction: page=%d err=%v", res.index, res.err))
			return "", false, fmt.Errorf("strict mode failed on page %d: %w", res.index, res.err)
		}
		buffer[res.index] = res

		for !truncated {
			cur, ok := buffer[nextPage]
			if !ok {
				break
			}
			delete(buffer, nextPage)
			nextPage++

			if cur.text == "" || !isCOAPage(cur.text) {
				logger.Debug(fmt.Sprintf("skipping non-COA page: page=%d", cur.index), true)
				continue
			}
			if out.Len() > 0 {
				out.WriteString("\n\n")
			}
			if p.cfg.MaxTotalChars > 0 {
				remaining := p.cfg.MaxTotalChars - out.Len()
				if remaining <= 0 {
					truncated = true
					logger.Debug(fmt.Sprintf("Truncation reached: limit=%d", p.cfg.MaxTotalChars), true)
					break
				}
				if len(cur.text) > remaining {
					out.WriteString(cur.text[:remaining])
					truncated = true
					logger.Debug(fmt.Sprintf("Partial truncation applied: remaining=%d page=%d", remaining, cur.index), true)
					continue
				}
			}
			out.WriteString(cur.text)
		}
	}
	return out.String(), truncated, nil
}

func (p *processor) acquireSlot(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire slot: %w", err)
	}
	return nil
}

func (p *processor) adjustWorkerCount(maxWorkers int) int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxWorkers > runtime.NumCPU() {
		maxWorkers = runtime.NumCPU()
	}
	return maxWorkers
}

type pageResult struct {
	index int
	text  string
	err   error
}

func (p *processor) startWorkers(ctx context.Context, r *pdf.Reader, jobs <-chan int, results chan<- pageResult, numWorkers int, wg *sync.WaitGroup) {
	for w := 1; w <= numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range jobs {
				page := r.Page(i)
				if page.V.IsNull() {
					logger.Debug(fmt.Sprintf("Null page encountered: index=%d", i), true)
					results <- pageResult{i, "", fmt.Errorf("null page")}
					continue
				}
				text, err := p.extractPageWithRetries(ctx, &page)
				results <- pageResult{i, text, err}
				if err != nil {
					logger.Debug(fmt.Sprintf("Worker: page extraction error: worker_id=%d page=%d err=%v", id, i, err), true)
				}
			}
		}(w)
	}
}

func (p *processor) extractPageWithRetries(ctx context.Context, page *pdf.Page) (string, error) {
	var text string
	var err error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		ctxPage, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.WorkerTimeout))
		text, err = p.strategy.ExtractPage(ctxPage, page)
		cancel()
		if err == nil {
			break
		}
		logger.Debug(fmt.Sprintf("Retrying page extraction: attempt=%d err=%v", attempt, err), true)
	}
	return text, err
}

func (p *processor) feedJobs(ctx context.Context, total int, jobs chan<- int) {
	for i := 1; i <= total; i++ {
		select {
		case <-ctx.Done():
			logger.Debug("Context cancelled while feeding jobs", true)
			return
		case jobs <- i:
		}
	}
}

// cacheFonts creates a one-time map of fonts for a page to avoid repeatedly
// parsing font charmaps.
func cacheFonts(page *pdf.Page) map[string]*pdf.Font {
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		if _, exists := fonts[name]; !exists {
			f := page.Font(name)
			fonts[name] = &f
		}
	}
	return fonts
}
