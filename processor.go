// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/mike-kfed/viac-pdf-import/logger"
)

// Processor defines the contract for reconstructing the text of a PDF file.
type Processor interface {
	Extract(ctx context.Context, path string) (*Result, error)
}

// Result is one reconstructed document: trailer metadata plus the ordered
// per-page text.
type Result struct {
	Path   string
	Title  string
	Author string
	Pages  Document
}

// ExtractorStrategy defines how to reconstruct text from a single page.
// Different strategies handle errors differently (strict vs. best-effort).
type ExtractorStrategy interface {
	ExtractPage(ctx context.Context, page *Page, h Heuristics) (string, error)
}

// StrictExtractor enforces strict parsing.
// If any page fails, the entire extraction fails.
type StrictExtractor struct{}

func (s *StrictExtractor) ExtractPage(ctx context.Context, page *Page, h Heuristics) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return PageText(page, h)
}

// BestEffortExtractor tolerates errors.
// A failed page contributes empty text instead of failing the document.
type BestEffortExtractor struct{}

func (b *BestEffortExtractor) ExtractPage(ctx context.Context, page *Page, h Heuristics) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := PageText(page, h)
	if err != nil {
		logger.Debug(fmt.Sprintf("BestEffortExtractor: failed to reconstruct page text, ignoring error: err=%v", err), true)
		return "", nil
	}
	return text, nil
}

// processor manages PDF extraction with concurrency control
// and delegates page-level work to the chosen ExtractorStrategy.
type processor struct {
	cfg       *Config
	sem       *semaphore.Weighted
	extractor ExtractorStrategy
}

// NewProcessor validates the config and creates a new processor.
// Selects the correct ExtractorStrategy (Strict or BestEffort).
func NewProcessor(cfg *Config) *processor {
	var extractor ExtractorStrategy
	switch cfg.ParsingMode {
	case Strict:
		extractor = &StrictExtractor{}
	case BestEffort:
		extractor = &BestEffortExtractor{}
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
		cfg:       cfg,
		sem:       semaphore.NewWeighted(int64(cfg.MaxConcurrentPDFs)),
		extractor: extractor,
	}
}

// Extract reconstructs every page of the document in order. In strict mode
// any failed page fails the whole document; in best-effort mode failed
// pages come back as empty strings in their page slot.
func (p *processor) Extract(ctx context.Context, path string) (*Result, error) {
	logger.Debug(fmt.Sprintf("Starting extraction: path=%s", path), true)

	if err := p.acquireSlot(ctx); err != nil {
		logger.Debug(fmt.Sprintf("Failed to acquire slot: err=%v", err), true)
		return nil, err
	}
	defer p.sem.Release(1)
	logger.Debug(fmt.Sprintf("Slot acquired for extraction: path=%s", path), true)

	doc, err := ReadFile(path)
	if err != nil {
		logger.Debug(fmt.Sprintf("Failed to open PDF: path=%s err=%v", path, err), true)
		return nil, err
	}

	total := len(doc.Pages)
	logger.Debug(fmt.Sprintf("Total pages detected: path=%s pages=%d", path, total), true)

	result := &Result{Path: doc.Path, Title: doc.Title, Author: doc.Author}
	if total == 0 {
		logger.Debug(fmt.Sprintf("No pages found in PDF: path=%s", path), true)
		return result, nil
	}

	numWorkers := p.adjustWorkerCount(p.cfg.MaxWorkersPerPDF)
	logger.Debug(fmt.Sprintf("Starting workers: count=%d", numWorkers), true)

	jobs, results := make(chan int, total), make(chan pageResult, total)

	var wg sync.WaitGroup
	p.startWorkers(ctx, doc, jobs, results, numWorkers, &wg)
	p.feedJobs(ctx, total, jobs)
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	pages, err := p.collectInOrder(total, results)
	if err != nil {
		return nil, err
	}
	result.Pages = pages

	logger.Debug(fmt.Sprintf("Extraction completed: path=%s pages=%d", path, total), true)
	return result, nil
}

func (p *processor) collectInOrder(total int, results chan pageResult) (Document, error) {
	pages := make(Document, total)
	for res := range results {
		if res.err != nil {
			if p.cfg.ParsingMode == Strict {
				logger.Debug(fmt.Sprintf("Strict mode error, stopping extraction: page=%d err=%v", res.index, res.err), true)
				return nil, fmt.Errorf("strict mode failed on page %d: %w", res.index, res.err)
			}
			logger.Debug(fmt.Sprintf("Best-effort mode: page failed, emitting empty text: page=%d err=%v", res.index, res.err), true)
			continue
		}
		pages[res.index-1] = res.text
	}
	return pages, nil
}

func (p *processor) acquireSlot(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire slot: %w", err)
	}
	logger.Debug("Slot acquired successfully", true)
	return nil
}

func (p *processor) adjustWorkerCount(maxWorkers int) int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxWorkers > runtime.NumCPU()/2 {
		maxWorkers = runtime.NumCPU()
	}
	logger.Debug(fmt.Sprintf("Adjusted worker count: workers=%d", maxWorkers), true)
	return maxWorkers
}

type pageResult struct {
	index int
	text  string
	err   error
}

func (p *processor) startWorkers(ctx context.Context, doc *File, jobs <-chan int, results chan<- pageResult, numWorkers int, wg *sync.WaitGroup) {
	logger.Debug(fmt.Sprintf("Spawning workers: num_workers=%d", numWorkers), true)
	for w := 1; w <= numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Debug(fmt.Sprintf("Worker started: id=%d", id), true)
			for i := range jobs {
				text, err := p.extractor.ExtractPage(ctx, doc.Pages[i-1], p.cfg.Heuristics)
				results <- pageResult{i, text, err}
				if err != nil {
					logger.Debug(fmt.Sprintf("Worker: page reconstruction error: worker_id=%d page=%d err=%v", id, i, err), true)
				} else {
					logger.Debug(fmt.Sprintf("Worker: page reconstructed successfully: worker_id=%d page=%d", id, i), true)
				}
			}
			logger.Debug(fmt.Sprintf("Worker finished: id=%d", id), true)
		}(w)
	}
}

func (p *processor) feedJobs(ctx context.Context, total int, jobs chan<- int) error {
	for i := 1; i <= total; i++ {
		select {
		case <-ctx.Done():
			logger.Debug("Context cancelled while feeding jobs", true)
			return ctx.Err()
		case jobs <- i:
			logger.Debug(fmt.Sprintf("Job queued: page=%d", i), true)
		}
	}
	logger.Debug(fmt.Sprintf("All jobs queued: total_pages=%d", total), true)
	return nil
}
