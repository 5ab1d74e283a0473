// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"fmt"

	"github.com/mike-kfed/viac-pdf-import/logger"
)

// Document is the ordered per-page text of one PDF, index-aligned with
// physical page order.
type Document []string

// PageText reconstructs the text of one page: build the font registry, run
// the state-tracking pass, assemble separators and decoded runs. The
// registry lives exactly as long as this call.
func PageText(page *Page, h Heuristics) (string, error) {
	reg := NewFontRegistry(page)
	pairs := OpsWithState(page, reg)
	return AssembleText(pairs, h)
}

// ExtractDocument reconstructs every page in document order. A failed page
// fails the whole document: the result is either complete or an error,
// never a partial page list.
func ExtractDocument(pages []*Page, h Heuristics) (Document, error) {
	doc := make(Document, 0, len(pages))
	for i, page := range pages {
		text, err := PageText(page, h)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		logger.Debug(fmt.Sprintf("page %d: reconstructed %d chars", i+1, len(text)), true)
		doc = append(doc, text)
	}
	return doc, nil
}
