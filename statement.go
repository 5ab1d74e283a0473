// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/mike-kfed/viac-pdf-import/logger"
)

// viacAuthor is the author name every genuine VIAC statement carries in its
// trailer info dictionary.
const viacAuthor = "VIAC"

// frenchMarker appears on the first page of every French-language statement.
const frenchMarker = "de la Banque WIR"

// statementLanguage selects between the German and French statement layouts.
// The layouts differ beyond phrasing: the French documents place the share
// count relative to the ISIN line instead of the unit marker.
type statementLanguage int

const (
	langGerman statementLanguage = iota
	langFrench
)

// dialect holds the language-specific phrases and line patterns of one
// statement layout.
type dialect struct {
	lang statementLanguage

	purchase           string
	sale               string
	dividend           string
	taxRefundMarker    string
	dividendCorrection string
	fees               string
	interest           string
	incoming           string

	accountLine   string
	portfolioLine string

	valutaLayout   string
	interestLayout string

	valutaTitle     string
	taxesTitle      string
	conversionTitle string
	totalTitle      string
	interestTitle   string

	priceLine    string
	dividendLine string

	// Word index of the rate within the conversion line.
	conversionField int
}

var germanDialect = dialect{
	lang:               langGerman,
	purchase:           "Börsenabrechnung - Kauf",
	sale:               "Börsenabrechnung - Verkauf",
	dividend:           "Dividendenausschüttung",
	taxRefundMarker:    "Rückerstattung Quellensteuer",
	dividendCorrection: "Korrektur Dividendenausschüttung",
	fees:               "Verwaltungsgebühr",
	interest:           "Zinsgutschrift",
	incoming:           "Zahlungseingang",
	accountLine:        "Vertrag",
	portfolioLine:      "Portfolio",
	valutaLayout:       "Valuta 02.01.2006",
	interestLayout:     "Am 02.01.2006 haben wir Ihrem Konto gutgeschrieben:",
	valutaTitle:        "Valuta",
	taxesTitle:         "Stempelsteuer",
	conversionTitle:    "Umrechnungskurs",
	totalTitle:         "Betrag",
	interestTitle:      "Verrechneter Betrag",
	priceLine:          "Kurs:",
	dividendLine:       "Ausschüttung:",
	conversionField:    2,
}

var frenchDialect = dialect{
	lang:            langFrench,
	purchase:        "Opération de bourse - Achat",
	sale:            "Opération de bourse - Vente",
	dividend:        "Avis de dividende",
	taxRefundMarker: "Remboursement d'impôt à la source",
	fees:            "Commission",
	interest:        "Intérêts",
	incoming:        "Avis de versement",
	accountLine:     "Contrat",
	portfolioLine:   "Portefeuille",
	valutaLayout:    "Valeur 02.01.2006",
	interestLayout:  "Nous avons crédité le 02.01.2006 les intérêts suivants:",
	valutaTitle:     "Valeur",
	taxesTitle:      "Droits de timbre",
	conversionTitle: "Taux de conversion",
	totalTitle:      "Montant",
	interestTitle:   "Montant crédité",
	priceLine:       "Cours:",
	dividendLine:    "Dividende distribué:",
	conversionField: 4,
}

// Statement is one reconstructed VIAC document with its pages normalized to
// NFC, ready for pattern extraction. Diacritics in the reconstructed text
// may arrive as combining sequences depending on the font encoding, so all
// phrase matching happens on the normalized form.
type Statement struct {
	Path    string
	Title   string
	Author  string
	Pages   Document
	dialect dialect
}

// ParseStatement normalizes a reconstruction result and detects the
// statement language from the first page.
func ParseStatement(res *Result) *Statement {
	pages := make(Document, len(res.Pages))
	for i, p := range res.Pages {
		pages[i] = norm.NFC.String(p)
	}
	s := &Statement{
		Path:    res.Path,
		Title:   res.Title,
		Author:  res.Author,
		Pages:   pages,
		dialect: germanDialect,
	}
	if len(pages) > 0 && strings.Contains(pages[0], frenchMarker) {
		s.dialect = frenchDialect
	}
	return s
}

// Filename returns the statement's base file name, used in CSV comments.
func (s *Statement) Filename() string {
	return filepath.Base(s.Path)
}

// PrintSummary dumps the reconstructed pages through the debug logger.
func (s *Statement) PrintSummary() {
	logger.Debug(fmt.Sprintf("author %q", s.Author), true)
	logger.Debug(fmt.Sprintf("title %q", s.Title), true)
	for i, text := range s.Pages {
		logger.Debug(fmt.Sprintf("=== PAGE %d ===\n%s", i, text), true)
	}
}

// Summarize classifies the statement and extracts the fields its document
// kind requires. Statements not authored by VIAC and unrecognized layouts
// come back as KindNotViac and KindUnknown without an error.
func (s *Statement) Summarize(deduce bool) (*Summary, error) {
	if len(s.Pages) == 0 {
		return nil, fmt.Errorf("%s: document has no pages", s.Filename())
	}
	sum := &Summary{
		Deduce:  deduce,
		Comment: "viac_pdf_import " + s.Filename(),
	}
	sum.AccountNumber, sum.PortfolioNumber = s.accountNumbers()

	page := s.Pages[0]
	d := s.dialect
	var err error
	switch {
	case s.Author != viacAuthor:
		sum.Kind = KindNotViac
	case strings.Contains(page, d.purchase):
		sum.Kind = KindPurchase
		sum.Transaction, err = s.transaction()
	case strings.Contains(page, d.sale):
		sum.Kind = KindSale
		sum.Transaction, err = s.transaction()
	case strings.Contains(page, d.dividend):
		switch {
		case strings.Contains(page, d.taxRefundMarker):
			sum.Kind = KindTaxRefund
			sum.Dividend, err = s.dividendPayout()
		case d.dividendCorrection != "" && strings.Contains(page, d.dividendCorrection):
			// Dividend stornos are not importable yet.
			sum.Kind = KindUnknown
		default:
			sum.Kind = KindDividend
			sum.Dividend, err = s.dividendPayout()
		}
	case strings.Contains(page, d.fees):
		sum.Kind = KindFees
		sum.Valuta, err = s.valuta()
	case strings.Contains(page, d.interest):
		sum.Kind = KindInterest
		sum.Valuta, err = s.interestValuta()
	case strings.Contains(page, d.incoming):
		sum.Kind = KindIncoming
		sum.Valuta, err = s.valuta()
	default:
		sum.Kind = KindUnknown
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Filename(), err)
	}
	return sum, nil
}

func (s *Statement) transaction() (*Transaction, error) {
	t := &Transaction{}
	var err error
	if t.ValutaDate, err = s.valutaDate(); err != nil {
		return nil, err
	}
	if t.Shares, err = s.shares(); err != nil {
		return nil, err
	}
	if t.SharePrice, err = s.moneyAfterLine(s.dialect.priceLine); err != nil {
		return nil, err
	}
	if t.TotalPrice, err = s.totalPrice(); err != nil {
		return nil, err
	}
	if t.ValutaPrice, err = s.valutaPrice(); err != nil {
		return nil, err
	}
	if t.Taxes, err = s.taxes(); err != nil {
		return nil, err
	}
	if t.ISIN, err = s.isin(); err != nil {
		return nil, err
	}
	if t.ShareTitle, err = s.shareTitle(); err != nil {
		return nil, err
	}
	if t.ExchangeRate, err = s.exchangeRate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Statement) dividendPayout() (*Dividend, error) {
	d := &Dividend{}
	var err error
	if d.ISIN, err = s.isin(); err != nil {
		return nil, err
	}
	if d.ShareTitle, err = s.shareTitle(); err != nil {
		return nil, err
	}
	if d.ValutaPrice, err = s.valutaPrice(); err != nil {
		return nil, err
	}
	if d.ValutaDate, err = s.valutaDate(); err != nil {
		return nil, err
	}
	if d.Shares, err = s.shares(); err != nil {
		return nil, err
	}
	if d.DividendPrice, err = s.moneyAfterLine(s.dialect.dividendLine); err != nil {
		return nil, err
	}
	if d.TotalPrice, err = s.totalPrice(); err != nil {
		return nil, err
	}
	if d.ExchangeRate, err = s.exchangeRate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Statement) valuta() (*Valuta, error) {
	date, err := s.valutaDate()
	if err != nil {
		return nil, err
	}
	price, err := s.valutaPrice()
	if err != nil {
		return nil, err
	}
	return &Valuta{ValutaDate: date, ValutaPrice: price}, nil
}

func (s *Statement) interestValuta() (*Valuta, error) {
	date, err := s.interestDate()
	if err != nil {
		return nil, err
	}
	price, err := s.interestPrice()
	if err != nil {
		return nil, err
	}
	return &Valuta{ValutaDate: date, ValutaPrice: price}, nil
}

func (s *Statement) firstPageLines() []string {
	return strings.Split(s.Pages[0], "\n")
}

// isin returns the line following the "ISIN:" label line.
func (s *Statement) isin() (string, error) {
	lastLine := ""
	for _, line := range s.firstPageLines() {
		if strings.HasPrefix(lastLine, "ISIN:") && line != "" {
			return line, nil
		}
		lastLine = line
	}
	return "", fmt.Errorf("no ISIN found on first page")
}

// titleCurrencyAmount reads the three-line pattern of a labeled amount:
// the title line, the currency line, the amount line. A conversion rate is
// sometimes squeezed between title and currency and is skipped. The second
// return value reports whether the title was present at all.
func (s *Statement) titleCurrencyAmount(title string) (Money, bool, error) {
	currency := ""
	lastLine := ""
	for _, line := range s.firstPageLines() {
		if strings.HasPrefix(lastLine, title) {
			if len(line) < 3 {
				return Money{}, false, fmt.Errorf("malformed currency line %q after %q", line, title)
			}
			currency = line[:3]
			lastLine = line
			continue
		}
		if currency != "" {
			if strings.Contains(currency, ".") {
				// That was the rate line, the real currency follows.
				if len(line) < 3 {
					return Money{}, false, fmt.Errorf("malformed currency line %q after %q", line, title)
				}
				currency = line[:3]
				lastLine = line
				continue
			}
			amount, err := decimal.NewFromString(strings.ReplaceAll(line, "'", ""))
			if err != nil {
				return Money{}, false, fmt.Errorf("amount after %q: %w", title, err)
			}
			return NewMoney(currency, amount), true, nil
		}
		lastLine = line
	}
	return Money{}, false, nil
}

// moneyAfterLine reads a "CUR amount" line directly following an exact
// label line.
func (s *Statement) moneyAfterLine(content string) (Money, error) {
	lastLine := ""
	for _, line := range s.firstPageLines() {
		if lastLine == content {
			if len(line) < 5 {
				return Money{}, fmt.Errorf("malformed money line %q after %q", line, content)
			}
			amount, err := decimal.NewFromString(strings.ReplaceAll(line[4:], "'", ""))
			if err != nil {
				return Money{}, fmt.Errorf("amount after %q: %w", content, err)
			}
			return NewMoney(line[:3], amount), nil
		}
		lastLine = line
	}
	return Money{}, fmt.Errorf("no line %q on first page", content)
}

// accountNumbers reads the contract and portfolio numbers, each on the line
// following its label.
func (s *Statement) accountNumbers() (account, portfolio string) {
	lastLine := ""
	for _, line := range s.firstPageLines() {
		if lastLine == s.dialect.accountLine {
			account = line
		}
		if lastLine == s.dialect.portfolioLine {
			portfolio = line
		}
		if account != "" && portfolio != "" {
			break
		}
		lastLine = line
	}
	return account, portfolio
}

func (s *Statement) valutaDate() (time.Time, error) {
	return s.dateLine(s.dialect.valutaLayout)
}

func (s *Statement) interestDate() (time.Time, error) {
	return s.dateLine(s.dialect.interestLayout)
}

// dateLine finds the line matching the layout's literal prefix and parses
// the full line against the layout.
func (s *Statement) dateLine(layout string) (time.Time, error) {
	prefix := layout
	if i := strings.Index(layout, "02.01.2006"); i > 0 {
		prefix = layout[:i]
	}
	for _, line := range s.firstPageLines() {
		if strings.HasPrefix(line, prefix) {
			t, err := time.Parse(layout, line)
			if err != nil {
				return time.Time{}, fmt.Errorf("date line %q: %w", line, err)
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no date line matching %q on first page", prefix)
}

func (s *Statement) valutaPrice() (Money, error) {
	m, ok, err := s.titleCurrencyAmount(s.dialect.valutaTitle)
	if err != nil {
		return Money{}, err
	}
	if !ok {
		return Money{}, fmt.Errorf("no %q amount on first page", s.dialect.valutaTitle)
	}
	return m, nil
}

func (s *Statement) totalPrice() (Money, error) {
	m, ok, err := s.titleCurrencyAmount(s.dialect.totalTitle)
	if err != nil {
		return Money{}, err
	}
	if !ok {
		return Money{}, fmt.Errorf("no %q amount on first page", s.dialect.totalTitle)
	}
	return m, nil
}

func (s *Statement) interestPrice() (Money, error) {
	m, ok, err := s.titleCurrencyAmount(s.dialect.interestTitle)
	if err != nil {
		return Money{}, err
	}
	if !ok {
		return Money{}, fmt.Errorf("no %q amount on first page", s.dialect.interestTitle)
	}
	return m, nil
}

// taxes returns the stamp-duty amount, or nil when the statement has none.
func (s *Statement) taxes() (*Money, error) {
	m, ok, err := s.titleCurrencyAmount(s.dialect.taxesTitle)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// exchangeRateValue reads the numeric rate out of the conversion line. The
// rate usually sits on the same line; some layouts push it to the next one.
func (s *Statement) exchangeRateValue() (decimal.Decimal, error) {
	nextLine := false
	for _, line := range s.firstPageLines() {
		if nextLine {
			rate, err := decimal.NewFromString(line)
			if err != nil {
				return decimal.Decimal{}, fmt.Errorf("conversion rate %q: %w", line, err)
			}
			return rate, nil
		}
		if strings.HasPrefix(line, s.dialect.conversionTitle) {
			fields := strings.Split(line, " ")
			if len(fields) <= s.dialect.conversionField {
				continue
			}
			value := fields[s.dialect.conversionField]
			if value == "" {
				nextLine = true
				continue
			}
			rate, err := decimal.NewFromString(value)
			if err != nil {
				return decimal.Decimal{}, fmt.Errorf("conversion rate %q: %w", value, err)
			}
			return rate, nil
		}
	}
	return decimal.Decimal{}, fmt.Errorf("no %q line on first page", s.dialect.conversionTitle)
}

// exchangeRate returns nil when the statement settles in CHF without a
// conversion.
func (s *Statement) exchangeRate() (*ExchangeRate, error) {
	chfTotal, ok, err := s.titleCurrencyAmount(s.dialect.conversionTitle)
	if err != nil || !ok {
		return nil, err
	}
	rate, err := s.exchangeRateValue()
	if err != nil {
		return nil, err
	}
	total, err := s.totalPrice()
	if err != nil {
		return nil, err
	}
	return &ExchangeRate{Rate: rate, TotalPrice: total, PDFPrice: chfTotal}, nil
}

// shares reads the share count. German statements put it on the line before
// the "Ant" unit marker, French statements two lines before the ISIN label.
func (s *Statement) shares() (decimal.Decimal, error) {
	if s.dialect.lang == langFrench {
		lastLine := ""
		twoLines := ""
		for _, line := range s.firstPageLines() {
			if strings.HasPrefix(line, "ISIN:") {
				count, err := decimal.NewFromString(twoLines)
				if err != nil {
					return decimal.Decimal{}, fmt.Errorf("share count %q: %w", twoLines, err)
				}
				return count, nil
			}
			twoLines = lastLine
			lastLine = line
		}
		return decimal.Decimal{}, fmt.Errorf("no ISIN label on first page")
	}
	lastLine := ""
	for _, line := range s.firstPageLines() {
		if line == "Ant" {
			count, err := decimal.NewFromString(lastLine)
			if err != nil {
				return decimal.Decimal{}, fmt.Errorf("share count %q: %w", lastLine, err)
			}
			return count, nil
		}
		lastLine = line
	}
	return decimal.Decimal{}, fmt.Errorf("no unit marker on first page")
}

// shareTitle reads the security name. German statements put it after the
// "Ant" unit marker, French statements on the line before the ISIN label.
func (s *Statement) shareTitle() (string, error) {
	if s.dialect.lang == langFrench {
		lastLine := ""
		for _, line := range s.firstPageLines() {
			if strings.HasPrefix(line, "ISIN:") {
				return lastLine, nil
			}
			lastLine = line
		}
		return "", fmt.Errorf("no ISIN label on first page")
	}
	lastLine := ""
	for _, line := range s.firstPageLines() {
		if lastLine == "Ant" {
			return line, nil
		}
		lastLine = line
	}
	return "", fmt.Errorf("no unit marker on first page")
}
