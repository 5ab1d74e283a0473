// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mike-kfed/viac-pdf-import/logger"
)

// IsinCurrency overrides the quote currency of one security. Portfolio
// Performance pulls online quotes that are sometimes denominated in a
// different currency than the one the trades settled in.
type IsinCurrency struct {
	ISIN     string
	Currency string
}

// ParseIsinCurrency parses an "ISIN=CUR" flag value.
func ParseIsinCurrency(v string) (IsinCurrency, error) {
	isin, currency, ok := strings.Cut(v, "=")
	if !ok || isin == "" || len(currency) != 3 {
		return IsinCurrency{}, fmt.Errorf("invalid isin-currency mapping %q, want ISIN=CUR", v)
	}
	return IsinCurrency{ISIN: isin, Currency: currency}, nil
}

// transactionHeader is the Portfolio Performance CSV import layout for
// account and portfolio transactions.
var transactionHeader = []string{
	"Datum",
	"Typ",
	"Wert",
	"Buchungswährung",
	"Bruttobetrag",
	"Währung Bruttobetrag",
	"Wechselkurs",
	"Gebühren",
	"Steuern",
	"Stück",
	"ISIN",
	"Notiz",
}

// sharesHeader is the Portfolio Performance CSV import layout for
// securities.
var sharesHeader = []string{
	"ISIN",
	"WKN",
	"Ticker-Symbol",
	"Wertpapiername",
	"Währung",
	"Notiz",
}

// csvDateLayout matches the datetime rendering Portfolio Performance
// accepts for the Datum column.
const csvDateLayout = "2006-01-02 15:04:05"

type shareInfo struct {
	isin     string
	name     string
	currency string
	comment  string
}

// WriteSummaries writes one shares catalog plus a pair of account and
// portfolio transaction files per portfolio number into outDir, in the
// CSV layout Portfolio Performance imports.
func WriteSummaries(outDir string, byPortfolio map[string][]*Summary, isinCurrency []IsinCurrency) error {
	currencyOverride := make(map[string]string, len(isinCurrency))
	for _, ic := range isinCurrency {
		currencyOverride[ic.ISIN] = ic.Currency
	}

	allShares, err := writeSharesCatalog(outDir, byPortfolio)
	if err != nil {
		return err
	}

	portfolios := make([]string, 0, len(byPortfolio))
	for p := range byPortfolio {
		portfolios = append(portfolios, p)
	}
	sort.Strings(portfolios)

	for _, portfolio := range portfolios {
		summaries := append([]*Summary(nil), byPortfolio[portfolio]...)
		sort.Slice(summaries, func(i, j int) bool {
			return summaries[i].ValutaDate().Before(summaries[j].ValutaDate())
		})
		if err := writeAccountFile(outDir, portfolio, summaries, allShares, currencyOverride); err != nil {
			return err
		}
		if err := writePortfolioFile(outDir, portfolio, summaries, currencyOverride); err != nil {
			return err
		}
	}
	return nil
}

// writeSharesCatalog collects every traded security and writes the
// catalog file. Only purchases and sales determine a share's currency:
// VIAC sometimes buys in currency X and pays dividends in currency Y, and
// the dividend rows later fake their rate against the trade currency.
func writeSharesCatalog(outDir string, byPortfolio map[string][]*Summary) (map[string]shareInfo, error) {
	allShares := make(map[string]shareInfo)
	for _, summaries := range byPortfolio {
		for _, s := range summaries {
			if !s.Kind.IsSecurityTrade() {
				continue
			}
			isin := s.ISIN()
			if isin == "" {
				continue
			}
			if _, exists := allShares[isin]; exists {
				continue
			}
			_, currency := s.TotalPrice(decimal.NewFromInt(1))
			allShares[isin] = shareInfo{
				isin:     isin,
				name:     s.ShareTitle(),
				currency: currency,
				comment:  "viac_pdf_import",
			}
		}
	}

	path := filepath.Join(outDir, "VIAC_any_account_Shares.csv")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(sharesHeader); err != nil {
		return nil, err
	}
	isins := make([]string, 0, len(allShares))
	for isin := range allShares {
		isins = append(isins, isin)
	}
	sort.Strings(isins)
	for _, isin := range isins {
		v := allShares[isin]
		if err := w.Write([]string{v.isin, "", "", v.name, v.currency, v.comment}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return allShares, nil
}

// writeAccountFile writes the cash-side bookings: fees, interest,
// deposits, dividends and tax refunds.
func writeAccountFile(outDir, portfolio string, summaries []*Summary, allShares map[string]shareInfo, currencyOverride map[string]string) error {
	path := filepath.Join(outDir, fmt.Sprintf("VIAC_%s_Account.csv", portfolio))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(transactionHeader); err != nil {
		return err
	}

	one := decimal.NewFromInt(1)
	for _, summary := range summaries {
		if summary.Kind.IsSecurityTrade() {
			continue
		}
		valutaPrice, valutaCurrency := summary.ValutaPrice()
		isin := summary.ISIN()
		conversionRate := one
		if pp, ok := currencyOverride[isin]; ok && isin != "" && pp == "GBX" {
			conversionRate = decimal.NewFromInt(100)
		}
		totalPrice, totalCurrency := summary.TotalPrice(conversionRate)

		var exchangeRate string
		if isin != "" {
			if pp, ok := currencyOverride[isin]; ok {
				totalCurrency = pp
				exchangeRate = summary.ExchangeRateCompute(one.Div(conversionRate))
				logger.Debug(fmt.Sprintf("currency override applied: isin=%s currency=%s", isin, pp), true)
			} else {
				share, ok := allShares[isin]
				if !ok {
					return fmt.Errorf("share %s not found, make sure to import all PDFs", isin)
				}
				// Fake a rate of 1.0 when the dividend is not paid in
				// the share currency.
				if share.currency != totalCurrency {
					totalCurrency = share.currency
				}
				exchangeRate = summary.ExchangeRateCompute(one)
			}
		} else {
			// No ISIN means fees, interest or deposits.
			exchangeRate = summary.ExchangeRate(one)
		}

		record := []string{
			summary.ValutaDate().Format(csvDateLayout),
			summary.Kind.OrderType(),
			valutaPrice,
			valutaCurrency,
			totalPrice,
			totalCurrency,
			exchangeRate,
			summary.Fees(),
			summary.Taxes(),
			summary.Shares(),
			isin,
			summary.Comment,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writePortfolioFile writes the security trades.
func writePortfolioFile(outDir, portfolio string, summaries []*Summary, currencyOverride map[string]string) error {
	path := filepath.Join(outDir, fmt.Sprintf("VIAC_%s_Portfolio.csv", portfolio))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(transactionHeader); err != nil {
		return err
	}

	one := decimal.NewFromInt(1)
	for _, summary := range summaries {
		if !summary.Kind.IsSecurityTrade() {
			continue
		}
		valutaPrice, valutaCurrency := summary.ValutaPrice()
		isin := summary.ISIN()
		conversionRate := one
		if pp, ok := currencyOverride[isin]; ok && pp == "GBX" {
			conversionRate = decimal.NewFromInt(100)
		}
		totalPrice, totalCurrency := summary.TotalPrice(conversionRate)
		if pp, ok := currencyOverride[isin]; ok {
			totalCurrency = pp
		}

		record := []string{
			summary.ValutaDate().Format(csvDateLayout),
			summary.Kind.OrderType(),
			valutaPrice,
			valutaCurrency,
			totalPrice,
			totalCurrency,
			summary.ExchangeRate(one.Div(conversionRate)),
			summary.Fees(),
			summary.Taxes(),
			summary.Shares(),
			isin,
			summary.Comment,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
