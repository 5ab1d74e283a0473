// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viacResult(path string, pages ...string) *Result {
	return &Result{
		Path:   path,
		Title:  "Abrechnung",
		Author: "VIAC",
		Pages:  pages,
	}
}

var germanPurchasePage = strings.Join([]string{
	"Börsenabrechnung - Kauf",
	"Vertrag",
	"123.456",
	"Portfolio",
	"Portfolio 3a-1",
	"Wir haben für Sie gekauft",
	"0.549",
	"Ant",
	"Vanguard FTSE All-World",
	"ISIN:",
	"IE00B3RBWM25",
	"Kurs:",
	"USD 29.39",
	"Betrag",
	"USD",
	"16.14",
	"Umrechnungskurs USD/CHF 0.91123",
	"CHF",
	"14.71",
	"Stempelsteuer",
	"CHF",
	"0.02",
	"Valuta 03.05.2021",
	"CHF",
	"14.73",
}, "\n")

var frenchDividendPage = strings.Join([]string{
	"Extrait bancaire de la Banque WIR",
	"Avis de dividende",
	"Contrat",
	"654.321",
	"Portefeuille",
	"Portefeuille 3a-2",
	"1.5",
	"Vanguard FTSE All-World",
	"ISIN:",
	"IE00B3RBWM25",
	"Dividende distribué:",
	"USD 0.59",
	"Montant",
	"USD",
	"0.89",
	"Valeur 15.06.2021",
	"CHF",
	"0.80",
}, "\n")

func TestParseStatementLanguageDetection(t *testing.T) {
	german := ParseStatement(viacResult("a.pdf", germanPurchasePage))
	assert.Equal(t, langGerman, german.dialect.lang)

	french := ParseStatement(viacResult("b.pdf", frenchDividendPage))
	assert.Equal(t, langFrench, french.dialect.lang)
}

// Reconstructed text may carry combining marks; matching happens on NFC.
func TestParseStatementNormalizesNFC(t *testing.T) {
	decomposed := "Bo\u0308rsenabrechnung - Kauf"
	stmt := ParseStatement(viacResult("a.pdf", decomposed))
	assert.Equal(t, "B\u00f6rsenabrechnung - Kauf", stmt.Pages[0])
}

func TestSummarizeGermanPurchase(t *testing.T) {
	stmt := ParseStatement(viacResult("kauf.pdf", germanPurchasePage))
	sum, err := stmt.Summarize(false)
	require.NoError(t, err)

	assert.Equal(t, KindPurchase, sum.Kind)
	assert.Equal(t, "123.456", sum.AccountNumber)
	assert.Equal(t, "Portfolio 3a-1", sum.PortfolioNumber)
	assert.Equal(t, "viac_pdf_import kauf.pdf", sum.Comment)

	tr := sum.Transaction
	require.NotNil(t, tr)
	assert.Equal(t, time.Date(2021, 5, 3, 0, 0, 0, 0, time.UTC), tr.ValutaDate)
	assert.Equal(t, "0.549", tr.Shares.String())
	assert.Equal(t, "IE00B3RBWM25", tr.ISIN)
	assert.Equal(t, "Vanguard FTSE All-World", tr.ShareTitle)
	assert.Equal(t, NewMoney("USD", decimal.RequireFromString("29.39")), tr.SharePrice)
	assert.Equal(t, NewMoney("USD", decimal.RequireFromString("16.14")), tr.TotalPrice)
	assert.Equal(t, NewMoney("CHF", decimal.RequireFromString("14.73")), tr.ValutaPrice)
	require.NotNil(t, tr.Taxes)
	assert.Equal(t, NewMoney("CHF", decimal.RequireFromString("0.02")), *tr.Taxes)
	require.NotNil(t, tr.ExchangeRate)
	assert.Equal(t, "0.91123", tr.ExchangeRate.Rate.String())
	assert.Equal(t, NewMoney("CHF", decimal.RequireFromString("14.71")), tr.ExchangeRate.PDFPrice)
}

func TestSummarizeFrenchDividend(t *testing.T) {
	stmt := ParseStatement(viacResult("dividende.pdf", frenchDividendPage))
	sum, err := stmt.Summarize(false)
	require.NoError(t, err)

	assert.Equal(t, KindDividend, sum.Kind)
	assert.Equal(t, "654.321", sum.AccountNumber)
	assert.Equal(t, "Portefeuille 3a-2", sum.PortfolioNumber)

	d := sum.Dividend
	require.NotNil(t, d)
	assert.Equal(t, "1.5", d.Shares.String())
	assert.Equal(t, "IE00B3RBWM25", d.ISIN)
	assert.Equal(t, "Vanguard FTSE All-World", d.ShareTitle)
	assert.Equal(t, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), d.ValutaDate)
	assert.Equal(t, NewMoney("USD", decimal.RequireFromString("0.59")), d.DividendPrice)
	assert.Equal(t, NewMoney("USD", decimal.RequireFromString("0.89")), d.TotalPrice)
	assert.Equal(t, NewMoney("CHF", decimal.RequireFromString("0.80")), d.ValutaPrice)
	assert.Nil(t, d.ExchangeRate)
}

func TestSummarizeGermanFees(t *testing.T) {
	page := strings.Join([]string{
		"Verwaltungsgebühr",
		"Vertrag",
		"123.456",
		"Portfolio",
		"Portfolio 3a-1",
		"Valuta 30.06.2021",
		"CHF",
		"3.70",
	}, "\n")
	sum, err := ParseStatement(viacResult("gebuehr.pdf", page)).Summarize(false)
	require.NoError(t, err)

	assert.Equal(t, KindFees, sum.Kind)
	require.NotNil(t, sum.Valuta)
	assert.Equal(t, time.Date(2021, 6, 30, 0, 0, 0, 0, time.UTC), sum.Valuta.ValutaDate)
	assert.Equal(t, NewMoney("CHF", decimal.RequireFromString("3.70")), sum.Valuta.ValutaPrice)
	assert.Equal(t, "3.70", sum.Fees())
}

func TestSummarizeGermanInterest(t *testing.T) {
	page := strings.Join([]string{
		"Zinsgutschrift",
		"Vertrag",
		"123.456",
		"Portfolio",
		"Portfolio 3a-1",
		"Am 31.12.2021 haben wir Ihrem Konto gutgeschrieben:",
		"Verrechneter Betrag",
		"CHF",
		"1.23",
	}, "\n")
	sum, err := ParseStatement(viacResult("zins.pdf", page)).Summarize(false)
	require.NoError(t, err)

	assert.Equal(t, KindInterest, sum.Kind)
	require.NotNil(t, sum.Valuta)
	assert.Equal(t, time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC), sum.Valuta.ValutaDate)
	assert.Equal(t, NewMoney("CHF", decimal.RequireFromString("1.23")), sum.Valuta.ValutaPrice)
}

func TestSummarizeGermanIncoming(t *testing.T) {
	page := strings.Join([]string{
		"Zahlungseingang",
		"Vertrag",
		"123.456",
		"Portfolio",
		"Portfolio 3a-1",
		"Valuta 05.01.2021",
		"CHF",
		"500.00",
	}, "\n")
	sum, err := ParseStatement(viacResult("einzahlung.pdf", page)).Summarize(false)
	require.NoError(t, err)
	assert.Equal(t, KindIncoming, sum.Kind)
	amount, currency := sum.ValutaPrice()
	assert.Equal(t, "500.00", amount)
	assert.Equal(t, "CHF", currency)
}

func TestSummarizeTaxRefund(t *testing.T) {
	page := "Dividendenausschüttung\nRückerstattung Quellensteuer\n" +
		strings.Join([]string{
			"Vertrag", "123.456", "Portfolio", "Portfolio 3a-1",
			"0.549",
			"Ant",
			"Vanguard FTSE All-World",
			"ISIN:",
			"IE00B3RBWM25",
			"Ausschüttung:",
			"USD 0.59",
			"Betrag",
			"USD",
			"0.10",
			"Valuta 15.06.2021",
			"CHF",
			"0.09",
		}, "\n")
	sum, err := ParseStatement(viacResult("refund.pdf", page)).Summarize(false)
	require.NoError(t, err)
	assert.Equal(t, KindTaxRefund, sum.Kind)
	require.NotNil(t, sum.Dividend)
	assert.Equal(t, "TAX_REFUND", sum.Kind.OrderType())
}

// A dividend storno is recognized but not importable.
func TestSummarizeDividendCorrection(t *testing.T) {
	page := "Korrektur Dividendenausschüttung\nVertrag\n1\nPortfolio\n2"
	sum, err := ParseStatement(viacResult("storno.pdf", page)).Summarize(false)
	require.NoError(t, err)
	assert.Equal(t, KindUnknown, sum.Kind)
}

func TestSummarizeNotViac(t *testing.T) {
	res := viacResult("other.pdf", germanPurchasePage)
	res.Author = "Some Bank"
	sum, err := ParseStatement(res).Summarize(false)
	require.NoError(t, err)
	assert.Equal(t, KindNotViac, sum.Kind)
	assert.Nil(t, sum.Transaction)
}

func TestSummarizeUnknown(t *testing.T) {
	sum, err := ParseStatement(viacResult("misc.pdf", "Jahresbericht 2021")).Summarize(false)
	require.NoError(t, err)
	assert.Equal(t, KindUnknown, sum.Kind)
}

func TestSummarizeEmptyDocument(t *testing.T) {
	_, err := ParseStatement(viacResult("empty.pdf")).Summarize(false)
	assert.Error(t, err)
}

// Thousands separators are stripped before parsing amounts.
func TestTitleCurrencyAmountApostrophes(t *testing.T) {
	page := strings.Join([]string{
		"Betrag",
		"CHF",
		"12'345.67",
	}, "\n")
	stmt := ParseStatement(viacResult("x.pdf", page))
	m, ok, err := stmt.titleCurrencyAmount("Betrag")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "12345.67", m.Amount.String())
}

// A conversion rate squeezed between title and currency is skipped.
func TestTitleCurrencyAmountSkipsRateLine(t *testing.T) {
	page := strings.Join([]string{
		"Betrag",
		"0.91123",
		"USD",
		"16.14",
	}, "\n")
	stmt := ParseStatement(viacResult("x.pdf", page))
	m, ok, err := stmt.titleCurrencyAmount("Betrag")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "USD", m.Currency)
	assert.Equal(t, "16.14", m.Amount.String())
}

func TestTitleCurrencyAmountMissing(t *testing.T) {
	stmt := ParseStatement(viacResult("x.pdf", "nothing here"))
	_, ok, err := stmt.titleCurrencyAmount("Betrag")
	require.NoError(t, err)
	assert.False(t, ok)
}

// The rate can sit on the line after the conversion label when the label
// line ends in a double space.
func TestExchangeRateValueOnNextLine(t *testing.T) {
	page := strings.Join([]string{
		"Umrechnungskurs USD/CHF ",
		"0.91123",
	}, "\n")
	stmt := ParseStatement(viacResult("x.pdf", page))
	rate, err := stmt.exchangeRateValue()
	require.NoError(t, err)
	assert.Equal(t, "0.91123", rate.String())
}
