// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mike-kfed/viac-pdf-import/logger"
)

// DocumentKind classifies a VIAC statement by the booking it describes.
type DocumentKind int

const (
	KindUnknown DocumentKind = iota
	KindNotViac
	KindPurchase
	KindSale
	KindDividend
	KindTaxRefund
	KindFees
	KindInterest
	KindIncoming
)

func (k DocumentKind) String() string {
	switch k {
	case KindNotViac:
		return "NotViac"
	case KindPurchase:
		return "Purchase"
	case KindSale:
		return "Sale"
	case KindDividend:
		return "Dividend"
	case KindTaxRefund:
		return "TaxRefund"
	case KindFees:
		return "Fees"
	case KindInterest:
		return "Interest"
	case KindIncoming:
		return "Incoming"
	}
	return "Unknown"
}

// OrderType returns the Portfolio Performance account-transaction type
// for the kind, from name.abuchen.portfolio.model.AccountTransaction.
func (k DocumentKind) OrderType() string {
	switch k {
	case KindInterest:
		return "INTEREST"
	case KindFees:
		return "FEES"
	case KindIncoming:
		return "DEPOSIT"
	case KindPurchase:
		return "BUY"
	case KindSale:
		return "SELL"
	case KindDividend:
		return "DIVIDENDS"
	case KindTaxRefund:
		return "TAX_REFUND"
	}
	return ""
}

// IsSecurityTrade reports whether the kind books against the portfolio
// account rather than the cash account.
func (k DocumentKind) IsSecurityTrade() bool {
	return k == KindPurchase || k == KindSale
}

// ExchangeRate is the conversion block of a foreign-currency statement.
// PDFPrice is the CHF amount printed next to the rate.
type ExchangeRate struct {
	Rate       decimal.Decimal
	TotalPrice Money
	PDFPrice   Money
}

// TotalPriceCHF recomputes the CHF total from the rate, recovering decimal
// digits the printed CHF amount rounds away.
func (er *ExchangeRate) TotalPriceCHF() (Money, error) {
	if er.TotalPrice.Currency == CHF {
		return Money{}, fmt.Errorf("total price already in %s", CHF)
	}
	return NewMoney(CHF, er.TotalPrice.Amount.Mul(er.Rate)), nil
}

// Transaction is a purchase or sale of shares.
type Transaction struct {
	ValutaDate   time.Time
	Shares       decimal.Decimal
	SharePrice   Money
	TotalPrice   Money
	ValutaPrice  Money
	Taxes        *Money
	ISIN         string
	ShareTitle   string
	ExchangeRate *ExchangeRate
}

// ValutaWithoutTaxes returns the settled amount minus stamp duty.
func (t *Transaction) ValutaWithoutTaxes() (Money, error) {
	if t.Taxes == nil {
		return t.ValutaPrice, nil
	}
	if t.ValutaPrice.Currency != t.Taxes.Currency {
		return Money{}, fmt.Errorf("valuta currency %s does not match taxes currency %s",
			t.ValutaPrice.Currency, t.Taxes.Currency)
	}
	return NewMoney(CHF, t.ValutaPrice.Amount.Sub(t.Taxes.Amount)), nil
}

// RealSharesCount corrects the printed share count only when the implied
// share price diverges from the printed one by more than a percent. VIAC
// rounds the printed count to three decimals, which makes Portfolio
// Performance recompute slightly different totals.
func (t *Transaction) RealSharesCount() decimal.Decimal {
	totalPrice, sharePrice := t.TotalPrice, t.SharePrice
	if er := t.ExchangeRate; er != nil {
		// Start from the higher-precision CHF total when a rate is given.
		if chfTotal, err := er.TotalPriceCHF(); err == nil {
			totalPrice = chfTotal
			sharePrice = NewMoney(CHF, t.SharePrice.Amount.Mul(er.Rate))
		}
	}
	if totalPrice.Currency != sharePrice.Currency {
		return t.Shares
	}
	ppSharePrice := totalPrice.Amount.Div(t.Shares)
	realCount := totalPrice.Amount.Div(sharePrice.Amount)
	diff := decimal.NewFromInt(1).
		Sub(ppSharePrice.Div(sharePrice.Amount)).
		Abs().
		Mul(decimal.NewFromInt(100)).
		Round(4)
	if diff.GreaterThan(decimal.NewFromInt(1)) {
		logger.Debug(fmt.Sprintf("share_price_diff: %s%% computed_count: %s pdf_count: %s",
			diff, realCount.Round(5), t.Shares), true)
		return realCount
	}
	return t.Shares
}

// Dividend is a dividend payout or a withholding-tax refund on one.
type Dividend struct {
	ISIN          string
	ShareTitle    string
	ValutaDate    time.Time
	ValutaPrice   Money
	Shares        decimal.Decimal
	DividendPrice Money
	TotalPrice    Money
	ExchangeRate  *ExchangeRate
}

// RealSharesCount derives the share count from the payout instead of
// trusting the rounded printed value.
func (d *Dividend) RealSharesCount() decimal.Decimal {
	if d.TotalPrice.Currency != d.DividendPrice.Currency {
		return d.Shares
	}
	computed := d.TotalPrice.Amount.Div(d.DividendPrice.Amount)
	logger.Debug(fmt.Sprintf("dividend computed_count: %s pdf_count: %s",
		computed.Round(5), d.Shares), true)
	return computed
}

// Valuta is the date and amount of a plain cash booking (fees, interest,
// deposits).
type Valuta struct {
	ValutaDate  time.Time
	ValutaPrice Money
}

// Summary is one classified statement reduced to the fields the CSV
// export needs. Exactly one of Transaction, Dividend, Valuta is set,
// matching the Kind; none for KindUnknown and KindNotViac.
type Summary struct {
	Deduce          bool
	AccountNumber   string
	PortfolioNumber string
	Comment         string
	Kind            DocumentKind

	Transaction *Transaction
	Dividend    *Dividend
	Valuta      *Valuta
}

// ValutaDate returns the booking date of the summary's document.
func (s *Summary) ValutaDate() time.Time {
	switch s.Kind {
	case KindInterest, KindFees, KindIncoming:
		return s.Valuta.ValutaDate
	case KindPurchase, KindSale:
		return s.Transaction.ValutaDate
	case KindDividend, KindTaxRefund:
		return s.Dividend.ValutaDate
	}
	return time.Time{}
}

// ValutaPrice returns the settled amount and its currency as CSV fields.
func (s *Summary) ValutaPrice() (amount, currency string) {
	var v Money
	switch s.Kind {
	case KindInterest, KindFees, KindIncoming:
		v = s.Valuta.ValutaPrice
	case KindPurchase, KindSale:
		v = s.Transaction.ValutaPrice
	case KindDividend, KindTaxRefund:
		v = s.Dividend.ValutaPrice
	default:
		return "", ""
	}
	return fixedAmount(v.Amount), v.Currency
}

// TotalPrice returns the gross amount scaled by conversionRate and its
// currency as CSV fields. Cash bookings have no gross amount.
func (s *Summary) TotalPrice(conversionRate decimal.Decimal) (amount, currency string) {
	var t Money
	switch s.Kind {
	case KindPurchase, KindSale:
		t = s.Transaction.TotalPrice
	case KindDividend, KindTaxRefund:
		t = s.Dividend.TotalPrice
	default:
		return "", ""
	}
	return fixedAmount(t.Amount.Mul(conversionRate)), t.Currency
}

// ExchangeRateCompute derives the exchange rate from the settled and gross
// amounts. VIAC prints amounts rounded to two decimals, so the printed rate
// does not reproduce them exactly in Portfolio Performance.
func (s *Summary) ExchangeRateCompute(conversionRate decimal.Decimal) string {
	var v, t Money
	switch s.Kind {
	case KindPurchase, KindSale:
		v, t = s.Transaction.ValutaPrice, s.Transaction.TotalPrice
	case KindDividend, KindTaxRefund:
		v, t = s.Dividend.ValutaPrice, s.Dividend.TotalPrice
	default:
		return ""
	}
	return v.Amount.Div(t.Amount).Mul(conversionRate).Round(5).String()
}

// ExchangeRate returns the printed conversion rate scaled by
// conversionRate, or empty when the statement has none.
func (s *Summary) ExchangeRate(conversionRate decimal.Decimal) string {
	var er *ExchangeRate
	switch s.Kind {
	case KindPurchase, KindSale:
		er = s.Transaction.ExchangeRate
	case KindDividend, KindTaxRefund:
		er = s.Dividend.ExchangeRate
	}
	if er == nil {
		return ""
	}
	return er.Rate.Mul(conversionRate).String()
}

// Fees returns the fee amount as a CSV field.
func (s *Summary) Fees() string {
	if s.Kind == KindFees {
		return fixedAmount(s.Valuta.ValutaPrice.Amount)
	}
	return "0.00"
}

// Taxes returns the stamp-duty amount as a CSV field.
func (s *Summary) Taxes() string {
	if s.Kind.IsSecurityTrade() && s.Transaction.Taxes != nil {
		return fixedAmount(s.Transaction.Taxes.Amount)
	}
	return "0.00"
}

// Shares returns the share count as a CSV field. With Deduce set the count
// is recomputed from the amounts instead of taken from the document.
func (s *Summary) Shares() string {
	switch s.Kind {
	case KindPurchase, KindSale:
		if s.Deduce {
			return s.Transaction.RealSharesCount().Round(5).String()
		}
		return s.Transaction.Shares.String()
	case KindDividend, KindTaxRefund:
		if s.Deduce {
			return s.Dividend.RealSharesCount().Round(5).String()
		}
		return s.Dividend.Shares.String()
	}
	return "0.00"
}

// ISIN returns the security identifier, empty for cash bookings.
func (s *Summary) ISIN() string {
	switch s.Kind {
	case KindPurchase, KindSale:
		return s.Transaction.ISIN
	case KindDividend, KindTaxRefund:
		return s.Dividend.ISIN
	}
	return ""
}

// ShareTitle returns the security name, empty for cash bookings.
func (s *Summary) ShareTitle() string {
	switch s.Kind {
	case KindPurchase, KindSale:
		return s.Transaction.ShareTitle
	case KindDividend, KindTaxRefund:
		return s.Dividend.ShareTitle
	}
	return ""
}
