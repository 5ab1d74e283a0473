// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CHF is the booking currency of every VIAC account.
const CHF = "CHF"

// Money is an amount in one ISO 4217 currency. Amounts keep the exact
// decimal precision printed in the statement.
type Money struct {
	Currency string
	Amount   decimal.Decimal
}

// NewMoney builds a Money from a three-letter currency code and an amount.
func NewMoney(currency string, amount decimal.Decimal) Money {
	return Money{Currency: currency, Amount: amount}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, fixedAmount(m.Amount))
}

// fixedAmount renders an amount with the decimal places it carries.
// Decimal's String drops trailing zeros ("12.50" would come out "12.5"),
// but the statements print fixed two-decimal amounts and Portfolio
// Performance expects them back that way. The exponent survives parsing
// and multiplication, so scaled amounts keep their places too.
func fixedAmount(d decimal.Decimal) string {
	return d.StringFixed(-d.Exponent())
}
