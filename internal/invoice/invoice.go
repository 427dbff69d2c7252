// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

// Package invoice builds customer invoices and renders them as PDF.
package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/samber/oops"
)

// TaxRate is the German VAT rate applied to every invoice.
const TaxRate = 0.19

// numberPattern matches invoice numbers like RE-2026-001.
var numberPattern = regexp.MustCompile(`^RE-(\d{4})-(\d{3,})$`)

// Item is one invoice line.
type Item struct {
	Description string  `json:"description"`
	Qty         int     `json:"qty"`
	Price       float64 `json:"price"`
}

// Customer is the billing address block.
type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Invoice is a complete invoice document.
type Invoice struct {
	Number   string    `json:"number"`
	Date     time.Time `json:"date"`
	Customer Customer  `json:"customer"`
	Items    []Item    `json:"items"`
}

// Totals holds the computed money amounts of an invoice.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals sums the line items and applies VAT.
func ComputeTotals(items []Item) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += float64(it.Qty) * it.Price
	}
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// FirstNumber returns the seed invoice number for a year, e.g. RE-2026-001.
func FirstNumber(year int) string {
	return fmt.Sprintf("RE-%04d-%03d", year, 1)
}

// NextNumber returns the number following prev. The sequence restarts at 001
// when the year rolls over.
func NextNumber(prev string, now time.Time) (string, error) {
	m := numberPattern.FindStringSubmatch(prev)
	if m == nil {
		return "", oops.Code("INVOICE_INVALID").
			With("number", prev).
			Errorf("invoice number does not match RE-YYYY-NNN")
	}

	year, _ := strconv.Atoi(m[1])
	if year != now.Year() {
		return FirstNumber(now.Year()), nil
	}

	seq, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("RE-%04d-%03d", year, seq+1), nil
}

// Validate checks the invoice is renderable.
func (inv *Invoice) Validate() error {
	if !numberPattern.MatchString(inv.Number) {
		return oops.Code("INVOICE_INVALID").
			With("number", inv.Number).
			Errorf("invoice number does not match RE-YYYY-NNN")
	}
	if inv.Customer.Name == "" {
		return oops.Code("INVOICE_INVALID").Errorf("customer name is required")
	}
	if len(inv.Items) == 0 {
		return oops.Code("INVOICE_INVALID").Errorf("invoice needs at least one item")
	}
	for i, it := range inv.Items {
		if it.Description == "" {
			return oops.Code("INVOICE_INVALID").
				With("item", i).
				Errorf("item description is required")
		}
		if it.Qty <= 0 {
			return oops.Code("INVOICE_INVALID").
				With("item", i).
				Errorf("item quantity must be positive")
		}
		if it.Price < 0 {
			return oops.Code("INVOICE_INVALID").
				With("item", i).
				Errorf("item price cannot be negative")
		}
	}
	return nil
}
