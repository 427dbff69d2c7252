// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package invoice

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/samber/oops"
)

// Seller block printed on every invoice.
const (
	sellerName    = "Zusammen Umzüge GmbH"
	sellerStreet  = "Warschauer Str. 42"
	sellerCity    = "10243 Berlin"
	sellerVATID   = "USt-IdNr. DE311234567"
	sellerContact = "info@zusammen-umzuege.de"
)

// RenderPDF renders an A4 invoice. Layout: seller header, customer block,
// item table, totals, payment footer. Text is cp1252-translated so the core
// fonts carry umlauts and the euro sign.
func RenderPDF(inv Invoice) ([]byte, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Seller header
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(29, 78, 216)
	pdf.CellFormat(0, 10, tr(sellerName), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, tr(sellerStreetLine()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(sellerVATID+" | "+sellerContact), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.4)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(8)

	// Invoice meta and customer block side by side
	startY := pdf.GetY()
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 6, tr("Rechnung an:"), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 6, tr(inv.Customer.Name), "", 1, "L", false, 0, "")
	for _, line := range strings.Split(inv.Customer.Address, "\n") {
		if line == "" {
			continue
		}
		pdf.CellFormat(95, 6, tr(line), "", 1, "L", false, 0, "")
	}

	pdf.SetXY(115, startY)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(40, 6, tr("Rechnungsnr.:"), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(45, 6, inv.Number, "", 1, "L", false, 0, "")
	pdf.SetX(115)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(40, 6, tr("Datum:"), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(45, 6, inv.Date.Format("02.01.2006"), "", 1, "L", false, 0, "")
	pdf.Ln(12)

	// Item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(29, 78, 216)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(12, 8, tr("Pos."), "1", 0, "C", true, 0, "")
	pdf.CellFormat(93, 8, tr("Beschreibung"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, tr("Menge"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 8, tr("Einzelpreis"), "1", 0, "R", true, 0, "")
	pdf.CellFormat(33, 8, tr("Gesamt"), "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, it := range inv.Items {
		lineTotal := float64(it.Qty) * it.Price
		pdf.CellFormat(12, 8, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(93, 8, tr(it.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", it.Qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(32, 8, tr(formatEUR(it.Price)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(33, 8, tr(formatEUR(lineTotal)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals block
	totals := ComputeTotals(inv.Items)
	totalRow := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 11)
		pdf.SetX(125)
		pdf.CellFormat(40, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(33, 7, tr(value), "", 1, "R", false, 0, "")
	}
	totalRow("Zwischensumme:", formatEUR(totals.Subtotal), false)
	totalRow("zzgl. 19% MwSt.:", formatEUR(totals.Tax), false)
	pdf.SetX(125)
	pdf.Line(125, pdf.GetY(), 198, pdf.GetY())
	totalRow("Gesamtbetrag:", formatEUR(totals.Total), true)
	pdf.Ln(12)

	// Footer
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr("Zahlbar innerhalb von 14 Tagen ohne Abzug.\nVielen Dank für Ihren Auftrag!"), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, oops.Code("INVOICE_RENDER_FAILED").
			With("number", inv.Number).
			Wrap(err)
	}
	return buf.Bytes(), nil
}

func sellerStreetLine() string {
	return sellerStreet + ", " + sellerCity
}

// formatEUR renders an amount in German notation, e.g. 1.234,56 €.
func formatEUR(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	intPart, fracPart, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + fracPart + " €"
	if neg {
		out = "-" + out
	}
	return out
}
