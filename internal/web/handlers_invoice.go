// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/zusammen-umzuege/zusammen/internal/invoice"
	"github.com/zusammen-umzuege/zusammen/pkg/errutil"
)

type invoicePDFRequest struct {
	Number   string           `json:"number"`
	Date     string           `json:"date"` // YYYY-MM-DD, defaults to today
	Customer invoice.Customer `json:"customer"`
	Items    []invoice.Item   `json:"items"`
}

func (s *Server) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	var req invoicePDFRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(errutil.KeyError))
			return
		}
		date = parsed
	}

	number := req.Number
	if number == "" {
		number = invoice.FirstNumber(date.Year())
	}

	inv := invoice.Invoice{
		Number:   number,
		Date:     date,
		Customer: req.Customer,
		Items:    req.Items,
	}

	pdf, err := invoice.RenderPDF(inv)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", inv.Number))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // response write error means the client is gone
	w.Write(pdf)
}
