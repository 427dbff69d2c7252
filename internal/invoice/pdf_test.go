// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zusammen-umzuege/zusammen/pkg/errutil"
)

func TestRenderPDF(t *testing.T) {
	t.Run("renders valid invoice", func(t *testing.T) {
		data, err := RenderPDF(validInvoice())

		require.NoError(t, err)
		require.NotEmpty(t, data)
		assert.Equal(t, "%PDF-", string(data[:5]))
	})

	t.Run("rejects invalid invoice", func(t *testing.T) {
		inv := validInvoice()
		inv.Items = nil

		_, err := RenderPDF(inv)

		errutil.AssertErrorCode(t, err, "INVOICE_INVALID")
	})
}

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0,00 €"},
		{9.5, "9,50 €"},
		{1450, "1.450,00 €"},
		{1234567.89, "1.234.567,89 €"},
		{-99.9, "-99,90 €"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatEUR(tt.value))
		})
	}
}
