package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skyvault/internal/schema"
)

func sp(v string) *string   { return &v }
func fp(v float64) *float64 { return &v }

func timeFixed() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func TestRenderWritesPDF(t *testing.T) {
	dir := t.TempDir()
	r := NewPDF(dir)

	rec := schema.KYCRecord{
		ClientName: schema.PersonName{First: sp("Ivan"), Last: sp("Petrov")},
		Financials: schema.Financials{AnnualIncome: fp(220000)},
		ExemptionStatus: schema.ExemptionStatus{
			IsAccredited:        true,
			AccreditationReason: "annual_income >= $200,000 for 2 years",
		},
		MissingFields: []string{"personal.dob", "contact.email"},
	}

	doc, err := r.Render(context.Background(), rec, schema.FormIndividual, "J. Smith")
	require.NoError(t, err)

	require.Equal(t, dir, filepath.Dir(doc.Path))
	require.Contains(t, filepath.Base(doc.Path), "kyc_individual_ivan_petrov_")

	info, err := os.Stat(doc.Path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	// PDF header is the only structural property worth asserting on.
	payload, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	require.True(t, len(payload) > 4 && string(payload[:5]) == "%PDF-")
}

func TestRenderEmptyRecord(t *testing.T) {
	dir := t.TempDir()
	r := NewPDF(dir)

	doc, err := r.Render(context.Background(), schema.KYCRecord{}, schema.FormTradeSuitability, "")
	require.NoError(t, err)
	require.Contains(t, filepath.Base(doc.Path), "kyc_trade_suitability_unknown_")
}

func TestRenderCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "drafts")
	r := NewPDF(dir)

	doc, err := r.Render(context.Background(), schema.KYCRecord{}, schema.FormIndividual, "")
	require.NoError(t, err)
	require.FileExists(t, doc.Path)
}

func TestFileNameSanitizesClientName(t *testing.T) {
	rec := schema.KYCRecord{
		ClientName: schema.PersonName{First: sp("Maria"), Last: sp("Kovalenko Shevchenko")},
	}
	name := fileName(rec, schema.FormIndividual, timeFixed())
	require.Equal(t, "kyc_individual_maria_kovalenko_shevchenko_20250615_120000.pdf", name)
}
