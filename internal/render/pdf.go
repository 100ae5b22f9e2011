// Package render produces the draft KYC filing as a PDF for human review.
// Field placement follows the paper form loosely; this is a working draft for
// the dealing representative, not the filed artifact.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"skyvault/internal/pipeline"
	"skyvault/internal/schema"
)

// PDFRenderer writes draft filings into outputDir.
type PDFRenderer struct {
	outputDir string
	now       func() time.Time
}

func NewPDF(outputDir string) *PDFRenderer {
	return &PDFRenderer{outputDir: outputDir, now: time.Now}
}

// Render builds the draft form. Unfillable values render as blank lines for
// manual completion; rendering never invents data.
func (r *PDFRenderer) Render(ctx context.Context, rec schema.KYCRecord, formType schema.FormType, dealingRep string) (pipeline.DocumentHandle, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return pipeline.DocumentHandle{}, fmt.Errorf("create output dir: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("KYC Draft - "+rec.ClientName.Full(), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Know Your Client Form (DRAFT)", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Form type: %s    Dealing rep: %s    Generated: %s",
		formType, dealingRep, r.now().UTC().Format(time.RFC3339)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeSection(pdf, "Client", [][2]string{
		{"Name", rec.ClientName.Full()},
		{"Spouse", rec.SpouseName.Full()},
		{"Date of birth", str(rec.Personal.DOB)},
		{"Citizenship", str(rec.Personal.Citizenship)},
		{"Marital status", str(rec.Personal.MaritalStatus)},
		{"Dependents", integer(rec.Personal.Dependents)},
		{"SIN", "TO BE COLLECTED MANUALLY"},
	})

	writeSection(pdf, "Address & Contact", [][2]string{
		{"Street", str(rec.Address.Street)},
		{"Unit", str(rec.Address.Unit)},
		{"City", str(rec.Address.City)},
		{"Province", str(rec.Address.Province)},
		{"Postal code", str(rec.Address.PostalCode)},
		{"Phone", str(rec.Contact.Phone)},
		{"Cell", str(rec.Contact.Cell)},
		{"Email", str(rec.Contact.Email)},
	})

	writeSection(pdf, "Employment", [][2]string{
		{"Occupation", str(rec.Employment.Occupation)},
		{"Employer", str(rec.Employment.Employer)},
		{"Years employed", number(rec.Employment.YearsEmployed)},
		{"Self-employed", boolean(rec.Employment.IsSelfEmployed)},
		{"Spouse occupation", str(rec.SpouseEmployment.Occupation)},
		{"Spouse employer", str(rec.SpouseEmployment.Employer)},
	})

	writeSection(pdf, "Financial Profile", [][2]string{
		{"Annual income", dollars(rec.Financials.AnnualIncome)},
		{"Spouse income", dollars(rec.Financials.SpouseIncome)},
		{"Other income", dollars(rec.Financials.OtherIncome)},
		{"Total income", dollars(rec.Financials.TotalIncome)},
		{"Net financial assets", dollars(rec.Financials.NetFinancialAssets)},
		{"Non-financial assets", dollars(rec.Financials.NonFinancialAssets)},
		{"Total assets", dollars(rec.Financials.TotalAssets)},
		{"Liabilities", dollars(rec.Financials.Liabilities)},
		{"Net worth", dollars(rec.Financials.NetWorth)},
		{"Income stable 2 years", boolean(rec.Financials.IncomeStable2Years)},
		{"Borrowed to invest", boolean(rec.Financials.BorrowedToInvest)},
	})

	writeSection(pdf, "Investment Profile", [][2]string{
		{"Knowledge level", enum(rec.InvestmentProfile.KnowledgeLevel)},
		{"Risk tolerance", enum(rec.InvestmentProfile.RiskTolerance)},
		{"Risk capacity", enum(rec.InvestmentProfile.RiskCapacity)},
		{"Time horizon", enum(rec.InvestmentProfile.TimeHorizon)},
		{"Objective", enum(rec.InvestmentProfile.InvestmentObjective)},
		{"Planned retirement", integer(rec.InvestmentProfile.PlannedRetirementYear)},
		{"Products owned", productsLine(rec.InvestmentProfile.ProductsOwned)},
	})

	writeSection(pdf, "Exemption Status (derived)", [][2]string{
		{"Accredited", yesNo(rec.ExemptionStatus.IsAccredited)},
		{"Eligible", yesNo(rec.ExemptionStatus.IsEligible)},
		{"Reason", rec.ExemptionStatus.AccreditationReason},
	})

	if len(rec.MissingFields) > 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Missing Fields - collect at next contact", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, field := range rec.MissingFields {
			pdf.CellFormat(0, 5, "- "+field, "", 1, "L", false, 0, "")
		}
	}

	path := filepath.Join(r.outputDir, fileName(rec, formType, r.now()))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return pipeline.DocumentHandle{}, fmt.Errorf("write pdf: %w", err)
	}
	return pipeline.DocumentHandle{Path: path}, nil
}

func writeSection(pdf *gofpdf.Fpdf, title string, rows [][2]string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 8, title, "1", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		pdf.CellFormat(60, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func fileName(rec schema.KYCRecord, formType schema.FormType, now time.Time) string {
	name := strings.ToLower(strings.ReplaceAll(rec.ClientName.Full(), " ", "_"))
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("kyc_%s_%s_%s.pdf", formType, name, now.UTC().Format("20060102_150405"))
}

const blank = "________________"

func str(v *string) string {
	if v == nil {
		return blank
	}
	return *v
}

func number(v *float64) string {
	if v == nil {
		return blank
	}
	return fmt.Sprintf("%g", *v)
}

func dollars(v *float64) string {
	if v == nil {
		return blank
	}
	return fmt.Sprintf("$%.0f", *v)
}

func integer(v *int) string {
	if v == nil {
		return blank
	}
	return fmt.Sprintf("%d", *v)
}

func boolean(v *bool) string {
	if v == nil {
		return blank
	}
	return yesNo(*v)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func enum[T ~string](v *T) string {
	if v == nil {
		return blank
	}
	return string(*v)
}

func productsLine(products []schema.Product) string {
	if len(products) == 0 {
		return blank
	}
	parts := make([]string, len(products))
	for i, p := range products {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
