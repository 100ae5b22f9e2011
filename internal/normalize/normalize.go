// Package normalize coerces untrusted extraction backend output into the
// canonical KYC record. Malformed input degrades to nulls plus missing_fields
// entries; nothing in here panics on any input shape.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"sort"

	"skyvault/internal/schema"
)

// FindingKind labels a normalization observation the orchestrator may want to
// count or log. Findings are trust signals about the backend, not user-facing
// errors.
type FindingKind string

const (
	// FindingForbiddenFieldStripped means the backend returned content for a
	// sensitive field it is contractually required to leave null.
	FindingForbiddenFieldStripped FindingKind = "FORBIDDEN_FIELD_STRIPPED"
	// FindingTotalRecomputed means a provided total disagreed with its
	// components beyond tolerance and was overridden.
	FindingTotalRecomputed FindingKind = "TOTAL_RECOMPUTED"
	// FindingNonLatinName means a name field was not transliterated to Latin
	// script as the backend contract requires.
	FindingNonLatinName FindingKind = "NON_LATIN_NAME"
)

type Finding struct {
	Kind   FindingKind
	Path   string
	Detail string
}

// DefaultTotalTolerance is the relative disagreement allowed between a
// provided total and the sum of its components before the total is
// recomputed. Business-configurable, not law.
const DefaultTotalTolerance = 0.01

// Normalizer converts raw extraction trees into canonical records.
type Normalizer struct {
	tolerance float64
}

type Option func(*Normalizer)

// WithTotalTolerance overrides the total-recomputation tolerance.
func WithTotalTolerance(t float64) Option {
	return func(n *Normalizer) {
		if t > 0 {
			n.tolerance = t
		}
	}
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{tolerance: DefaultTotalTolerance}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// latinName matches transliterated names: Latin letters with diacritics,
// spaces, hyphens, apostrophes and periods.
var latinName = regexp.MustCompile(`^[\p{Latin}\p{M}\s.'’-]+$`)

// Normalize walks the canonical schema field by field and coerces raw into a
// fully-shaped KYCRecord. Every key of the result is present; values are
// typed-correct or nil. The findings report forbidden-field occurrences,
// overridden totals and transliteration problems.
func (n *Normalizer) Normalize(raw map[string]any, lang schema.Language) (schema.KYCRecord, []Finding) {
	var findings []Finding
	findings = append(findings, scanForbidden(raw, "")...)

	w := walker{raw: raw}
	rec := schema.KYCRecord{
		ClientName: schema.PersonName{
			First:  w.str("client_name.first"),
			Middle: w.str("client_name.middle"),
			Last:   w.str("client_name.last"),
		},
		SpouseName: schema.PersonName{
			First: w.str("spouse_name.first"),
			Last:  w.str("spouse_name.last"),
		},
		Address: schema.Address{
			Street:     w.str("address.street"),
			Unit:       w.str("address.unit"),
			City:       w.str("address.city"),
			Province:   w.str("address.province"),
			PostalCode: w.str("address.postal_code"),
		},
		Contact: schema.Contact{
			Phone: w.str("contact.phone"),
			Cell:  w.str("contact.cell"),
			Email: w.str("contact.email"),
		},
		Personal: schema.Personal{
			DOB:           w.date("personal.dob"),
			Citizenship:   w.str("personal.citizenship"),
			Dependents:    w.integer("personal.dependents"),
			MaritalStatus: w.str("personal.marital_status"),
		},
		Employment: schema.Employment{
			Occupation:     w.str("employment.occupation"),
			Employer:       w.str("employment.employer"),
			YearsEmployed:  w.num("employment.years_employed"),
			IsSelfEmployed: w.boolean("employment.is_self_employed"),
		},
		SpouseEmployment: schema.SpouseEmployment{
			Occupation: w.str("spouse_employment.occupation"),
			Employer:   w.str("spouse_employment.employer"),
		},
		Financials: schema.Financials{
			AnnualIncome:       w.num("financials.annual_income"),
			SpouseIncome:       w.num("financials.spouse_income"),
			OtherIncome:        w.num("financials.other_income"),
			TotalIncome:        w.num("financials.total_income"),
			NetFinancialAssets: w.num("financials.net_financial_assets"),
			NonFinancialAssets: w.num("financials.non_financial_assets"),
			TotalAssets:        w.num("financials.total_assets"),
			Liabilities:        w.num("financials.liabilities"),
			NetWorth:           w.num("financials.net_worth"),
			IncomeStable2Years: w.boolean("financials.income_stable_2_years"),
			BorrowedToInvest:   w.boolean("financials.borrowed_to_invest"),
		},
		AssetComposition: schema.AssetComposition{
			CashPct:       w.num("asset_composition.cash_pct"),
			StocksPct:     w.num("asset_composition.stocks_pct"),
			BondsPct:      w.num("asset_composition.bonds_pct"),
			RealEstatePct: w.num("asset_composition.real_estate_pct"),
			OtherPct:      w.num("asset_composition.other_pct"),
		},
		InvestmentProfile: schema.InvestmentProfile{
			KnowledgeLevel:        enumField(w, "investment_profile.knowledge_level", schema.ParseKnowledgeLevel),
			RiskTolerance:         enumField(w, "investment_profile.risk_tolerance", schema.ParseRiskTolerance),
			RiskCapacity:          enumField(w, "investment_profile.risk_capacity", schema.ParseRiskCapacity),
			TimeHorizon:           enumField(w, "investment_profile.time_horizon", schema.ParseTimeHorizon),
			InvestmentObjective:   enumField(w, "investment_profile.investment_objective", schema.ParseObjective),
			PlannedRetirementYear: w.integer("investment_profile.planned_retirement_year"),
			ProductsOwned:         productList(w, "investment_profile.products_owned"),
		},
		InvestmentDetails: schema.InvestmentDetails{
			Issuer:        w.str("investment_details.issuer"),
			Amount:        w.num("investment_details.amount"),
			SourceOfFunds: enumField(w, "investment_details.source_of_funds", schema.ParseSourceOfFunds),
		},
		AML: schema.AML{
			IsPEP:       w.boolean("aml.is_pep"),
			PEPPosition: w.str("aml.pep_position"),
			IsHIO:       w.boolean("aml.is_hio"),
		},
		ConfidenceScores: schema.ConfidenceScores{
			ClientName:  confidenceField(w, "confidence_scores.client_name"),
			Financials:  confidenceField(w, "confidence_scores.financials"),
			RiskProfile: confidenceField(w, "confidence_scores.risk_profile"),
		},
		AmbiguousItems:    coerceStringSlice(lookup(raw, "ambiguous_items")),
		FollowUpQuestions: coerceStringSlice(lookup(raw, "follow_up_questions")),
	}

	findings = append(findings, n.reconcileTotals(&rec.Financials)...)

	if lang.RequiresTransliteration() {
		if path, ok := nonLatinName(&rec); !ok {
			rec.ConfidenceScores.ClientName = schema.ConfidenceLow
			findings = append(findings, Finding{
				Kind:   FindingNonLatinName,
				Path:   path,
				Detail: "name not transliterated to Latin script",
			})
		}
	}

	rec.MissingFields = missingFields(&rec)
	return rec, findings
}

// reconcileTotals derives total_income, total_assets and net_worth from their
// components. Provided totals are advisory: when components disagree beyond
// tolerance the computed value wins and a finding records the override.
func (n *Normalizer) reconcileTotals(f *schema.Financials) []Finding {
	var findings []Finding

	record := func(path string, provided, computed float64) {
		findings = append(findings, Finding{
			Kind:   FindingTotalRecomputed,
			Path:   path,
			Detail: fmt.Sprintf("provided %.2f, computed %.2f", provided, computed),
		})
	}

	// total_income is always rebuilt from components; a provided figure with
	// no components to back it is discarded rather than trusted.
	if sum, ok := sumComponents(f.AnnualIncome, f.SpouseIncome, f.OtherIncome); ok {
		if f.TotalIncome != nil && n.disagrees(*f.TotalIncome, sum) {
			record("financials.total_income", *f.TotalIncome, sum)
		}
		f.TotalIncome = ptr(sum)
	} else if f.TotalIncome != nil {
		record("financials.total_income", *f.TotalIncome, 0)
		f.TotalIncome = nil
	}

	// total_assets and net_worth keep a provided value when the components
	// needed to check it are absent.
	if sum, ok := sumComponents(f.NetFinancialAssets, f.NonFinancialAssets); ok {
		if f.TotalAssets != nil && n.disagrees(*f.TotalAssets, sum) {
			record("financials.total_assets", *f.TotalAssets, sum)
			f.TotalAssets = ptr(sum)
		} else if f.TotalAssets == nil {
			f.TotalAssets = ptr(sum)
		}
	}

	if f.TotalAssets != nil && f.Liabilities != nil {
		computed := *f.TotalAssets - *f.Liabilities
		if f.NetWorth != nil && n.disagrees(*f.NetWorth, computed) {
			record("financials.net_worth", *f.NetWorth, computed)
			f.NetWorth = ptr(computed)
		} else if f.NetWorth == nil {
			f.NetWorth = ptr(computed)
		}
	}

	return findings
}

func (n *Normalizer) disagrees(provided, computed float64) bool {
	diff := math.Abs(provided - computed)
	base := math.Max(math.Abs(provided), 1)
	return diff/base > n.tolerance
}

// sumComponents adds the non-nil components; ok is false when all are nil.
func sumComponents(components ...*float64) (float64, bool) {
	sum, any := 0.0, false
	for _, c := range components {
		if c != nil {
			sum += *c
			any = true
		}
	}
	return sum, any
}

func ptr[T any](v T) *T { return &v }

// nonLatinName returns the first client or spouse name field containing
// non-Latin script, ok=true when all populated names are clean.
func nonLatinName(rec *schema.KYCRecord) (string, bool) {
	checks := []struct {
		path  string
		value *string
	}{
		{"client_name.first", rec.ClientName.First},
		{"client_name.middle", rec.ClientName.Middle},
		{"client_name.last", rec.ClientName.Last},
		{"spouse_name.first", rec.SpouseName.First},
		{"spouse_name.last", rec.SpouseName.Last},
	}
	for _, c := range checks {
		if c.value != nil && !latinName.MatchString(*c.value) {
			return c.path, false
		}
	}
	return "", true
}

// scanForbidden walks the raw tree and reports any populated sensitive field.
// The canonical record has no slot for these, so reporting is all that is
// left to do; the values themselves are never read again.
func scanForbidden(node map[string]any, prefix string) []Finding {
	var findings []Finding

	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		value := node[key]
		if schema.IsForbiddenPath(path) {
			if value != nil {
				findings = append(findings, Finding{
					Kind:   FindingForbiddenFieldStripped,
					Path:   path,
					Detail: "backend returned content for a forbidden field",
				})
			}
			continue
		}
		switch child := value.(type) {
		case map[string]any:
			findings = append(findings, scanForbidden(child, path)...)
		case []any:
			// Objects inside arrays can hide sensitive keys too; the array
			// itself contributes no path segment.
			for _, item := range child {
				if obj, ok := item.(map[string]any); ok {
					findings = append(findings, scanForbidden(obj, path)...)
				}
			}
		}
	}
	return findings
}

type walker struct {
	raw map[string]any
}

func (w walker) str(path string) *string {
	if s, ok := coerceString(lookup(w.raw, path)); ok {
		return &s
	}
	return nil
}

func (w walker) num(path string) *float64 {
	if n, ok := coerceNumber(lookup(w.raw, path)); ok {
		return &n
	}
	return nil
}

func (w walker) integer(path string) *int {
	if n, ok := coerceInt(lookup(w.raw, path)); ok {
		return &n
	}
	return nil
}

func (w walker) boolean(path string) *bool {
	if b, ok := coerceBool(lookup(w.raw, path)); ok {
		return &b
	}
	return nil
}

func (w walker) date(path string) *string {
	if d, ok := coerceDate(lookup(w.raw, path)); ok {
		return &d
	}
	return nil
}

// enumField coerces a string into an enum; values outside the enumerated set
// become nil, never free text.
func enumField[T ~string](w walker, path string, parse func(string) (T, bool)) *T {
	s, ok := coerceString(lookup(w.raw, path))
	if !ok {
		return nil
	}
	if v, ok := parse(s); ok {
		return &v
	}
	return nil
}

func confidenceField(w walker, path string) schema.Confidence {
	s, ok := coerceString(lookup(w.raw, path))
	if !ok {
		return ""
	}
	if c, ok := schema.ParseConfidence(s); ok {
		return c
	}
	return ""
}

func productList(w walker, path string) []schema.Product {
	items := coerceStringSlice(lookup(w.raw, path))
	if items == nil {
		return nil
	}
	out := make([]schema.Product, 0, len(items))
	seen := map[schema.Product]bool{}
	for _, item := range items {
		if p, ok := schema.ParseProduct(item); ok && !seen[p] {
			out = append(out, p)
			seen[p] = true
		}
	}
	return out
}

// missingFields reports every canonical field that is nil after coercion, in
// schema order. Forbidden fields never appear here: they are intentionally
// absent, not missing.
func missingFields(rec *schema.KYCRecord) []string {
	present := map[string]bool{
		"client_name.first":                       rec.ClientName.First != nil,
		"client_name.middle":                      rec.ClientName.Middle != nil,
		"client_name.last":                        rec.ClientName.Last != nil,
		"spouse_name.first":                       rec.SpouseName.First != nil,
		"spouse_name.last":                        rec.SpouseName.Last != nil,
		"address.street":                          rec.Address.Street != nil,
		"address.unit":                            rec.Address.Unit != nil,
		"address.city":                            rec.Address.City != nil,
		"address.province":                        rec.Address.Province != nil,
		"address.postal_code":                     rec.Address.PostalCode != nil,
		"contact.phone":                           rec.Contact.Phone != nil,
		"contact.cell":                            rec.Contact.Cell != nil,
		"contact.email":                           rec.Contact.Email != nil,
		"personal.dob":                            rec.Personal.DOB != nil,
		"personal.citizenship":                    rec.Personal.Citizenship != nil,
		"personal.dependents":                     rec.Personal.Dependents != nil,
		"personal.marital_status":                 rec.Personal.MaritalStatus != nil,
		"employment.occupation":                   rec.Employment.Occupation != nil,
		"employment.employer":                     rec.Employment.Employer != nil,
		"employment.years_employed":               rec.Employment.YearsEmployed != nil,
		"employment.is_self_employed":             rec.Employment.IsSelfEmployed != nil,
		"spouse_employment.occupation":            rec.SpouseEmployment.Occupation != nil,
		"spouse_employment.employer":              rec.SpouseEmployment.Employer != nil,
		"financials.annual_income":                rec.Financials.AnnualIncome != nil,
		"financials.spouse_income":                rec.Financials.SpouseIncome != nil,
		"financials.other_income":                 rec.Financials.OtherIncome != nil,
		"financials.total_income":                 rec.Financials.TotalIncome != nil,
		"financials.net_financial_assets":         rec.Financials.NetFinancialAssets != nil,
		"financials.non_financial_assets":         rec.Financials.NonFinancialAssets != nil,
		"financials.total_assets":                 rec.Financials.TotalAssets != nil,
		"financials.liabilities":                  rec.Financials.Liabilities != nil,
		"financials.net_worth":                    rec.Financials.NetWorth != nil,
		"financials.income_stable_2_years":        rec.Financials.IncomeStable2Years != nil,
		"financials.borrowed_to_invest":           rec.Financials.BorrowedToInvest != nil,
		"asset_composition.cash_pct":              rec.AssetComposition.CashPct != nil,
		"asset_composition.stocks_pct":            rec.AssetComposition.StocksPct != nil,
		"asset_composition.bonds_pct":             rec.AssetComposition.BondsPct != nil,
		"asset_composition.real_estate_pct":       rec.AssetComposition.RealEstatePct != nil,
		"asset_composition.other_pct":             rec.AssetComposition.OtherPct != nil,
		"investment_profile.knowledge_level":      rec.InvestmentProfile.KnowledgeLevel != nil,
		"investment_profile.risk_tolerance":       rec.InvestmentProfile.RiskTolerance != nil,
		"investment_profile.risk_capacity":        rec.InvestmentProfile.RiskCapacity != nil,
		"investment_profile.time_horizon":         rec.InvestmentProfile.TimeHorizon != nil,
		"investment_profile.investment_objective": rec.InvestmentProfile.InvestmentObjective != nil,
		"investment_profile.planned_retirement_year": rec.InvestmentProfile.PlannedRetirementYear != nil,
		"investment_profile.products_owned":          len(rec.InvestmentProfile.ProductsOwned) > 0,
		"investment_details.issuer":                  rec.InvestmentDetails.Issuer != nil,
		"investment_details.amount":                  rec.InvestmentDetails.Amount != nil,
		"investment_details.source_of_funds":         rec.InvestmentDetails.SourceOfFunds != nil,
		"aml.is_pep":                                 rec.AML.IsPEP != nil,
		"aml.pep_position":                           rec.AML.PEPPosition != nil,
		"aml.is_hio":                                 rec.AML.IsHIO != nil,
	}

	missing := make([]string, 0, len(schema.FieldPaths))
	for _, path := range schema.FieldPaths {
		if !present[path] {
			missing = append(missing, path)
		}
	}
	return missing
}
