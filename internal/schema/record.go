// Package schema defines the canonical KYC record shape shared by the
// normalizer, the validation engine, and the rendering/notification sinks.
//
// Nullable scalars are pointers: nil means the value was absent from (or
// uncoercible in) the extraction output. A nil numeric field is never
// interchangeable with zero anywhere downstream.
package schema

// PersonName holds a client or spouse name. Names arriving from Russian or
// Ukrainian transcripts are expected already transliterated to Latin script by
// the extraction backend.
type PersonName struct {
	First  *string `json:"first"`
	Middle *string `json:"middle,omitempty"`
	Last   *string `json:"last"`
}

// Full joins the populated name parts with single spaces.
func (n PersonName) Full() string {
	out := ""
	for _, part := range []*string{n.First, n.Middle, n.Last} {
		if part == nil || *part == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += *part
	}
	return out
}

type Address struct {
	Street     *string `json:"street"`
	Unit       *string `json:"unit,omitempty"`
	City       *string `json:"city"`
	Province   *string `json:"province"`
	PostalCode *string `json:"postal_code"`
}

type Contact struct {
	Phone *string `json:"phone"`
	Cell  *string `json:"cell"`
	Email *string `json:"email"`
}

type Personal struct {
	// DOB is an ISO date (YYYY-MM-DD); anything else is coerced to nil.
	DOB           *string `json:"dob"`
	Citizenship   *string `json:"citizenship"`
	Dependents    *int    `json:"dependents"`
	MaritalStatus *string `json:"marital_status"`
}

type Employment struct {
	Occupation     *string  `json:"occupation"`
	Employer       *string  `json:"employer"`
	YearsEmployed  *float64 `json:"years_employed"`
	IsSelfEmployed *bool    `json:"is_self_employed"`
}

type SpouseEmployment struct {
	Occupation *string `json:"occupation"`
	Employer   *string `json:"employer"`
}

type Financials struct {
	AnnualIncome       *float64 `json:"annual_income"`
	SpouseIncome       *float64 `json:"spouse_income"`
	OtherIncome        *float64 `json:"other_income"`
	TotalIncome        *float64 `json:"total_income"`
	NetFinancialAssets *float64 `json:"net_financial_assets"`
	NonFinancialAssets *float64 `json:"non_financial_assets"`
	TotalAssets        *float64 `json:"total_assets"`
	Liabilities        *float64 `json:"liabilities"`
	NetWorth           *float64 `json:"net_worth"`
	IncomeStable2Years *bool    `json:"income_stable_2_years"`
	BorrowedToInvest   *bool    `json:"borrowed_to_invest"`
}

type AssetComposition struct {
	CashPct       *float64 `json:"cash_pct"`
	StocksPct     *float64 `json:"stocks_pct"`
	BondsPct      *float64 `json:"bonds_pct"`
	RealEstatePct *float64 `json:"real_estate_pct"`
	OtherPct      *float64 `json:"other_pct"`
}

type InvestmentProfile struct {
	KnowledgeLevel        *KnowledgeLevel      `json:"knowledge_level"`
	RiskTolerance         *RiskTolerance       `json:"risk_tolerance"`
	RiskCapacity          *RiskCapacity        `json:"risk_capacity"`
	TimeHorizon           *TimeHorizon         `json:"time_horizon"`
	InvestmentObjective   *InvestmentObjective `json:"investment_objective"`
	PlannedRetirementYear *int                 `json:"planned_retirement_year"`
	ProductsOwned         []Product            `json:"products_owned"`
}

type InvestmentDetails struct {
	Issuer        *string        `json:"issuer"`
	Amount        *float64       `json:"amount"`
	SourceOfFunds *SourceOfFunds `json:"source_of_funds"`
}

// ExemptionStatus is derived, never extracted. The validation engine owns it
// and overwrites whatever the backend claimed.
type ExemptionStatus struct {
	IsAccredited        bool   `json:"is_accredited"`
	IsEligible          bool   `json:"is_eligible"`
	AccreditationReason string `json:"accreditation_reason"`
}

type AML struct {
	IsPEP       *bool   `json:"is_pep"`
	PEPPosition *string `json:"pep_position"`
	IsHIO       *bool   `json:"is_hio"`
}

type ConfidenceScores struct {
	ClientName  Confidence `json:"client_name"`
	Financials  Confidence `json:"financials"`
	RiskProfile Confidence `json:"risk_profile"`
}

// KYCRecord is the canonical extracted-and-normalized client record. It is
// built in one shot by the normalizer, validated once, then handed to the
// sinks; it is never incrementally merged across transcripts.
type KYCRecord struct {
	ClientName        PersonName        `json:"client_name"`
	SpouseName        PersonName        `json:"spouse_name"`
	Address           Address           `json:"address"`
	Contact           Contact           `json:"contact"`
	Personal          Personal          `json:"personal"`
	Employment        Employment        `json:"employment"`
	SpouseEmployment  SpouseEmployment  `json:"spouse_employment"`
	Financials        Financials        `json:"financials"`
	AssetComposition  AssetComposition  `json:"asset_composition"`
	InvestmentProfile InvestmentProfile `json:"investment_profile"`
	InvestmentDetails InvestmentDetails `json:"investment_details"`
	ExemptionStatus   ExemptionStatus   `json:"exemption_status"`
	AML               AML               `json:"aml"`
	ConfidenceScores  ConfidenceScores  `json:"confidence_scores"`
	MissingFields     []string          `json:"missing_fields"`
	AmbiguousItems    []string          `json:"ambiguous_items"`
	FollowUpQuestions []string          `json:"follow_up_questions"`
}
