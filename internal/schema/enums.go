package schema

import "strings"

// Language identifies the transcript source language. "auto" defers detection
// to the extraction backend.
type Language string

const (
	LanguageAuto      Language = "auto"
	LanguageRussian   Language = "ru"
	LanguageUkrainian Language = "uk"
	LanguageEnglish   Language = "en"
)

// ParseLanguage normalizes a language hint. Unknown values fall back to auto.
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageRussian:
		return LanguageRussian
	case LanguageUkrainian:
		return LanguageUkrainian
	case LanguageEnglish:
		return LanguageEnglish
	default:
		return LanguageAuto
	}
}

// RequiresTransliteration reports whether client names in this language are
// expected to arrive transliterated from Cyrillic.
func (l Language) RequiresTransliteration() bool {
	return l == LanguageRussian || l == LanguageUkrainian
}

// FormType identifies which KYC form a run targets.
type FormType string

const (
	FormIndividual       FormType = "individual"
	FormCorporate        FormType = "corporate"
	FormTradeSuitability FormType = "trade_suitability"
)

// ParseFormType normalizes a form type. Unknown values fall back to individual.
func ParseFormType(s string) FormType {
	switch FormType(strings.ToLower(strings.TrimSpace(s))) {
	case FormCorporate:
		return FormCorporate
	case FormTradeSuitability:
		return FormTradeSuitability
	default:
		return FormIndividual
	}
}

// Investment-profile enums. Values outside the enumerated sets must never
// survive normalization; the normalizer coerces them to the zero value and
// records the field as missing.

type KnowledgeLevel string

const (
	KnowledgeGood    KnowledgeLevel = "GOOD"
	KnowledgeAverage KnowledgeLevel = "AVERAGE"
	KnowledgeLimited KnowledgeLevel = "LIMITED"
)

type RiskTolerance string

const (
	RiskToleranceLow      RiskTolerance = "LOW"
	RiskToleranceModerate RiskTolerance = "MODERATE"
	RiskToleranceHigh     RiskTolerance = "HIGH"
)

type RiskCapacity string

const (
	RiskCapacityHigh   RiskCapacity = "HIGH"
	RiskCapacityMedium RiskCapacity = "MEDIUM"
	RiskCapacityLow    RiskCapacity = "LOW"
	RiskCapacityNil    RiskCapacity = "NIL"
)

type TimeHorizon string

const (
	Horizon1To3   TimeHorizon = "1-3"
	Horizon3To5   TimeHorizon = "3-5"
	Horizon6To10  TimeHorizon = "6-10"
	Horizon10Plus TimeHorizon = "10+"
)

type InvestmentObjective string

const (
	ObjectiveGrowth          InvestmentObjective = "GROWTH"
	ObjectiveGrowthAndIncome InvestmentObjective = "GROWTH_AND_INCOME"
	ObjectiveIncome          InvestmentObjective = "INCOME"
	ObjectiveTaxEfficiency   InvestmentObjective = "TAX_EFFICIENCY"
)

// Confidence grades a per-section extraction confidence score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// SourceOfFunds enumerates where the money for a trade comes from.
type SourceOfFunds string

const (
	FundsNonRegistered SourceOfFunds = "NON_REGISTERED"
	FundsRRSP          SourceOfFunds = "RRSP"
	FundsTFSA          SourceOfFunds = "TFSA"
	FundsBorrowed      SourceOfFunds = "BORROWED"
	FundsOther         SourceOfFunds = "OTHER"
)

// Product enumerates investment products a client may already own.
type Product string

const (
	ProductStocks              Product = "STOCKS"
	ProductBonds               Product = "BONDS"
	ProductMutualFunds         Product = "MUTUAL_FUNDS"
	ProductETFs                Product = "ETFS"
	ProductCrypto              Product = "CRYPTO"
	ProductRealEstate          Product = "REAL_ESTATE"
	ProductMICs                Product = "MICS"
	ProductLimitedPartnerships Product = "LIMITED_PARTNERSHIPS"
	ProductExemptSecurities    Product = "EXEMPT_SECURITIES"
)

var (
	knowledgeLevels = enumSet(KnowledgeGood, KnowledgeAverage, KnowledgeLimited)
	riskTolerances  = enumSet(RiskToleranceLow, RiskToleranceModerate, RiskToleranceHigh)
	riskCapacities  = enumSet(RiskCapacityHigh, RiskCapacityMedium, RiskCapacityLow, RiskCapacityNil)
	timeHorizons    = enumSet(Horizon1To3, Horizon3To5, Horizon6To10, Horizon10Plus)
	objectives      = enumSet(ObjectiveGrowth, ObjectiveGrowthAndIncome, ObjectiveIncome, ObjectiveTaxEfficiency)
	confidences     = enumSet(ConfidenceHigh, ConfidenceMedium, ConfidenceLow)
	fundSources     = enumSet(FundsNonRegistered, FundsRRSP, FundsTFSA, FundsBorrowed, FundsOther)
	products        = enumSet(ProductStocks, ProductBonds, ProductMutualFunds, ProductETFs,
		ProductCrypto, ProductRealEstate, ProductMICs, ProductLimitedPartnerships, ProductExemptSecurities)
)

func enumSet[T ~string](values ...T) map[string]T {
	set := make(map[string]T, len(values))
	for _, v := range values {
		set[string(v)] = v
	}
	return set
}

func parseEnum[T ~string](set map[string]T, s string) (T, bool) {
	v, ok := set[strings.ToUpper(strings.TrimSpace(s))]
	return v, ok
}

// Parse helpers return the zero value and false for anything outside the
// enumerated set, including case-mangled free text.

func ParseKnowledgeLevel(s string) (KnowledgeLevel, bool) { return parseEnum(knowledgeLevels, s) }
func ParseRiskTolerance(s string) (RiskTolerance, bool)   { return parseEnum(riskTolerances, s) }
func ParseRiskCapacity(s string) (RiskCapacity, bool)     { return parseEnum(riskCapacities, s) }
func ParseObjective(s string) (InvestmentObjective, bool) { return parseEnum(objectives, s) }
func ParseConfidence(s string) (Confidence, bool)         { return parseEnum(confidences, s) }
func ParseSourceOfFunds(s string) (SourceOfFunds, bool)   { return parseEnum(fundSources, s) }
func ParseProduct(s string) (Product, bool)               { return parseEnum(products, s) }

// ParseTimeHorizon tolerates the verbose forms the backend sometimes emits
// ("1-3 years", "10+ years") on top of the canonical tokens.
func ParseTimeHorizon(s string) (TimeHorizon, bool) {
	cleaned := strings.TrimSpace(strings.ToLower(s))
	cleaned = strings.TrimSuffix(cleaned, "years")
	cleaned = strings.TrimSuffix(cleaned, "year")
	cleaned = strings.TrimSpace(cleaned)
	v, ok := timeHorizons[strings.ToUpper(cleaned)]
	return v, ok
}
