package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsForbiddenPath(t *testing.T) {
	forbidden := []string{
		"sin",
		"personal.sin",
		"SIN",
		"bank_account",
		"financials.bank_account",
		"banking.account_number",
		"bank_account_number",
		"social_insurance_number",
	}
	for _, path := range forbidden {
		require.True(t, IsForbiddenPath(path), "expected %q to be forbidden", path)
	}

	allowed := []string{
		"financials.annual_income",
		"client_name.first",
		"personal.dob",
		"singularity", // segment match, not substring match
	}
	for _, path := range allowed {
		require.False(t, IsForbiddenPath(path), "expected %q to be allowed", path)
	}
}

func TestFieldPathsExcludeForbidden(t *testing.T) {
	for _, path := range FieldPaths {
		require.False(t, IsForbiddenPath(path), "canonical path %q must not be forbidden", path)
	}
}

func TestEnumParsing(t *testing.T) {
	t.Run("case insensitive", func(t *testing.T) {
		v, ok := ParseRiskTolerance("high")
		require.True(t, ok)
		require.Equal(t, RiskToleranceHigh, v)
	})

	t.Run("free text rejected", func(t *testing.T) {
		_, ok := ParseRiskTolerance("pretty risky I guess")
		require.False(t, ok)
	})

	t.Run("time horizon verbose forms", func(t *testing.T) {
		v, ok := ParseTimeHorizon("10+ years")
		require.True(t, ok)
		require.Equal(t, Horizon10Plus, v)

		v, ok = ParseTimeHorizon("3-5")
		require.True(t, ok)
		require.Equal(t, Horizon3To5, v)

		_, ok = ParseTimeHorizon("forever")
		require.False(t, ok)
	})
}

func TestParseLanguage(t *testing.T) {
	require.Equal(t, LanguageRussian, ParseLanguage("RU"))
	require.Equal(t, LanguageAuto, ParseLanguage(""))
	require.Equal(t, LanguageAuto, ParseLanguage("de"))
	require.True(t, LanguageUkrainian.RequiresTransliteration())
	require.False(t, LanguageEnglish.RequiresTransliteration())
}

func TestPersonNameFull(t *testing.T) {
	first, middle, last := "Ivan", "I", "Petrenko"
	require.Equal(t, "Ivan I Petrenko", PersonName{First: &first, Middle: &middle, Last: &last}.Full())
	require.Equal(t, "Ivan", PersonName{First: &first}.Full())
	require.Equal(t, "", PersonName{}.Full())
}
