package normalize

import (
	"strconv"
	"strings"
)

// Suffix multipliers the extraction backend leaves behind when a caller says
// figures in words ("180 тысяч", "1.2 million", "500k"). Russian and Ukrainian
// case endings are folded into their stems before lookup.
var numberSuffixes = []struct {
	suffix     string
	multiplier float64
}{
	{"тысячи", 1e3}, {"тысяча", 1e3}, {"тысяч", 1e3}, {"тыс", 1e3},
	{"тисячі", 1e3}, {"тисяча", 1e3}, {"тисяч", 1e3}, {"тис", 1e3},
	{"thousand", 1e3}, {"k", 1e3},
	{"миллионов", 1e6}, {"миллиона", 1e6}, {"миллионы", 1e6}, {"миллион", 1e6}, {"млн", 1e6},
	{"мільйонів", 1e6}, {"мільйона", 1e6}, {"мільйони", 1e6}, {"мільйон", 1e6},
	{"million", 1e6}, {"mm", 1e6}, {"m", 1e6},
}

// parseNumber converts a backend-provided numeric string into a float64.
// Tolerates currency markers, thousands separators (comma, space, NBSP,
// apostrophe) and the transcript languages' magnitude words. Returns false for
// anything that is not recognizably a number.
func parseNumber(s string) (float64, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}

	for _, marker := range []string{"cad", "c$", "$", "долларов", "доллара", "доларів", "долар", "dollars", "dollar"} {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	multiplier := 1.0
	for _, ns := range numberSuffixes {
		if strings.HasSuffix(cleaned, ns.suffix) {
			multiplier = ns.multiplier
			cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, ns.suffix))
			break
		}
	}
	if cleaned == "" {
		return 0, false
	}

	cleaned = stripSeparators(cleaned)

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value * multiplier, true
}

// stripSeparators removes grouping characters and resolves decimal commas.
// "180,000" and "180 000" group thousands; "1,5" with no dot is a decimal
// comma as written in Russian and Ukrainian sources.
func stripSeparators(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "'", "")

	if strings.Contains(s, ",") {
		if !strings.Contains(s, ".") && decimalComma(s) {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}

// decimalComma reports whether the single comma in s reads as a decimal mark:
// exactly one comma followed by one or two digits.
func decimalComma(s string) bool {
	if strings.Count(s, ",") != 1 {
		return false
	}
	frac := s[strings.Index(s, ",")+1:]
	if len(frac) == 0 || len(frac) > 2 {
		return false
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
