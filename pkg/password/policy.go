package password

import "unicode"

const MinLength = 8

// Rule messages reported by CheckStrength.
const (
	RuleMinLength = "must be at least 8 characters long"
	RuleUpper     = "must contain at least one uppercase letter"
	RuleLower     = "must contain at least one lowercase letter"
	RuleNumber    = "must contain at least one number"
	RuleSymbol    = "must contain at least one special character"
)

// CheckStrength returns every unmet rule. An empty result means the password is acceptable.
func CheckStrength(plain string) []string {
	var upper, lower, number, symbol bool
	length := 0

	for _, r := range plain {
		length++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			number = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	var unmet []string
	if length < MinLength {
		unmet = append(unmet, RuleMinLength)
	}
	if !upper {
		unmet = append(unmet, RuleUpper)
	}
	if !lower {
		unmet = append(unmet, RuleLower)
	}
	if !number {
		unmet = append(unmet, RuleNumber)
	}
	if !symbol {
		unmet = append(unmet, RuleSymbol)
	}
	return unmet
}
