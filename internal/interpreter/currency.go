package interpreter

import "strings"

// CurrencyResolver maps recognized currency tokens to a currency code.
type CurrencyResolver struct {
	codes   []string
	aliases map[string]string
}

func NewCurrencyResolver(tables []CurrencyTable) *CurrencyResolver {
	r := &CurrencyResolver{aliases: make(map[string]string)}
	for _, t := range tables {
		r.codes = append(r.codes, t.Code)
		for _, a := range t.Aliases {
			r.aliases[strings.ToLower(a)] = t.Code
		}
	}
	return r
}

// Codes returns the closed set of supported currency codes.
func (r *CurrencyResolver) Codes() []string {
	return r.codes
}

// Known reports whether code is a supported currency code.
func (r *CurrencyResolver) Known(code string) bool {
	for _, c := range r.codes {
		if c == strings.ToUpper(code) {
			return true
		}
	}
	return false
}

// Resolve scans tokens in order and returns the code of the first explicit
// currency keyword. When two currencies both appear, the earlier token wins.
func (r *CurrencyResolver) Resolve(tokens []string) (string, bool) {
	for _, tok := range tokens {
		if code, ok := r.aliases[tok]; ok {
			return code, true
		}
	}
	return "", false
}

func (r *CurrencyResolver) isAlias(token string) bool {
	_, ok := r.aliases[token]
	return ok
}
