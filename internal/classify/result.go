// Package classify derives a call's success flag and category from its
// free-text result field.
package classify

import (
	"strings"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

// successTerms are matched as substrings against the lower-cased result
// text. Stems cover gender variants ("exitoso"/"exitosa",
// "contactado"/"contactada"). First match wins; there is no negation
// handling, so a text carrying both a positive and a negative keyword
// classifies as successful. That ambiguity mirrors how the teleoperators
// actually fill the field and is left to product to resolve.
var successTerms = []string{
	"exitos",
	"contactad",
	"contestad",
	"atendid",
	"complet",
	"logr",
	"confirmad",
}

// IsSuccessful reports whether the result text describes a successful contact
func IsSuccessful(resultText string) bool {
	text := strings.ToLower(resultText)
	for _, term := range successTerms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Category maps the result text to its two-state category. Anything not
// recognizably successful defaults to fallida.
func Category(resultText string) types.CallResult {
	if IsSuccessful(resultText) {
		return types.ResultExitosa
	}
	return types.ResultFallida
}
