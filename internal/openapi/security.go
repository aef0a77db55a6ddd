package openapi

import (
	"strings"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// Known scheme names.
const (
	SchemeBearer = "bearerAuth"
	SchemeAPIKey = "apiKeyAuth"
	SchemeBasic  = "basicAuth"
)

// indicator maps free-text authentication signals onto a fixed scheme.
type indicator struct {
	keywords []string
	scheme   SecurityScheme
}

// indicators is checked in order; the first keyword match wins. The
// bare "token" indicator sits last so API-key and basic signals are not
// swallowed by it.
var indicators = []indicator{
	{
		keywords: []string{"bearer", "jwt"},
		scheme:   SecurityScheme{Name: SchemeBearer, Type: "http", Scheme: "bearer"},
	},
	{
		keywords: []string{"api key", "api-key", "apikey", "x-api-key"},
		scheme:   SecurityScheme{Name: SchemeAPIKey, Type: "apiKey", In: "header", ParamName: "X-API-Key"},
	},
	{
		keywords: []string{"basic"},
		scheme:   SecurityScheme{Name: SchemeBasic, Type: "http", Scheme: "basic"},
	},
	{
		keywords: []string{"token"},
		scheme:   SecurityScheme{Name: SchemeBearer, Type: "http", Scheme: "bearer"},
	},
}

// Classify normalises a raw authentication signal into a known scheme.
// It is a deterministic, total function: an empty or unrecognised
// signal returns ok=false, meaning no authentication requirement.
func Classify(signal string) (SecurityScheme, bool) {
	lowered := strings.ToLower(signal)
	for _, ind := range indicators {
		for _, kw := range ind.keywords {
			if strings.Contains(lowered, kw) {
				return ind.scheme, true
			}
		}
	}
	return SecurityScheme{}, false
}

// ClassifyRecord applies Classify to every endpoint of a record,
// setting RequiresAuth and AuthScheme in place.
func ClassifyRecord(rec *domain.DocumentationRecord) {
	for i := range rec.Endpoints {
		scheme, ok := Classify(rec.Endpoints[i].AuthSignal)
		rec.Endpoints[i].RequiresAuth = ok
		if ok {
			rec.Endpoints[i].AuthScheme = scheme.Name
		} else {
			rec.Endpoints[i].AuthScheme = ""
		}
	}
}

// schemeDefinition returns the full declaration for a known scheme name.
func schemeDefinition(name string) (SecurityScheme, bool) {
	for _, ind := range indicators {
		if ind.scheme.Name == name {
			return ind.scheme, true
		}
	}
	return SecurityScheme{}, false
}
