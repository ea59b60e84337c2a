package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

// ruleset returns the inflection ruleset used for naming generated
// identifiers. Common initialisms are registered as acronyms so that
// "api_key" becomes "APIKey" and not "ApiKey".
func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"ACL", "API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML",
		"HTTP", "HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS",
		"RPC", "SLA", "SMTP", "SQL", "SSH", "TCP", "TLS", "TTL", "UDP",
		"UI", "UID", "UUID", "URI", "URL", "UTF8", "VM", "XML", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// pascal converts a snake_case name to PascalCase.
func pascal(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	for i, w := range words {
		if u := strings.ToUpper(w); len(u) > 1 {
			if _, ok := acronyms[u]; ok {
				words[i] = u
				continue
			}
		}
		words[i] = rules.Capitalize(w)
	}
	return strings.Join(words, "")
}

// snake converts a PascalCase or camelCase name to snake_case.
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put a '_' if it is not a start or end of a word, and the
		// previous character is not already a separator.
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) && j != i-1 {
			if unicode.IsLower(rune(s[i-1])) || unicode.IsLower(rune(s[i+1])) {
				b.WriteByte('_')
				j = i
			}
		}
		if isSeparator(r) {
			b.WriteByte('_')
			j = i
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}
