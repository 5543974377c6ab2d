package grammar

import "strings"

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteCompositeIdentifier quotes each dot separated segment of name. A bare
// * segment is left unquoted.
func QuoteCompositeIdentifier(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		if part != "*" {
			parts[i] = QuoteIdentifier(part)
		}
	}
	return strings.Join(parts, ".")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLikeWildcards escapes \, % and _ so s matches literally inside a
// LIKE pattern.
func EscapeLikeWildcards(s string) string {
	return likeEscaper.Replace(s)
}
