package normalization

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonAlphaNum qualquer caractere fora de [A-Z0-9\s] vira espaço
var nonAlphaNum = regexp.MustCompile(`[^A-Z0-9\s]`)

// Normalize canonicaliza texto livre para comparação: maiúsculas, remoção de
// acentos, pontuação substituída por espaço, espaços colapsados.
// Determinística e idempotente: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// Decompõe em NFD e descarta as marcas diacríticas (categoria Mn)
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, text)
	if err != nil {
		// Entrada com UTF-8 inválido segue sem a remoção de acentos
		folded = text
	}

	upper := strings.ToUpper(folded)
	upper = nonAlphaNum.ReplaceAllString(upper, " ")

	return strings.Join(strings.Fields(upper), " ")
}

// NormalizeAll normaliza uma lista de termos, descartando os que ficam vazios
func NormalizeAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if n := Normalize(term); n != "" {
			out = append(out, n)
		}
	}
	return out
}
