package classification

import (
	"strings"

	"catalogo/normalization"
)

// optionalBonus pontos concedidos por condição opcional satisfeita
const optionalBonus = 25

// Matches testa uma condição atômica contra texto já normalizado.
// Termos malformados (lista vazia após normalização) nunca casam.
func Matches(normalizedText string, matchType MatchType, normalizedTerms []string) bool {
	if len(normalizedTerms) == 0 {
		return false
	}

	switch matchType {
	case MatchExact:
		for _, term := range normalizedTerms {
			if normalizedText == term {
				return true
			}
		}
		return false

	case MatchStartsWith:
		for _, term := range normalizedTerms {
			if strings.HasPrefix(normalizedText, term) {
				return true
			}
		}
		return false

	case MatchContains:
		for _, term := range normalizedTerms {
			if strings.Contains(normalizedText, term) {
				return true
			}
		}
		return false

	case MatchContainsAll:
		for _, term := range normalizedTerms {
			if !strings.Contains(normalizedText, term) {
				return false
			}
		}
		return true

	case MatchNotContains:
		for _, term := range normalizedTerms {
			if strings.Contains(normalizedText, term) {
				return false
			}
		}
		return true
	}

	// Tipo desconhecido: regra malformada, nunca casa
	return false
}

// MatchesRule aplica a forma legada de uma regra. A exclusão é verificada
// primeiro e é absoluta: qualquer termo de exclusão presente no texto
// derruba a regra independentemente do resultado da condição principal.
func MatchesRule(normalizedText string, r Rule) bool {
	for _, exclusion := range normalization.NormalizeAll(r.ExclusionTerms) {
		if strings.Contains(normalizedText, exclusion) {
			return false
		}
	}
	return Matches(normalizedText, r.MatchType, normalization.NormalizeAll(r.Terms))
}

// Evaluation resultado da avaliação de um composto de condições
type Evaluation struct {
	Valid bool `json:"valida"`
	Bonus int  `json:"bonus"`
}

// Evaluate percorre as condições na ordem autorada. Uma condição obrigatória
// que falha curto-circuita o composto inteiro para {false, 0}. Cada condição
// opcional satisfeita soma um bônus fixo, sem nunca bloquear. O resultado
// booleano corrente combina cada condição com o operador armazenado na
// condição ANTERIOR da sequência.
func Evaluate(normalizedText string, conds []Condition) Evaluation {
	if len(conds) == 0 {
		return Evaluation{}
	}

	var valid bool
	var bonus int
	var prevJoin JoinOperator

	for i, cond := range conds {
		match := Matches(normalizedText, cond.MatchType, normalization.NormalizeAll(cond.Terms))

		if cond.Mandatory && !match {
			return Evaluation{}
		}
		if !cond.Mandatory && match {
			bonus += optionalBonus
		}

		if i == 0 {
			valid = match
		} else if prevJoin == JoinOr {
			valid = valid || match
		} else {
			valid = valid && match
		}
		prevJoin = cond.JoinOperator
	}

	return Evaluation{Valid: valid, Bonus: bonus}
}
