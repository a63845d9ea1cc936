package classification

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"catalogo/normalization"
)

// Bônus de especificidade por tipo de correspondência. Tipos mais restritos
// pontuam mais alto para vencer empates contra regras genéricas.
const (
	bonusExact       = 900
	bonusStartsWith  = 700
	bonusContainsAll = 500
	bonusPerTerm     = 50
	bonusNotContains = -50
)

// typeBonus calcula o bônus de especificidade de um tipo de correspondência
func typeBonus(matchType MatchType, termCount int) int {
	switch matchType {
	case MatchExact:
		return bonusExact
	case MatchStartsWith:
		return bonusStartsWith
	case MatchContainsAll:
		return bonusContainsAll + bonusPerTerm*termCount
	case MatchNotContains:
		return bonusNotContains
	}
	return 0
}

// candidate valor candidato para um campo de destino, com sua pontuação
type candidate struct {
	value            string
	score            int
	ruleName         string
	linkedCategoryID *int
	autoGenderValue  string
}

// Engine motor de classificação por regras e extração por atributos de lista
type Engine struct{}

// NewEngine cria um novo motor de classificação
func NewEngine() *Engine {
	return &Engine{}
}

// Classify classifica um nome de produto livre aplicando as regras ativas em
// ordem e os atributos de lista ativos. Função pura: o mesmo nome com o mesmo
// conjunto de regras produz sempre o mesmo resultado.
func (e *Engine) Classify(name string, rules []Rule, attributes []CustomAttribute) Result {
	normalized := normalization.Normalize(name)
	result := Result{}

	active := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Active {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Order < active[j].Order
	})

	// Candidatos por campo de destino, na ordem de aparição das regras
	candidates := make(map[string][]candidate)
	var fieldOrder []string

	for _, r := range active {
		if !MatchesRule(normalized, r) {
			continue
		}
		score := r.BasePoints + typeBonus(r.MatchType, len(r.Terms))
		if _, seen := candidates[r.TargetField]; !seen {
			fieldOrder = append(fieldOrder, r.TargetField)
		}
		candidates[r.TargetField] = append(candidates[r.TargetField], candidate{
			value:            r.TargetValue,
			score:            score,
			ruleName:         r.Name,
			linkedCategoryID: r.LinkedCategoryID,
			autoGenderValue:  r.AutoGenderValue,
		})
	}

	var fieldsFilled, totalScore int
	var categoryWinner *candidate

	for _, field := range fieldOrder {
		list := candidates[field]
		// Comparação estrita mantém o primeiro máximo: empate decidido pela
		// menor ordem de regra
		best := list[0]
		for _, c := range list[1:] {
			if c.score > best.score {
				best = c
			}
		}

		totalScore += best.score
		result.AppliedRuleNames = append(result.AppliedRuleNames, best.ruleName)
		e.assignField(&result, field, best)
		fieldsFilled++

		if isCategoryField(field) {
			winner := best
			categoryWinner = &winner
		}
	}

	// Gênero automático herdado da categoria vencedora, sem sobrescrever
	// gênero definido por regra explícita
	if categoryWinner != nil && categoryWinner.autoGenderValue != "" && result.Gender == "" {
		result.Gender = categoryWinner.autoGenderValue
		fieldsFilled++
	}

	fieldsFilled += e.applyListAttributes(&result, normalized, attributes)

	result.Confidence = confidence(fieldsFilled, totalScore)
	return result
}

// assignField atribui o candidato vencedor ao campo nomeado do resultado
func (e *Engine) assignField(result *Result, field string, c candidate) {
	switch strings.ToLower(field) {
	case "categoria", "category":
		result.Category = c.value
		result.CategoryID = c.linkedCategoryID
	case "subcategoria", "subcategory":
		result.Subcategory = c.value
	case "genero", "gender":
		result.Gender = c.value
	case "faixa_etaria":
		result.AgeRange = c.value
	case "marca", "brand":
		result.Brand = c.value
	case "estilo", "style":
		result.Style = c.value
	default:
		if result.ExtraAttributes == nil {
			result.ExtraAttributes = make(map[string]string)
		}
		result.ExtraAttributes[field] = c.value
	}
}

func isCategoryField(field string) bool {
	lower := strings.ToLower(field)
	return lower == "categoria" || lower == "category"
}

// applyListAttributes extrai valores de atributos de lista por palavra inteira,
// sem sobrescrever campos já preenchidos. Retorna quantos campos foram atribuídos.
func (e *Engine) applyListAttributes(result *Result, normalizedText string, attributes []CustomAttribute) int {
	assigned := 0
	for _, attr := range attributes {
		if !attr.Active || attr.Kind != KindList {
			continue
		}
		value := extractListValue(normalizedText, attr.Values)
		if value == "" {
			continue
		}

		switch strings.ToLower(attr.Name) {
		case "cor", "color":
			if result.Color == "" {
				result.Color = value
				assigned++
			}
		case "tamanho", "size":
			if result.Size == "" {
				result.Size = value
				assigned++
			}
		case "material":
			if result.Material == "" {
				result.Material = value
				assigned++
			}
		default:
			if result.ExtraAttributes == nil {
				result.ExtraAttributes = make(map[string]string)
			}
			if _, exists := result.ExtraAttributes[attr.Name]; !exists {
				result.ExtraAttributes[attr.Name] = value
				assigned++
			}
		}
	}
	return assigned
}

// extractListValue retorna o primeiro valor da lista presente no texto como
// palavra inteira, no valor original autorado
func extractListValue(normalizedText string, values []string) string {
	for _, v := range values {
		nv := normalization.Normalize(v)
		if nv == "" {
			continue
		}
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(nv) + `\b`)
		if pattern.MatchString(normalizedText) {
			return v
		}
	}
	return ""
}

// confidence combina amplitude (campos preenchidos) e força (pontuação
// acumulada das regras) em um sinal heurístico 0..100
func confidence(fieldsFilled, totalScore int) int {
	if fieldsFilled == 0 && totalScore == 0 {
		return 0
	}
	breadth := math.Min(float64(fieldsFilled)/10.0, 1.0)
	strength := math.Min(float64(totalScore)/1000.0, 1.0)
	value := int(math.Round(breadth*60 + strength*40))
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
