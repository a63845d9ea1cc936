package classification

// MatchType tipo de correspondência de uma regra ou condição
type MatchType string

const (
	MatchContains    MatchType = "contains"
	MatchExact       MatchType = "exact"
	MatchStartsWith  MatchType = "startsWith"
	MatchContainsAll MatchType = "containsAll"
	MatchNotContains MatchType = "notContains"
)

// JoinOperator operador lógico que combina uma condição com a PRÓXIMA da sequência
type JoinOperator string

const (
	JoinAnd JoinOperator = "AND"
	JoinOr  JoinOperator = "OR"
)

// Rule regra de classificação na forma legada: uma condição de inclusão
// e uma lista opcional de termos de exclusão, sempre absoluta.
type Rule struct {
	ID               int       `json:"id"`
	Name             string    `json:"nome"`
	MatchType        MatchType `json:"tipo_match"`
	Terms            []string  `json:"termos"`
	ExclusionTerms   []string  `json:"termos_exclusao,omitempty"`
	TargetField      string    `json:"campo_destino"`
	TargetValue      string    `json:"valor_destino"`
	LinkedCategoryID *int      `json:"categoria_vinculada_id,omitempty"`
	BasePoints       int       `json:"pontos_base"`
	AutoGenderValue  string    `json:"genero_automatico,omitempty"`
	Active           bool      `json:"ativa"`
	Order            int       `json:"ordem"`
}

// Condition condição atômica do modelo composto, autorado em ordem no builder
type Condition struct {
	ID           int          `json:"id"`
	MatchType    MatchType    `json:"tipo_match"`
	Terms        []string     `json:"termos"`
	JoinOperator JoinOperator `json:"operador"`
	Mandatory    bool         `json:"obrigatoria"`
}

// AttributeKind tipo de atributo customizado
type AttributeKind string

const (
	KindList  AttributeKind = "list"
	KindRules AttributeKind = "rules"
)

// CustomAttribute atributo customizado extraído por lista de valores ou por regras
type CustomAttribute struct {
	ID     int           `json:"id"`
	Name   string        `json:"nome"`
	Kind   AttributeKind `json:"tipo"`
	Values []string      `json:"valores,omitempty"`
	Config string        `json:"config,omitempty"`
	Active bool          `json:"ativo"`
}

// Result resultado estruturado da classificação de um nome de produto.
// Imutável depois de retornado; um nome sem nenhuma correspondência
// produz um resultado vazio com confiança 0.
type Result struct {
	Category         string            `json:"categoria,omitempty"`
	CategoryID       *int              `json:"categoria_id,omitempty"`
	Subcategory      string            `json:"subcategoria,omitempty"`
	Gender           string            `json:"genero,omitempty"`
	AgeRange         string            `json:"faixa_etaria,omitempty"`
	Brand            string            `json:"marca,omitempty"`
	Size             string            `json:"tamanho,omitempty"`
	Color            string            `json:"cor,omitempty"`
	Material         string            `json:"material,omitempty"`
	Style            string            `json:"estilo,omitempty"`
	ExtraAttributes  map[string]string `json:"atributos_extras,omitempty"`
	Confidence       int               `json:"confianca"`
	AppliedRuleNames []string          `json:"regras_aplicadas,omitempty"`
}

// Conditions converte a forma legada para o modelo composto sem perda:
// a inclusão vira uma condição obrigatória em AND, a exclusão (se houver)
// vira uma condição notContains obrigatória em AND.
func (r Rule) Conditions() []Condition {
	conds := []Condition{{
		MatchType:    r.MatchType,
		Terms:        r.Terms,
		JoinOperator: JoinAnd,
		Mandatory:    true,
	}}
	if len(r.ExclusionTerms) > 0 {
		conds = append(conds, Condition{
			MatchType:    MatchNotContains,
			Terms:        r.ExclusionTerms,
			JoinOperator: JoinAnd,
			Mandatory:    true,
		})
	}
	return conds
}

// LegacyFromConditions reconstrói a forma legada a partir de um composto
// no formato atalho (inclusão + exclusão opcional). Retorna false quando o
// composto usa operadores, ordenação ou opcionalidade fora desse atalho.
func LegacyFromConditions(conds []Condition) (matchType MatchType, terms, exclusionTerms []string, ok bool) {
	if len(conds) == 0 || len(conds) > 2 {
		return "", nil, nil, false
	}
	for _, c := range conds {
		if !c.Mandatory || c.JoinOperator == JoinOr {
			return "", nil, nil, false
		}
	}
	first := conds[0]
	if len(conds) == 1 {
		return first.MatchType, first.Terms, nil, true
	}
	second := conds[1]
	if second.MatchType != MatchNotContains {
		return "", nil, nil, false
	}
	return first.MatchType, first.Terms, second.Terms, true
}
