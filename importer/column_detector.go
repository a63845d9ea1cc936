package importer

import (
	"regexp"

	"catalogo/normalization"
)

// ColumnMapping mapeamento de colunas detectadas para papéis semânticos
type ColumnMapping struct {
	Name      string `json:"nome,omitempty"`
	Code      string `json:"codigo,omitempty"`
	Reference string `json:"referencia,omitempty"`
	Price     string `json:"preco,omitempty"`
	Cost      string `json:"custo,omitempty"`
	Stock     string `json:"estoque,omitempty"`
	Color     string `json:"cor,omitempty"`
	Size      string `json:"tamanho,omitempty"`
}

// rolePattern heurística de detecção de um papel, aplicada sobre o cabeçalho
// normalizado (maiúsculas, sem acentos)
type rolePattern struct {
	role    string
	pattern *regexp.Regexp
}

// rolePatterns lista priorizada: papéis mais específicos primeiro, e dentro de
// cada papel a primeira coluna que casar vence. Uma coluna já reivindicada não
// é reaproveitada por papéis seguintes.
var rolePatterns = []rolePattern{
	{"nome", regexp.MustCompile(`^NOME|^DESCRI|^PRODUTO|^TITULO|DESCRICAO`)},
	{"referencia", regexp.MustCompile(`^REF|REFERENCIA|PAI\b|AGRUPADOR`)},
	{"codigo", regexp.MustCompile(`^COD|\bSKU\b|^EAN|BARRA`)},
	{"custo", regexp.MustCompile(`CUSTO`)},
	{"preco", regexp.MustCompile(`PRECO|^VALOR|^VL\b|VENDA`)},
	{"estoque", regexp.MustCompile(`ESTOQUE|^QTD|^QUANT|SALDO`)},
	{"cor", regexp.MustCompile(`^COR\b|^CORES\b`)},
	{"tamanho", regexp.MustCompile(`^TAM\b|TAMANHO|^GRADE\b`)},
}

// DetectColumns mapeia nomes de cabeçalho para papéis semânticos por
// heurísticas de primeira correspondência
func DetectColumns(columns []string) ColumnMapping {
	claimed := make(map[string]bool, len(columns))
	var mapping ColumnMapping

	assign := func(role, column string) {
		switch role {
		case "nome":
			mapping.Name = column
		case "codigo":
			mapping.Code = column
		case "referencia":
			mapping.Reference = column
		case "preco":
			mapping.Price = column
		case "custo":
			mapping.Cost = column
		case "estoque":
			mapping.Stock = column
		case "cor":
			mapping.Color = column
		case "tamanho":
			mapping.Size = column
		}
	}

	for _, rp := range rolePatterns {
		for _, column := range columns {
			if claimed[column] {
				continue
			}
			if rp.pattern.MatchString(normalization.Normalize(column)) {
				assign(rp.role, column)
				claimed[column] = true
				break
			}
		}
	}

	return mapping
}

// GradeStats estatísticas de agrupamento de variações por referência
type GradeStats struct {
	TotalLinhas         int     `json:"totalLinhas"`
	ProdutosUnicos      int     `json:"produtosUnicos"`
	ProdutosComVariacao int     `json:"produtosComVariacao"`
	MediaVariacoes      float64 `json:"mediaVariacoes"`
}

// ComputeGradeStats agrupa as linhas pelo valor normalizado da coluna de
// referência. Agregação pura, sem efeitos colaterais.
func ComputeGradeStats(rows []map[string]string, referenceColumn string) GradeStats {
	stats := GradeStats{TotalLinhas: len(rows)}
	if referenceColumn == "" {
		return stats
	}

	groups := make(map[string]int)
	grouped := 0
	for _, row := range rows {
		ref := normalization.Normalize(row[referenceColumn])
		if ref == "" {
			continue
		}
		groups[ref]++
		grouped++
	}

	stats.ProdutosUnicos = len(groups)
	for _, count := range groups {
		if count > 1 {
			stats.ProdutosComVariacao++
		}
	}
	if len(groups) > 0 {
		stats.MediaVariacoes = float64(grouped) / float64(len(groups))
	}
	return stats
}
