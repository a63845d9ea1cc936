package types

import (
	"catalogo/classification"
	"catalogo/importer"
)

// ClassifyRequest requisição de classificação de um único nome
type ClassifyRequest struct {
	Nome string `json:"nome" binding:"required"`
}

// ClassifyResponse resultado da classificação de um nome
type ClassifyResponse struct {
	Nome      string                `json:"nome"`
	Resultado classification.Result `json:"resultado"`
}

// ImportStarted resposta da abertura de um job de importação
type ImportStarted struct {
	ID string `json:"id"`
}

// ImportSummary resumo final de um job de importação
type ImportSummary struct {
	Arquivos       []*importer.ImportedFile `json:"arquivos"`
	Colunas        []string                 `json:"colunas,omitempty"`
	Mapeamento     importer.ColumnMapping   `json:"mapeamento"`
	Grade          *importer.GradeStats     `json:"grade,omitempty"`
	TotalLinhas    int                      `json:"total_linhas"`
	Classificados  int                      `json:"classificados"`
	ConfiancaMedia float64                  `json:"confianca_media"`
	Fase           classification.Phase     `json:"fase"`
}

// ImportStatus fotografia de um job de importação em andamento ou concluído
type ImportStatus struct {
	ID        string                  `json:"id"`
	Progresso classification.Progress `json:"progresso"`
	Resumo    *ImportSummary          `json:"resumo,omitempty"`
	Erro      string                  `json:"erro,omitempty"`
}
