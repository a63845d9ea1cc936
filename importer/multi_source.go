package importer

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"catalogo/classification"
)

// FileStatus estado de um arquivo no ciclo de ingestão
type FileStatus string

const (
	StatusPending FileStatus = "pending"
	StatusParsing FileStatus = "parsing"
	StatusDone    FileStatus = "done"
	StatusError   FileStatus = "error"
)

// OriginKey chave reservada que marca o arquivo de origem de cada linha.
// Chaves com prefixo "_" são internas e ficam fora do conjunto de colunas.
const OriginKey = "_arquivo_origem"

func isReservedKey(key string) bool {
	return strings.HasPrefix(key, "_")
}

// ImportedFile arquivo enviado para a ingestão
type ImportedFile struct {
	Name         string     `json:"nome"`
	SizeBytes    int        `json:"tamanho_bytes"`
	Kind         FileKind   `json:"tipo,omitempty"`
	Status       FileStatus `json:"status"`
	RowCount     int        `json:"linhas,omitempty"`
	ErrorMessage string     `json:"erro,omitempty"`

	data []byte
}

// FileInput nome e bytes de um arquivo a ingerir
type FileInput struct {
	Name string
	Data []byte
}

// MergeResult linhas e colunas unificadas de todos os arquivos
type MergeResult struct {
	Rows    []map[string]string `json:"linhas"`
	Columns []string            `json:"colunas"`
}

const (
	// mergeChunkSize linhas processadas por bloco durante a fusão de colunas
	mergeChunkSize = 5000
	// parsePercentCeiling fatia do progresso reservada ao parsing; o restante
	// até 100 pertence à fusão de colunas
	parsePercentCeiling = 80.0
)

// MultiSourceIngest orquestra o parsing sequencial de múltiplos arquivos e a
// fusão dos conjuntos de colunas. Tolerante a falha parcial: um arquivo com
// erro de formato não aborta o lote.
type MultiSourceIngest struct {
	files     []*ImportedFile
	cancelled atomic.Bool

	// OnProgress recebe fase e percentual a cada avanço; opcional
	OnProgress func(phase classification.Phase, percent float64)
}

// NewMultiSourceIngest cria um orquestrador de ingestão vazio
func NewMultiSourceIngest() *MultiSourceIngest {
	return &MultiSourceIngest{}
}

// AddFiles registra arquivos para ingestão. Extensões não suportadas entram
// já marcadas com erro, sem bloquear os demais arquivos.
func (m *MultiSourceIngest) AddFiles(files ...FileInput) {
	for _, f := range files {
		imported := &ImportedFile{
			Name:      f.Name,
			SizeBytes: len(f.Data),
			Status:    StatusPending,
			data:      f.Data,
		}
		kind, err := KindFromFilename(f.Name)
		if err != nil {
			imported.Status = StatusError
			imported.ErrorMessage = err.Error()
		} else {
			imported.Kind = kind
		}
		m.files = append(m.files, imported)
	}
}

// RemoveFile descarta o arquivo na posição dada
func (m *MultiSourceIngest) RemoveFile(index int) error {
	if index < 0 || index >= len(m.files) {
		return fmt.Errorf("índice de arquivo inválido: %d", index)
	}
	m.files = append(m.files[:index], m.files[index+1:]...)
	return nil
}

// Files retorna os arquivos registrados e seus estados
func (m *MultiSourceIngest) Files() []*ImportedFile {
	return m.files
}

// Cancel solicita o cancelamento cooperativo da ingestão
func (m *MultiSourceIngest) Cancel() {
	m.cancelled.Store(true)
}

// Reset descarta arquivos e estado para uma nova ingestão
func (m *MultiSourceIngest) Reset() {
	m.files = nil
	m.cancelled.Store(false)
}

func (m *MultiSourceIngest) isCancelled(ctx context.Context) bool {
	return m.cancelled.Load() || ctx.Err() != nil
}

func (m *MultiSourceIngest) report(phase classification.Phase, percent float64) {
	if m.OnProgress != nil {
		m.OnProgress(phase, percent)
	}
}

// ParseAll processa os arquivos um a um (nunca em paralelo, para manter o
// consumo de memória e o progresso lineares), marca a origem de cada linha e
// funde os conjuntos de colunas em blocos com pontos de escalonamento.
func (m *MultiSourceIngest) ParseAll(ctx context.Context) (*MergeResult, error) {
	total := len(m.files)
	if total == 0 {
		m.report(classification.PhaseComplete, 100)
		return &MergeResult{}, nil
	}

	m.report(classification.PhaseParsing, 0)

	var rows []map[string]string
	for i, file := range m.files {
		if m.isCancelled(ctx) {
			m.report(classification.PhaseCancelled, 0)
			return &MergeResult{}, nil
		}
		m.report(classification.PhaseParsing, float64(i)/float64(total)*parsePercentCeiling)

		if file.Status == StatusError {
			// Extensão rejeitada no AddFiles
			continue
		}

		file.Status = StatusParsing
		decoded, err := Decode(file.data, file.Kind)
		if err != nil {
			file.Status = StatusError
			file.ErrorMessage = err.Error()
			log.Printf("[Import] arquivo %q falhou: %v", file.Name, err)
			continue
		}

		for _, row := range decoded.Rows {
			row[OriginKey] = file.Name
			rows = append(rows, row)
		}
		file.RowCount = len(decoded.Rows)
		file.Status = StatusDone
		log.Printf("[Import] arquivo %q: %d linhas", file.Name, file.RowCount)
	}

	columns, cancelled := m.mergeColumns(ctx, rows)
	if cancelled {
		m.report(classification.PhaseCancelled, 0)
		return &MergeResult{}, nil
	}

	m.report(classification.PhaseComplete, 100)
	return &MergeResult{Rows: rows, Columns: columns}, nil
}

// mergeColumns calcula a união dos conjuntos de colunas em blocos de tamanho
// fixo, cedendo o processador entre blocos. Chaves reservadas ficam de fora.
func (m *MultiSourceIngest) mergeColumns(ctx context.Context, rows []map[string]string) ([]string, bool) {
	seen := make(map[string]bool)
	var columns []string

	for start := 0; start < len(rows); start += mergeChunkSize {
		if m.isCancelled(ctx) {
			return nil, true
		}

		end := min(start+mergeChunkSize, len(rows))
		for _, row := range rows[start:end] {
			keys := make([]string, 0, len(row))
			for key := range row {
				if !isReservedKey(key) && !seen[key] {
					keys = append(keys, key)
				}
			}
			// Ordem estável dentro da linha; a união preserva a primeira aparição
			sort.Strings(keys)
			for _, key := range keys {
				seen[key] = true
				columns = append(columns, key)
			}
		}

		m.report(classification.PhaseMerging, parsePercentCeiling+float64(end)/float64(len(rows))*(100-parsePercentCeiling))
		runtime.Gosched()
	}

	return columns, false
}
