package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"catalogo/classification"
	"catalogo/database"
	"catalogo/importer"
	apperrors "catalogo/server/errors"
	"catalogo/server/types"
)

// ImportJob uma execução do pipeline de ingestão + classificação. Um worker
// por job; o estado é lido por fora apenas através de fotografias sob mutex.
type ImportJob struct {
	ID string

	mu       sync.RWMutex
	progress classification.Progress
	summary  *types.ImportSummary
	errMsg   string

	ingest *importer.MultiSourceIngest
	batch  *classification.BatchClassifier
	cancel context.CancelFunc
}

func (j *ImportJob) setProgress(p classification.Progress) {
	j.mu.Lock()
	j.progress = p
	j.mu.Unlock()
}

// Status devolve uma fotografia consistente do job
func (j *ImportJob) Status() types.ImportStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return types.ImportStatus{
		ID:        j.ID,
		Progresso: j.progress,
		Resumo:    j.summary,
		Erro:      j.errMsg,
	}
}

// ImportService orquestra jobs de importação: arquivos → ingestão multi-fonte
// → detecção de colunas → classificação em lote → persistência incremental
type ImportService struct {
	db             *database.DB
	engine         *classification.Engine
	macroBatchSize int

	mu   sync.RWMutex
	jobs map[string]*ImportJob
}

// NewImportService cria o serviço de importação
func NewImportService(db *database.DB, engine *classification.Engine, macroBatchSize int) *ImportService {
	return &ImportService{
		db:             db,
		engine:         engine,
		macroBatchSize: macroBatchSize,
		jobs:           make(map[string]*ImportJob),
	}
}

// StartImport abre um job e dispara o pipeline em um worker próprio
func (s *ImportService) StartImport(files []importer.FileInput) (string, error) {
	if len(files) == 0 {
		return "", apperrors.NewValidationError("nenhum arquivo enviado", nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &ImportJob{
		ID:       uuid.New().String(),
		progress: classification.Progress{Phase: classification.PhaseParsing},
		ingest:   importer.NewMultiSourceIngest(),
		batch:    classification.NewBatchClassifier(s.engine),
		cancel:   cancel,
	}
	job.ingest.AddFiles(files...)

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	go s.run(ctx, job)
	return job.ID, nil
}

// Job devolve a fotografia do job pelo identificador
func (s *ImportService) Job(id string) (types.ImportStatus, error) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return types.ImportStatus{}, apperrors.NewNotFoundError("job de importação não encontrado", nil)
	}
	return job.Status(), nil
}

// CancelJob solicita o cancelamento cooperativo de um job em andamento
func (s *ImportService) CancelJob(id string) error {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return apperrors.NewNotFoundError("job de importação não encontrado", nil)
	}

	job.ingest.Cancel()
	job.batch.Cancel()
	job.cancel()
	return nil
}

// run conduz o pipeline completo de um job
func (s *ImportService) run(ctx context.Context, job *ImportJob) {
	defer job.cancel()

	job.ingest.OnProgress = func(phase classification.Phase, percent float64) {
		job.setProgress(classification.Progress{Phase: phase, Percent: percent})
	}

	merged, err := job.ingest.ParseAll(ctx)
	if err != nil {
		s.fail(job, fmt.Errorf("ingestão falhou: %w", err))
		return
	}
	if cancelledPhase(job) {
		return
	}

	mapping := importer.DetectColumns(merged.Columns)
	items := buildItems(merged.Rows, mapping, merged.Columns)

	rules, err := s.db.ListRules()
	if err != nil {
		s.fail(job, fmt.Errorf("falha ao carregar regras: %w", err))
		return
	}
	attrs, err := s.db.ListCustomAttributes()
	if err != nil {
		s.fail(job, fmt.Errorf("falha ao carregar atributos: %w", err))
		return
	}

	var stats classification.BatchStats
	_, err = job.batch.Run(ctx, items, rules, attrs, classification.BatchOptions{
		MacroBatchSize: s.macroBatchSize,
		OnProgress:     job.setProgress,
		OnBatchComplete: func(batch []classification.ClassifiedItem, batchIndex int) error {
			return s.db.SaveClassifiedBatch(batch, batchIndex)
		},
		OnComplete: func(bs classification.BatchStats) { stats = bs },
		OnError: func(err error) {
			log.Printf("[Import] job %s: %v", job.ID, err)
		},
	})
	if err != nil {
		s.fail(job, err)
		return
	}

	summary := &types.ImportSummary{
		Arquivos:       job.ingest.Files(),
		Colunas:        merged.Columns,
		Mapeamento:     mapping,
		TotalLinhas:    len(merged.Rows),
		Classificados:  stats.ClassifiedCount,
		ConfiancaMedia: stats.AverageConfidence,
		Fase:           job.batch.Progress().Phase,
	}
	if mapping.Reference != "" {
		grade := importer.ComputeGradeStats(merged.Rows, mapping.Reference)
		summary.Grade = &grade
	}

	job.mu.Lock()
	job.summary = summary
	job.mu.Unlock()

	log.Printf("[Import] job %s: %d linhas, %d classificadas, confiança média %.1f",
		job.ID, summary.TotalLinhas, summary.Classificados, summary.ConfiancaMedia)
}

func (s *ImportService) fail(job *ImportJob, err error) {
	log.Printf("[Import] job %s falhou: %v", job.ID, err)
	job.mu.Lock()
	job.errMsg = err.Error()
	job.progress.Phase = classification.PhaseError
	job.mu.Unlock()
}

func cancelledPhase(job *ImportJob) bool {
	job.mu.RLock()
	defer job.mu.RUnlock()
	return job.progress.Phase == classification.PhaseCancelled
}

// buildItems converte as linhas fundidas em itens de classificação, usando a
// coluna de nome detectada (ou a primeira coluna como último recurso)
func buildItems(rows []map[string]string, mapping importer.ColumnMapping, columns []string) []classification.Item {
	nameColumn := mapping.Name
	if nameColumn == "" && len(columns) > 0 {
		nameColumn = columns[0]
	}

	items := make([]classification.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, classification.Item{
			Name:   row[nameColumn],
			Origin: row[importer.OriginKey],
			Data:   row,
		})
	}
	return items
}
