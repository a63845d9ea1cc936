package classification

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
)

// Phase fase do pipeline de processamento
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseParsing     Phase = "parsing"
	PhaseClassifying Phase = "classifying"
	PhaseMerging     Phase = "merging"
	PhaseSaving      Phase = "saving"
	PhaseComplete    Phase = "complete"
	PhaseError       Phase = "error"
	PhaseCancelled   Phase = "cancelled"
)

// Progress registro de progresso do pipeline. Possui um único dono (o driver
// do pipeline); leitores externos recebem cópias via OnProgress.
type Progress struct {
	Phase               Phase   `json:"fase"`
	Processed           int     `json:"processados"`
	Total               int     `json:"total"`
	Percent             float64 `json:"percentual"`
	BatchesComplete     int     `json:"lotes_concluidos"`
	TotalBatches        int     `json:"total_lotes"`
	ETAText             string  `json:"tempo_restante,omitempty"`
	ItemsPerSecond      float64 `json:"itens_por_segundo"`
	CurrentBatchPercent float64 `json:"percentual_lote_atual"`
}

// Item item de entrada para a classificação em lote
type Item struct {
	Name   string            `json:"nome"`
	Origin string            `json:"arquivo_origem,omitempty"`
	Data   map[string]string `json:"dados,omitempty"`
}

// ClassifiedItem item de entrada com seu resultado de classificação
type ClassifiedItem struct {
	Item
	Result Result `json:"resultado"`
}

// BatchStats estatísticas finais de uma execução em lote
type BatchStats struct {
	ClassifiedCount   int     `json:"classificados"`
	AverageConfidence float64 `json:"confianca_media"`
}

// BatchOptions opções e callbacks do processamento em lote. OnBatchComplete é
// aguardado antes do próximo macro-lote começar, o que dá contrapressão com
// profundidade 1 sobre a persistência.
type BatchOptions struct {
	MacroBatchSize  int
	OnProgress      func(Progress)
	OnBatchComplete func(batch []ClassifiedItem, batchIndex int) error
	OnComplete      func(BatchStats)
	OnError         func(error)
}

const (
	defaultMacroBatchSize = 500
	// microBatchSize limita o trabalho síncrono entre pontos de escalonamento
	microBatchSize = 50
)

// BatchClassifier executa o motor de regras sobre coleções grandes em blocos
// cooperativos, com relatório de progresso, ETA e cancelamento.
type BatchClassifier struct {
	engine    *Engine
	progress  Progress
	cancelled atomic.Bool
}

// NewBatchClassifier cria um classificador em lote sobre o motor dado
func NewBatchClassifier(engine *Engine) *BatchClassifier {
	return &BatchClassifier{
		engine:   engine,
		progress: Progress{Phase: PhaseIdle},
	}
}

// Cancel solicita o cancelamento cooperativo. O micro-lote em andamento
// termina antes de a verificação surtir efeito.
func (bc *BatchClassifier) Cancel() {
	bc.cancelled.Store(true)
}

// Reset devolve o classificador ao estado idle para uma nova execução
func (bc *BatchClassifier) Reset() {
	bc.cancelled.Store(false)
	bc.progress = Progress{Phase: PhaseIdle}
}

func (bc *BatchClassifier) isCancelled(ctx context.Context) bool {
	return bc.cancelled.Load() || ctx.Err() != nil
}

// Run processa os itens em macro-lotes (persistência) subdivididos em
// micro-lotes (progresso e escalonamento). No cancelamento retorna um
// resultado vazio; lotes já entregues ao sink permanecem persistidos.
func (bc *BatchClassifier) Run(ctx context.Context, items []Item, rules []Rule, attributes []CustomAttribute, opts BatchOptions) ([]ClassifiedItem, error) {
	macroSize := opts.MacroBatchSize
	if macroSize <= 0 {
		macroSize = defaultMacroBatchSize
	}

	total := len(items)
	totalBatches := (total + macroSize - 1) / macroSize

	bc.progress = Progress{
		Phase:        PhaseClassifying,
		Total:        total,
		TotalBatches: totalBatches,
	}
	report := func() {
		if opts.OnProgress != nil {
			opts.OnProgress(bc.progress)
		}
	}
	report()

	start := time.Now()
	results := make([]ClassifiedItem, 0, total)

	for b := 0; b < totalBatches; b++ {
		if bc.isCancelled(ctx) {
			return bc.finishCancelled(report), nil
		}

		batchStart := b * macroSize
		batchEnd := min(batchStart+macroSize, total)
		batch := make([]ClassifiedItem, 0, batchEnd-batchStart)

		for micro := batchStart; micro < batchEnd; micro += microBatchSize {
			if bc.isCancelled(ctx) {
				return bc.finishCancelled(report), nil
			}

			microEnd := min(micro+microBatchSize, batchEnd)
			for _, item := range items[micro:microEnd] {
				batch = append(batch, ClassifiedItem{
					Item:   item,
					Result: bc.engine.Classify(item.Name, rules, attributes),
				})
			}

			bc.progress.Processed = microEnd
			bc.progress.Percent = float64(microEnd) / float64(total) * 100
			bc.progress.CurrentBatchPercent = float64(microEnd-batchStart) / float64(batchEnd-batchStart) * 100
			if elapsed := time.Since(start).Seconds(); elapsed > 0 {
				rate := float64(microEnd) / elapsed
				bc.progress.ItemsPerSecond = rate
				if remaining := total - microEnd; remaining > 0 {
					bc.progress.ETAText = formatETA(float64(remaining) / rate)
				} else {
					bc.progress.ETAText = ""
				}
			}
			report()

			// Ponto de escalonamento cooperativo entre micro-lotes
			runtime.Gosched()
		}

		if opts.OnBatchComplete != nil {
			bc.progress.Phase = PhaseSaving
			report()
			if err := opts.OnBatchComplete(batch, b); err != nil {
				bc.progress.Phase = PhaseError
				report()
				wrapped := fmt.Errorf("persistência do lote %d falhou: %w", b, err)
				if opts.OnError != nil {
					opts.OnError(wrapped)
				}
				return nil, wrapped
			}
			bc.progress.Phase = PhaseClassifying
		}

		results = append(results, batch...)
		bc.progress.BatchesComplete = b + 1
		report()
	}

	bc.progress.Phase = PhaseComplete
	bc.progress.Percent = 100
	bc.progress.ETAText = ""
	report()

	if opts.OnComplete != nil {
		opts.OnComplete(BatchStats{
			ClassifiedCount:   len(results),
			AverageConfidence: averageConfidence(results),
		})
	}

	return results, nil
}

// Progress retorna o último registro de progresso da execução corrente.
// Deve ser lido da mesma goroutine que conduz Run; leitores concorrentes
// usam as cópias entregues por OnProgress.
func (bc *BatchClassifier) Progress() Progress {
	return bc.progress
}

func (bc *BatchClassifier) finishCancelled(report func()) []ClassifiedItem {
	bc.progress.Phase = PhaseCancelled
	bc.progress.ETAText = ""
	report()
	return []ClassifiedItem{}
}

func averageConfidence(items []ClassifiedItem) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, it := range items {
		sum += it.Result.Confidence
	}
	return float64(sum) / float64(len(items))
}

// formatETA formata segundos restantes como "45s", "12min" ou "1h 05min"
func formatETA(seconds float64) string {
	if seconds < 1 {
		return "1s"
	}
	s := int(seconds)
	switch {
	case s < 60:
		return fmt.Sprintf("%ds", s)
	case s < 3600:
		return fmt.Sprintf("%dmin", s/60)
	default:
		return fmt.Sprintf("%dh %02dmin", s/3600, (s%3600)/60)
	}
}
