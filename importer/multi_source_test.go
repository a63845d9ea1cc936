package importer

import (
	"context"
	"testing"

	"catalogo/classification"
)

func csvFile(name string, rows int) FileInput {
	data := "nome;preco\n"
	for i := 0; i < rows; i++ {
		data += "Camisa Polo;49,90\n"
	}
	return FileInput{Name: name, Data: []byte(data)}
}

// TestParseAll_FalhaParcial verifica que um arquivo inválido não aborta o lote:
// as linhas dos demais arquivos sobrevivem e a fase final é complete
func TestParseAll_FalhaParcial(t *testing.T) {
	ingest := NewMultiSourceIngest()
	ingest.AddFiles(
		csvFile("bons.csv", 10),
		FileInput{Name: "ruim.xml", Data: []byte("<pedido><x>1</x></pedido>")},
	)

	var lastPhase classification.Phase
	ingest.OnProgress = func(phase classification.Phase, percent float64) {
		lastPhase = phase
		if percent < 0 || percent > 100 {
			t.Errorf("percent = %f fora de [0,100]", percent)
		}
	}

	result, err := ingest.ParseAll(context.Background())
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}

	if len(result.Rows) != 10 {
		t.Errorf("len(Rows) = %d, want 10", len(result.Rows))
	}

	files := ingest.Files()
	if files[0].Status != StatusDone || files[0].RowCount != 10 {
		t.Errorf("arquivo bom: %+v", files[0])
	}
	if files[1].Status != StatusError || files[1].ErrorMessage == "" {
		t.Errorf("arquivo ruim deveria estar com erro: %+v", files[1])
	}
	if lastPhase != classification.PhaseComplete {
		t.Errorf("fase final = %s, want complete", lastPhase)
	}
}

// TestParseAll_OrigemEColunas verifica a marcação de origem por linha e a
// exclusão de chaves reservadas do conjunto de colunas
func TestParseAll_OrigemEColunas(t *testing.T) {
	ingest := NewMultiSourceIngest()
	ingest.AddFiles(
		FileInput{Name: "a.csv", Data: []byte("nome;preco\nCamisa;10\n")},
		FileInput{Name: "b.csv", Data: []byte("nome;estoque\nCalça;5\n")},
	)

	result, err := ingest.ParseAll(context.Background())
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}

	if len(result.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(result.Rows))
	}
	if result.Rows[0][OriginKey] != "a.csv" || result.Rows[1][OriginKey] != "b.csv" {
		t.Errorf("marcação de origem incorreta: %v", result.Rows)
	}

	// União das colunas dos dois arquivos, sem a chave reservada
	want := map[string]bool{"nome": true, "preco": true, "estoque": true}
	if len(result.Columns) != len(want) {
		t.Fatalf("Columns = %v", result.Columns)
	}
	for _, col := range result.Columns {
		if !want[col] {
			t.Errorf("coluna inesperada %q (reservadas devem ficar de fora)", col)
		}
	}
}

// TestParseAll_ExtensaoInvalida verifica a rejeição na seleção do arquivo
func TestParseAll_ExtensaoInvalida(t *testing.T) {
	ingest := NewMultiSourceIngest()
	ingest.AddFiles(FileInput{Name: "foto.png", Data: []byte{1, 2, 3}})

	files := ingest.Files()
	if files[0].Status != StatusError {
		t.Errorf("extensão inválida deveria entrar com status error: %+v", files[0])
	}

	result, err := ingest.ParseAll(context.Background())
	if err != nil || len(result.Rows) != 0 {
		t.Errorf("ParseAll() = %v, %v", result, err)
	}
}

// TestParseAll_Cancelamento verifica o resultado vazio no cancelamento
func TestParseAll_Cancelamento(t *testing.T) {
	ingest := NewMultiSourceIngest()
	ingest.AddFiles(csvFile("a.csv", 5))
	ingest.Cancel()

	var lastPhase classification.Phase
	ingest.OnProgress = func(phase classification.Phase, percent float64) { lastPhase = phase }

	result, err := ingest.ParseAll(context.Background())
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	if len(result.Rows) != 0 || lastPhase != classification.PhaseCancelled {
		t.Errorf("cancelamento deve devolver resultado vazio: %d linhas, fase %s", len(result.Rows), lastPhase)
	}
}

// TestRemoveFileEReset verifica a remoção por índice e o reset completo
func TestRemoveFileEReset(t *testing.T) {
	ingest := NewMultiSourceIngest()
	ingest.AddFiles(csvFile("a.csv", 1), csvFile("b.csv", 1))

	if err := ingest.RemoveFile(0); err != nil {
		t.Fatalf("RemoveFile(0) error = %v", err)
	}
	if len(ingest.Files()) != 1 || ingest.Files()[0].Name != "b.csv" {
		t.Errorf("Files() = %+v", ingest.Files())
	}

	if err := ingest.RemoveFile(5); err == nil {
		t.Error("RemoveFile com índice inválido deveria falhar")
	}

	ingest.Reset()
	if len(ingest.Files()) != 0 {
		t.Errorf("Reset deveria descartar os arquivos")
	}
}
