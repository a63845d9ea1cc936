package database

import (
	"path/filepath"
	"testing"

	"catalogo/classification"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"), Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSaveRuleEListRules verifica o ciclo de persistência das regras
func TestSaveRuleEListRules(t *testing.T) {
	db := setupTestDB(t)

	catID := 3
	id, err := db.SaveRule(classification.Rule{
		Name:             "Biquínis",
		MatchType:        classification.MatchContains,
		Terms:            []string{"BIQUINI"},
		ExclusionTerms:   []string{"INFANTIL"},
		TargetField:      "categoria",
		TargetValue:      "Biquíni",
		LinkedCategoryID: &catID,
		BasePoints:       100,
		AutoGenderValue:  "Feminino",
		Active:           true,
		Order:            2,
	})
	if err != nil {
		t.Fatalf("SaveRule() error = %v", err)
	}
	if id <= 0 {
		t.Fatalf("SaveRule() id = %d", id)
	}

	if _, err := db.SaveRule(classification.Rule{
		Name: "Primeira", MatchType: classification.MatchContains, Terms: []string{"CALCA"},
		TargetField: "categoria", TargetValue: "Calça", BasePoints: 50, Active: true, Order: 1,
	}); err != nil {
		t.Fatalf("SaveRule() error = %v", err)
	}

	rules, err := db.ListRules()
	if err != nil {
		t.Fatalf("ListRules() error = %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(rules))
	}

	// Ordenadas pela ordem de aplicação
	if rules[0].Name != "Primeira" || rules[1].Name != "Biquínis" {
		t.Errorf("ordem incorreta: %s, %s", rules[0].Name, rules[1].Name)
	}

	saved := rules[1]
	if saved.MatchType != classification.MatchContains ||
		len(saved.Terms) != 1 || saved.Terms[0] != "BIQUINI" ||
		len(saved.ExclusionTerms) != 1 || saved.ExclusionTerms[0] != "INFANTIL" {
		t.Errorf("regra recuperada divergente: %+v", saved)
	}
	if saved.LinkedCategoryID == nil || *saved.LinkedCategoryID != 3 {
		t.Errorf("LinkedCategoryID = %v, want 3", saved.LinkedCategoryID)
	}
	if saved.AutoGenderValue != "Feminino" || !saved.Active {
		t.Errorf("regra recuperada divergente: %+v", saved)
	}
}

// TestSaveRule_Atualizacao verifica a atualização de uma regra existente
func TestSaveRule_Atualizacao(t *testing.T) {
	db := setupTestDB(t)

	id, err := db.SaveRule(classification.Rule{
		Name: "Original", MatchType: classification.MatchContains, Terms: []string{"SAIA"},
		TargetField: "categoria", TargetValue: "Saia", BasePoints: 50, Active: true, Order: 1,
	})
	if err != nil {
		t.Fatalf("SaveRule() error = %v", err)
	}

	if _, err := db.SaveRule(classification.Rule{
		ID: id, Name: "Renomeada", MatchType: classification.MatchExact, Terms: []string{"SAIA MIDI"},
		TargetField: "categoria", TargetValue: "Saia Midi", BasePoints: 80, Active: false, Order: 9,
	}); err != nil {
		t.Fatalf("SaveRule(update) error = %v", err)
	}

	rules, err := db.ListRules()
	if err != nil {
		t.Fatalf("ListRules() error = %v", err)
	}
	if len(rules) != 1 || rules[0].Name != "Renomeada" || rules[0].Active {
		t.Errorf("atualização não aplicada: %+v", rules)
	}
}

// TestCustomAttributes verifica a persistência dos atributos customizados
func TestCustomAttributes(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.SaveCustomAttribute(classification.CustomAttribute{
		Name: "Cor", Kind: classification.KindList,
		Values: []string{"Azul", "Verde"}, Active: true,
	}); err != nil {
		t.Fatalf("SaveCustomAttribute() error = %v", err)
	}

	attrs, err := db.ListCustomAttributes()
	if err != nil {
		t.Fatalf("ListCustomAttributes() error = %v", err)
	}
	if len(attrs) != 1 || attrs[0].Name != "Cor" || len(attrs[0].Values) != 2 {
		t.Errorf("attrs = %+v", attrs)
	}
	if attrs[0].Kind != classification.KindList {
		t.Errorf("Kind = %s", attrs[0].Kind)
	}
}

// TestSaveClassifiedBatch verifica o sink de persistência de lotes
func TestSaveClassifiedBatch(t *testing.T) {
	db := setupTestDB(t)

	batch := []classification.ClassifiedItem{
		{
			Item: classification.Item{Name: "Biquíni Azul", Origin: "planilha.xlsx"},
			Result: classification.Result{
				Category:         "Biquíni",
				Gender:           "Feminino",
				Color:            "Azul",
				ExtraAttributes:  map[string]string{"ocasiao": "Praia"},
				Confidence:       42,
				AppliedRuleNames: []string{"Biquínis"},
			},
		},
		{
			Item:   classification.Item{Name: "Produto sem regra"},
			Result: classification.Result{},
		},
	}

	if err := db.SaveClassifiedBatch(batch, 0); err != nil {
		t.Fatalf("SaveClassifiedBatch() error = %v", err)
	}
	if err := db.SaveClassifiedBatch(batch, 1); err != nil {
		t.Fatalf("SaveClassifiedBatch() error = %v", err)
	}
	if err := db.SaveClassifiedBatch(nil, 2); err != nil {
		t.Fatalf("SaveClassifiedBatch(vazio) error = %v", err)
	}

	count, err := db.CountClassified()
	if err != nil {
		t.Fatalf("CountClassified() error = %v", err)
	}
	if count != 4 {
		t.Errorf("CountClassified() = %d, want 4", count)
	}
}
