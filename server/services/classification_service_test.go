package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogo/classification"
	"catalogo/database"
	apperrors "catalogo/server/errors"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), database.Config{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 0,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestClassifyNameUsesStoredRules(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassificationService(db, classification.NewEngine())

	_, err := db.SaveRule(classification.Rule{
		Name:        "Camisetas",
		MatchType:   classification.MatchContains,
		Terms:       []string{"camiseta"},
		TargetField: "categoria",
		TargetValue: "Camisetas",
		BasePoints:  100,
		Active:      true,
		Order:       1,
	})
	require.NoError(t, err)

	result, err := svc.ClassifyName("Camiseta Básica Azul")
	require.NoError(t, err)
	assert.Equal(t, "Camisetas", result.Category)
	assert.Greater(t, result.Confidence, 0)
}

func TestClassifyNameRejectsEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassificationService(db, classification.NewEngine())

	_, err := svc.ClassifyName("   ")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestCreateRuleValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassificationService(db, classification.NewEngine())

	valid := classification.Rule{
		Name:        "Calças",
		MatchType:   classification.MatchContains,
		Terms:       []string{"calça"},
		TargetField: "categoria",
		TargetValue: "Calças",
		Active:      true,
	}

	tests := []struct {
		name   string
		mutate func(*classification.Rule)
	}{
		{"sem nome", func(r *classification.Rule) { r.Name = "" }},
		{"sem termos", func(r *classification.Rule) { r.Terms = nil }},
		{"tipo desconhecido", func(r *classification.Rule) { r.MatchType = "fuzzy" }},
		{"sem destino", func(r *classification.Rule) { r.TargetValue = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := valid
			tt.mutate(&rule)
			_, err := svc.CreateRule(rule)
			require.Error(t, err)
		})
	}

	saved, err := svc.CreateRule(valid)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	rules, err := svc.ListRules()
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}
