package services

import (
	"strings"

	"catalogo/classification"
	"catalogo/database"
	apperrors "catalogo/server/errors"
)

// ClassificationService serviço de classificação de nomes de produto e de
// gestão das regras que alimentam o motor
type ClassificationService struct {
	db     *database.DB
	engine *classification.Engine
}

// NewClassificationService cria o serviço de classificação
func NewClassificationService(db *database.DB, engine *classification.Engine) *ClassificationService {
	return &ClassificationService{
		db:     db,
		engine: engine,
	}
}

// ClassifyName classifica um único nome usando as regras e atributos ativos
func (s *ClassificationService) ClassifyName(nome string) (classification.Result, error) {
	if strings.TrimSpace(nome) == "" {
		return classification.Result{}, apperrors.NewValidationError("nome do produto é obrigatório", nil)
	}

	rules, err := s.db.ListRules()
	if err != nil {
		return classification.Result{}, apperrors.NewInternalError("falha ao carregar regras", err)
	}
	attrs, err := s.db.ListCustomAttributes()
	if err != nil {
		return classification.Result{}, apperrors.NewInternalError("falha ao carregar atributos", err)
	}

	return s.engine.Classify(nome, rules, attrs), nil
}

// ListRules retorna todas as regras cadastradas
func (s *ClassificationService) ListRules() ([]classification.Rule, error) {
	rules, err := s.db.ListRules()
	if err != nil {
		return nil, apperrors.NewInternalError("falha ao listar regras", err)
	}
	return rules, nil
}

// CreateRule valida e persiste uma nova regra
func (s *ClassificationService) CreateRule(rule classification.Rule) (classification.Rule, error) {
	if strings.TrimSpace(rule.Name) == "" {
		return rule, apperrors.NewValidationError("nome da regra é obrigatório", nil)
	}
	if len(rule.Terms) == 0 {
		return rule, apperrors.NewValidationError("regra precisa de ao menos um termo", nil)
	}
	switch rule.MatchType {
	case classification.MatchContains, classification.MatchExact, classification.MatchStartsWith,
		classification.MatchContainsAll, classification.MatchNotContains:
	default:
		return rule, apperrors.NewValidationError("tipo de correspondência desconhecido", nil)
	}
	if strings.TrimSpace(rule.TargetField) == "" || strings.TrimSpace(rule.TargetValue) == "" {
		return rule, apperrors.NewValidationError("campo e valor de destino são obrigatórios", nil)
	}

	id, err := s.db.SaveRule(rule)
	if err != nil {
		return rule, apperrors.NewInternalError("falha ao salvar regra", err)
	}
	rule.ID = id
	return rule, nil
}
