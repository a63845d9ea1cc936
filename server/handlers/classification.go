package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalogo/classification"
	apperrors "catalogo/server/errors"
	"catalogo/server/services"
	"catalogo/server/types"
)

// ClassificationHandler endpoints de classificação e de regras
type ClassificationHandler struct {
	service *services.ClassificationService
}

// NewClassificationHandler cria o handler de classificação
func NewClassificationHandler(service *services.ClassificationService) *ClassificationHandler {
	return &ClassificationHandler{service: service}
}

// HandleClassify classifica um único nome de produto
func (h *ClassificationHandler) HandleClassify(c *gin.Context) {
	var req types.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("corpo da requisição inválido", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	result, err := h.service.ClassifyName(req.Nome)
	if err != nil {
		SendAppError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, types.ClassifyResponse{
		Nome:      req.Nome,
		Resultado: result,
	})
}

// HandleListRules lista as regras cadastradas
func (h *ClassificationHandler) HandleListRules(c *gin.Context) {
	rules, err := h.service.ListRules()
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, gin.H{
		"regras": rules,
		"total":  len(rules),
	})
}

// HandleCreateRule cadastra uma nova regra
func (h *ClassificationHandler) HandleCreateRule(c *gin.Context) {
	var rule classification.Rule
	if err := c.ShouldBindJSON(&rule); err != nil {
		appErr := apperrors.NewValidationError("corpo da requisição inválido", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	saved, err := h.service.CreateRule(rule)
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusCreated, saved)
}
