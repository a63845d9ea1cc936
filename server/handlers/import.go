package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalogo/importer"
	apperrors "catalogo/server/errors"
	"catalogo/server/services"
	"catalogo/server/types"
)

// ImportHandler endpoints de importação em lote
type ImportHandler struct {
	service        *services.ImportService
	maxUploadBytes int64
}

// NewImportHandler cria o handler de importação
func NewImportHandler(service *services.ImportService, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleStartImport recebe arquivos multipart (campo "arquivos") e abre um job
func (h *ImportHandler) HandleStartImport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		appErr := apperrors.NewValidationError("formulário multipart inválido ou acima do limite", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	fileHeaders := form.File["arquivos"]
	if len(fileHeaders) == 0 {
		SendJSONError(c, http.StatusBadRequest, "nenhum arquivo enviado no campo 'arquivos'")
		return
	}

	inputs := make([]importer.FileInput, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			appErr := apperrors.NewValidationError(
				fmt.Sprintf("falha ao abrir arquivo %s", fh.Filename), err)
			SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			appErr := apperrors.NewValidationError(
				fmt.Sprintf("falha ao ler arquivo %s", fh.Filename), err)
			SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
			return
		}
		inputs = append(inputs, importer.FileInput{Name: fh.Filename, Data: data})
	}

	id, err := h.service.StartImport(inputs)
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusAccepted, types.ImportStarted{ID: id})
}

// HandleImportStatus devolve o progresso e o resumo de um job
func (h *ImportHandler) HandleImportStatus(c *gin.Context) {
	status, err := h.service.Job(c.Param("id"))
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, status)
}

// HandleCancelImport solicita o cancelamento de um job em andamento
func (h *ImportHandler) HandleCancelImport(c *gin.Context) {
	if err := h.service.CancelJob(c.Param("id")); err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, gin.H{"cancelado": true})
}
