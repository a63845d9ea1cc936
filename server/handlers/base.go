package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "catalogo/server/errors"
)

// SendJSONResponse envia uma resposta JSON
func SendJSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendJSONError envia um erro JSON e registra no log
func SendJSONError(c *gin.Context, statusCode int, message string) {
	reqID, _ := c.Get("request_id")
	log.Printf("[HTTP] %s %s -> %d: %s (request_id=%v)",
		c.Request.Method, c.Request.URL.Path, statusCode, message, reqID)

	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}

// SendAppError traduz um erro de serviço em resposta HTTP; erros que não são
// AppError viram 500 genérico
func SendAppError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}
	log.Printf("[HTTP] erro não mapeado: %v", err)
	SendJSONError(c, http.StatusInternalServerError, "Erro interno do servidor")
}
