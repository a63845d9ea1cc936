package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError erro de aplicação com status HTTP e contexto
type AppError struct {
	Code    int    `json:"status_code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
	Context string `json:"-"`
}

// Error implementa a interface error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap devolve o erro interno para errors.Is e errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode devolve o status HTTP do erro
func (e *AppError) StatusCode() int {
	return e.Code
}

// UserMessage devolve a mensagem apresentável ao usuário
func (e *AppError) UserMessage() string {
	return e.Message
}

// WithContext anexa contexto ao erro
func (e *AppError) WithContext(context string) *AppError {
	e.Context = context
	return e
}

// NewValidationError cria um erro 400 Bad Request
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError cria um erro 404 Not Found
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: message,
		Err:     err,
	}
}

// NewConflictError cria um erro 409 Conflict
func NewConflictError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
		Err:     err,
	}
}

// NewInternalError cria um erro 500; o usuário recebe uma mensagem genérica e
// os detalhes ficam só no log
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Erro interno do servidor",
		Err:     errors.Join(errors.New(message), err),
	}
}
