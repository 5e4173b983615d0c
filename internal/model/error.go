package model

import (
	"errors"
	"fmt"
)

// Erros sentinela da aplicação. O webutil mapeia cada um para um status HTTP.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("resource conflict")
	ErrInternalServer = errors.New("internal server error")
	ErrConnectivity   = errors.New("database connectivity error")
)

// AppError carrega um código de máquina e mensagem para o cliente,
// embrulhando um erro sentinela para o mapeamento de status.
type AppError struct {
	Detail ErrorDetail
	err    error
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		err:    err,
	}
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Detail.Code, e.Detail.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Detail.Code, e.Detail.Message)
}

func (e *AppError) Unwrap() error {
	return e.err
}

// APIErrorResponse é o corpo JSON de toda resposta de erro.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
