// internal/core/domain/errors.go
package domain

import "errors"

// Errores de validación pre-despacho. La taxonomía operacional completa
// vive en platform/errors; aquí solo los mensajes canónicos de input.
var (
	ErrEmptyQuery      = errors.New("query cannot be empty")
	ErrInvalidKind     = errors.New("invalid search kind")
	ErrQueryKindFormat = errors.New("query does not match search kind format")
)
