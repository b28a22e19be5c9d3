package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidState        = errors.New("transición de estado no permitida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrDuplicateLot        = errors.New("ya existe un lote activo con ese número y términos distintos")
	ErrDuplicateEnrollment = errors.New("el producto ya está inscrito en el stock 24h")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrIncompleteCount     = errors.New("el cuadre tiene líneas sin conteo físico")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
)
