package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrNonPositiveQty  = errors.New("solo puede ingresar cantidades positivas")
	ErrCompanyMismatch = errors.New("los registros pertenecen a empresas distintas")
	ErrUoMMismatch     = errors.New("las unidades de medida no pertenecen a la misma categoría")
)
