package repository

import "context"

// SequenceRepository asigna referencias legibles a partir de una secuencia por código.
type SequenceRepository interface {
	// NextByCode devuelve la siguiente referencia; "" si la secuencia no está configurada.
	NextByCode(ctx context.Context, code, companyID string) (string, error)
}
