package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/scrap-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	sqlUniqueViolation     = "23505"
	sqlForeignKeyViolation = "23503"
	sqlCheckViolation      = "23514"
)

// writeErr envuelve el error de una escritura. Las violaciones de restricciones se
// traducen a errores de dominio para que el handler responda 409/400 y no 500.
func writeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case sqlUniqueViolation:
		return fmt.Errorf("%w: %s (%s)", domain.ErrConflict, op, pgErr.ConstraintName)
	case sqlForeignKeyViolation:
		return fmt.Errorf("%w: %s referencia un registro inexistente (%s)", domain.ErrInvalidInput, op, pgErr.ConstraintName)
	case sqlCheckViolation:
		return fmt.Errorf("%w: %s (%s)", domain.ErrInvalidInput, op, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
