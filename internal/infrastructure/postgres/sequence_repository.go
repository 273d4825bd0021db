package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/scrap-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo secuencias por código; la propia de la empresa gana sobre la compartida.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// NextByCode consume el siguiente número y devuelve prefijo + número con relleno.
// Sin secuencia configurada devuelve "".
func (r *SequenceRepo) NextByCode(ctx context.Context, code, companyID string) (string, error) {
	query := `
		UPDATE sequences SET number_next = number_next + number_increment
		WHERE id = (
			SELECT id FROM sequences
			WHERE code = $1 AND (company_id IS NULL OR company_id = $2::uuid)
			ORDER BY company_id NULLS LAST
			LIMIT 1
			FOR UPDATE
		)
		RETURNING prefix, padding, number_next - number_increment`
	var (
		prefix  string
		padding int
		number  int64
	)
	err := r.q.QueryRow(ctx, query, code, companyID).Scan(&prefix, &padding, &number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("next sequence %s: %w", code, err)
	}
	return fmt.Sprintf("%s%0*d", prefix, padding, number), nil
}
