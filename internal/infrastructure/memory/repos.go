package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
)

// Adaptadores fuera de transacción (toman el lock del Store en cada llamada).

var (
	_ repository.UserRepository          = UserRepo{}
	_ repository.ReplenishmentRepository = ReplenishmentRepo{}
)

// UserRepo usuarios sobre el Store.
type UserRepo struct{ s *Store }

// NewUserRepository construye el adaptador.
func NewUserRepository(s *Store) UserRepo { return UserRepo{s: s} }

// FindByEmail busca por email sin distinguir mayúsculas.
func (r UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.s.locked(func(v *view) {
		for _, u := range v.st.users {
			if strings.EqualFold(u.Email, email) {
				cp := *u
				out = &cp
				return
			}
		}
	})
	return out, nil
}

// ReplenishmentRepo solicitudes de reposición sobre el Store.
type ReplenishmentRepo struct{ s *Store }

// NewReplenishmentRepository construye el adaptador.
func NewReplenishmentRepository(s *Store) ReplenishmentRepo { return ReplenishmentRepo{s: s} }

// Create registra una solicitud.
func (r ReplenishmentRepo) Create(ctx context.Context, req *entity.ReplenishmentRequest) (err error) {
	r.s.locked(func(v *view) { err = replenishmentRepo{v}.Create(ctx, req) })
	return err
}

// ListByCompany lista solicitudes, más recientes primero.
func (r ReplenishmentRepo) ListByCompany(ctx context.Context, companyID, state string, limit, offset int) (out []*entity.ReplenishmentRequest, err error) {
	r.s.locked(func(v *view) { out, err = replenishmentRepo{v}.ListByCompany(ctx, companyID, state, limit, offset) })
	return out, err
}

func sortLots(lots []*entity.Lot) {
	sort.Slice(lots, func(i, j int) bool { return lots[i].Name < lots[j].Name })
}
