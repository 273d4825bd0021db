package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/scrap-api/internal/application/dto"
	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
	"github.com/jhoicas/scrap-api/pkg/logger"
)

// ReplenishmentUseCase registra y consulta solicitudes de reposición de lo desechado.
type ReplenishmentUseCase struct {
	repo repository.ReplenishmentRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
// repo se usa para las consultas; las altas usan el repositorio de la transacción del desecho.
func NewReplenishmentUseCase(repo repository.ReplenishmentRepository, log *logger.Logger) *ReplenishmentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReplenishmentUseCase{repo: repo, log: log.Named("replenishment"), now: time.Now}
}

// Replenish crea una solicitud pendiente por la cantidad desechada en la ubicación de origen.
// qty viene en la UdM del producto.
func (uc *ReplenishmentUseCase) Replenish(ctx context.Context, repo repository.ReplenishmentRepository, s *entity.Scrap, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	req := &entity.ReplenishmentRequest{
		ID:         uuid.New().String(),
		CompanyID:  s.CompanyID,
		ProductID:  s.ProductID,
		LocationID: s.LocationID,
		Quantity:   qty,
		Origin:     s.Name,
		State:      entity.ReplenishmentStatePending,
		CreatedAt:  uc.now(),
	}
	if err := repo.Create(ctx, req); err != nil {
		return err
	}
	uc.log.Info().
		Str("origin", req.Origin).
		Str("product_id", req.ProductID).
		Str("qty", qty.String()).
		Msg("reposición solicitada")
	return nil
}

// ListPending devuelve las solicitudes pendientes de la empresa, más recientes primero.
func (uc *ReplenishmentUseCase) ListPending(ctx context.Context, companyID string, page dto.PageRequest) ([]dto.ReplenishmentRequestDTO, error) {
	page.DefaultPage()
	items, err := uc.repo.ListByCompany(ctx, companyID, entity.ReplenishmentStatePending, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReplenishmentRequestDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ReplenishmentRequestDTO{
			ID:         it.ID,
			ProductID:  it.ProductID,
			LocationID: it.LocationID,
			Quantity:   it.Quantity,
			Origin:     it.Origin,
			State:      it.State,
			CreatedAt:  it.CreatedAt,
		})
	}
	return out, nil
}
