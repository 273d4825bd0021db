package scrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/scrap-api/internal/application/dto"
	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/scrap"
	"github.com/jhoicas/scrap-api/pkg/logger"
)

// Config parámetros del caso de uso de desecho.
type Config struct {
	// EntryPolicy se aplica al crear, editar y en la vista previa de lotes.
	EntryPolicy scrap.QtyPolicy
	// PrecisionDigits decimales de "Unidad de medida de producto" para comparar disponibilidad.
	PrecisionDigits int32
	SequenceCode    string
}

// DefaultConfig valores por defecto: conservar la cantidad, 2 decimales, secuencia stock.scrap.
func DefaultConfig() Config {
	return Config{
		EntryPolicy:     scrap.KeepEntered(),
		PrecisionDigits: 2,
		SequenceCode:    "stock.scrap",
	}
}

// ScrapUseCase casos de uso del desecho multi-lote: alta, edición, validación y ejecución.
// Toda escritura ocurre dentro de una transacción (TxRunner); un error revierte todo.
type ScrapUseCase struct {
	txRunner    TxRunner
	replenisher Replenisher
	cfg         Config
	log         *logger.Logger
	now         func() time.Time
}

// NewScrapUseCase construye el caso de uso. replenisher puede ser nil (sin reposición).
func NewScrapUseCase(txRunner TxRunner, replenisher Replenisher, cfg Config, log *logger.Logger) *ScrapUseCase {
	if cfg.SequenceCode == "" {
		cfg.SequenceCode = DefaultConfig().SequenceCode
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ScrapUseCase{
		txRunner:    txRunner,
		replenisher: replenisher,
		cfg:         cfg,
		log:         log.Named("scrap"),
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ScrapUseCase) WithClock(now func() time.Time) *ScrapUseCase {
	uc.now = now
	return uc
}

// Create registra un desecho en borrador. Con lotes seleccionados la cantidad es su suma.
func (uc *ScrapUseCase) Create(ctx context.Context, companyID, userID string, in dto.ScrapRequest) (*dto.ScrapResponse, error) {
	if companyID == "" {
		return nil, domain.ErrUnauthorized
	}
	var out *dto.ScrapResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		now := uc.now()
		s := &entity.Scrap{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Name:      entity.ScrapDefaultName,
			State:     entity.ScrapStateDraft,
			CreatedBy: userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.applyRequest(ctx, r, s, in); err != nil {
			return err
		}
		if err := r.Scraps.Create(ctx, s); err != nil {
			return err
		}
		out = toScrapResponse(s, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("scrap_id", out.ID).Int("lots", len(out.LotIDs)).Str("qty", out.ScrapQty.String()).Msg("desecho creado")
	return out, nil
}

// Update reemplaza los campos editables de un borrador y vuelve a sincronizar la cantidad.
func (uc *ScrapUseCase) Update(ctx context.Context, companyID, id string, in dto.ScrapRequest) (*dto.ScrapResponse, error) {
	var out *dto.ScrapResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		s, err := loadScrapForUpdate(ctx, r, companyID, id)
		if err != nil {
			return err
		}
		if s.IsDone() {
			return fmt.Errorf("%w: el desecho %s ya fue ejecutado", domain.ErrConflict, s.Name)
		}
		if err := uc.applyRequest(ctx, r, s, in); err != nil {
			return err
		}
		s.UpdatedAt = uc.now()
		if err := r.Scraps.Update(ctx, s); err != nil {
			return err
		}
		out = toScrapResponse(s, nil)
		return nil
	})
	return out, err
}

// Get devuelve el desecho con sus movimientos.
func (uc *ScrapUseCase) Get(ctx context.Context, companyID, id string) (*dto.ScrapResponse, error) {
	var out *dto.ScrapResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		s, err := loadScrap(ctx, r, companyID, id)
		if err != nil {
			return err
		}
		moves, err := r.Moves.ListByScrap(ctx, s.ID)
		if err != nil {
			return err
		}
		out = toScrapResponse(s, moves)
		return nil
	})
	return out, err
}

// List lista los desechos de la empresa; state vacío = todos.
func (uc *ScrapUseCase) List(ctx context.Context, companyID, state string, page dto.PageRequest) ([]dto.ScrapResponse, error) {
	page.DefaultPage()
	list := []dto.ScrapResponse{}
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		scraps, err := r.Scraps.ListByCompany(ctx, companyID, state, page.Limit, page.Offset)
		if err != nil {
			return err
		}
		for _, s := range scraps {
			list = append(list, *toScrapResponse(s, nil))
		}
		return nil
	})
	return list, err
}

// OnchangeLots calcula la cantidad que tendría el desecho con la selección de lotes indicada.
// No escribe nada.
func (uc *ScrapUseCase) OnchangeLots(ctx context.Context, companyID string, in dto.OnchangeLotsRequest) (*dto.OnchangeLotsResponse, error) {
	var out *dto.OnchangeLotsResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		s := &entity.Scrap{
			CompanyID: companyID,
			ProductID: in.ProductID,
			ScrapQty:  in.ScrapQty,
			LotIDs:    scrap.NormalizeLotIDs(in.LotIDs),
		}
		lots, err := loadLots(ctx, r, s)
		if err != nil {
			return err
		}
		scrap.SyncQuantity(s, lots, uc.cfg.EntryPolicy)
		out = &dto.OnchangeLotsResponse{ScrapQty: s.ScrapQty, LotScrapQty: s.LotScrapQty}
		return nil
	})
	return out, err
}

// CheckAvailableQty indica si hay existencias suficientes para el desecho. No modifica nada.
func (uc *ScrapUseCase) CheckAvailableQty(ctx context.Context, companyID, id string) (bool, error) {
	var ok bool
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		s, err := loadScrap(ctx, r, companyID, id)
		if err != nil {
			return err
		}
		product, err := loadProduct(ctx, r, s.ProductID)
		if err != nil {
			return err
		}
		lots, err := loadLots(ctx, r, s)
		if err != nil {
			return err
		}
		ok, err = uc.checkAvailableQty(ctx, r, s, product, lots)
		return err
	})
	return ok, err
}

// ListLots lotes del producto con cantidad positiva, seleccionables para un desecho.
func (uc *ScrapUseCase) ListLots(ctx context.Context, companyID, productID string) ([]dto.LotResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	out := []dto.LotResponse{}
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		lots, err := r.Lots.ListAvailable(ctx, companyID, productID)
		if err != nil {
			return err
		}
		for _, l := range lots {
			out = append(out, dto.LotResponse{ID: l.ID, Name: l.Name, ProductID: l.ProductID, ProductQty: l.ProductQty})
		}
		return nil
	})
	return out, err
}

// applyRequest valida las referencias de in, las copia a s y sincroniza la cantidad.
func (uc *ScrapUseCase) applyRequest(ctx context.Context, r Repos, s *entity.Scrap, in dto.ScrapRequest) error {
	if strings.TrimSpace(in.ProductID) == "" || in.LocationID == "" || in.ScrapLocationID == "" {
		return domain.ErrInvalidInput
	}
	if in.ScrapQty.IsNegative() {
		return fmt.Errorf("%w: %s", domain.ErrNonPositiveQty, in.ScrapQty)
	}
	product, err := loadProduct(ctx, r, in.ProductID)
	if err != nil {
		return err
	}
	uomID := in.ProductUoMID
	if uomID == "" {
		uomID = product.UoM.ID
	}
	uom, err := r.UoMs.GetByID(ctx, uomID)
	if err != nil {
		return err
	}
	if uom == nil {
		return domain.ErrNotFound
	}
	if uom.CategoryID != product.UoM.CategoryID {
		return domain.ErrUoMMismatch
	}
	src, err := loadLocation(ctx, r, in.LocationID)
	if err != nil {
		return err
	}
	dst, err := loadLocation(ctx, r, in.ScrapLocationID)
	if err != nil {
		return err
	}
	if !dst.ScrapLocation {
		return fmt.Errorf("%w: %s no es una ubicación de desecho", domain.ErrInvalidInput, dst.Name)
	}

	s.ProductID = product.ID
	s.ProductUoMID = uom.ID
	s.ScrapQty = in.ScrapQty
	s.LotID = in.LotID
	s.LotIDs = scrap.NormalizeLotIDs(in.LotIDs)
	s.PackageID = in.PackageID
	s.OwnerID = in.OwnerID
	s.LocationID = src.ID
	s.ScrapLocationID = dst.ID
	s.Origin = in.Origin
	s.PickingID = in.PickingID
	s.ShouldReplenish = in.ShouldReplenish

	// Las cantidades de lote están en la UdM del producto.
	if s.HasLots() && uom.ID != product.UoM.ID {
		return fmt.Errorf("%w: con lotes seleccionados la UdM debe ser %s", domain.ErrUoMMismatch, product.UoM.Name)
	}
	lots, err := loadLots(ctx, r, s)
	if err != nil {
		return err
	}
	if err := scrap.CheckCompany(s, product, []*entity.Location{src, dst}, lots); err != nil {
		return err
	}
	scrap.SyncQuantity(s, lots, uc.cfg.EntryPolicy)
	return nil
}

// ── Helpers de carga ─────────────────────────────────────────────────────────

func loadScrap(ctx context.Context, r Repos, companyID, id string) (*entity.Scrap, error) {
	s, err := r.Scraps.GetByID(ctx, id)
	return checkScrap(s, err, companyID)
}

func loadScrapForUpdate(ctx context.Context, r Repos, companyID, id string) (*entity.Scrap, error) {
	s, err := r.Scraps.GetForUpdate(ctx, id)
	return checkScrap(s, err, companyID)
}

func checkScrap(s *entity.Scrap, err error, companyID string) (*entity.Scrap, error) {
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

func loadProduct(ctx context.Context, r Repos, id string) (*entity.Product, error) {
	p, err := r.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

func loadLocation(ctx context.Context, r Repos, id string) (*entity.Location, error) {
	l, err := r.Locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
	}
	return l, nil
}

func loadUoM(ctx context.Context, r Repos, id string) (*entity.UoM, error) {
	u, err := r.UoMs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: unidad de medida %s", domain.ErrNotFound, id)
	}
	return u, nil
}

// loadLots lee las cantidades actuales de los lotes seleccionados y verifica que sean del producto.
func loadLots(ctx context.Context, r Repos, s *entity.Scrap) ([]*entity.Lot, error) {
	if !s.HasLots() {
		return nil, nil
	}
	lots, err := r.Lots.GetByIDs(ctx, s.LotIDs)
	if err != nil {
		return nil, err
	}
	for _, l := range lots {
		if l.ProductID != s.ProductID {
			return nil, fmt.Errorf("%w: el lote %s no es del producto", domain.ErrInvalidInput, l.Name)
		}
	}
	return lots, nil
}

// ── Mapeo a DTO ──────────────────────────────────────────────────────────────

func toScrapResponse(s *entity.Scrap, moves []*entity.StockMove) *dto.ScrapResponse {
	out := &dto.ScrapResponse{
		ID:              s.ID,
		CompanyID:       s.CompanyID,
		Name:            s.Name,
		Origin:          s.Origin,
		PickingID:       s.PickingID,
		ProductID:       s.ProductID,
		ProductUoMID:    s.ProductUoMID,
		ScrapQty:        s.ScrapQty,
		LotID:           s.LotID,
		LotIDs:          append([]string{}, s.LotIDs...),
		LotScrapQty:     s.LotScrapQty,
		PackageID:       s.PackageID,
		OwnerID:         s.OwnerID,
		LocationID:      s.LocationID,
		ScrapLocationID: s.ScrapLocationID,
		State:           s.State,
		DateDone:        s.DateDone,
		ShouldReplenish: s.ShouldReplenish,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	for _, m := range moves {
		mr := dto.StockMoveResponse{
			ID:             m.ID,
			Reference:      m.Reference,
			Origin:         m.Origin,
			ProductUoMQty:  m.ProductUoMQty,
			LocationID:     m.LocationID,
			LocationDestID: m.LocationDestID,
			State:          m.State,
			DateDone:       m.DateDone,
			Lines:          make([]dto.MoveLineResponse, 0, len(m.Lines)),
		}
		for _, l := range m.Lines {
			mr.Lines = append(mr.Lines, dto.MoveLineResponse{
				LotID: l.LotID, PackageID: l.PackageID, OwnerID: l.OwnerID, Quantity: l.Quantity,
			})
		}
		out.Moves = append(out.Moves, mr)
	}
	return out
}

// requestedQty cantidad pedida: suma de lotes si hay selección, si no la ingresada.
func requestedQty(s *entity.Scrap, lots []*entity.Lot) decimal.Decimal {
	if len(lots) > 0 {
		return scrap.SumLots(lots)
	}
	return s.ScrapQty
}
