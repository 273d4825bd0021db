package scrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

// PDFUseCase genera el comprobante de un desecho ejecutado.
type PDFUseCase struct {
	txRunner  TxRunner
	generator ScrapPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(txRunner TxRunner, generator ScrapPDFGenerator) *PDFUseCase {
	return &PDFUseCase{txRunner: txRunner, generator: generator}
}

// DownloadScrapPDF arma el comprobante con una línea por movimiento.
//
// Retorna:
//   - domain.ErrNotFound     si el desecho no existe.
//   - domain.ErrForbidden    si es de otra empresa.
//   - domain.ErrInvalidInput si aún está en borrador.
func (uc *PDFUseCase) DownloadScrapPDF(ctx context.Context, companyID, id string) (pdfBytes []byte, filename string, err error) {
	var slip *ScrapSlip
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		s, err := loadScrap(ctx, r, companyID, id)
		if err != nil {
			return err
		}
		if !s.IsDone() {
			return fmt.Errorf("%w: el desecho %s está en borrador", domain.ErrInvalidInput, s.Name)
		}
		slip, err = buildSlip(ctx, r, s)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateScrapPDF(ctx, slip)
	if err != nil {
		return nil, "", err
	}
	filename = "desecho-" + strings.ReplaceAll(slip.Scrap.Name, "/", "-") + ".pdf"
	return pdfBytes, filename, nil
}

func buildSlip(ctx context.Context, r Repos, s *entity.Scrap) (*ScrapSlip, error) {
	company, err := r.Companies.GetByID(ctx, s.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		company = &entity.Company{ID: s.CompanyID}
	}
	product, err := loadProduct(ctx, r, s.ProductID)
	if err != nil {
		return nil, err
	}
	uom, err := loadUoM(ctx, r, s.ProductUoMID)
	if err != nil {
		return nil, err
	}
	src, err := loadLocation(ctx, r, s.LocationID)
	if err != nil {
		return nil, err
	}
	dst, err := loadLocation(ctx, r, s.ScrapLocationID)
	if err != nil {
		return nil, err
	}
	moves, err := r.Moves.ListByScrap(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	var lotIDs []string
	for _, m := range moves {
		for _, l := range m.Lines {
			if l.LotID != nil {
				lotIDs = append(lotIDs, *l.LotID)
			}
		}
	}
	lotNames := map[string]string{}
	if len(lotIDs) > 0 {
		lots, err := r.Lots.GetByIDs(ctx, lotIDs)
		if err != nil {
			return nil, err
		}
		for _, l := range lots {
			lotNames[l.ID] = l.Name
		}
	}

	slip := &ScrapSlip{
		Company:       company,
		Scrap:         s,
		Product:       product,
		UoMName:       uom.Name,
		Location:      src,
		ScrapLocation: dst,
	}
	for _, m := range moves {
		for _, l := range m.Lines {
			line := ScrapSlipLine{Reference: m.Reference, Quantity: l.Quantity}
			if l.LotID != nil {
				line.LotName = lotNames[*l.LotID]
			}
			slip.Lines = append(slip.Lines, line)
		}
	}
	return slip, nil
}
