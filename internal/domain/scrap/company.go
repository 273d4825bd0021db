package scrap

import (
	"fmt"

	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

// CheckCompany verifica que producto, ubicaciones y lotes sean de la empresa del desecho
// o compartidos (sin empresa).
func CheckCompany(s *entity.Scrap, product *entity.Product, locations []*entity.Location, lots []*entity.Lot) error {
	if product != nil && !sameCompany(s.CompanyID, product.CompanyID) {
		return fmt.Errorf("%w: producto %s", domain.ErrCompanyMismatch, product.ID)
	}
	for _, loc := range locations {
		if loc != nil && !sameCompany(s.CompanyID, loc.CompanyID) {
			return fmt.Errorf("%w: ubicación %s", domain.ErrCompanyMismatch, loc.ID)
		}
	}
	for _, lot := range lots {
		if !sameCompany(s.CompanyID, lot.CompanyID) {
			return fmt.Errorf("%w: lote %s", domain.ErrCompanyMismatch, lot.Name)
		}
	}
	return nil
}

func sameCompany(owner, record string) bool {
	return record == "" || record == owner
}

// ShouldCheckAvailableQty indica si se controla la disponibilidad: solo para
// productos almacenables en ubicaciones con control de existencias.
func ShouldCheckAvailableQty(product *entity.Product, location *entity.Location) bool {
	if product == nil || !product.IsStorable {
		return false
	}
	return location == nil || location.TracksQuantity()
}
