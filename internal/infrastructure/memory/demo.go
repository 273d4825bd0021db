package memory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

// IDs fijos del juego de datos de demostración.
const (
	DemoCompanyID       = "11111111-1111-1111-1111-111111111111"
	DemoUserID          = "22222222-2222-2222-2222-222222222222"
	DemoUnitsUoMID      = "33333333-3333-3333-3333-333333333331"
	DemoDozenUoMID      = "33333333-3333-3333-3333-333333333332"
	DemoProductID       = "44444444-4444-4444-4444-444444444444"
	DemoStockLocationID = "55555555-5555-5555-5555-555555555551"
	DemoScrapLocationID = "55555555-5555-5555-5555-555555555552"
	DemoLot1ID          = "66666666-6666-6666-6666-666666666661"
	DemoLot2ID          = "66666666-6666-6666-6666-666666666662"
	DemoUserEmail       = "bodega@demo.co"
)

// SeedDemo carga una empresa, un usuario bodeguero, un producto con dos lotes en la
// bodega principal y la secuencia SP/. Para STORAGE_DRIVER=memory.
func SeedDemo(s *Store, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	now := time.Now()
	s.AddCompany(entity.Company{ID: DemoCompanyID, Name: "Demo S.A.S.", NIT: "900000000", Address: "Cra 1 # 2-3, Bogotá"})
	s.AddUser(entity.User{
		ID: DemoUserID, CompanyID: DemoCompanyID, Email: DemoUserEmail, PasswordHash: string(hash),
		Name: "Bodega Demo", Role: entity.RoleBodeguero, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
	})
	units := entity.UoM{ID: DemoUnitsUoMID, CategoryID: "unit", Name: "Unidades", Factor: decimal.NewFromInt(1), Rounding: decimal.RequireFromString("0.01")}
	s.AddUoM(units)
	s.AddUoM(entity.UoM{ID: DemoDozenUoMID, CategoryID: "unit", Name: "Docenas", Factor: decimal.RequireFromString("0.0833333333333333"), Rounding: decimal.RequireFromString("0.01")})
	s.AddProduct(entity.Product{
		ID: DemoProductID, CompanyID: DemoCompanyID, Name: "Yogur natural", DefaultCode: "YOG-01",
		UoM: units, Tracking: entity.TrackingLot, IsStorable: true,
	})
	s.AddLocation(entity.Location{ID: DemoStockLocationID, CompanyID: DemoCompanyID, Name: "BOD/Existencias", Usage: entity.LocationUsageInternal})
	s.AddLocation(entity.Location{ID: DemoScrapLocationID, CompanyID: DemoCompanyID, Name: "Ubicaciones virtuales/Desecho", Usage: entity.LocationUsageInventory, ScrapLocation: true})
	for id, qty := range map[string]int64{DemoLot1ID: 10, DemoLot2ID: 5} {
		lotID := id
		name := "L-001"
		if id == DemoLot2ID {
			name = "L-002"
		}
		s.AddLot(entity.Lot{ID: lotID, CompanyID: DemoCompanyID, ProductID: DemoProductID, Name: name})
		s.SetQuant(entity.Quant{ProductID: DemoProductID, LocationID: DemoStockLocationID, LotID: &lotID, Quantity: decimal.NewFromInt(qty), UpdatedAt: now})
	}
	s.AddSequence("stock.scrap", "", "SP/", 5, 1)
	return nil
}
