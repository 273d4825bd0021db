package entity

// Usos de ubicación.
const (
	LocationUsageInternal  = "internal"
	LocationUsageTransit   = "transit"
	LocationUsageInventory = "inventory"
	LocationUsageSupplier  = "supplier"
	LocationUsageCustomer  = "customer"
	LocationUsageView      = "view"
)

// Location ubicación de stock (bodega, estante, ubicación virtual de desecho...).
type Location struct {
	ID            string
	CompanyID     string
	Name          string
	Usage         string
	ScrapLocation bool
}

// TracksQuantity indica si la ubicación lleva control de existencias.
func (l *Location) TracksQuantity() bool {
	return l.Usage == LocationUsageInternal || l.Usage == LocationUsageTransit
}
