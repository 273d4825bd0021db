package entity

// Tipos de seguimiento de producto.
const (
	TrackingNone   = "none"
	TrackingLot    = "lot"
	TrackingSerial = "serial"
)

// Product representa un producto del inventario. CompanyID vacío = compartido entre empresas.
type Product struct {
	ID          string
	CompanyID   string
	Name        string
	DefaultCode string // referencia interna
	UoM         UoM    // unidad de medida base
	Tracking    string
	IsStorable  bool // solo los almacenables controlan existencias
}

// DisplayName devuelve "[código] nombre" si hay referencia interna.
func (p *Product) DisplayName() string {
	if p.DefaultCode == "" {
		return p.Name
	}
	return "[" + p.DefaultCode + "] " + p.Name
}
