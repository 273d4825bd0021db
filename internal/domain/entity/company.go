package entity

// Company empresa dueña de bodegas, productos y desechos.
// Productos, ubicaciones y lotes con CompanyID vacío se comparten entre empresas.
type Company struct {
	ID      string
	Name    string
	NIT     string // aparece en el comprobante de desecho
	Address string
}
