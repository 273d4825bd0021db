package dto

// Límites de paginación de los listados.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest limit/offset de GET /api/scraps y GET /api/replenishments.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage completa el límite ausente y lo acota a MaxPageLimit.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse página efectivamente aplicada y cantidad de ítems devueltos.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ScrapListResponse respuesta de GET /api/scraps.
type ScrapListResponse struct {
	Items []ScrapResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ErrorResponse cuerpo de toda respuesta de error. Code es estable
// (VALIDATION, NON_POSITIVE_QTY, NOT_FOUND, CONFLICT...); Message es para humanos.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
