package dto

// Límites de paginación de los listados.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest limit/offset leídos del query string.
type PageRequest struct {
	Limit  int
	Offset int
}

// Normalize lleva Limit a [1, MaxPageLimit] (DefaultPageLimit si no vino) y Offset a >= 0.
func (p PageRequest) Normalize() PageRequest {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	p.Offset = max(p.Offset, 0)
	return p
}

// PageResponse metadatos de la página devuelta.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error: Code estable para el cliente, Message para diagnóstico.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
