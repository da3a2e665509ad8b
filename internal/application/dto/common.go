package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InsufficientStockResponse cuerpo de error 409 con el detalle del faltante.
type InsufficientStockResponse struct {
	ErrorResponse
	PartID     string `json:"part_id"`
	LocationID string `json:"location_id"`
	Requested  int    `json:"requested"`
	Available  int    `json:"available"`
}

// ValidationErrorResponse cuerpo de error 400 con los campos inválidos.
type ValidationErrorResponse struct {
	ErrorResponse
	Fields map[string]string `json:"fields,omitempty"`
}

// ListResponse envoltorio de las consultas que devuelven listas.
type ListResponse struct {
	Total int `json:"total"`
	Items any `json:"items"`
}

// NewList envuelve items con su conteo.
func NewList[T any](items []T) ListResponse {
	return ListResponse{Total: len(items), Items: items}
}
