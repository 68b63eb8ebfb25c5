package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Caja-api/internal/domain"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// DateRangeRequest filtro de fechas inclusivo (YYYY-MM-DD); "to" cubre el día completo.
type DateRangeRequest struct {
	From string `query:"from" validate:"required"`
	To   string `query:"to" validate:"required"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DayRange convierte un rango de fechas inclusivo en el intervalo [desde, hasta) que usan los repositorios:
// from se lleva al inicio de su día y to al inicio del día siguiente (UTC).
func DayRange(from, to time.Time) (time.Time, time.Time) {
	start := truncateDay(from)
	end := truncateDay(to).AddDate(0, 0, 1)
	return start, end
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate acepta YYYY-MM-DD o RFC3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q (use YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// Parse valida y convierte el rango; from no puede ser posterior a to.
func (r DateRangeRequest) Parse() (time.Time, time.Time, error) {
	from, err := ParseDate(r.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseDate(r.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from posterior a to", domain.ErrInvalidInput)
	}
	return from, to, nil
}
