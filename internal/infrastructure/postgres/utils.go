package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Caja-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeNumericOutOfRange    = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// wrapErr agrega contexto a un error de PostgreSQL y lo traduce a error de dominio cuando aplica:
// conflictos de concurrencia y de unicidad -> ErrConflict (el caller puede reintentar),
// violaciones de FK o CHECK -> ErrInvalidInput, valores que no caben en la columna -> ErrInvalidAmount.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrConflict, err)
	case codeForeignKeyViolation, codeCheckViolation:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrInvalidInput, err)
	case codeNumericOutOfRange:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrInvalidAmount, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func corrupt(entity, id, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s: %s", domain.ErrCorruptRecord, entity, id, fmt.Sprintf(format, args...))
}

// rowTo adapta el par (fila cruda, función de mapeo) a pgx.RowToFunc para usar con pgx.CollectRows.
func rowTo[R any, PR interface {
	*R
	dest() []any
}, T any](mapFn func(R) (T, error)) pgx.RowToFunc[T] {
	return func(row pgx.CollectableRow) (T, error) {
		var r R
		if err := row.Scan(PR(&r).dest()...); err != nil {
			var zero T
			return zero, err
		}
		return mapFn(r)
	}
}
