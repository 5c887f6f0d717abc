package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE usados por los repositorios.
const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
)

// pgCode devuelve el SQLSTATE de err, o "" si no viene de PostgreSQL.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isUndefinedTable indica que el esquema aún no existe (EnsureSchema no se ejecutó).
func isUndefinedTable(err error) bool {
	return pgCode(err) == codeUndefinedTable
}

// queryErr envuelve errores de las lecturas de arranque señalando un esquema ausente.
func queryErr(op string, err error) error {
	if isUndefinedTable(err) {
		return fmt.Errorf("%s: esquema no inicializado: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
