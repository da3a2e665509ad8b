package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/parts-ledger/internal/domain"
)

// Códigos SQLSTATE relevantes para el ledger.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeLockNotAvailable     = "55P03"
	codeDeadlockDetected     = "40P01"
	codeSerializationFailure = "40001"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isBusy timeout de bloqueo, deadlock o falla de serialización: el llamador puede reintentar.
func isBusy(err error) bool {
	switch pgCode(err) {
	case codeLockNotAvailable, codeDeadlockDetected, codeSerializationFailure:
		return true
	}
	return false
}

// classify traduce errores de PostgreSQL a la taxonomía del dominio conservando el original.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case isBusy(err):
		return fmt.Errorf("%w: %w", domain.ErrBusy, err)
	case pgCode(err) == codeCheckViolation:
		// CHECK de cantidades: invariante roto, no es un error del llamador.
		return fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}
	return err
}

// nullString "" → NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
