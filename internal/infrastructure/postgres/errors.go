package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gestorly/catalog-api/internal/domain/repository"
)

// Postgres error codes that map to distinguishable store errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// constraintMessages translates named table constraints into field-level
// messages. Constraint names come from db/migrations.
var constraintMessages = map[string]struct{ field, msg string }{
	"users_email_key":             {"email", "email is already registered"},
	"users_username_key":          {"username", "username is already registered"},
	"users_phone_key":             {"phone", "phone is already registered"},
	"users_username_len":          {"username", "username must be between 1 and 100 characters"},
	"users_last_name_len":         {"last_name", "last name must be at most 100 characters"},
	"options_name_len":            {"name", "option name must be between 1 and 50 characters"},
	"options_product_id_fkey":     {"product_id", "product does not exist"},
	"options_name_product_id_key": {"name", "option already exists for this product"},
	"products_name_key":           {"name", "product name is already in use"},
	"products_name_len":           {"name", "product name must be between 3 and 100 characters"},
	"products_stock_nonneg":       {"stock", "stock must be zero or greater"},
	"products_supplier_name_len":  {"supplier_name", "supplier name must be between 3 and 100 characters"},
}

// mapError converts pgx/pgconn failures into the repository error types
// services are allowed to see. Unrecognized errors pass through untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation, codeForeignKeyViolation, codeCheckViolation:
		if m, ok := constraintMessages[pgErr.ConstraintName]; ok {
			return &repository.ConstraintError{Violations: map[string]string{m.field: m.msg}}
		}
		return &repository.ConstraintError{Violations: map[string]string{pgErr.ConstraintName: pgErr.Message}}
	}
	return err
}
