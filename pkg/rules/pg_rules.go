package rules

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

// RowQuerier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgExists requires query to report true for the value. query receives the
// value as $1 and must select a single boolean:
//
//	rules.PgExists(pool, "SELECT EXISTS(SELECT 1 FROM plans WHERE code = $1)")
func PgExists(db RowQuerier, query string) *validation.Rule {
	return pgRule(db, query, "validation.exists", "does not exist", true)
}

// PgNotExists requires query to report false for the value, e.g. a uniqueness check.
func PgNotExists(db RowQuerier, query string) *validation.Rule {
	return pgRule(db, query, "validation.unique", "is already taken", false)
}

func pgRule(db RowQuerier, query, name, message string, want bool) *validation.Rule {
	return Lookup(name, func(ctx context.Context, value any) (bool, error) {
		v := indirect(value)
		if !v.IsValid() {
			return false, nil
		}
		var exists bool
		if err := db.QueryRow(ctx, query, v.Interface()).Scan(&exists); err != nil {
			return false, fmt.Errorf("postgres lookup: %w", err)
		}
		return exists == want, nil
	}, validation.WithMessage(message))
}
