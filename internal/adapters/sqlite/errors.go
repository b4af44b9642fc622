package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/example/blotter/internal/errs"
)

// mapErr turns driver constraint failures into typed errors. op names the failed
// operation for everything else.
func mapErr(entity, op string, err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &errs.Error{Kind: errs.KindConflict, Entity: entity, Message: fmt.Sprintf("%s already exists", entity), Err: err}
		case sqlite3.ErrConstraintForeignKey:
			return &errs.Error{Kind: errs.KindValidation, Entity: entity, Message: fmt.Sprintf("%s references a record that does not exist", entity), Err: err}
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return &errs.Error{Kind: errs.KindValidation, Entity: entity, Message: fmt.Sprintf("%s has an invalid field", entity), Err: err}
		}
	}
	return fmt.Errorf("failed to %s %s: %w", op, entity, err)
}

// rowErr maps sql.ErrNoRows to NotFound.
func rowErr(entity string, id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound(entity, id)
	}
	return mapErr(entity, "get", err)
}

// requireAffected reports NotFound when a keyed write matched no row.
func requireAffected(entity string, id int64, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return errs.NotFound(entity, id)
	}
	return nil
}
