package sqlite

import (
	"context"
	"fmt"

	"github.com/example/blotter/internal/db"
)

// deleteOwned walks db.Ownership from table/id and removes or detaches every
// dependent row. It does not delete the owner row itself. It returns the tables it
// changed. Callers run it inside a transaction so a failure anywhere rolls back the
// whole delete.
func deleteOwned(ctx context.Context, q querier, table string, id int64) ([]string, error) {
	var changed []string
	for _, rel := range db.DependentsOf(table) {
		switch rel.OnDelete {
		case db.SetNull:
			res, err := q.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s = ?", rel.Dependent, rel.Column, rel.Column), id)
			if err != nil {
				return nil, fmt.Errorf("failed to detach %s: %w", rel.Dependent, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				changed = append(changed, rel.Dependent)
			}

		case db.Cascade:
			if len(db.DependentsOf(rel.Dependent)) > 0 {
				ids, err := childIDs(ctx, q, rel, id)
				if err != nil {
					return nil, err
				}
				for _, childID := range ids {
					sub, err := deleteOwned(ctx, q, rel.Dependent, childID)
					if err != nil {
						return nil, err
					}
					changed = append(changed, sub...)
				}
			}
			res, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", rel.Dependent, rel.Column), id)
			if err != nil {
				return nil, fmt.Errorf("failed to delete %s: %w", rel.Dependent, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				changed = append(changed, rel.Dependent)
			}
		}
	}
	return changed, nil
}

func childIDs(ctx context.Context, q querier, rel db.Relation, ownerID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("SELECT id FROM %s WHERE %s = ?", rel.Dependent, rel.Column), ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", rel.Dependent, err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// deleteWithDependents removes an owner row and everything it owns.
func (b base) deleteWithDependents(ctx context.Context, entity, table string, id int64) error {
	return b.inTx(ctx, func(ctx context.Context) error {
		q := b.conn(ctx)
		changed, err := deleteOwned(ctx, q, table, id)
		if err != nil {
			return err
		}
		res, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
		if err != nil {
			return mapErr(entity, "delete", err)
		}
		if err := requireAffected(entity, id, res); err != nil {
			return err
		}
		b.touched(ctx, append(changed, table)...)
		return nil
	})
}

// deleteRow removes a leaf row by id.
func (b base) deleteRow(ctx context.Context, entity, table string, id int64) error {
	res, err := b.conn(ctx).ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return mapErr(entity, "delete", err)
	}
	if err := requireAffected(entity, id, res); err != nil {
		return err
	}
	b.touched(ctx, table)
	return nil
}
