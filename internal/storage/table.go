package storage

import (
	"context"
	"database/sql"
	"fmt"

	"popetl/internal/ddl"
)

// RecreateTable drops td if it exists and creates it fresh, so every run
// starts from an empty table with exactly td's layout.
func RecreateTable(ctx context.Context, repo Repository, td ddl.TableDef) error {
	drop, err := ddl.BuildDropTableSQL(repo.Dialect(), td.FQN)
	if err != nil {
		return err
	}
	create, err := ddl.BuildCreateTableSQL(repo.Dialect(), td)
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, drop); err != nil {
		return fmt.Errorf("drop %s: %w", td.FQN, err)
	}
	if err := repo.Exec(ctx, create); err != nil {
		return fmt.Errorf("create %s: %w", td.FQN, err)
	}
	return nil
}

// ScanStrings drains rows into string slices; NULL becomes "". It is shared
// by the database/sql backends. rows is closed on return.
func ScanStrings(rows *sql.Rows) ([][]string, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out [][]string
	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			rec[i] = v.String
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MultiRowInsert returns a CopyFn that inserts each batch with one
// parameterized multi-row INSERT executed on tx. Statements are cached per
// batch length since all but the last batch share it.
func MultiRowInsert(d ddl.Dialect, tx *sql.Tx, table string) CopyFn {
	stmts := map[int]string{}
	return func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		if len(rows) == 0 {
			return 0, nil
		}
		q, ok := stmts[len(rows)]
		if !ok {
			var err error
			q, err = ddl.BuildInsertSQL(d, table, columns, len(rows))
			if err != nil {
				return 0, err
			}
			stmts[len(rows)] = q
		}
		args := make([]any, 0, len(rows)*len(columns))
		for i, r := range rows {
			if len(r) != len(columns) {
				return 0, fmt.Errorf("row %d: %d values for %d columns", i, len(r), len(columns))
			}
			args = append(args, r...)
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return int64(len(rows)), nil
		}
		return n, nil
	}
}
