package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/nao1215/picgc/internal/config"
	"github.com/nao1215/picgc/internal/model"
)

// ErrRecordsConsumed is yielded when a Records sequence is ranged a second time.
var ErrRecordsConsumed = errors.New("file records already consumed")

// FileTable reads file references from one table with columns `id` and `file`.
type FileTable struct {
	db    *sql.DB
	table string
}

// NewFileTable returns a FileTable for table. The table name is validated
// because it is interpolated into the queries.
func NewFileTable(db *sql.DB, table string) (*FileTable, error) {
	if !config.ValidTableName(table) {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidTableName, table)
	}
	return &FileTable{db: db, table: table}, nil
}

// Table returns the table name.
func (t *FileTable) Table() string {
	return t.table
}

// CountQuery returns the SQL used by Count.
func (t *FileTable) CountQuery() string {
	return "SELECT COUNT(*) FROM `" + t.table + "`"
}

// RecordsQuery returns the SQL used by Records.
func (t *FileTable) RecordsQuery() string {
	return "SELECT `id`, `file` FROM `" + t.table + "`"
}

// Count returns the number of rows in the table. A NULL result counts as 0.
func (t *FileTable) Count(ctx context.Context) (int64, error) {
	var count sql.NullInt64
	if err := t.db.QueryRowContext(ctx, t.CountQuery()).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count file records: %w", err)
	}
	if !count.Valid {
		return 0, nil
	}
	return count.Int64, nil
}

// Records streams every row of the table in database order.
//
// The query runs when iteration starts and rows are read one at a time. The
// sequence is single-pass: ranging over it again yields ErrRecordsConsumed.
// A query or row error is yielded once and ends the sequence. A NULL file
// column is returned as an empty StoredPath.
func (t *FileTable) Records(ctx context.Context) iter.Seq2[model.FileRecord, error] {
	consumed := false

	return func(yield func(model.FileRecord, error) bool) {
		if consumed {
			yield(model.FileRecord{}, ErrRecordsConsumed)
			return
		}
		consumed = true

		rows, err := t.db.QueryContext(ctx, t.RecordsQuery())
		if err != nil {
			yield(model.FileRecord{}, fmt.Errorf("failed to query file records: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				id   int64
				file sql.NullString
			)
			if err := rows.Scan(&id, &file); err != nil {
				yield(model.FileRecord{}, fmt.Errorf("failed to scan file record: %w", err))
				return
			}
			if !yield(model.FileRecord{ID: id, StoredPath: file.String}, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(model.FileRecord{}, fmt.Errorf("failed to read file records: %w", err))
		}
	}
}
