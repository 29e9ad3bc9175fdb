package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/picgc/internal/config"
	"github.com/nao1215/picgc/internal/model"
)

// setupFilesDB creates a SQLite database with a files table holding rows.
// A nil entry in rows is inserted as NULL.
func setupFilesDB(t *testing.T, table string, rows []*string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "files.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE `" + table + "` (id INTEGER PRIMARY KEY, file TEXT)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	for i, r := range rows {
		if _, err := db.Exec("INSERT INTO `"+table+"` (id, file) VALUES (?, ?)", i+1, r); err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}
	return path
}

func strPtr(s string) *string {
	return &s
}

func connectSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := Connect(t.Context(), config.DBConfig{Driver: config.DriverSQLite, DBName: path})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDataSource(t *testing.T) {
	t.Parallel()

	t.Run("mysql", func(t *testing.T) {
		t.Parallel()

		driver, dsn, err := DataSource(config.DBConfig{
			Driver:   config.DriverMySQL,
			Host:     "127.0.0.1",
			Port:     "3306",
			User:     "user",
			Password: "pass",
			DBName:   "picdb",
		})
		if err != nil {
			t.Fatalf("DataSource() error = %v", err)
		}
		if driver != "mysql" {
			t.Errorf("driver = %q, want mysql", driver)
		}
		if !strings.HasPrefix(dsn, "user:pass@tcp(127.0.0.1:3306)/picdb") {
			t.Errorf("dsn = %q", dsn)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()

		driver, dsn, err := DataSource(config.DBConfig{Driver: config.DriverSQLite, DBName: "/tmp/files.db"})
		if err != nil {
			t.Fatalf("DataSource() error = %v", err)
		}
		if driver != "sqlite" || !strings.HasPrefix(dsn, "/tmp/files.db?") {
			t.Errorf("got (%q, %q)", driver, dsn)
		}
	})

	t.Run("unsupported driver", func(t *testing.T) {
		t.Parallel()

		_, _, err := DataSource(config.DBConfig{Driver: "postgres"})
		if !errors.Is(err, config.ErrUnsupportedDriver) {
			t.Errorf("error = %v, want ErrUnsupportedDriver", err)
		}
	})
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("missing sqlite file", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.db")
		_, err := Connect(t.Context(), config.DBConfig{Driver: config.DriverSQLite, DBName: missing})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
	})

	t.Run("existing sqlite file", func(t *testing.T) {
		t.Parallel()

		path := setupFilesDB(t, "files", nil)
		db := connectSQLite(t, path)
		if err := db.PingContext(t.Context()); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
		if _, err := db.ExecContext(t.Context(), "INSERT INTO files (id, file) VALUES (1, 'x')"); err == nil {
			t.Error("expected write to fail on read-only connection")
		}
	})
}

func TestNewFileTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{name: "plain", table: "files"},
		{name: "with underscore", table: "pic_files"},
		{name: "empty", table: "", wantErr: true},
		{name: "injection", table: "files; DROP TABLE files", wantErr: true},
		{name: "backtick", table: "fi`les", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewFileTable(nil, tt.table)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFileTable(%q) error = %v, wantErr %v", tt.table, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, config.ErrInvalidTableName) {
				t.Errorf("error = %v, want ErrInvalidTableName", err)
			}
		})
	}
}

func TestFileTable_Count(t *testing.T) {
	t.Parallel()

	t.Run("counts all rows", func(t *testing.T) {
		t.Parallel()

		path := setupFilesDB(t, "files", []*string{strPtr("/pic/a.jpg"), strPtr("/pic/b.jpg"), nil})
		table, err := NewFileTable(connectSQLite(t, path), "files")
		if err != nil {
			t.Fatalf("NewFileTable() error = %v", err)
		}

		got, err := table.Count(t.Context())
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if got != 3 {
			t.Errorf("Count() = %d, want 3", got)
		}
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()

		path := setupFilesDB(t, "files", nil)
		table, err := NewFileTable(connectSQLite(t, path), "files")
		if err != nil {
			t.Fatalf("NewFileTable() error = %v", err)
		}

		got, err := table.Count(t.Context())
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if got != 0 {
			t.Errorf("Count() = %d, want 0", got)
		}
	})

	t.Run("missing table", func(t *testing.T) {
		t.Parallel()

		path := setupFilesDB(t, "files", nil)
		table, err := NewFileTable(connectSQLite(t, path), "other")
		if err != nil {
			t.Fatalf("NewFileTable() error = %v", err)
		}

		if _, err := table.Count(t.Context()); err == nil {
			t.Error("expected error for missing table")
		}
	})
}

func TestFileTable_Records(t *testing.T) {
	t.Parallel()

	t.Run("streams rows in order", func(t *testing.T) {
		t.Parallel()

		path := setupFilesDB(t, "files", []*string{strPtr("/pic/a.jpg"), nil, strPtr("/pic/c.png")})
		table, err := NewFileTable(connectSQLite(t, path), "files")
		if err != nil {
			t.Fatalf("NewFileTable() error = %v", err)
		}

		var got []model.FileRecord
		for rec, err := range table.Records(t.Context()) {
			if err != nil {
				t.Fatalf("Records() error = %v", err)
			}
			got = append(got, rec)
		}

		want := []model.FileRecord{
			{ID: 1, StoredPath: "/pic/a.jpg"},
			{ID: 2, StoredPath: ""},
			{ID: 3, StoredPath: "/pic/c.png"},
		}
		if len(got) != len(want) {
			t.Fatalf("got %d records, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("record[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("single pass", func(t *testing.T) {
		t.Parallel()

		path := setupFilesDB(t, "files", []*string{strPtr("/pic/a.jpg")})
		table, err := NewFileTable(connectSQLite(t, path), "files")
		if err != nil {
			t.Fatalf("NewFileTable() error = %v", err)
		}

		records := table.Records(t.Context())
		for _, err := range records {
			if err != nil {
				t.Fatalf("first pass error = %v", err)
			}
		}

		var secondErr error
		for _, err := range records {
			secondErr = err
		}
		if !errors.Is(secondErr, ErrRecordsConsumed) {
			t.Errorf("second pass error = %v, want ErrRecordsConsumed", secondErr)
		}
	})

	t.Run("early break releases rows", func(t *testing.T) {
		t.Parallel()

		path := setupFilesDB(t, "files", []*string{strPtr("/pic/a.jpg"), strPtr("/pic/b.jpg")})
		db := connectSQLite(t, path)
		table, err := NewFileTable(db, "files")
		if err != nil {
			t.Fatalf("NewFileTable() error = %v", err)
		}

		for range table.Records(t.Context()) {
			break
		}

		// The only pooled connection must be free again.
		if _, err := table.Count(t.Context()); err != nil {
			t.Errorf("Count() after break error = %v", err)
		}
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()

		path := setupFilesDB(t, "files", nil)
		table, err := NewFileTable(connectSQLite(t, path), "missing")
		if err != nil {
			t.Fatalf("NewFileTable() error = %v", err)
		}

		var errs int
		for _, err := range table.Records(t.Context()) {
			if err != nil {
				errs++
			}
		}
		if errs != 1 {
			t.Errorf("got %d errors, want 1", errs)
		}
	})
}

func setupHistoryDB(t *testing.T) *HistoryDB {
	t.Helper()

	h, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates nested directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "picgc")
		h, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer h.Close()

		if h.Path() != filepath.Join(dir, HistoryFileName) {
			t.Errorf("Path() = %q", h.Path())
		}
	})

	t.Run("missing without create", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error when database does not exist")
		}
	})

	t.Run("close twice safe on zero value", func(t *testing.T) {
		t.Parallel()

		h := &HistoryDB{}
		if err := h.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
}

func TestHistoryDB_SaveAndGetRun(t *testing.T) {
	t.Parallel()

	h := setupHistoryDB(t)

	report := model.NewRunReport("/srv/pic", "files", false, true)
	report.StartedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	report.FinishedAt = report.StartedAt.Add(2 * time.Second)
	report.IgnoredIDs = []int64{7, 9}
	report.Stats = model.RunStats{FilesScanned: 10, BytesScanned: 1000, FilesRemoved: 3, BytesRemoved: 300}
	report.Failures = []model.DeleteFailure{{Path: "/srv/pic/x.jpg", Error: "permission denied"}}

	id, err := h.SaveRun(t.Context(), report)
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	if id <= 0 {
		t.Fatalf("SaveRun() id = %d", id)
	}

	got, err := h.GetRun(t.Context(), id)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetRun() returned nil")
	}
	if got.Root != "/srv/pic" || got.Table != "files" || !got.Check {
		t.Errorf("GetRun() = %+v", got)
	}
	if got.Stats != report.Stats {
		t.Errorf("Stats = %+v, want %+v", got.Stats, report.Stats)
	}
	if len(got.IgnoredIDs) != 2 || len(got.Failures) != 1 {
		t.Errorf("IgnoredIDs = %v, Failures = %v", got.IgnoredIDs, got.Failures)
	}
	if !got.StartedAt.Equal(report.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, report.StartedAt)
	}

	missing, err := h.GetRun(t.Context(), id+100)
	if err != nil {
		t.Fatalf("GetRun(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetRun(missing) = %+v, want nil", missing)
	}

	if _, err := h.SaveRun(t.Context(), nil); err == nil {
		t.Error("SaveRun(nil) expected error")
	}
}

func TestHistoryDB_ListRuns(t *testing.T) {
	t.Parallel()

	h := setupHistoryDB(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range 3 {
		r := model.NewRunReport("/srv/pic", "files", i == 1, false)
		r.StartedAt = base.Add(time.Duration(i) * time.Hour)
		r.FinishedAt = r.StartedAt.Add(time.Minute)
		r.Stats.FilesRemoved = i
		r.Stats.BytesRemoved = int64(i * 100)
		if i == 2 {
			r.Error = "boom"
		}
		if _, err := h.SaveRun(t.Context(), r); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
	}

	runs, err := h.ListRuns(t.Context(), 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("ListRuns() returned %d runs, want 3", len(runs))
	}
	if runs[0].FilesRemoved != 2 || !runs[0].Failed {
		t.Errorf("newest run = %+v", runs[0])
	}
	if !runs[1].Simulate {
		t.Errorf("runs[1].Simulate = false, want true")
	}
	if !runs[2].StartedAt.Equal(base) {
		t.Errorf("oldest StartedAt = %v, want %v", runs[2].StartedAt, base)
	}

	limited, err := h.ListRuns(t.Context(), 2)
	if err != nil {
		t.Fatalf("ListRuns(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListRuns(2) returned %d runs", len(limited))
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{name: "RFC3339Nano", input: "2026-01-02T03:04:05.123456789Z"},
		{name: "RFC3339", input: "2026-01-02T03:04:05Z"},
		{name: "sqlite default", input: "2026-01-02 03:04:05"},
		{name: "garbage", input: "yesterday", zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v, zero want %v", tt.input, got, tt.zero)
			}
		})
	}
}
