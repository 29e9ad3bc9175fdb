package fsscan

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
)

func writeFile(t *testing.T, fs afero.Fs, path string, size int) {
	t.Helper()

	if err := afero.WriteFile(fs, path, make([]byte, size), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestScanner_Scan(t *testing.T) {
	t.Parallel()

	t.Run("memory fs", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		root := "/srv/pic"
		if err := fs.MkdirAll(filepath.Join(root, "sub"), 0o750); err != nil {
			t.Fatal(err)
		}
		writeFile(t, fs, filepath.Join(root, "b.jpg"), 20)
		writeFile(t, fs, filepath.Join(root, "a.jpg"), 10)
		writeFile(t, fs, filepath.Join(root, "sub", "c.jpg"), 30)

		entries, err := New(fs).Scan(root)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("Scan() returned %d entries, want 2: %+v", len(entries), entries)
		}
		if entries[0].Path != filepath.Join(root, "a.jpg") || entries[0].Size != 10 {
			t.Errorf("entries[0] = %+v", entries[0])
		}
		if entries[1].Path != filepath.Join(root, "b.jpg") || entries[1].Size != 20 {
			t.Errorf("entries[1] = %+v", entries[1])
		}
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()

		if _, err := New(afero.NewMemMapFs()).Scan("/nope"); err == nil {
			t.Error("expected error for missing root")
		}
	})

	t.Run("empty root", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		if err := fs.MkdirAll("/empty", 0o750); err != nil {
			t.Fatal(err)
		}
		entries, err := New(fs).Scan("/empty")
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Scan() = %+v, want empty", entries)
		}
	})

	t.Run("os fs skips symlinks", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" {
			t.Skip("symlinks need privileges on windows")
		}

		root := t.TempDir()
		target := filepath.Join(root, "real.jpg")
		if err := os.WriteFile(target, []byte("data"), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(target, filepath.Join(root, "link.jpg")); err != nil {
			t.Fatal(err)
		}
		if err := os.Mkdir(filepath.Join(root, "dir"), 0o750); err != nil {
			t.Fatal(err)
		}

		entries, err := New(nil).Scan(root)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if len(entries) != 1 || entries[0].Path != target || entries[0].Size != 4 {
			t.Errorf("Scan() = %+v, want only %s", entries, target)
		}
	})
}

func TestScanner_FileExists(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/srv/pic/dir", 0o750); err != nil {
		t.Fatal(err)
	}
	writeFile(t, fs, "/srv/pic/a.jpg", 1)

	s := New(fs)
	tests := []struct {
		path string
		want bool
	}{
		{path: "/srv/pic/a.jpg", want: true},
		{path: "/srv/pic/missing.jpg", want: false},
		{path: "/srv/pic/dir", want: false},
		{path: "/srv/pic", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := s.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
