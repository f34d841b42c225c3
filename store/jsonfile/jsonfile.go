/*
Package jsonfile persists ledger snapshots as a single JSON document.

FORMAT:
  See payroll/codec.go. The file is UTF-8, indented with four spaces, and
  written with non-ASCII and HTML characters unescaped so operators can read
  and hand-edit it.

WRITES:
  Save encodes to a temp file in the target directory and renames it over
  the target, so a crash mid-write leaves the previous file intact.
*/
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/warp/payroll-ledger/generic"
	"github.com/warp/payroll-ledger/payroll"
)

// File is a payroll.Persister backed by one JSON file.
type File struct {
	path string
}

func New(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

// Load reads the file. A missing or empty file is not an error: it returns
// (nil, nil) and the store starts at its default state.
func (f *File) Load(_ context.Context) (*payroll.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, f.fail("load", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	snap := payroll.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, f.fail("load", err)
	}
	return snap, nil
}

// Save atomically replaces the file with snap.
func (f *File) Save(_ context.Context, snap *payroll.Snapshot) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(snap); err != nil {
		return f.fail("save", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return f.fail("save", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return f.fail("save", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return f.fail("save", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return f.fail("save", err)
	}
	if err := tmp.Close(); err != nil {
		return f.fail("save", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return f.fail("save", err)
	}
	return nil
}

func (f *File) fail(op string, err error) error {
	return &generic.PersistenceError{Op: op, Path: f.path, Err: err}
}
