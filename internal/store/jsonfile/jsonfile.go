package jsonfile

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/errs"

	"github.com/devsquad/momo-sms-etl/internal/types"
)

var jsonfileErr = errs.Class("jsonfile")

// Encode writes records as an indented JSON array. Non-ASCII text and HTML
// characters in message bodies are written as they are.
func Encode(w io.Writer, records []types.TransactionRecord) error {
	if records == nil {
		records = []types.TransactionRecord{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return jsonfileErr.Wrap(enc.Encode(records))
}

// Write replaces the file at path with records. The previous content, if any,
// survives a failed write.
func Write(path string, records []types.TransactionRecord) (err error) {
	defer func() {
		err = jsonfileErr.Wrap(err)
	}()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errs.Wrap(err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := Encode(tmp, records); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return errs.Wrap(err)
	}

	return errs.Wrap(os.Rename(tmp.Name(), path))
}

// Read loads a collection previously written with Write.
func Read(path string) (_ []types.TransactionRecord, err error) {
	defer func() {
		err = jsonfileErr.Wrap(err)
	}()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	var records []types.TransactionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errs.Wrap(err)
	}

	return records, nil
}
