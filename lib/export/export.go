package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

var (
	ErrFileExists  = errors.New("can't write to already existing file")
	ErrNotWritable = errors.New("can't write to this export path")
)

// Dir is the directory a file at path would be created in, the current
// working directory when path has no directory part.
func Dir(path string) (string, error) {
	dir := filepath.Dir(path)
	if dir == "." && filepath.Base(path) == path {
		return os.Getwd()
	}
	return dir, nil
}

// Export writes data as 4-space indented JSON to a new file at path.
// It never replaces an existing file.
func Export(data any, path string) error {
	dir, err := Dir(path)
	if err != nil {
		return err
	}

	_, err = os.Lstat(path)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrFileExists, path)
	}
	if !os.IsNotExist(err) {
		return err
	}

	err = unix.Access(dir, unix.W_OK)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotWritable, dir)
	}

	var encoded bytes.Buffer
	enc := json.NewEncoder(&encoded)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	err = enc.Encode(data)
	if err != nil {
		return err
	}

	// O_EXCL closes the gap between the existence check and the write
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return fmt.Errorf("%w: %s", ErrFileExists, path)
	}
	if err != nil {
		return err
	}

	_, err = f.Write(encoded.Bytes())
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
