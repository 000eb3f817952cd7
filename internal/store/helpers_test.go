package store

import (
	"os"
	"path/filepath"
)

func writeRaw(path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0o640)
}
