package inventory

import (
	"fmt"
	"io"
	"os"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/cespare/xxhash/v2"
)

func hashable(fileType string, size int64) bool {
	return fileType != "system" && fileType != "log" && size > config.HashMinimumSize
}

// HashFile returns the hex xxhash64 digest of the file contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	d := xxhash.New()
	if _, err := io.Copy(d, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return fmt.Sprintf("%016x", d.Sum64()), nil
}
