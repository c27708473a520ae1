package util

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// FileSHA256Hex computes SHA256 for a given file.
// The result is returned in a hex form.
func FileSHA256Hex(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
