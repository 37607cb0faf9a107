package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// CalculateFileFingerprint returns the CRC32 of the whole file. Source logs
// are small enough that hashing everything is cheap.
func CalculateFileFingerprint(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x", h.Sum32()), nil
}

// ContentFingerprint returns the CRC32 of an in-memory document.
func ContentFingerprint(content string) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE([]byte(content)))
}
