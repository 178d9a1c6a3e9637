package engine

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// HashFile computes the BLAKE3 hash of the file at path, returning the
// hex-encoded digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// verifyCopy compares source and destination digests after a copy.
func verifyCopy(srcPath, dstPath string) error {
	srcSum, err := HashFile(srcPath)
	if err != nil {
		return err
	}
	dstSum, err := HashFile(dstPath)
	if err != nil {
		return err
	}
	if srcSum != dstSum {
		return fmt.Errorf("checksum mismatch: %s", dstPath)
	}
	return nil
}
