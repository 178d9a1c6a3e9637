//go:build !linux

package platform

import (
	"io"
	"os"
)

// CopyFile copies size bytes from srcPath into dstFd with buffered I/O.
func CopyFile(srcPath string, dstFd *os.File, size int64) (CopyResult, error) {
	srcFd, err := os.Open(srcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer srcFd.Close()

	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)

	n, err := io.CopyBuffer(dstFd, srcFd, *bufp)
	return CopyResult{BytesWritten: n, Method: Stream}, err
}
