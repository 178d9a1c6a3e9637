//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// CopyFile copies size bytes from srcPath into dstFd using the most
// efficient method available, falling through on unsupported/cross-device
// errors: copy_file_range, then sendfile, then pread/pwrite.
func CopyFile(srcPath string, dstFd *os.File, size int64) (CopyResult, error) {
	preallocate(dstFd, size)

	result, err := copyFileRange(srcPath, dstFd, size)
	if err == nil {
		return result, nil
	}
	if !isFallbackErr(err) {
		return result, err
	}

	result, err = copySendfile(srcPath, dstFd, size)
	if err == nil {
		return result, nil
	}
	if !isFallbackErr(err) {
		return result, err
	}

	return copyReadWrite(srcPath, dstFd, size)
}

func copyFileRange(srcPath string, dstFd *os.File, size int64) (CopyResult, error) {
	srcFd, err := os.Open(srcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer srcFd.Close()

	var roff, woff int64
	remaining := size

	var totalWritten int64
	for remaining > 0 {
		n, err := unix.CopyFileRange(int(srcFd.Fd()), &roff, int(dstFd.Fd()), &woff, int(remaining), 0)
		if err != nil {
			return CopyResult{BytesWritten: totalWritten, Method: CopyFileRange}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		totalWritten += int64(n)
	}

	return CopyResult{BytesWritten: totalWritten, Method: CopyFileRange}, nil
}

func copySendfile(srcPath string, dstFd *os.File, size int64) (CopyResult, error) {
	srcFd, err := os.Open(srcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer srcFd.Close()

	var offset int64
	remaining := size

	var totalWritten int64
	for remaining > 0 {
		n, err := unix.Sendfile(int(dstFd.Fd()), int(srcFd.Fd()), &offset, int(remaining))
		if err != nil {
			return CopyResult{BytesWritten: totalWritten, Method: Sendfile}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		totalWritten += int64(n)
	}

	return CopyResult{BytesWritten: totalWritten, Method: Sendfile}, nil
}

// copyReadWrite copies with pread/pwrite and a pooled buffer.
func copyReadWrite(srcPath string, dstFd *os.File, size int64) (CopyResult, error) {
	srcFd, err := os.Open(srcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer srcFd.Close()

	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	buf := *bufp

	var offset int64
	remaining := size

	var totalWritten int64
	srcRawFd := int(srcFd.Fd())
	dstRawFd := int(dstFd.Fd())

	for remaining > 0 {
		toRead := int(remaining)
		if toRead > bufferSize {
			toRead = bufferSize
		}

		n, err := unix.Pread(srcRawFd, buf[:toRead], offset)
		if err != nil {
			return CopyResult{BytesWritten: totalWritten, Method: ReadWrite}, err
		}
		if n == 0 {
			break
		}

		written := 0
		for written < n {
			w, err := unix.Pwrite(dstRawFd, buf[written:n], offset+int64(written))
			if err != nil {
				return CopyResult{BytesWritten: totalWritten + int64(written), Method: ReadWrite}, err
			}
			written += w
		}

		offset += int64(n)
		remaining -= int64(n)
		totalWritten += int64(n)
	}

	return CopyResult{BytesWritten: totalWritten, Method: ReadWrite}, nil
}

// preallocate attempts to pre-allocate disk space. Errors are ignored as
// fallocate is not supported on all filesystems.
func preallocate(fd *os.File, size int64) {
	if size > 0 {
		_ = unix.Fallocate(int(fd.Fd()), 0, 0, size)
	}
}

// isFallbackErr reports whether err should trigger the next copy strategy.
func isFallbackErr(err error) bool {
	switch err {
	case unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP:
		return true
	}
	if e, ok := err.(*os.PathError); ok {
		return isFallbackErr(e.Err)
	}
	return false
}
