//go:build !unix

package engine

import "os"

func writable(path string) bool {
	f, err := os.CreateTemp(path, ".ferry-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
