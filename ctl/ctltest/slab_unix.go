//go:build linux || darwin

package ctltest

import "golang.org/x/sys/unix"

// mapSlab reserves an anonymous private mapping for a simulated extent, so
// the surface's mapped/resident accounting is backed by real address space.
func mapSlab(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func unmapSlab(b []byte) error {
	return unix.Munmap(b)
}
