//go:build !linux && !darwin

package ctltest

// mapSlab allocates a simulated extent on the Go heap on platforms where
// anonymous mappings aren't wired up.
func mapSlab(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func unmapSlab(b []byte) error {
	return nil
}
