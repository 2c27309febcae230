//go:build !(darwin || freebsd || linux || netbsd)

package dl

import "go.trai.ch/zerr"

var errUnsupported = zerr.New("dynamic loading is not supported on this platform")

func dlopen(_ string) (uintptr, error) {
	return 0, errUnsupported
}

func dlclose(_ uintptr) error {
	return nil
}
