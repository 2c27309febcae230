//go:build darwin || freebsd || linux || netbsd

package dl

import "github.com/ebitengine/purego"

func dlopen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func dlclose(handle uintptr) error {
	return purego.Dlclose(handle)
}
