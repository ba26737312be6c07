//go:build !amd64
// +build !amd64

package ndimage

func hasAVX2() bool { return false }
