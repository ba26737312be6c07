//go:build amd64
// +build amd64

package ndimage

import "golang.org/x/sys/cpu"

// hasAVX2 reports whether the running CPU supports AVX2, used to gate the
// wide unrolled variant of CountForeground on large volumes.
func hasAVX2() bool {
	return cpu.X86.HasAVX2
}
