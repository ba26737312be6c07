//go:build unix

package rasterio

import "syscall"

// mmapRasterFile maps a raster file read-only so strip reads avoid a
// read(2) syscall per strip. The fd can be closed once mapping succeeds.
func mmapRasterFile(fd uintptr, size int) ([]byte, error) {
	return syscall.Mmap(int(fd), 0, size, syscall.PROT_READ, syscall.MAP_PRIVATE)
}

// munmapRasterFile releases a mapping created by mmapRasterFile.
func munmapRasterFile(data []byte) error {
	return syscall.Munmap(data)
}
