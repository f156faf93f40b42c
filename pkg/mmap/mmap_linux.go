//go:build linux

package mmap

import (
	"syscall"
)

// mapRange maps length bytes of fd read-only from a page aligned offset.
func mapRange(fd int, offset int64, length int) ([]byte, error) {
	return syscall.Mmap(fd, offset, length, syscall.PROT_READ, syscall.MAP_SHARED)
}

func unmap(b []byte) error {
	return syscall.Munmap(b)
}

// adviseSequential tells the kernel b is read front to back.
func adviseSequential(b []byte) error {
	return syscall.Madvise(b, syscall.MADV_SEQUENTIAL)
}
