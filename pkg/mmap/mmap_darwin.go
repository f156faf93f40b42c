//go:build darwin

package mmap

import (
	"syscall"
	"unsafe"
)

// madvSequential is MADV_SEQUENTIAL from <sys/mman.h>; package syscall
// does not export it on darwin.
const madvSequential = 2

// mapRange maps length bytes of fd read-only from a page aligned offset.
func mapRange(fd int, offset int64, length int) ([]byte, error) {
	return syscall.Mmap(fd, offset, length, syscall.PROT_READ, syscall.MAP_SHARED)
}

func unmap(b []byte) error {
	return syscall.Munmap(b)
}

// adviseSequential tells the kernel b is read front to back.
func adviseSequential(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	_, _, errno := syscall.Syscall(syscall.SYS_MADVISE,
		uintptr(unsafe.Pointer(&b[0])), uintptr(len(b)), madvSequential)
	if errno != 0 {
		return errno
	}
	return nil
}
