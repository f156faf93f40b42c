package chunk

import (
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/ajitpratap0/tabula/pkg/config"
	"github.com/ajitpratap0/tabula/pkg/errors"
)

// wholeFileShare is the fraction of available memory a source may take
// before auto mode switches to chunked loading.
const wholeFileShare = 4

// AvailableMemory returns the bytes of memory available to new allocations.
func AvailableMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeInternal, "failed to read memory stats")
	}
	return vm.Available, nil
}

// ResolveLoadMode turns LoadAuto into a concrete mode for a file of
// fileSize bytes given available memory. Other modes are returned as is.
func ResolveLoadMode(mode config.LoadMode, fileSize int64, available uint64) config.LoadMode {
	if mode != config.LoadAuto {
		return mode
	}
	if fileSize >= 0 && uint64(fileSize) < available/wholeFileShare {
		return config.LoadWholeFile
	}
	return config.LoadChunked
}
