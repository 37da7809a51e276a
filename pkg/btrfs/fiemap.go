package btrfs

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// fiemap ioctl ABI from linux/fiemap.h and linux/fs.h; x/sys/unix does
// not carry these.
const (
	fsIocFiemap = 0xc020660b

	fiemapFlagSync = 0x1

	fiemapExtentEncoded    = 0x8
	fiemapExtentDataInline = 0x40
)

// fiemap request header, see Documentation/filesystems/fiemap.rst.
type fiemap struct {
	start         uint64
	length        uint64
	flags         uint32
	mappedExtents uint32
	extentCount   uint32
	_             uint32
}

type fiemapExtent struct {
	logical  uint64
	physical uint64
	length   uint64
	_        [2]uint64
	flags    uint32
	_        [3]uint32
}

// fiemapResumeOffset maps the first extent of the file and converts its
// physical byte offset into kernel pages. Only valid on single-device
// filesystems; multi-device layouts need map-swapfile.
func fiemapResumeOffset(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var arg struct {
		fm      fiemap
		extents [1]fiemapExtent
	}
	arg.fm.length = ^uint64(0)
	arg.fm.flags = fiemapFlagSync
	arg.fm.extentCount = uint32(len(arg.extents))

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), fsIocFiemap, uintptr(unsafe.Pointer(&arg)))
	if errno != 0 {
		return 0, fmt.Errorf("fiemap %s: %w", path, errno)
	}

	if arg.fm.mappedExtents == 0 {
		return 0, fmt.Errorf("fiemap %s: no extents mapped", path)
	}

	ext := arg.extents[0]
	if ext.flags&(fiemapExtentEncoded|fiemapExtentDataInline) != 0 {
		return 0, fmt.Errorf("fiemap %s: first extent is encoded, not usable for resume", path)
	}

	pageSize := uint64(unix.Getpagesize())
	if ext.physical%pageSize != 0 {
		return 0, fmt.Errorf("fiemap %s: extent offset %d is not page aligned", path, ext.physical)
	}

	return ext.physical / pageSize, nil
}
