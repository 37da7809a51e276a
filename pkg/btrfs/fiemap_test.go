package btrfs

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// The request layout must match linux/fiemap.h exactly or the ioctl
// corrupts memory.
func TestFiemapABILayout(t *testing.T) {
	require.Equal(t, uintptr(32), unsafe.Sizeof(fiemap{}))
	require.Equal(t, uintptr(56), unsafe.Sizeof(fiemapExtent{}))

	// _IOWR('f', 11, struct fiemap)
	require.Equal(t, uintptr(0xc020660b), uintptr(fsIocFiemap))
}

func TestFiemapResumeOffsetMissingFile(t *testing.T) {
	_, err := fiemapResumeOffset("/does/not/exist")
	require.Error(t, err)
}
