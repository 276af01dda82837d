// Package pool recycles the sample buffers behind the padded window each
// slice filters from. A window covers the slice bounds plus a margin on
// every side, so its size follows the slice shape rather than the picture;
// buffers are kept per size class so a one-LCU-row window and a whole
// 1080p luma window do not share storage.
package pool

import "sync"

// Size classes in samples. Size4K fits a 32x32 LCU with its 8-sample margin
// (48*48), Size4M a 1080p luma plane with its margin.
const (
	Size4K   = 4096
	Size16K  = 16384
	Size64K  = 65536
	Size256K = 262144
	Size1M   = 1048576
	Size4M   = 4194304
)

// bucketIndex returns the smallest size class holding size samples.
func bucketIndex(size int) int {
	switch {
	case size <= Size4K:
		return 0
	case size <= Size16K:
		return 1
	case size <= Size64K:
		return 2
	case size <= Size256K:
		return 3
	case size <= Size1M:
		return 4
	default:
		return 5
	}
}

var sizes = [6]int{Size4K, Size16K, Size64K, Size256K, Size1M, Size4M}

var pools [6]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]uint16, sz)
				return &b
			},
		}
	}
}

// Get returns a window buffer of size samples. Its contents are stale until
// Plane.Window copies the slice area into it. Hand it back with Put once
// the slice is filtered.
func Get(size int) []uint16 {
	idx := bucketIndex(size)
	bp := pools[idx].Get().(*[]uint16)
	b := *bp
	if cap(b) < size {
		b = make([]uint16, size)
		*bp = b
		return b
	}
	return b[:size]
}

// Put recycles a window buffer from Get. Buffers below the smallest class are
// dropped.
func Put(b []uint16) {
	c := cap(b)
	if c < Size4K {
		return
	}
	idx := bucketIndex(c)
	b = b[:c]
	pools[idx].Put(&b)
}
