// Package unsafecast exposes a function to bypass the Go type system and
// reinterpret a slice's backing array as a different element type.
//
// With great power comes great responsibility.
package unsafecast

import "unsafe"

// slice represents the memory layout of a Go slice. It is similar to
// reflect.SliceHeader but uses an unsafe.Pointer instead of uintptr for the
// backing array, so the garbage collector can still track the reference.
type slice struct {
	ptr unsafe.Pointer
	len int
	cap int
}

// Slice converts the data slice of type []From to a slice of type []To
// sharing the same backing array. The length and capacity of the returned
// slice are scaled according to the size difference between the source and
// destination element types.
//
// SliceBuffer uses this to hand a []byte pool bucket back out as a []T
// scratch buffer without copying: the pool only ever stores byte slices, so
// every typed get/put round-trips through this conversion.
//
// The function performs no checks that the memory layouts of the two types
// are compatible; mismatched layouts can corrupt memory.
func Slice[To, From any](data []From) []To {
	var zf From
	var zt To
	s := slice{
		ptr: *(*unsafe.Pointer)(unsafe.Pointer(&data)),
		len: int((uintptr(len(data)) * unsafe.Sizeof(zf)) / unsafe.Sizeof(zt)),
		cap: int((uintptr(cap(data)) * unsafe.Sizeof(zf)) / unsafe.Sizeof(zt)),
	}
	return *(*[]To)(unsafe.Pointer(&s))
}
