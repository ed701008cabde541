package containers

// Scalar is the element constraint for vectors and views.
type Scalar interface {
	~float32 | ~float64 | ~int | ~int32 | ~int64
}

// View is a non-owning, mutable reference to a contiguous element buffer.
//
// Views are copyable by value and safe to capture in functions dispatched
// through ExecuteRange: copying a view never duplicates storage. A view
// is valid only while its source vector is; letting a view outlive its
// vector is a precondition violation the type cannot detect.
type View[T Scalar] struct {
	data []T
}

// Len returns the number of elements the view covers.
func (v View[T]) Len() int { return len(v.data) }

// At returns the element at index i.
func (v View[T]) At(i int) T { return v.data[i] }

// Set stores x at index i. Concurrent Set calls on overlapping indices
// from range computations are a caller-introduced race.
func (v View[T]) Set(i int, x T) { v.data[i] = x }

// Data exposes the underlying storage without transferring ownership.
func (v View[T]) Data() []T { return v.data }

// ConstView is a non-owning, read-only reference to a contiguous element
// buffer, with the same copy and lifetime semantics as View.
type ConstView[T Scalar] struct {
	data []T
}

// Len returns the number of elements the view covers.
func (v ConstView[T]) Len() int { return len(v.data) }

// At returns the element at index i.
func (v ConstView[T]) At(i int) T { return v.data[i] }

// Data exposes the underlying storage for read access.
func (v ConstView[T]) Data() []T { return v.data }
