package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grinisrit/kotik"
	"github.com/grinisrit/kotik/containers"
	"github.com/grinisrit/kotik/devices"
)

func readAll[T containers.Scalar, D devices.Device](t *testing.T, v *containers.Vector[T, D]) []T {
	t.Helper()
	out := make([]T, v.Size())
	require.NoError(t, v.Read(out))
	return out
}

func TestScanInclusiveHost(t *testing.T) {
	out, err := Scan[float64, devices.Host](0, 4, func(int) float64 { return 1 }, Plus[float64](), true)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, readAll(t, out))
}

func TestScanExclusiveHost(t *testing.T) {
	out, err := Scan[float64, devices.Host](0, 4, func(int) float64 { return 1 }, Plus[float64](), false)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, readAll(t, out))
}

func TestScanEmptyRange(t *testing.T) {
	out, err := Scan[int, devices.Host](3, 3, func(int) int { return 1 }, Plus[int](), true)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Size())
}

func TestScanInvalidRange(t *testing.T) {
	_, err := Scan[int, devices.Host](4, 1, func(int) int { return 1 }, Plus[int](), true)
	assert.ErrorIs(t, err, kotik.ErrSizeMismatch)
}

func TestScanAccelWithoutBackend(t *testing.T) {
	kotik.UnregisterAccelerator()
	_, err := Scan[float32, devices.Accel](0, 4, func(int) float32 { return 1 }, Plus[float32](), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, kotik.ErrBackendUnavailable)
}

func TestScanTailEqualsReduce(t *testing.T) {
	fetch := func(i int) int { return i*i - 3*i + 1 }
	const n = 257

	out, err := Scan[int, devices.Host](0, n, fetch, Plus[int](), true)
	require.NoError(t, err)
	tail, err := out.Element(n - 1)
	require.NoError(t, err)

	total, err := Reduce[int, devices.Host](0, n, fetch, Plus[int]())
	require.NoError(t, err)
	assert.Equal(t, total, tail)
}

func TestScanVectorHostCumSum(t *testing.T) {
	v := containers.MustNewVector[float64, devices.Host](4)
	require.NoError(t, v.Write([]float64{1, 2, 3, 4}))

	out, err := ScanVector(v, Plus[float64](), true)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 6, 10}, readAll(t, out))

	// Source unchanged.
	assert.Equal(t, []float64{1, 2, 3, 4}, readAll(t, v))
}

func TestScanVectorHostExclusive(t *testing.T) {
	v := containers.MustNewVector[float64, devices.Host](4)
	require.NoError(t, v.Write([]float64{1, 2, 3, 4}))

	out, err := ScanVector(v, Plus[float64](), false)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 3, 6}, readAll(t, out))
}

func TestScanVectorProduct(t *testing.T) {
	v := containers.MustNewVector[int, devices.Host](4)
	require.NoError(t, v.Write([]int{2, 3, 4, 5}))

	out, err := ScanVector(v, Multiplies[int](), true)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 6, 24, 120}, readAll(t, out))
}

func TestScanVectorAccelKernel(t *testing.T) {
	withMockAccelerator(t)

	v := containers.MustNewVector[float32, devices.Accel](4)
	defer v.Close()
	require.NoError(t, v.Fill(1))

	inc, err := ScanVector(v, Plus[float32](), true)
	require.NoError(t, err)
	defer inc.Close()
	assert.Equal(t, []float32{1, 2, 3, 4}, readAll(t, inc))

	exc, err := ScanVector(v, Plus[float32](), false)
	require.NoError(t, err)
	defer exc.Close()
	assert.Equal(t, []float32{0, 1, 2, 3}, readAll(t, exc))
}

func TestScanVectorAccelStagedFloat64(t *testing.T) {
	withMockAccelerator(t)

	v := containers.MustNewVector[float64, devices.Accel](4)
	defer v.Close()
	require.NoError(t, v.Write([]float64{1, 2, 3, 4}))

	out, err := ScanVector(v, Plus[float64](), true)
	require.NoError(t, err)
	defer out.Close()
	assert.Equal(t, []float64{1, 3, 6, 10}, readAll(t, out))
}

func TestScanVectorEmpty(t *testing.T) {
	v := containers.MustNewVector[float64, devices.Host](0)
	out, err := ScanVector(v, Plus[float64](), true)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Size())
}
