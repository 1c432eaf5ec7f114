package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/warp-ml/warp/tensor"
)

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 1, tensor.Shape{}.NumElements())
	assert.Equal(t, 24, tensor.Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 0, tensor.Shape{2, 0, 4}.NumElements())
}

func TestShape_Validate(t *testing.T) {
	assert.NoError(t, tensor.Shape{2, 3}.Validate())
	assert.NoError(t, tensor.Shape{0, 3}.Validate(), "zero-sized dimensions are legal")
	assert.Error(t, tensor.Shape{2, -1}.Validate())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{24, 8, 4, 1}, tensor.Shape{2, 3, 2, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, tensor.Shape{5}.ComputeStrides())
	assert.Empty(t, tensor.Shape{}.ComputeStrides())
}

func TestShape_EqualAndClone(t *testing.T) {
	s := tensor.Shape{1, 2, 3}
	c := s.Clone()
	assert.True(t, s.Equal(c))
	c[0] = 9
	assert.False(t, s.Equal(c))
	assert.False(t, s.Equal(tensor.Shape{1, 2}))
}

func TestNewRaw_ZeroInitialized(t *testing.T) {
	r, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
	require.NoError(t, err)
	assert.Equal(t, 6, r.NumElements())
	assert.Equal(t, 24, r.ByteSize())
	for _, v := range r.AsFloat32() {
		assert.Zero(t, v)
	}
}

func TestNewRaw_InvalidShape(t *testing.T) {
	_, err := tensor.NewRaw(tensor.Shape{2, -3}, tensor.Float32)
	assert.Error(t, err)
}

func TestFromSlice_RoundTrip(t *testing.T) {
	want := []float64{1.5, -2, 3, 0.25}
	r, err := tensor.FromSlice(want, tensor.Shape{2, 2})
	require.NoError(t, err)
	assert.Equal(t, tensor.Float64, r.DType())
	assert.Equal(t, want, r.AsFloat64())
}

func TestFromSlice_LengthMismatch(t *testing.T) {
	_, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 2})
	assert.Error(t, err)
}

func TestRawTensor_CloneIsDeep(t *testing.T) {
	r, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4})
	require.NoError(t, err)

	c := r.Clone()
	c.AsFloat32()[0] = 99
	assert.Equal(t, float32(1), r.AsFloat32()[0])
	assert.Equal(t, float32(99), c.AsFloat32()[0])
}

func TestRawTensor_Zero(t *testing.T) {
	r, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)
	r.Zero()
	for _, v := range r.AsFloat32() {
		assert.Zero(t, v)
	}
}

func TestRawTensor_DTypeMismatchPanics(t *testing.T) {
	r, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float32)
	require.NoError(t, err)
	assert.Panics(t, func() { r.AsFloat64() })
	assert.Panics(t, func() { r.AsFloat16() })
}

func TestRawTensor_Float16(t *testing.T) {
	r, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float16)
	require.NoError(t, err)
	assert.Equal(t, 6, r.ByteSize())

	half := r.AsFloat16()
	half[1] = float16.Fromfloat32(2.5)
	assert.Equal(t, float32(2.5), r.AsFloat16()[1].Float32())
}

func TestRawTensor_ZeroElements(t *testing.T) {
	r, err := tensor.NewRaw(tensor.Shape{0, 5, 2}, tensor.Float32)
	require.NoError(t, err)
	assert.Equal(t, 0, r.NumElements())
	assert.Empty(t, r.AsFloat32())
}

func TestDataType_Size(t *testing.T) {
	assert.Equal(t, 2, tensor.Float16.Size())
	assert.Equal(t, 4, tensor.Float32.Size())
	assert.Equal(t, 8, tensor.Float64.Size())
	assert.Equal(t, "float16", tensor.Float16.String())
}
