package resampler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp-ml/warp/resampler"
	"github.com/warp-ml/warp/tensor"
)

func TestNew_UnknownKernel(t *testing.T) {
	r, err := resampler.New("nearest")
	assert.Nil(t, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nearest")
}

func TestNew_CaseInsensitiveKernel(t *testing.T) {
	r, err := resampler.New("MitchellCubic")
	require.NoError(t, err)
	assert.Equal(t, "mitchellcubic", r.Kernel().String())
}

func newBilinear(t *testing.T) *resampler.Resampler {
	t.Helper()
	r, err := resampler.New("triangle", resampler.WithWorkers(1))
	require.NoError(t, err)
	return r
}

func TestResample_EndToEnd(t *testing.T) {
	r := newBilinear(t)

	data, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	require.NoError(t, err)
	warp, err := tensor.FromSlice([]float32{0.5, 0.5}, tensor.Shape{1, 1, 2})
	require.NoError(t, err)

	out, err := r.Resample(data, warp)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{1, 1, 1}), "got shape %v", out.Shape())
	assert.Equal(t, float32(2.5), out.AsFloat32()[0])
}

func TestResample_HigherRankWarp(t *testing.T) {
	r := newBilinear(t)

	data, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	require.NoError(t, err)
	// Warp laid out as a 1x2x2 grid of points; output keeps the grid shape.
	warp, err := tensor.FromSlice([]float32{
		0, 0, 1, 0,
		0, 1, 1, 1,
	}, tensor.Shape{1, 2, 2, 2})
	require.NoError(t, err)

	out, err := r.Resample(data, warp)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{1, 2, 2, 1}), "got shape %v", out.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4}, out.AsFloat32())
}

func TestResample_ShapeValidation(t *testing.T) {
	r := newBilinear(t)

	img2x2, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	require.NoError(t, err)
	goodWarp, err := tensor.FromSlice([]float32{0.5, 0.5}, tensor.Shape{1, 1, 2})
	require.NoError(t, err)

	tests := []struct {
		name string
		data tensor.Shape
		warp tensor.Shape
	}{
		{"data rank 3", tensor.Shape{2, 2, 1}, tensor.Shape{1, 1, 2}},
		{"data rank 5", tensor.Shape{1, 2, 2, 1, 1}, tensor.Shape{1, 1, 2}},
		{"warp rank 1", tensor.Shape{1, 2, 2, 1}, tensor.Shape{2}},
		{"warp last dim 3", tensor.Shape{1, 2, 2, 1}, tensor.Shape{1, 1, 3}},
		{"batch mismatch", tensor.Shape{2, 2, 2, 1}, tensor.Shape{1, 1, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := tensor.NewRaw(tc.data, tensor.Float32)
			require.NoError(t, err)
			warp, err := tensor.NewRaw(tc.warp, tensor.Float32)
			require.NoError(t, err)

			out, err := r.Resample(data, warp)
			assert.Nil(t, out)
			assert.Error(t, err)
		})
	}

	// DType mismatch.
	warp64, err := tensor.NewRaw(tensor.Shape{1, 1, 2}, tensor.Float64)
	require.NoError(t, err)
	_, err = r.Resample(img2x2, warp64)
	assert.Error(t, err)

	// Control: the good pair passes.
	_, err = r.Resample(img2x2, goodWarp)
	assert.NoError(t, err)
}

func TestResample_ZeroElementShortCircuit(t *testing.T) {
	r := newBilinear(t)

	data, err := tensor.NewRaw(tensor.Shape{0, 2, 2, 1}, tensor.Float32)
	require.NoError(t, err)
	warp, err := tensor.NewRaw(tensor.Shape{0, 5, 2}, tensor.Float32)
	require.NoError(t, err)

	out, err := r.Resample(data, warp)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{0, 5, 1}), "got shape %v", out.Shape())
	assert.Equal(t, 0, out.NumElements())

	gradOut, err := tensor.NewRaw(tensor.Shape{0, 5, 1}, tensor.Float32)
	require.NoError(t, err)
	gradData, gradWarp, err := r.ResampleGrad(data, warp, gradOut)
	require.NoError(t, err)
	assert.True(t, gradData.Shape().Equal(data.Shape()))
	assert.True(t, gradWarp.Shape().Equal(warp.Shape()))
}

func TestResample_EmptyImageNonEmptyWarp(t *testing.T) {
	r := newBilinear(t)

	data, err := tensor.NewRaw(tensor.Shape{1, 0, 0, 3}, tensor.Float32)
	require.NoError(t, err)
	warp, err := tensor.FromSlice([]float32{0.5, 0.5}, tensor.Shape{1, 1, 2})
	require.NoError(t, err)

	out, err := r.Resample(data, warp)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{1, 1, 3}), "got shape %v", out.Shape())
	for _, v := range out.AsFloat32() {
		assert.Zero(t, v)
	}
}

func TestResampleGrad_EndToEnd(t *testing.T) {
	r := newBilinear(t)

	data, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	require.NoError(t, err)
	warp, err := tensor.FromSlice([]float32{0.5, 0.5}, tensor.Shape{1, 1, 2})
	require.NoError(t, err)
	gradOut, err := tensor.FromSlice([]float32{1}, tensor.Shape{1, 1, 1})
	require.NoError(t, err)

	gradData, gradWarp, err := r.ResampleGrad(data, warp, gradOut)
	require.NoError(t, err)

	assert.Equal(t, []float32{0.25, 0.25, 0.25, 0.25}, gradData.AsFloat32())
	assert.Equal(t, []float32{1, 2}, gradWarp.AsFloat32())
}

func TestResampleGrad_GradOutputShapeMismatch(t *testing.T) {
	r := newBilinear(t)

	data, err := tensor.NewRaw(tensor.Shape{1, 2, 2, 1}, tensor.Float32)
	require.NoError(t, err)
	warp, err := tensor.NewRaw(tensor.Shape{1, 1, 2}, tensor.Float32)
	require.NoError(t, err)
	badGradOut, err := tensor.NewRaw(tensor.Shape{1, 2, 1}, tensor.Float32)
	require.NoError(t, err)

	gradData, gradWarp, err := r.ResampleGrad(data, warp, badGradOut)
	assert.Nil(t, gradData)
	assert.Nil(t, gradWarp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gradOutput")
}
