// Package cpu implements the CPU execution path of the Warp resampler:
// the forward sampling pass and its bilinear adjoint, data-parallel
// across the batch dimension.
package cpu

import (
	"fmt"

	"github.com/warp-ml/warp/internal/parallel"
	"github.com/warp-ml/warp/kernels"
	"github.com/warp-ml/warp/tensor"
)

// costFactor is the rough per-sample-per-channel cost estimate handed to
// the scheduler, in ~1ns units. It only influences sharding, never
// results.
const costFactor = 1000

// Backend executes resampling passes on the CPU.
type Backend struct {
	cfg parallel.Config
}

// New creates a CPU backend with default parallelism.
func New() *Backend {
	return &Backend{cfg: parallel.DefaultConfig()}
}

// NewWithConfig creates a CPU backend with explicit scheduler settings.
// Tests use parallel.Sequential() for deterministic single-threaded runs.
func NewWithConfig(cfg parallel.Config) *Backend {
	return &Backend{cfg: cfg}
}

// Resample samples data at the warp coordinates using kernel k and
// writes the result into out.
//
// Layouts: data is [batch, height, width, channels] channel-last, warp
// holds batch*numPoints (x, y) pairs, out holds batch*numPoints*channels
// values. All three tensors must share a dtype; shapes are validated by
// the caller.
func (b *Backend) Resample(data, warp, out *tensor.RawTensor, k kernels.Kernel,
	batchSize, height, width, channels, numPoints int,
) {
	cost := int64(numPoints) * int64(channels) * costFactor
	switch data.DType() {
	case tensor.Float32:
		d, w, o := data.AsFloat32(), warp.AsFloat32(), out.AsFloat32()
		parallel.For(batchSize, cost, func(start, end int) {
			resampleRange(start, end, d, w, o, k, height, width, channels, numPoints)
		}, b.cfg)
	case tensor.Float64:
		d, w, o := data.AsFloat64(), warp.AsFloat64(), out.AsFloat64()
		parallel.For(batchSize, cost, func(start, end int) {
			resampleRange(start, end, d, w, o, k, height, width, channels, numPoints)
		}, b.cfg)
	case tensor.Float16:
		d, w, o := data.AsFloat16(), warp.AsFloat16(), out.AsFloat16()
		parallel.For(batchSize, cost, func(start, end int) {
			resampleRangeF16(start, end, d, w, o, k, height, width, channels, numPoints)
		}, b.cfg)
	default:
		panic(fmt.Sprintf("Resample: unsupported dtype %s", data.DType()))
	}
}

// ResampleGrad propagates gradOutput into gradData and gradWarp, the
// gradients of the sampling output with respect to the source image and
// the warp coordinates.
//
// The adjoint is that of bilinear interpolation, independent of the
// kernel configured for the forward pass. Both gradient buffers are
// zeroed here before accumulation begins.
func (b *Backend) ResampleGrad(data, warp, gradOutput, gradData, gradWarp *tensor.RawTensor,
	batchSize, height, width, channels, numPoints int,
) {
	// Accumulation is +=, so stale contents would leak into results.
	gradData.Zero()
	gradWarp.Zero()

	cost := int64(numPoints) * int64(channels) * costFactor
	switch data.DType() {
	case tensor.Float32:
		d, w := data.AsFloat32(), warp.AsFloat32()
		g, gd, gw := gradOutput.AsFloat32(), gradData.AsFloat32(), gradWarp.AsFloat32()
		parallel.For(batchSize, cost, func(start, end int) {
			resampleGradRange(start, end, d, w, g, gd, gw, height, width, channels, numPoints)
		}, b.cfg)
	case tensor.Float64:
		d, w := data.AsFloat64(), warp.AsFloat64()
		g, gd, gw := gradOutput.AsFloat64(), gradData.AsFloat64(), gradWarp.AsFloat64()
		parallel.For(batchSize, cost, func(start, end int) {
			resampleGradRange(start, end, d, w, g, gd, gw, height, width, channels, numPoints)
		}, b.cfg)
	case tensor.Float16:
		d, w := data.AsFloat16(), warp.AsFloat16()
		g, gd, gw := gradOutput.AsFloat16(), gradData.AsFloat16(), gradWarp.AsFloat16()
		parallel.For(batchSize, cost, func(start, end int) {
			resampleGradRangeF16(start, end, d, w, g, gd, gw, height, width, channels, numPoints)
		}, b.cfg)
	default:
		panic(fmt.Sprintf("ResampleGrad: unsupported dtype %s", data.DType()))
	}
}
