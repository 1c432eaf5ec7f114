// Copyright 2026 The Warp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package resampler provides differentiable 2D image resampling.
//
// Given a batch of channel-last images and a batch of fractional (x, y)
// warp coordinates, Resample produces the sampled values at those
// coordinates using a configurable separable interpolation kernel, and
// ResampleGrad produces the gradients of that sampling with respect to
// both the source image and the warp coordinates.
//
// Sampling treats the image as implicitly zero-padded: coordinates up to
// one pixel outside the image blend real pixels with the zero border, so
// the sampled signal fades continuously to zero instead of jumping at
// the boundary. Coordinates further out produce exact zeros.
//
// All buffers are caller-owned RawTensors; a call never retains a
// reference past its return. Input and output buffers of a call must not
// alias.
package resampler

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/warp-ml/warp/internal/backend/cpu"
	"github.com/warp-ml/warp/internal/parallel"
	"github.com/warp-ml/warp/kernels"
	"github.com/warp-ml/warp/tensor"
)

// Resampler samples batches of images at fractional coordinates with a
// fixed interpolation kernel. It is safe for concurrent use as long as
// the buffer ownership rules above are respected per call.
type Resampler struct {
	kernel  kernels.Kernel
	backend *cpu.Backend
}

type config struct {
	par parallel.Config
}

// Option configures a Resampler.
type Option func(*config)

// WithWorkers sets the maximum number of worker goroutines used to
// shard the batch dimension. n <= 1 forces sequential execution.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n <= 1 {
			c.par = parallel.Sequential()
			return
		}
		c.par.Enabled = true
		c.par.NumWorkers = n
	}
}

// New creates a Resampler for the named kernel type. The name is matched
// case-insensitively against the closed set {lanczos1, lanczos3,
// lanczos5, gaussian, box, triangle, keyscubic, mitchellcubic}; an
// unrecognized name is a configuration error.
func New(kernelType string, opts ...Option) (*Resampler, error) {
	k, err := kernels.FromString(kernelType)
	if err != nil {
		return nil, err
	}

	cfg := config{par: parallel.DefaultConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}
	klog.V(1).Infof("resampler: kernel=%s radius=%g workers=%d", k, k.Radius(), cfg.par.NumWorkers)

	return &Resampler{
		kernel:  k,
		backend: cpu.NewWithConfig(cfg.par),
	}, nil
}

// Kernel returns the configured interpolation kernel.
func (r *Resampler) Kernel() kernels.Kernel {
	return r.kernel
}

// geometry holds the dimensions derived from a validated (data, warp)
// pair, plus the shape of the sampling output.
type geometry struct {
	batchSize int
	height    int
	width     int
	channels  int
	numPoints int
	outShape  tensor.Shape
}

// validate checks the shape and dtype contract shared by both entry
// points. Nothing is computed or written before it passes.
func validate(data, warp *tensor.RawTensor) (geometry, error) {
	var g geometry
	if data == nil || warp == nil {
		return g, errors.New("data and warp must be non-nil")
	}
	if data.DType() != warp.DType() {
		return g, errors.Errorf("data and warp dtypes must match, got %s and %s",
			data.DType(), warp.DType())
	}

	dataShape := data.Shape()
	if len(dataShape) != 4 {
		return g, errors.Errorf("data must have shape [batch, height, width, channels], got %v", dataShape)
	}
	warpShape := warp.Shape()
	if len(warpShape) < 2 {
		return g, errors.Errorf("warp must be at least a matrix, got shape %v", warpShape)
	}
	if warpShape[len(warpShape)-1] != 2 {
		return g, errors.Errorf("warp coordinates must be 2D (x, y): last dimension must be 2, got shape %v", warpShape)
	}
	if dataShape[0] != warpShape[0] {
		return g, errors.Errorf("batch size of data and warp must match, got %d and %d",
			dataShape[0], warpShape[0])
	}

	g.batchSize = dataShape[0]
	g.height = dataShape[1]
	g.width = dataShape[2]
	g.channels = dataShape[3]
	if g.batchSize > 0 {
		g.numPoints = warp.NumElements() / g.batchSize / 2
	}
	g.outShape = warpShape.Clone()
	g.outShape[len(g.outShape)-1] = g.channels
	return g, nil
}

// Resample samples data at the warp coordinates and returns the output
// tensor, shaped like warp with the trailing coordinate dimension
// replaced by the image's channel count.
//
// If either input has zero elements the correctly-shaped output is
// returned untouched.
func (r *Resampler) Resample(data, warp *tensor.RawTensor) (*tensor.RawTensor, error) {
	g, err := validate(data, warp)
	if err != nil {
		return nil, err
	}

	out, err := tensor.NewRaw(g.outShape, data.DType())
	if err != nil {
		return nil, errors.Wrap(err, "allocating output")
	}
	if data.NumElements() == 0 || warp.NumElements() == 0 {
		return out, nil
	}

	r.backend.Resample(data, warp, out, r.kernel,
		g.batchSize, g.height, g.width, g.channels, g.numPoints)
	return out, nil
}

// ResampleGrad computes the gradients of the sampling output with
// respect to the source image and the warp coordinates, given the
// gradient gradOutput on the output. gradData is shaped like data,
// gradWarp like warp; both are freshly allocated and accumulated across
// all sample points.
//
// The adjoint implemented here is that of bilinear interpolation over
// the four pixels surrounding each sample point, regardless of the
// kernel configured for the forward pass. This mirrors the reference
// behavior this package derives from; it is exact for the triangle
// (bilinear) kernel and an approximation for every other kernel.
func (r *Resampler) ResampleGrad(data, warp, gradOutput *tensor.RawTensor) (gradData, gradWarp *tensor.RawTensor, err error) {
	g, err := validate(data, warp)
	if err != nil {
		return nil, nil, err
	}
	if gradOutput == nil {
		return nil, nil, errors.New("gradOutput must be non-nil")
	}
	if gradOutput.DType() != data.DType() {
		return nil, nil, errors.Errorf("gradOutput dtype must match data, got %s and %s",
			gradOutput.DType(), data.DType())
	}
	if !gradOutput.Shape().Equal(g.outShape) {
		return nil, nil, errors.Errorf("gradOutput shape is not consistent with data and warp shapes: should be %v but is %v",
			g.outShape, gradOutput.Shape())
	}

	gradData, err = tensor.NewRaw(data.Shape(), data.DType())
	if err != nil {
		return nil, nil, errors.Wrap(err, "allocating gradData")
	}
	gradWarp, err = tensor.NewRaw(warp.Shape(), warp.DType())
	if err != nil {
		return nil, nil, errors.Wrap(err, "allocating gradWarp")
	}
	if data.NumElements() == 0 || warp.NumElements() == 0 {
		return gradData, gradWarp, nil
	}

	r.backend.ResampleGrad(data, warp, gradOutput, gradData, gradWarp,
		g.batchSize, g.height, g.width, g.channels, g.numPoints)
	return gradData, gradWarp, nil
}
