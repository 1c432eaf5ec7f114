// Copyright 2026 The Warp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the strided buffer model used by the Warp
// resampling library.
//
// # Overview
//
// A RawTensor is a flat, row-major buffer together with a shape, strides
// and a runtime element type. It is deliberately minimal: buffers are
// caller-owned, there is no device abstraction and no lazy evaluation.
// The resampler reads and writes RawTensors through zero-copy typed
// slice views.
//
// # Basic Usage
//
//	img, err := tensor.NewRaw(tensor.Shape{1, 32, 32, 3}, tensor.Float32)
//	if err != nil {
//	    ...
//	}
//	pix := img.AsFloat32() // zero-copy view, channel fastest-varying
//
// Supported element types are Float16, Float32 and Float64. Float16
// values are stored as IEEE 754 half-precision words and accessed via
// github.com/x448/float16.
package tensor
