// Copyright 2026 The Warp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package kernels provides the 1D sampling kernels used by the Warp
// resampler.
//
// A Kernel is a stateless value exposing a support radius and a weight
// function over signed pixel offsets. The 2D sampling weight is the
// separable product of two 1D evaluations, one per axis. Kernels are
// selected by name via FromString; the set of names is closed.
package kernels

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Kernel describes a separable 1D interpolation kernel.
//
// Radius is the support half-width in source-pixel units: Weight is zero
// for offsets beyond it. Weight must be a pure function; it may be
// non-monotonic or signed (e.g. windowed sinc).
type Kernel interface {
	// Radius returns the support half-width, >= 0.
	Radius() float64
	// Weight evaluates the kernel at the signed offset x.
	Weight(x float64) float64
	// String returns the kernel's registered name.
	String() string
}

// Box averages the pixels under its support. The half-open support gets
// weight 1, the exact edge 0.5 so that adjacent supports share it evenly.
type Box struct{}

// Radius implements Kernel.
func (Box) Radius() float64 { return 0.5 }

// Weight implements Kernel.
func (Box) Weight(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 0.5:
		return 1
	case x == 0.5:
		return 0.5
	default:
		return 0
	}
}

func (Box) String() string { return "box" }

// Triangle is the tent kernel; sampling with it is bilinear
// interpolation.
type Triangle struct{}

// Radius implements Kernel.
func (Triangle) Radius() float64 { return 1 }

// Weight implements Kernel.
func (Triangle) Weight(x float64) float64 {
	x = math.Abs(x)
	if x < 1 {
		return 1 - x
	}
	return 0
}

func (Triangle) String() string { return "triangle" }

// Gaussian is a truncated Gaussian with sigma = radius/3, so the support
// cuts the curve off at three standard deviations.
type Gaussian struct {
	radius float64
	sigma  float64
}

// NewGaussian returns a Gaussian kernel truncated at the given radius.
func NewGaussian(radius float64) Gaussian {
	return Gaussian{radius: radius, sigma: radius / 3}
}

// Radius implements Kernel.
func (g Gaussian) Radius() float64 { return g.radius }

// Weight implements Kernel.
func (g Gaussian) Weight(x float64) float64 {
	x = math.Abs(x)
	if x > g.radius {
		return 0
	}
	return math.Exp(-x * x / (2 * g.sigma * g.sigma))
}

func (g Gaussian) String() string { return "gaussian" }

// Lanczos is the sinc kernel windowed by the central lobe of a wider
// sinc: sinc(x) * sinc(x/a) for |x| < a.
type Lanczos struct {
	a float64
}

// NewLanczos returns a Lanczos kernel with the given lobe count a.
func NewLanczos(a float64) Lanczos {
	return Lanczos{a: a}
}

// Radius implements Kernel.
func (l Lanczos) Radius() float64 { return l.a }

// Weight implements Kernel.
func (l Lanczos) Weight(x float64) float64 {
	x = math.Abs(x)
	if x >= l.a {
		return 0
	}
	return sinc(x) * sinc(x/l.a)
}

func (l Lanczos) String() string {
	return fmt.Sprintf("lanczos%d", int(l.a))
}

// sinc is the normalized sinc function sin(pi x) / (pi x).
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

// KeysCubic is the Keys piecewise-cubic kernel with A = -0.5
// (Catmull-Rom), support radius 2.
//
// Reference: R. G. Keys, "Cubic convolution interpolation for digital
// image processing", IEEE Trans. ASSP, 1981.
type KeysCubic struct{}

const keysA = -0.5

// Radius implements Kernel.
func (KeysCubic) Radius() float64 { return 2 }

// Weight implements Kernel.
func (KeysCubic) Weight(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x >= 2:
		return 0
	case x >= 1:
		return ((keysA*x-5*keysA)*x+8*keysA)*x - 4*keysA
	default:
		return ((keysA+2)*x-(keysA+3))*x*x + 1
	}
}

func (KeysCubic) String() string { return "keyscubic" }

// MitchellCubic is the Mitchell-Netravali cubic with B = C = 1/3,
// support radius 2.
//
// Reference: D. Mitchell, A. Netravali, "Reconstruction filters in
// computer graphics", SIGGRAPH 1988.
type MitchellCubic struct{}

const (
	mitchellB = 1.0 / 3.0
	mitchellC = 1.0 / 3.0
)

// Radius implements Kernel.
func (MitchellCubic) Radius() float64 { return 2 }

// Weight implements Kernel.
func (MitchellCubic) Weight(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x >= 2:
		return 0
	case x >= 1:
		return (((-mitchellB-6*mitchellC)*x+(6*mitchellB+30*mitchellC))*x+
			(-12*mitchellB-48*mitchellC))*x/6 + (8*mitchellB+24*mitchellC)/6
	default:
		return ((12-9*mitchellB-6*mitchellC)*x*x*x +
			(-18+12*mitchellB+6*mitchellC)*x*x +
			(6 - 2*mitchellB)) / 6
	}
}

func (MitchellCubic) String() string { return "mitchellcubic" }

// registry maps lower-case kernel names to their constructors.
var registry = map[string]func() Kernel{
	"lanczos1":      func() Kernel { return NewLanczos(1) },
	"lanczos3":      func() Kernel { return NewLanczos(3) },
	"lanczos5":      func() Kernel { return NewLanczos(5) },
	"gaussian":      func() Kernel { return NewGaussian(1.5) },
	"box":           func() Kernel { return Box{} },
	"triangle":      func() Kernel { return Triangle{} },
	"keyscubic":     func() Kernel { return KeysCubic{} },
	"mitchellcubic": func() Kernel { return MitchellCubic{} },
}

// FromString resolves a kernel by name, case-insensitively.
// An unrecognized name is a configuration error.
func FromString(name string) (Kernel, error) {
	ctor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("unrecognized sampling kernel %q (known kernels: %s)",
			name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names returns the sorted list of registered kernel names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
