// Command warp applies a sinusoidal displacement field to an image using
// the Warp resampler. It is a minimal end-to-end host for the library.
//
// Usage:
//
//	warp -input in.jpg -output out.png -kernel lanczos3 -amplitude 8 -period 64
package main

import (
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"k8s.io/klog/v2"

	"github.com/warp-ml/warp/kernels"
	"github.com/warp-ml/warp/resampler"
	"github.com/warp-ml/warp/tensor"
)

var (
	input     = flag.String("input", "", "input image path (required)")
	output    = flag.String("output", "warped.png", "output image path")
	kernel    = flag.String("kernel", "keyscubic", "sampling kernel: "+strings.Join(kernels.Names(), ", "))
	amplitude = flag.Float64("amplitude", 8, "displacement amplitude in pixels")
	period    = flag.Float64("period", 64, "displacement period in pixels")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "warp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	start := time.Now()

	src, err := imaging.Open(*input)
	if err != nil {
		return err
	}
	img := imaging.Clone(src) // NRGBA, 4 channels
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	data, err := tensor.NewRaw(tensor.Shape{1, h, w, 4}, tensor.Float32)
	if err != nil {
		return err
	}
	pix := data.AsFloat32()
	for i, v := range img.Pix {
		pix[i] = float32(v)
	}

	// One sample point per output pixel, displaced along both axes.
	warpField, err := tensor.NewRaw(tensor.Shape{1, h * w, 2}, tensor.Float32)
	if err != nil {
		return err
	}
	coords := warpField.AsFloat32()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := 2 * (y*w + x)
			coords[i] = float32(float64(x) + *amplitude*math.Sin(2*math.Pi*float64(y)/(*period)))
			coords[i+1] = float32(float64(y) + *amplitude*math.Sin(2*math.Pi*float64(x)/(*period)))
		}
	}

	r, err := resampler.New(*kernel)
	if err != nil {
		return err
	}
	out, err := r.Resample(data, warpField)
	if err != nil {
		return err
	}

	dst := imaging.New(w, h, color.NRGBA{})
	sampled := out.AsFloat32()
	for i, v := range sampled {
		dst.Pix[i] = clamp8(v)
	}
	klog.V(1).Infof("warped %dx%d image with %s kernel in %s", w, h, r.Kernel(), time.Since(start))

	return imaging.Save(dst, *output)
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
