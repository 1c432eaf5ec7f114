package cpu

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/warp-ml/warp/kernels"
)

// resampleRange runs the forward pass for batch entries [start, end).
//
// Per sample point the kernel is evaluated over the integer neighborhood
// [-span, span]^2 around floor(x), floor(y), with span = ceil(radius).
// The 2D weight is the separable product of the per-axis evaluations, so
// the two axis weight vectors are computed once per sample and reused
// across the neighborhood and all channels.
func resampleRange[T constraints.Float](start, end int, data, warp, out []T,
	k kernels.Kernel, height, width, channels, numPoints int,
) {
	dataBatchStride := height * width * channels
	warpBatchStride := numPoints * 2
	outBatchStride := numPoints * channels

	span := int(math.Ceil(k.Radius()))
	wx := make([]T, 2*span+1)
	wy := make([]T, 2*span+1)

	for batchID := start; batchID < end; batchID++ {
		img := imageView[T]{
			pix:      data[batchID*dataBatchStride : (batchID+1)*dataBatchStride],
			height:   height,
			width:    width,
			channels: channels,
		}
		warpRow := warp[batchID*warpBatchStride : (batchID+1)*warpBatchStride]
		outRow := out[batchID*outBatchStride : (batchID+1)*outBatchStride]

		for sampleID := 0; sampleID < numPoints; sampleID++ {
			x := warpRow[sampleID*2]
			y := warpRow[sampleID*2+1]
			outSlot := outRow[sampleID*channels : (sampleID+1)*channels]

			// The sampling function implicitly pads the input with
			// zeros, hence the unusual {x,y} > -1 checks: a sample
			// up to one pixel outside the image still blends real
			// pixels with the zero border, so the signal fades to
			// zero continuously instead of jumping at the edge.
			if !(x > -1 && y > -1 && x < T(width) && y < T(height)) {
				for c := range outSlot {
					outSlot[c] = 0
				}
				continue
			}

			fx := int(math.Floor(float64(x)))
			fy := int(math.Floor(float64(y)))
			for i := -span; i <= span; i++ {
				wx[i+span] = T(k.Weight(float64(fx+i) - float64(x)))
				wy[i+span] = T(k.Weight(float64(fy+i) - float64(y)))
			}

			for c := 0; c < channels; c++ {
				var res T
				for ix := -span; ix <= span; ix++ {
					for iy := -span; iy <= span; iy++ {
						res += img.at(fx+ix, fy+iy, c) * wx[ix+span] * wy[iy+span]
					}
				}
				outSlot[c] = res
			}
		}
	}
}
