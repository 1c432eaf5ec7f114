package cpu

import (
	"math"

	"golang.org/x/exp/constraints"
)

// resampleGradRange runs the backward pass for batch entries
// [start, end).
//
// The partial derivatives are those of bilinear interpolation over the
// four pixels surrounding the sample point: the incoming gradient g is
// split across the corners by their bilinear weights, and the warp
// gradient follows from differentiating the bilinear blend with respect
// to x and y. Out-of-domain samples contribute nothing, matching the
// forward pass's zero output.
func resampleGradRange[T constraints.Float](start, end int,
	data, warp, gradOutput, gradData, gradWarp []T,
	height, width, channels, numPoints int,
) {
	dataBatchStride := height * width * channels
	warpBatchStride := numPoints * 2
	outBatchStride := numPoints * channels

	for batchID := start; batchID < end; batchID++ {
		img := imageView[T]{
			pix:      data[batchID*dataBatchStride : (batchID+1)*dataBatchStride],
			height:   height,
			width:    width,
			channels: channels,
		}
		gimg := gradView[T]{imageView[T]{
			pix:      gradData[batchID*dataBatchStride : (batchID+1)*dataBatchStride],
			height:   height,
			width:    width,
			channels: channels,
		}}
		warpRow := warp[batchID*warpBatchStride : (batchID+1)*warpBatchStride]
		gradWarpRow := gradWarp[batchID*warpBatchStride : (batchID+1)*warpBatchStride]
		gradOutRow := gradOutput[batchID*outBatchStride : (batchID+1)*outBatchStride]

		for sampleID := 0; sampleID < numPoints; sampleID++ {
			x := warpRow[sampleID*2]
			y := warpRow[sampleID*2+1]

			// Same in-domain test as the forward pass; the implicit
			// zero padding extends one pixel beyond the image.
			if !(x > -1 && y > -1 && x < T(width) && y < T(height)) {
				continue
			}

			fx := int(math.Floor(float64(x)))
			fy := int(math.Floor(float64(y)))
			cx := fx + 1
			cy := fy + 1
			dx := T(cx) - x // fractional distance to the ceiling corner, in (0, 1]
			dy := T(cy) - y

			for c := 0; c < channels; c++ {
				g := gradOutRow[sampleID*channels+c]

				imgFxFy := img.at(fx, fy, c)
				imgCxCy := img.at(cx, cy, c)
				imgFxCy := img.at(fx, cy, c)
				imgCxFy := img.at(cx, fy, c)

				// Gradients w.r.t. the warp coordinates.
				gradWarpRow[sampleID*2] += g *
					((1-dy)*(imgCxCy-imgFxCy) + dy*(imgCxFy-imgFxFy))
				gradWarpRow[sampleID*2+1] += g *
					((1-dx)*(imgCxCy-imgCxFy) + dx*(imgFxCy-imgFxFy))

				// Gradients w.r.t. the four corner pixels.
				gimg.add(fx, fy, c, g*dx*dy)
				gimg.add(cx, cy, c, g*(1-dx)*(1-dy))
				gimg.add(fx, cy, c, g*dx*(1-dy))
				gimg.add(cx, fy, c, g*(1-dx)*dy)
			}
		}
	}
}
