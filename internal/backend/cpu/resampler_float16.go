package cpu

import (
	"math"

	"github.com/x448/float16"

	"github.com/warp-ml/warp/kernels"
)

// Float16 paths. Individual operations are promoted to float32 and
// rounded back to half precision step by step, so accumulators and
// stored values carry half-precision semantics while floor and weight
// evaluation run at full precision.

// f16Image is the half-precision counterpart of imageView.
type f16Image struct {
	pix      []float16.Float16
	height   int
	width    int
	channels int
}

func (v f16Image) inRange(x, y int) bool {
	return x >= 0 && y >= 0 && x <= v.width-1 && y <= v.height-1
}

func (v f16Image) at(x, y, c int) float32 {
	if !v.inRange(x, y) {
		return 0
	}
	return v.pix[v.channels*(y*v.width+x)+c].Float32()
}

func (v f16Image) add(x, y, c int, value float32) {
	if !v.inRange(x, y) {
		return
	}
	i := v.channels*(y*v.width+x) + c
	v.pix[i] = float16.Fromfloat32(v.pix[i].Float32() + value)
}

func resampleRangeF16(start, end int, data, warp, out []float16.Float16,
	k kernels.Kernel, height, width, channels, numPoints int,
) {
	dataBatchStride := height * width * channels
	warpBatchStride := numPoints * 2
	outBatchStride := numPoints * channels

	span := int(math.Ceil(k.Radius()))
	wx := make([]float32, 2*span+1)
	wy := make([]float32, 2*span+1)

	for batchID := start; batchID < end; batchID++ {
		img := f16Image{
			pix:      data[batchID*dataBatchStride : (batchID+1)*dataBatchStride],
			height:   height,
			width:    width,
			channels: channels,
		}
		warpRow := warp[batchID*warpBatchStride : (batchID+1)*warpBatchStride]
		outRow := out[batchID*outBatchStride : (batchID+1)*outBatchStride]

		for sampleID := 0; sampleID < numPoints; sampleID++ {
			x := warpRow[sampleID*2].Float32()
			y := warpRow[sampleID*2+1].Float32()
			outSlot := outRow[sampleID*channels : (sampleID+1)*channels]

			if !(x > -1 && y > -1 && x < float32(width) && y < float32(height)) {
				for c := range outSlot {
					outSlot[c] = 0
				}
				continue
			}

			fx := int(math.Floor(float64(x)))
			fy := int(math.Floor(float64(y)))
			for i := -span; i <= span; i++ {
				wx[i+span] = float32(k.Weight(float64(fx+i) - float64(x)))
				wy[i+span] = float32(k.Weight(float64(fy+i) - float64(y)))
			}

			for c := 0; c < channels; c++ {
				// The accumulator stays in half precision: each
				// contribution is added and rounded back, so results
				// carry the element type's accumulation semantics.
				var res float16.Float16
				for ix := -span; ix <= span; ix++ {
					for iy := -span; iy <= span; iy++ {
						res = float16.Fromfloat32(res.Float32() +
							img.at(fx+ix, fy+iy, c)*wx[ix+span]*wy[iy+span])
					}
				}
				outSlot[c] = res
			}
		}
	}
}

func resampleGradRangeF16(start, end int,
	data, warp, gradOutput, gradData, gradWarp []float16.Float16,
	height, width, channels, numPoints int,
) {
	dataBatchStride := height * width * channels
	warpBatchStride := numPoints * 2
	outBatchStride := numPoints * channels

	for batchID := start; batchID < end; batchID++ {
		img := f16Image{
			pix:      data[batchID*dataBatchStride : (batchID+1)*dataBatchStride],
			height:   height,
			width:    width,
			channels: channels,
		}
		gimg := f16Image{
			pix:      gradData[batchID*dataBatchStride : (batchID+1)*dataBatchStride],
			height:   height,
			width:    width,
			channels: channels,
		}
		warpRow := warp[batchID*warpBatchStride : (batchID+1)*warpBatchStride]
		gradWarpRow := gradWarp[batchID*warpBatchStride : (batchID+1)*warpBatchStride]
		gradOutRow := gradOutput[batchID*outBatchStride : (batchID+1)*outBatchStride]

		for sampleID := 0; sampleID < numPoints; sampleID++ {
			x := warpRow[sampleID*2].Float32()
			y := warpRow[sampleID*2+1].Float32()

			if !(x > -1 && y > -1 && x < float32(width) && y < float32(height)) {
				continue
			}

			fx := int(math.Floor(float64(x)))
			fy := int(math.Floor(float64(y)))
			cx := fx + 1
			cy := fy + 1
			dx := float32(cx) - x
			dy := float32(cy) - y

			for c := 0; c < channels; c++ {
				g := gradOutRow[sampleID*channels+c].Float32()

				imgFxFy := img.at(fx, fy, c)
				imgCxCy := img.at(cx, cy, c)
				imgFxCy := img.at(fx, cy, c)
				imgCxFy := img.at(cx, fy, c)

				gx := sampleID * 2
				gradWarpRow[gx] = float16.Fromfloat32(gradWarpRow[gx].Float32() +
					g*((1-dy)*(imgCxCy-imgFxCy)+dy*(imgCxFy-imgFxFy)))
				gradWarpRow[gx+1] = float16.Fromfloat32(gradWarpRow[gx+1].Float32() +
					g*((1-dx)*(imgCxCy-imgCxFy)+dx*(imgFxCy-imgFxFy)))

				gimg.add(fx, fy, c, g*dx*dy)
				gimg.add(cx, cy, c, g*(1-dx)*(1-dy))
				gimg.add(fx, cy, c, g*dx*(1-dy))
				gimg.add(cx, fy, c, g*(1-dx)*dy)
			}
		}
	}
}
