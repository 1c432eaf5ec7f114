package cpu

import "golang.org/x/exp/constraints"

// imageView is a bounds-checked window over one batch entry of a
// channel-last pixel buffer. Coordinates outside the image read as zero,
// which is what gives the sampling function its implicit zero padding.
type imageView[T constraints.Float] struct {
	pix      []T
	height   int
	width    int
	channels int
}

func (v imageView[T]) inRange(x, y int) bool {
	return x >= 0 && y >= 0 && x <= v.width-1 && y <= v.height-1
}

func (v imageView[T]) at(x, y, c int) T {
	if !v.inRange(x, y) {
		return 0
	}
	return v.pix[v.channels*(y*v.width+x)+c]
}

// gradView accumulates into a gradient buffer shaped like the image.
// Out-of-range positions are skipped: their forward contribution was
// zero, so their gradient is too.
type gradView[T constraints.Float] struct {
	imageView[T]
}

func (v gradView[T]) add(x, y, c int, value T) {
	if !v.inRange(x, y) {
		return
	}
	v.pix[v.channels*(y*v.width+x)+c] += value
}
