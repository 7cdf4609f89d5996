// Package winit provides the weight initialization schemes shared by the
// delta method packages.
package winit

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Uniform fills dst with samples drawn uniformly from [-bound, bound].
func Uniform(dst *mat.Dense, bound float64) {
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, (rand.Float64()*2-1)*bound)
		}
	}
}

// Kaiming fills dst with a fan-in scaled uniform distribution. The fan-in is
// the column count.
func Kaiming(dst *mat.Dense) {
	_, c := dst.Dims()
	if c == 0 {
		return
	}
	Uniform(dst, 1/math.Sqrt(float64(c)))
}

// Glorot fills dst with a uniform distribution scaled by both dimensions.
func Glorot(dst *mat.Dense) {
	r, c := dst.Dims()
	if r+c == 0 {
		return
	}
	Uniform(dst, math.Sqrt(6/float64(r+c)))
}
