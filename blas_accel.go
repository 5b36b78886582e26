//go:build accelerate

package main

// #cgo LDFLAGS: -framework Accelerate
import "C"
import (
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/netlib/blas/netlib"
)

// With `-tags accelerate`, gonum's BLAS calls (the similarity scan's MulVec)
// go through Apple's Accelerate via netlib.
func init() {
	blas64.Use(netlib.Implementation{})
}
