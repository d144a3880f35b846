//go:build netlib

package main

// #cgo LDFLAGS: -lopenblas
import "C"
import (
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/netlib/blas/netlib"
)

// Routes every mat.Dense product through a system CBLAS when built with
// `-tags netlib`.
func init() {
	blas64.Use(netlib.Implementation{})
}
