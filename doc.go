// Package kernelpca provides Kernel Principal Component Analysis for Go,
// a nonlinear dimensionality-reduction library with a scikit-learn-like API.
//
// Kernel PCA implicitly maps input vectors into a high-dimensional feature
// space through a caller-supplied kernel function, then extracts principal
// directions of that space by eigendecomposing the double-centered kernel
// (Gram) matrix. The fitted model projects new points into the learned
// embedding and, optionally, approximately reconstructs original-space
// vectors from embedding coordinates (pre-image reconstruction).
//
// # Features
//
// - scikit-learn-like API: Fit / Transform / InverseTransform with functional options
// - Dense (full spectrum) and iterative (top-k power iteration) eigensolvers
// - Precomputed kernel matrices as an alternative to a kernel function
// - CPU-parallel Gram matrix construction
// - Robust Error Handling: structured, stack-traced errors
//
// # Installation
//
// Install kernelpca using go get:
//
//	go get github.com/YuminosukeSato/kernelpca
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "math"
//
//	    "github.com/YuminosukeSato/kernelpca/decomposition"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    // Training data: columns are samples, rows are features
//	    X := mat.NewDense(2, 4, []float64{
//	        1, 2, 3, 4,
//	        2, 4, 6, 8,
//	    })
//
//	    // Gaussian (RBF) kernel
//	    rbf := func(x, y mat.Vector) float64 {
//	        var d mat.VecDense
//	        d.SubVec(x, y)
//	        return math.Exp(-mat.Dot(&d, &d))
//	    }
//
//	    // Create and fit the model
//	    kpca := decomposition.NewKernelPCA(
//	        decomposition.WithKernel(rbf),
//	        decomposition.WithMaxComponents(2),
//	    )
//	    if err := kpca.Fit(X); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Project new points into the embedding
//	    Y, err := kpca.Transform(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(Y))
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - decomposition: the KernelPCA estimator
//   - preprocessing: feature standardization ahead of scale-sensitive kernels
//   - metrics: embedding and reconstruction quality measures
//   - core/model: core interfaces and base types
//   - core/parallel: parallel processing utilities
//   - pkg/errors: structured error types and panic recovery
//   - pkg/log: structured logging for model operations
//
// # Performance
//
// Gram matrix construction is the dominant cost (O(n²) kernel evaluations
// for fitting) and is parallelized across CPU cores automatically; the
// symmetric training case evaluates only the upper triangle. For large
// training sets the iterative solver extracts only the requested number of
// components instead of the full spectrum.
//
// # License
//
// kernelpca is released under the MIT License.
package kernelpca
