// Package decomposition provides matrix-decomposition based dimensionality
// reduction with a scikit-learn compatible API.
//
// The package currently implements Kernel Principal Component Analysis
// (KernelPCA): data is implicitly mapped into a feature space by a
// caller-supplied kernel function, the double-centered Gram matrix is
// eigendecomposed, and new points are projected onto the leading
// feature-space directions. An optional pre-image model maps embedding
// coordinates approximately back to the input space.
//
// Data matrices are column-oriented throughout the package: a d×n matrix
// holds n samples of dimension d, one sample per column.
package decomposition
