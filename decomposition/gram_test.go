package decomposition

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/kernelpca/pkg/errors"
)

func linearKernel(x, y mat.Vector) float64 {
	return mat.Dot(x, y)
}

func rbfKernel(gamma float64) Kernel {
	return func(x, y mat.Vector) float64 {
		var d mat.VecDense
		d.SubVec(x, y)
		return math.Exp(-gamma * mat.Dot(&d, &d))
	}
}

func TestPairwiseKernel(t *testing.T) {
	x := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		0, 1, -1,
	})
	y := mat.NewDense(2, 2, []float64{
		1, 0,
		1, 2,
	})

	k, err := pairwiseKernel(linearKernel, x, y)
	if err != nil {
		t.Fatalf("pairwiseKernel() error = %v", err)
	}

	rows, cols := k.Dims()
	if rows != 3 || cols != 2 {
		t.Fatalf("dims = %dx%d, want 3x2", rows, cols)
	}

	// Every cell must match a direct evaluation of the kernel
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			want := linearKernel(x.ColView(i), y.ColView(j))
			if math.Abs(k.At(i, j)-want) > 1e-12 {
				t.Errorf("K[%d,%d] = %v, want %v", i, j, k.At(i, j), want)
			}
		}
	}
}

func TestPairwiseKernelSym(t *testing.T) {
	x := mat.NewDense(2, 4, []float64{
		1, -1, 2, 0,
		0, 1, 1, -2,
	})

	got, err := pairwiseKernelSym(rbfKernel(0.5), x)
	if err != nil {
		t.Fatalf("pairwiseKernelSym() error = %v", err)
	}

	// Must agree with the cross-matrix path evaluated without the
	// symmetry shortcut
	want, err := pairwiseKernel(rbfKernel(0.5), x, x)
	if err != nil {
		t.Fatalf("pairwiseKernel() error = %v", err)
	}
	if !mat.EqualApprox(got, want, 1e-12) {
		t.Errorf("symmetric Gram differs from full evaluation:\ngot  %v\nwant %v",
			mat.Formatted(got), mat.Formatted(want))
	}

	// Result must be exactly symmetric (mirrored, not re-evaluated)
	n, _ := got.Dims()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if got.At(i, j) != got.At(j, i) {
				t.Errorf("K[%d,%d] = %v != K[%d,%d] = %v", i, j, got.At(i, j), j, i, got.At(j, i))
			}
		}
	}
}

func TestPairwiseKernelLargeParallel(t *testing.T) {
	// Exceed the parallel threshold so the worker path is exercised.
	n := gramParallelThreshold*2 + 3
	data := make([]float64, 2*n)
	for i := range data {
		data[i] = float64(i%7) - 3
	}
	x := mat.NewDense(2, n, data)

	got, err := pairwiseKernelSym(linearKernel, x)
	if err != nil {
		t.Fatalf("pairwiseKernelSym() error = %v", err)
	}

	// Spot-check cells against direct evaluation
	for _, ij := range [][2]int{{0, 0}, {1, n - 1}, {n - 2, 3}, {n - 1, n - 1}} {
		i, j := ij[0], ij[1]
		want := linearKernel(x.ColView(i), x.ColView(j))
		if math.Abs(got.At(i, j)-want) > 1e-12 {
			t.Errorf("K[%d,%d] = %v, want %v", i, j, got.At(i, j), want)
		}
	}
}

func TestPairwiseKernelPanicRecovery(t *testing.T) {
	panicking := func(x, y mat.Vector) float64 {
		panic("kernel exploded")
	}
	x := mat.NewDense(1, 3, []float64{1, 2, 3})

	if _, err := pairwiseKernelSym(panicking, x); err == nil {
		t.Error("pairwiseKernelSym() with panicking kernel should fail")
	}

	_, err := pairwiseKernel(panicking, x, x)
	if err == nil {
		t.Fatal("pairwiseKernel() with panicking kernel should fail")
	}
	var panicErr *errors.PanicError
	if !errors.As(err, &panicErr) {
		t.Errorf("error = %v, want PanicError", err)
	}
}
