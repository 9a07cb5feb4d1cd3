package decomposition

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/kernelpca/core/parallel"
	"github.com/YuminosukeSato/kernelpca/pkg/errors"
)

// gramParallelThreshold 以下の行数では並列化せず逐次計算する
const gramParallelThreshold = 64

// pairwiseKernel は K[i,j] = kernel(x列i, y列j) のクロスGram行列を計算する
//
// パラメータ:
//   - kernel: カーネル関数
//   - x: d×n 行列（列がサンプル）
//   - y: d×m 行列（列がサンプル）
//
// 戻り値:
//   - *mat.Dense: n×m のGram行列
//   - error: カーネル関数がpanicした場合のPanicError
func pairwiseKernel(kernel Kernel, x, y *mat.Dense) (*mat.Dense, error) {
	_, n := x.Dims()
	_, m := y.Dims()
	k := mat.NewDense(n, m, nil)

	var once sync.Once
	var panicErr error

	// 各セルは独立なので行単位で並列化する
	parallel.ParallelizeWithThreshold(n, gramParallelThreshold, func(start, end int) {
		defer func() {
			if r := recover(); r != nil {
				once.Do(func() { panicErr = errors.NewPanicError("pairwiseKernel", r) })
			}
		}()
		for i := start; i < end; i++ {
			xi := x.ColView(i)
			for j := 0; j < m; j++ {
				k.Set(i, j, kernel(xi, y.ColView(j)))
			}
		}
	})
	if panicErr != nil {
		return nil, errors.WithStack(panicErr)
	}

	return k, nil
}

// pairwiseKernelSym は自己対のGram行列 K[i,j] = kernel(x列i, x列j) を計算する
// カーネルの対称性を仮定して上三角のみ評価し、残りはミラーする
// 行iはn-i個のセルを持つため、ストライド割り当てでワーカー負荷を均す
func pairwiseKernelSym(kernel Kernel, x *mat.Dense) (*mat.Dense, error) {
	_, n := x.Dims()
	k := mat.NewDense(n, n, nil)

	var once sync.Once
	var panicErr error

	parallel.ParallelizeStridedWithThreshold(n, gramParallelThreshold, func(i int) {
		defer func() {
			if r := recover(); r != nil {
				once.Do(func() { panicErr = errors.NewPanicError("pairwiseKernelSym", r) })
			}
		}()
		xi := x.ColView(i)
		for j := i; j < n; j++ {
			k.Set(i, j, kernel(xi, x.ColView(j)))
		}
	})
	if panicErr != nil {
		return nil, errors.WithStack(panicErr)
	}

	// 全ワーカーの書き込みが確定してから下三角へミラーする
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			k.Set(i, j, k.At(j, i))
		}
	}

	return k, nil
}
