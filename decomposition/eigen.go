package decomposition

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/kernelpca/pkg/errors"
)

// denseEigen は対称行列の全固有対を求める
// 固有値は降順に整列され、固有ベクトルは対応する列として返される
func denseEigen(k *mat.Dense) ([]float64, *mat.Dense, error) {
	n, _ := k.Dims()

	// センタリング済みGram行列は対称なので上三角から構築する
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, k.At(i, j))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, nil, errors.NewModelError("KernelPCA.Fit", "symmetric eigendecomposition failed", nil)
	}

	// EigenSymは昇順で返すため、降順へ並べ替える
	asc := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	vals := make([]float64, n)
	ordered := mat.NewDense(n, n, nil)
	for c := 0; c < n; c++ {
		src := n - 1 - c
		vals[c] = asc[src]
		for i := 0; i < n; i++ {
			ordered.Set(i, c, vecs.At(i, src))
		}
	}

	return vals, ordered, nil
}

// iterativeEigen はデフレーション付きべき乗法で上位nComponents個の固有対を求める
// 初期ベクトルは再現性のためシード付きrngから生成する
// イテレーション上限までに収束しない成分があればNonConvergenceErrorを返す
func iterativeEigen(k *mat.Dense, nComponents int, tol float64, maxIter int, rng *rand.Rand) ([]float64, *mat.Dense, error) {
	n, _ := k.Dims()

	// デフレーションで破壊的に更新するため作業コピーを取る
	work := mat.DenseCopyOf(k)

	vals := make([]float64, nComponents)
	vecs := mat.NewDense(n, nComponents, nil)
	v := mat.NewVecDense(n, nil)
	w := mat.NewVecDense(n, nil)

	for c := 0; c < nComponents; c++ {
		for i := 0; i < n; i++ {
			v.SetVec(i, rng.NormFloat64())
		}
		v.ScaleVec(1/mat.Norm(v, 2), v)

		converged := false
		for iter := 0; iter < maxIter; iter++ {
			w.MulVec(work, v)
			norm := mat.Norm(w, 2)
			if norm < 1e-300 {
				// 行列が初期ベクトルを消す場合は固有値0の成分として扱う
				converged = true
				break
			}
			w.ScaleVec(1/norm, w)
			// 符号の揺れに影響されないよう内積の絶対値で収束判定する
			diff := 1 - math.Abs(mat.Dot(v, w))
			v.CopyVec(w)
			if diff < tol {
				converged = true
				break
			}
		}
		if !converged {
			return nil, nil, errors.NewNonConvergenceError("power iteration", maxIter, tol)
		}

		// レイリー商 λ = vᵀKv
		w.MulVec(work, v)
		lambda := mat.Dot(v, w)
		if err := errors.CheckScalar("eigen_decomposition", lambda, c); err != nil {
			return nil, nil, err
		}

		vals[c] = lambda
		for i := 0; i < n; i++ {
			vecs.Set(i, c, v.AtVec(i))
		}

		// デフレーション: work -= λ v vᵀ
		work.RankOne(work, -lambda, v, v)
	}

	return vals, vecs, nil
}

// sortEigenPairsDesc は固有値を降順に並べ替え、固有ベクトル列も同じ順序に揃える
func sortEigenPairsDesc(vals []float64, vecs *mat.Dense) ([]float64, *mat.Dense) {
	n, k := vecs.Dims()

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return vals[idx[a]] > vals[idx[b]]
	})

	sortedVals := make([]float64, k)
	sortedVecs := mat.NewDense(n, k, nil)
	for c, src := range idx {
		sortedVals[c] = vals[src]
		for i := 0; i < n; i++ {
			sortedVecs.Set(i, c, vecs.At(i, src))
		}
	}

	return sortedVals, sortedVecs
}
