package decomposition

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/kernelpca/pkg/errors"
)

// KernelCenterer はカーネル行列の二重センタリング変換
// scikit-learnのKernelCentererと互換性を持つ
// Fit後は不変で、並行な読み取りに対して安全
type KernelCenterer struct {
	// RowMeans は学習時Gram行列の各行の平均（長さ = 学習サンプル数）
	RowMeans []float64

	// Total はRowMeansの平均（Gram行列全体の平均）
	Total float64
}

// Fit は n×n の学習Gram行列から行平均と全体平均を計算する
//
// パラメータ:
//   - k: 学習データの対称Gram行列
//
// 戻り値:
//   - error: 行列が空または正方でない場合
func (c *KernelCenterer) Fit(k mat.Matrix) error {
	n, m := k.Dims()
	if n == 0 || m == 0 {
		return errors.NewModelError("KernelCenterer.Fit", "empty data", errors.ErrEmptyData)
	}
	if n != m {
		return errors.NewDimensionError("KernelCenterer.Fit", n, m, 1)
	}

	means := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < m; j++ {
			sum += k.At(i, j)
		}
		means[i] = sum / float64(m)
		total += means[i]
	}

	c.RowMeans = means
	c.Total = total / float64(n)
	return nil
}

// Transform は二重センタリングをin placeで適用し、同じ行列を返す
//
// 対象は行がFit時と同じn個の学習点に対応する任意のn×m行列。列平均は適用
// 対象の現在値から計算し、行平均は学習時の値を使う:
//
//	K[i,j] -= RowMeans[i] + colMeans[j] - Total
//
// 学習Gram行列自身に適用すると教科書どおりの二重センタリングになり、
// 学習点×新規点のクロス行列に適用すると新規データ射影用の正しい一般化になる。
// 既にセンタリング済みの行列には（浮動小数点誤差の範囲で）恒等変換となる。
func (c *KernelCenterer) Transform(k *mat.Dense) (*mat.Dense, error) {
	if c.RowMeans == nil {
		return nil, errors.NewNotFittedError("KernelCenterer", "Transform")
	}

	n, m := k.Dims()
	if n != len(c.RowMeans) {
		return nil, errors.NewDimensionError("KernelCenterer.Transform", len(c.RowMeans), n, 0)
	}

	colMeans := make([]float64, m)
	for j := 0; j < m; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += k.At(i, j)
		}
		colMeans[j] = sum / float64(n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			k.Set(i, j, k.At(i, j)-c.RowMeans[i]-colMeans[j]+c.Total)
		}
	}

	return k, nil
}
