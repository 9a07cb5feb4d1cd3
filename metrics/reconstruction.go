// Package metrics は埋め込みと事前像再構成の品質評価指標を提供します。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/kernelpca/pkg/errors"
)

// ReconstructionMSE は元データと再構成データの平均二乗誤差を計算する
//
// パラメータ:
//   - x: 元データ d×n（列がサンプル）
//   - xRec: 再構成データ d×n
//
// 戻り値:
//   - float64: 全要素にわたるMSE
func ReconstructionMSE(x, xRec mat.Matrix) (float64, error) {
	d, n := x.Dims()
	if d == 0 || n == 0 {
		return 0, errors.NewValueError("ReconstructionMSE", "empty matrix")
	}

	rd, rn := xRec.Dims()
	if rd != d || rn != n {
		return 0, errors.NewDimensionError("ReconstructionMSE", d, rd, 0)
	}

	var sum float64
	for i := 0; i < d; i++ {
		for j := 0; j < n; j++ {
			diff := x.At(i, j) - xRec.At(i, j)
			sum += diff * diff
		}
	}

	return sum / float64(d*n), nil
}

// ReconstructionRMSE は再構成の平方根平均二乗誤差を計算する
func ReconstructionRMSE(x, xRec mat.Matrix) (float64, error) {
	mse, err := ReconstructionMSE(x, xRec)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// SampleReconstructionErrors は各サンプル（列）のユークリッド再構成誤差を計算する
//
// 戻り値:
//   - []float64: 長さnの誤差ベクトル、errors[j] = ‖x_j − xRec_j‖
func SampleReconstructionErrors(x, xRec mat.Matrix) ([]float64, error) {
	d, n := x.Dims()
	if d == 0 || n == 0 {
		return nil, errors.NewValueError("SampleReconstructionErrors", "empty matrix")
	}

	rd, rn := xRec.Dims()
	if rd != d || rn != n {
		return nil, errors.NewDimensionError("SampleReconstructionErrors", d, rd, 0)
	}

	out := make([]float64, n)
	for j := 0; j < n; j++ {
		var sum float64
		for i := 0; i < d; i++ {
			diff := x.At(i, j) - xRec.At(i, j)
			sum += diff * diff
		}
		out[j] = math.Sqrt(sum)
	}

	return out, nil
}

// ExplainedVarianceRatio は各主成分が説明する分散の割合を計算する
//
// パラメータ:
//   - eigenvalues: 保持された固有値（降順）
//
// 戻り値:
//   - []float64: ratio[i] = λ_i / Σλ。固有値の合計が0の場合はエラー
func ExplainedVarianceRatio(eigenvalues []float64) ([]float64, error) {
	if len(eigenvalues) == 0 {
		return nil, errors.NewValueError("ExplainedVarianceRatio", "empty eigenvalue slice")
	}

	var total float64
	for _, v := range eigenvalues {
		total += math.Max(v, 0)
	}
	if total == 0 {
		return nil, errors.Newf("ExplainedVarianceRatio: total variance is zero")
	}

	out := make([]float64, len(eigenvalues))
	for i, v := range eigenvalues {
		out[i] = math.Max(v, 0) / total
	}
	return out, nil
}
