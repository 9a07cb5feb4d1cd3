// Package preprocessing はカーネル法の前段で使うデータ変換を提供します。
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/kernelpca/core/model"
	"github.com/YuminosukeSato/kernelpca/pkg/errors"
)

var (
	_ model.Transformer        = (*StandardScaler)(nil)
	_ model.InverseTransformer = (*StandardScaler)(nil)
)

// StandardScaler は各特徴量を平均0、標準偏差1に変換する標準化スケーラー
//
// データ行列は列指向（d×n、行が特徴量、列がサンプル）。RBFカーネルのように
// 特徴量間のスケール差に敏感なカーネルの前段として使う
type StandardScaler struct {
	model.BaseEstimator

	// Mean は各特徴量（行）の平均値
	Mean []float64

	// Scale は各特徴量（行）の標準偏差
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// パラメータ:
//   - withMean: 平均を引くかどうか
//   - withStd: 標準偏差で割るかどうか
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は訓練データから各特徴量の平均と標準偏差を計算する
//
// パラメータ:
//   - x: 訓練データ d×n（行が特徴量、列がサンプル）
func (s *StandardScaler) Fit(x mat.Matrix) error {
	d, n := x.Dims()
	if d == 0 || n == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = d
	s.Mean = make([]float64, d)
	s.Scale = make([]float64, d)

	if s.WithMean {
		for i := 0; i < d; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				sum += x.At(i, j)
			}
			s.Mean[i] = sum / float64(n)
		}
	}

	if s.WithStd {
		for i := 0; i < d; i++ {
			sumSquares := 0.0
			for j := 0; j < n; j++ {
				diff := x.At(i, j) - s.Mean[i]
				sumSquares += diff * diff
			}
			s.Scale[i] = math.Sqrt(sumSquares / float64(n))

			// 定数特徴量はゼロ除算を避けるためスケール1のままにする
			if math.Abs(s.Scale[i]) < 1e-8 {
				s.Scale[i] = 1.0
			}
		}
	} else {
		for i := 0; i < d; i++ {
			s.Scale[i] = 1.0
		}
	}

	s.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(x mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	d, n := x.Dims()
	if d != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, d, 0)
	}

	result := mat.NewDense(d, n, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < n; j++ {
			result.Set(i, j, (x.At(i, j)-s.Mean[i])/s.Scale[i])
		}
	}

	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(x mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(x mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	d, n := x.Dims()
	if d != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, d, 0)
	}

	result := mat.NewDense(d, n, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < n; j++ {
			result.Set(i, j, x.At(i, j)*s.Scale[i]+s.Mean[i])
		}
	}

	return result, nil
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}
