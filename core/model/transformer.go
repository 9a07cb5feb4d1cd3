package model

import "gonum.org/v1/gonum/mat"

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer は変換の逆写像（近似を含む）を提供するインターフェース
type InverseTransformer interface {
	Transformer

	// InverseTransform は変換後の表現を元の空間へ写し戻す
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}

// DimensionReducer は次元削減を行う変換器のインターフェース
type DimensionReducer interface {
	Transformer

	// InputDim は学習時の入力次元数を返す
	InputDim() int

	// OutputDim は削減後の次元数を返す
	OutputDim() int
}
