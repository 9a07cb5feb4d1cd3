package decomposition

import "gonum.org/v1/gonum/mat"

// Kernel は2つのベクトルをスカラーへ写す対称な関数
// 特徴空間における内積を暗黙的に定義する（対称性は呼び出し側の責任で、検証はしない）
//
// 例（RBFカーネル）:
//
//	rbf := func(x, y mat.Vector) float64 {
//	    var d mat.VecDense
//	    d.SubVec(x, y)
//	    return math.Exp(-gamma * mat.Dot(&d, &d))
//	}
type Kernel func(x, y mat.Vector) float64
