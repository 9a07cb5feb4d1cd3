package decomposition

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/kernelpca/core/model"
	"github.com/YuminosukeSato/kernelpca/pkg/errors"
	"github.com/YuminosukeSato/kernelpca/pkg/log"
)

// 除去オプション無効時にゼロ固有値を警告する閾値
const zeroEigenvalueTol = 1e-12

var (
	_ model.InverseTransformer = (*KernelPCA)(nil)
	_ model.DimensionReducer   = (*KernelPCA)(nil)
)

// KernelPCA はカーネル主成分分析
// scikit-learnのKernelPCAと互換性を持つ
//
// データ行列は列指向（d×n、列がサンプル）。Fit完了後のモデルは不変であり、
// 複数goroutineからのTransform/InverseTransformの並行呼び出しに対して安全
type KernelPCA struct {
	model.BaseEstimator

	// ハイパーパラメータ
	kernel        Kernel  // カーネル関数（nilなら事前計算カーネル）
	precomputed   bool    // Fit入力を事前計算済みカーネル行列として扱うか
	maxComponents int     // 保持する成分数の上限（0はmin(d,n)）
	removeZero    bool    // ほぼゼロの固有値を除去するか
	atol          float64 // ゼロ判定の絶対許容誤差
	solver        Solver  // 固有値分解の解法
	inverse       bool    // 逆変換係数を学習するか
	beta          float64 // リッジ正則化の強さ
	tol           float64 // 反復ソルバーの収束許容誤差
	maxIter       int     // 反復ソルバーの最大イテレーション数
	randomState   int64   // 乱数シード（負なら時刻から）

	// 学習パラメータ
	x              *mat.Dense      // 学習データ d×n（クロスカーネル評価のため保持）
	centerer       *KernelCenterer // 学習Gram行列から計算したセンタリング変換
	eigenvalues_   []float64       // 降順の固有値（長さk）
	eigenvectors_  *mat.Dense      // n×k、列が固有値と1:1に対応
	inverseCoeffs_ *mat.Dense      // d×n、逆変換が無効ならnil
	nFeatures_     int
	nSamples_      int
}

// NewKernelPCA は新しいKernelPCAを作成する
//
// パラメータ:
//   - options: 設定オプション
//
// 戻り値:
//   - *KernelPCA: 新しいKernelPCAインスタンス
//
// 使用例:
//
//	kpca := decomposition.NewKernelPCA(
//	    decomposition.WithKernel(rbf),
//	    decomposition.WithMaxComponents(2),
//	    decomposition.WithInverse(1e-4),
//	)
//	err := kpca.Fit(X)
//	Y, err := kpca.Transform(XNew)
func NewKernelPCA(options ...Option) *KernelPCA {
	kpca := &KernelPCA{
		maxComponents: 0,
		solver:        SolverDense,
		atol:          zeroEigenvalueTol,
		beta:          1.0,
		tol:           1e-6,
		maxIter:       100,
		randomState:   -1,
	}

	for _, opt := range options {
		opt(kpca)
	}

	return kpca
}

// Fit はカーネル主成分分析を学習する
//
// 学習Gram行列の構築、二重センタリング、固有値分解、成分の選択を行い、
// WithInverseが指定されていれば事前像再構成の係数も導出する。
// 失敗した場合に部分的に学習されたモデルが残ることはない
//
// パラメータ:
//   - x: 学習データ d×n（WithPrecomputedKernel時は n×n の対称カーネル行列）
//
// 戻り値:
//   - error: 構成が不正な場合のConfigurationError、
//     反復ソルバーが収束しない場合のNonConvergenceError など
func (kpca *KernelPCA) Fit(x mat.Matrix) error {
	d, n := x.Dims()
	if d == 0 || n == 0 {
		return errors.NewModelError("KernelPCA.Fit", "empty data", errors.ErrEmptyData)
	}

	if kpca.kernel == nil && !kpca.precomputed {
		return errors.NewConfigurationError("KernelPCA.Fit", "kernel",
			"kernel must be a function, or the input must be declared precomputed with WithPrecomputedKernel")
	}
	if kpca.kernel != nil && kpca.precomputed {
		return errors.NewConfigurationError("KernelPCA.Fit", "kernel",
			"WithKernel and WithPrecomputedKernel are mutually exclusive")
	}
	if kpca.maxComponents < 0 {
		return errors.NewValidationError("maxComponents", "must be non-negative", kpca.maxComponents)
	}

	inverse := kpca.inverse
	if kpca.precomputed {
		if !isSymmetric(x) {
			return errors.NewConfigurationError("KernelPCA.Fit", "kernel",
				"precomputed kernel matrix must be symmetric")
		}
		// 事前像を導くカーネル関数が無いため逆変換は学習しない
		inverse = false
	}

	// 要求された成分数を min(d, n) にクリップする
	maxComp := d
	if n < maxComp {
		maxComp = n
	}
	if kpca.maxComponents > 0 && kpca.maxComponents < maxComp {
		maxComp = kpca.maxComponents
	}

	logger := log.GetLoggerWithName("decomposition.kernel_pca")
	logger.Debug("Fitting KernelPCA",
		log.OperationKey, log.OperationFit,
		log.FeaturesKey, d,
		log.SamplesKey, n,
		log.ComponentsKey, maxComp,
		log.SolverKey, string(kpca.solver))
	start := time.Now()

	xd := mat.DenseCopyOf(x)

	// 学習Gram行列の構築
	var gram *mat.Dense
	if kpca.precomputed {
		// 呼び出し側の行列をセンタリングで破壊しないようコピーに対して作業する
		gram = mat.DenseCopyOf(x)
	} else {
		var err error
		gram, err = pairwiseKernelSym(kpca.kernel, xd)
		if err != nil {
			return err
		}
	}
	if err := errors.CheckMatrix("gram_computation", gram, n, n, 0); err != nil {
		return err
	}

	// 二重センタリング
	centerer := &KernelCenterer{}
	if err := centerer.Fit(gram); err != nil {
		return err
	}
	if _, err := centerer.Transform(gram); err != nil {
		return err
	}

	// 固有値分解
	var vals []float64
	var vecs *mat.Dense
	var err error
	switch kpca.solver {
	case SolverDense:
		vals, vecs, err = denseEigen(gram)
	case SolverPower:
		seed := kpca.randomState
		if seed < 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		vals, vecs, err = iterativeEigen(gram, maxComp, kpca.tol, kpca.maxIter, rng)
	default:
		return errors.NewConfigurationError("KernelPCA.Fit", "solver",
			"unknown solver '"+string(kpca.solver)+"'")
	}
	if err != nil {
		return err
	}

	// 降順に整列して上位maxComp個を選択
	vals, vecs = sortEigenPairsDesc(vals, vecs)
	vals, vecs = truncateEigenPairs(vals, vecs, maxComp)

	// ほぼゼロの固有値を除去（相対順序は保存される）
	if kpca.removeZero {
		vals, vecs = filterZeroEigenPairs(vals, vecs, kpca.atol)
		if len(vals) == 0 {
			return errors.NewValueError("KernelPCA.Fit",
				"all eigenvalues are within atol of zero; no components retained")
		}
	} else if c := countZeroEigenvalues(vals, zeroEigenvalueTol); c > 0 {
		errors.Warn(errors.NewZeroEigenvalueWarning(c, zeroEigenvalueTol))
	}

	// 逆変換係数: (KT + βI)·Q = Xᵀ をQについて解き、Qᵀを保持する
	var inverseCoeffs *mat.Dense
	if inverse {
		reps := featureRepresentatives(vals, vecs)
		kt, err := pairwiseKernelSym(kpca.kernel, reps)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			kt.Set(i, i, kt.At(i, i)+kpca.beta)
		}
		var q mat.Dense
		if err := q.Solve(kt, xd.T()); err != nil {
			return errors.NewModelError("KernelPCA.Fit", "inverse coefficient solve failed", errors.ErrSingularMatrix)
		}
		inverseCoeffs = mat.DenseCopyOf(q.T())
	}

	// ここまで失敗しなかった場合のみモデル状態を確定する
	kpca.x = xd
	kpca.centerer = centerer
	kpca.eigenvalues_ = vals
	kpca.eigenvectors_ = vecs
	kpca.inverseCoeffs_ = inverseCoeffs
	kpca.nFeatures_ = d
	kpca.nSamples_ = n
	kpca.SetFitted()

	logger.Debug("KernelPCA fitted",
		log.ComponentsKey, len(vals),
		log.DurationMsKey, time.Since(start).Milliseconds())
	return nil
}

// Transform は新規データを学習済みの埋め込みへ射影する
//
// 学習データと新規点のクロスGram行列を構築し、学習時のセンタリング統計で
// センタリングした後、1/√λでスケールした固有ベクトルで射影する
//
// パラメータ:
//   - x: 新規データ d×m（WithPrecomputedKernel時は学習点×新規点の n×m クロスカーネル行列）
//
// 戻り値:
//   - mat.Matrix: k×m の埋め込み
//   - error: 未学習の場合のNotFittedError、次元不一致の場合のDimensionError
func (kpca *KernelPCA) Transform(x mat.Matrix) (mat.Matrix, error) {
	if !kpca.IsFitted() {
		return nil, errors.NewNotFittedError("KernelPCA", "Transform")
	}

	r, m := x.Dims()
	if r == 0 || m == 0 {
		return nil, errors.NewModelError("KernelPCA.Transform", "empty data", errors.ErrEmptyData)
	}

	var cross *mat.Dense
	if kpca.precomputed {
		if r != kpca.nSamples_ {
			return nil, errors.NewDimensionError("KernelPCA.Transform", kpca.nSamples_, r, 0)
		}
		cross = mat.DenseCopyOf(x)
	} else {
		if r != kpca.nFeatures_ {
			return nil, errors.NewDimensionError("KernelPCA.Transform", kpca.nFeatures_, r, 0)
		}
		var err error
		cross, err = pairwiseKernel(kpca.kernel, kpca.x, asDense(x))
		if err != nil {
			return nil, err
		}
	}

	if _, err := kpca.centerer.Transform(cross); err != nil {
		return nil, err
	}

	return kpca.project(cross), nil
}

// TransformTraining は学習データ自身の埋め込みを返す
//
// モデルはセンタリング済みの学習Gram行列を保持しないため、
// Gram行列を再計算して学習時のセンタリング統計で再センタリングして射影する
//
// 戻り値:
//   - mat.Matrix: k×n の埋め込み
//   - error: 未学習の場合のNotFittedError
func (kpca *KernelPCA) TransformTraining() (mat.Matrix, error) {
	if !kpca.IsFitted() {
		return nil, errors.NewNotFittedError("KernelPCA", "TransformTraining")
	}

	var gram *mat.Dense
	if kpca.precomputed {
		gram = mat.DenseCopyOf(kpca.x)
	} else {
		var err error
		gram, err = pairwiseKernelSym(kpca.kernel, kpca.x)
		if err != nil {
			return nil, err
		}
	}

	if _, err := kpca.centerer.Transform(gram); err != nil {
		return nil, err
	}

	return kpca.project(gram), nil
}

// FitTransform はFitとTransformTrainingを同時に実行する
func (kpca *KernelPCA) FitTransform(x mat.Matrix) (mat.Matrix, error) {
	if err := kpca.Fit(x); err != nil {
		return nil, err
	}
	return kpca.TransformTraining()
}

// InverseTransform は埋め込み座標から元の空間のベクトルを近似的に再構成する
//
// パラメータ:
//   - y: 埋め込み座標 k×m
//
// 戻り値:
//   - mat.Matrix: d×m の再構成ベクトル
//   - error: WithInverse無しで学習された場合のConfigurationError など
func (kpca *KernelPCA) InverseTransform(y mat.Matrix) (mat.Matrix, error) {
	if !kpca.IsFitted() {
		return nil, errors.NewNotFittedError("KernelPCA", "InverseTransform")
	}
	if kpca.inverseCoeffs_ == nil {
		return nil, errors.NewConfigurationError("KernelPCA.InverseTransform", "inverse",
			"model was fitted without inverse coefficients. Refit with WithInverse")
	}

	r, m := y.Dims()
	if r != len(kpca.eigenvalues_) {
		return nil, errors.NewDimensionError("KernelPCA.InverseTransform", len(kpca.eigenvalues_), r, 0)
	}
	if m == 0 {
		return nil, errors.NewModelError("KernelPCA.InverseTransform", "empty data", errors.ErrEmptyData)
	}

	// Fit時と同じ特徴空間代表点に対するクロスカーネルを評価する
	reps := featureRepresentatives(kpca.eigenvalues_, kpca.eigenvectors_)
	cross, err := pairwiseKernel(kpca.kernel, reps, asDense(y))
	if err != nil {
		return nil, err
	}

	var out mat.Dense
	out.Mul(kpca.inverseCoeffs_, cross)
	return &out, nil
}

// InputDim は学習時の入力次元数（特徴数）を返す
func (kpca *KernelPCA) InputDim() int {
	return kpca.nFeatures_
}

// OutputDim は保持された主成分数を返す
func (kpca *KernelPCA) OutputDim() int {
	return len(kpca.eigenvalues_)
}

// PrincipalVariances は保持された固有値（降順）のコピーを返す
func (kpca *KernelPCA) PrincipalVariances() []float64 {
	if kpca.eigenvalues_ == nil {
		return nil
	}
	out := make([]float64, len(kpca.eigenvalues_))
	copy(out, kpca.eigenvalues_)
	return out
}

// Projection は射影行列（n×k、各列を1/√λでスケールした固有ベクトル）を返す
// 未学習の場合はnilを返す
func (kpca *KernelPCA) Projection() mat.Matrix {
	if !kpca.IsFitted() {
		return nil
	}
	return kpca.projectionMatrix()
}

// GetParams はモデルのハイパーパラメータを返す
func (kpca *KernelPCA) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"precomputed":    kpca.precomputed,
		"max_components": kpca.maxComponents,
		"remove_zero":    kpca.removeZero,
		"atol":           kpca.atol,
		"solver":         string(kpca.solver),
		"inverse":        kpca.inverse,
		"beta":           kpca.beta,
		"tol":            kpca.tol,
		"max_iter":       kpca.maxIter,
		"random_state":   kpca.randomState,
	}
}

// project は行が学習点に対応するセンタリング済み行列を埋め込みへ射影する
func (kpca *KernelPCA) project(cross *mat.Dense) *mat.Dense {
	proj := kpca.projectionMatrix()
	var out mat.Dense
	out.Mul(proj.T(), cross)
	return &out
}

// projectionMatrix は各列を1/√λでスケールした固有ベクトル行列を作る
// ゼロ固有値の列はSafeDivideにより0になる
func (kpca *KernelPCA) projectionMatrix() *mat.Dense {
	n := kpca.nSamples_
	k := len(kpca.eigenvalues_)
	proj := mat.NewDense(n, k, nil)
	for c := 0; c < k; c++ {
		scale := errors.SafeDivide(1, math.Sqrt(math.Max(kpca.eigenvalues_[c], 0)))
		for i := 0; i < n; i++ {
			proj.Set(i, c, kpca.eigenvectors_.At(i, c)*scale)
		}
	}
	return proj
}

// featureRepresentatives は各学習点の埋め込み座標を√λでスケールした
// 特徴空間代表点をk×n行列（列が点）として返す
func featureRepresentatives(vals []float64, vecs *mat.Dense) *mat.Dense {
	n, k := vecs.Dims()
	reps := mat.NewDense(k, n, nil)
	for c := 0; c < k; c++ {
		// センタリング済みGram行列は半正定値だが、浮動小数点誤差で
		// わずかに負になり得るため0でクリップする
		scale := math.Sqrt(math.Max(vals[c], 0))
		for i := 0; i < n; i++ {
			reps.Set(c, i, vecs.At(i, c)*scale)
		}
	}
	return reps
}

// truncateEigenPairs は先頭k個の固有対のみ残す
func truncateEigenPairs(vals []float64, vecs *mat.Dense, k int) ([]float64, *mat.Dense) {
	if len(vals) <= k {
		return vals, vecs
	}
	n, _ := vecs.Dims()
	return vals[:k], mat.DenseCopyOf(vecs.Slice(0, n, 0, k))
}

// filterZeroEigenPairs は |λ| <= atol の固有対を除去する（相対順序は保存）
func filterZeroEigenPairs(vals []float64, vecs *mat.Dense, atol float64) ([]float64, *mat.Dense) {
	n, _ := vecs.Dims()
	keep := make([]int, 0, len(vals))
	for c, v := range vals {
		if math.Abs(v) > atol {
			keep = append(keep, c)
		}
	}
	if len(keep) == len(vals) {
		return vals, vecs
	}

	outVals := make([]float64, len(keep))
	outVecs := mat.NewDense(n, len(keep), nil)
	if len(keep) == 0 {
		return outVals[:0], nil
	}
	for dst, src := range keep {
		outVals[dst] = vals[src]
		for i := 0; i < n; i++ {
			outVecs.Set(i, dst, vecs.At(i, src))
		}
	}
	return outVals, outVecs
}

func countZeroEigenvalues(vals []float64, atol float64) int {
	count := 0
	for _, v := range vals {
		if math.Abs(v) <= atol {
			count++
		}
	}
	return count
}

// isSymmetric は行列が（相対許容誤差の範囲で）対称かを判定する
func isSymmetric(k mat.Matrix) bool {
	const symTol = 1e-10
	r, c := k.Dims()
	if r != c {
		return false
	}
	for i := 0; i < r; i++ {
		for j := i + 1; j < c; j++ {
			a, b := k.At(i, j), k.At(j, i)
			scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
			if math.Abs(a-b) > symTol*scale {
				return false
			}
		}
	}
	return true
}

func asDense(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(m)
}
