package decomposition

// Solver は固有値分解の解法を表す
type Solver string

const (
	// SolverDense は全スペクトルを求める密行列向けの解法
	SolverDense Solver = "dense"

	// SolverPower はデフレーション付きべき乗法で上位k個のみ求める反復解法
	// 大きな行列や少数の成分のみ必要な場合に適する
	SolverPower Solver = "power"
)

// Option はKernelPCAの設定オプション
type Option func(*KernelPCA)

// WithKernel はカーネル関数を設定
func WithKernel(k Kernel) Option {
	return func(kpca *KernelPCA) {
		kpca.kernel = k
	}
}

// WithPrecomputedKernel はFitへの入力を事前計算済みの対称カーネル行列として扱う
// この構成では逆変換は利用できない（事前像を導くカーネル関数が存在しないため）
func WithPrecomputedKernel() Option {
	return func(kpca *KernelPCA) {
		kpca.precomputed = true
	}
}

// WithMaxComponents は保持する主成分数の上限を設定
// min(特徴数, サンプル数) を超える値は暗黙にクリップされる
func WithMaxComponents(n int) Option {
	return func(kpca *KernelPCA) {
		kpca.maxComponents = n
	}
}

// WithZeroEigenvalueRemoval は選択後に |λ| <= atol の固有対を除去する
// ランク落ちしたGram行列では保持成分数が要求数より少なくなることがある
func WithZeroEigenvalueRemoval(atol float64) Option {
	return func(kpca *KernelPCA) {
		kpca.removeZero = true
		kpca.atol = atol
	}
}

// WithSolver は固有値分解の解法を設定（デフォルト: SolverDense）
func WithSolver(s Solver) Option {
	return func(kpca *KernelPCA) {
		kpca.solver = s
	}
}

// WithInverse は事前像再構成の係数を学習する
// betaはリッジ正則化の強さ（行列の可逆性と数値安定性を保証する対角項）
func WithInverse(beta float64) Option {
	return func(kpca *KernelPCA) {
		kpca.inverse = true
		kpca.beta = beta
	}
}

// WithTol は反復ソルバーの収束判定の許容誤差を設定
func WithTol(tol float64) Option {
	return func(kpca *KernelPCA) {
		kpca.tol = tol
	}
}

// WithMaxIter は反復ソルバーの最大イテレーション数を設定
func WithMaxIter(n int) Option {
	return func(kpca *KernelPCA) {
		kpca.maxIter = n
	}
}

// WithRandomState は反復ソルバーの初期ベクトル生成に使う乱数シードを設定
// 負の値は現在時刻からシードを取る
func WithRandomState(seed int64) Option {
	return func(kpca *KernelPCA) {
		kpca.randomState = seed
	}
}
