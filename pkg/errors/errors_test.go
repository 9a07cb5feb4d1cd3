package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "KernelPCA.Fit",
			kind:     "empty data",
			err:      fmt.Errorf("test error"),
			wantMsg:  "kernelpca: KernelPCA.Fit: empty data: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "KernelPCA.Transform",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "kernelpca: KernelPCA.Transform: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			// 基本的なエラーメッセージの確認
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			// ModelError型にキャスト可能か確認
			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("KernelPCA.Transform", 10, 7, 0)

	// 基本的なエラーメッセージの確認
	want := "kernelpca: KernelPCA.Transform: dimension mismatch on axis 0 (rows). Expected 10, got 7"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// DimensionError型にキャスト可能か確認
	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 10 || dimErr.Got != 7 {
		t.Errorf("DimensionError fields = (%d, %d), want (10, 7)", dimErr.Expected, dimErr.Got)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("KernelPCA", "Transform")

	// 基本的なエラーメッセージの確認
	want := "kernelpca: KernelPCA: this model is not fitted yet. Call Fit() before using Transform()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// NotFittedError型にキャスト可能か確認
	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewConfigurationError(t *testing.T) {
	err := NewConfigurationError("KernelPCA.Fit", "kernel", "kernel must be a function")

	want := "kernelpca: KernelPCA.Fit: invalid configuration for option 'kernel': kernel must be a function"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// ConfigurationError型にキャスト可能か確認
	var cfgErr *ConfigurationError
	if !As(err, &cfgErr) {
		t.Fatal("Error should be castable to *ConfigurationError")
	}
	if cfgErr.Option != "kernel" {
		t.Errorf("Option = %q, want %q", cfgErr.Option, "kernel")
	}
}

func TestNewNonConvergenceError(t *testing.T) {
	err := NewNonConvergenceError("power iteration", 100, 1e-6)

	want := "kernelpca: power iteration failed to converge within 100 iterations (tolerance 1e-06). Consider increasing WithMaxIter or relaxing WithTol."
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// NonConvergenceError型にキャスト可能か確認
	var ncErr *NonConvergenceError
	if !As(err, &ncErr) {
		t.Fatal("Error should be castable to *NonConvergenceError")
	}
	if ncErr.Iterations != 100 || ncErr.Tolerance != 1e-6 {
		t.Errorf("NonConvergenceError fields = (%d, %g), want (100, 1e-06)", ncErr.Iterations, ncErr.Tolerance)
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("KernelPCA.Fit", "all eigenvalues are within atol of zero; no components retained")

	want := "kernelpca: KernelPCA.Fit: all eigenvalues are within atol of zero; no components retained"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// ValueError型にキャスト可能か確認
	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestZeroEigenvalueWarning(t *testing.T) {
	warn := NewZeroEigenvalueWarning(2, 1e-12)

	if !strings.Contains(warn.Error(), "2 retained eigenvalue(s)") {
		t.Errorf("Error() = %v, want count in message", warn.Error())
	}
	if !strings.Contains(warn.Error(), "WithZeroEigenvalueRemoval") {
		t.Errorf("Error() = %v, want remediation hint in message", warn.Error())
	}
}

func TestWarnHandlerRouting(t *testing.T) {
	// zerologフックが設定されている間はカスタムハンドラに届かない
	var handled []error
	SetWarningHandler(func(w error) {
		handled = append(handled, w)
	})
	prev := zerologWarnFunc
	SetZerologWarnFunc(nil)
	defer func() {
		SetZerologWarnFunc(prev)
		SetWarningHandler(nil)
	}()

	warning := NewZeroEigenvalueWarning(1, 1e-12)
	Warn(warning)

	if len(handled) != 1 {
		t.Fatalf("handler received %d warnings, want 1", len(handled))
	}
	if handled[0] != warning {
		t.Errorf("handler received %v, want %v", handled[0], warning)
	}
}

func TestWrapAndIs(t *testing.T) {
	// 元のエラー
	baseErr := ErrSingularMatrix

	// ラップ
	wrapped := Wrap(baseErr, "in KernelPCA.Fit inverse step")

	// Is関数でチェック
	if !Is(wrapped, ErrSingularMatrix) {
		t.Error("Expected Is(wrapped, ErrSingularMatrix) to be true")
	}

	// エラーメッセージの確認
	if !strings.Contains(wrapped.Error(), "in KernelPCA.Fit inverse step") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	// 元のエラー
	baseErr := ErrEmptyData

	// フォーマット付きラップ
	wrapped := Wrapf(baseErr, "in %s: expected %d, got %d", "Transform", 10, 5)

	// Is関数でチェック
	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	// エラーメッセージの確認
	expectedMsg := "in Transform: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestErrorChaining(t *testing.T) {
	// エラーチェーンの作成
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	// チェーン全体を確認
	if !strings.Contains(err3.Error(), "base error") {
		t.Error("Expected error chain to contain base error")
	}

	// スタックトレースの確認（詳細表示）
	formatted := fmt.Sprintf("%+v", err3)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected detailed error to contain stack trace")
	}
}
