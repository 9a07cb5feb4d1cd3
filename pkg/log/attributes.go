// Package log defines standard attribute keys for machine learning operations.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in kernelpca. Using these standard keys enables better
// log analysis, monitoring, and debugging of model workflows.
//
// The keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples") to enable structured log analysis and filtering.

package log

// Model and Operation Context
// These attributes identify the model type, instance, and operation being performed.
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "KernelPCA"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific model instance.
	// This is useful for tracking multiple instances of the same model type.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "transform", "fit_transform", "inverse_transform"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "decomposition", "decomposition.eigen"
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
// These attributes describe the structure and properties of data being processed.
const (
	// SamplesKey indicates the number of samples (matrix columns) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (matrix rows) in the dataset.
	// Important for dimensionality tracking and debugging shape mismatches.
	FeaturesKey = "data.features"

	// ComponentsKey indicates the number of retained principal components.
	ComponentsKey = "data.components"
)

// Solver Configuration and Progress
// These attributes capture eigensolver settings and convergence information.
const (
	// SolverKey identifies the eigensolver in use.
	// Standard values: "dense", "power"
	SolverKey = "solver.name"

	// IterationKey records the current iteration number during iterative processes.
	// Useful for tracking convergence in iterative algorithms.
	IterationKey = "solver.iteration"

	// ToleranceKey records the convergence tolerance of the iterative solver.
	ToleranceKey = "solver.tolerance"

	// RandomSeedKey records the random seed for reproducibility.
	// Essential for debugging and ensuring reproducible results.
	RandomSeedKey = "config.random_seed"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error and Warning Context
// These attributes provide additional context for error and warning messages.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "DIMENSION_MISMATCH", "NOT_FITTED", "CONVERGENCE_FAILURE"
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ConfigurationError", "NonConvergenceError", "DimensionError"
	ErrorTypeKey = "error.type"

	// SuggestionKey provides helpful suggestions for resolving issues.
	// Examples: "Check input data shape", "Increase WithMaxIter"
	SuggestionKey = "error.suggestion"
)

// Standard attribute value constants for common operations.
// Using these constants ensures consistency across the codebase.
const (
	// Standard ML operations
	OperationFit              = "fit"
	OperationTransform        = "transform"
	OperationFitTransform     = "fit_transform"
	OperationInverseTransform = "inverse_transform"

	// Standard error codes
	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidConfig     = "INVALID_CONFIG"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
)
