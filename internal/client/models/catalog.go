package models

// Model-catalog value objects. These are fetched on demand and cached in
// memory only; the local store never persists them. The only write path back
// to the server is the enable/pin toggles on UserModel.

// UserModel is a catalog entry scoped to the current user.
type UserModel struct {
	ModelID  string
	Provider string
	Enabled  bool
	Pinned   bool

	ContextLength   *int
	InputCostPerM   *float64
	OutputCostPerM  *float64
	MaxResolution   *string
	SupportsVision  *bool
	SupportsTools   *bool
	ReasoningEffort *string

	// Parameters carries provider-specific knobs whose shape is not
	// statically known.
	Parameters map[string]Value
}

// ModelBenchmarks holds published benchmark scores for a catalog model.
type ModelBenchmarks struct {
	MMLU      *float64
	GPQA      *float64
	HumanEval *float64
}

// ModelInfo is the richer, user-independent catalog entry.
type ModelInfo struct {
	ModelID        string
	Provider       string
	DisplayName    string
	ContextLength  *int
	InputCostPerM  *float64
	OutputCostPerM *float64
	Benchmarks     *ModelBenchmarks
}

// ProviderInfo describes per-provider availability and pricing.
type ProviderInfo struct {
	Name           string
	Available      bool
	InputCostPerM  *float64
	OutputCostPerM *float64
}
