package models

// CostTier classifies a model by billing.
type CostTier string

const (
	// TierFree models may be used without authorization.
	TierFree CostTier = "free"
	// TierPaid models require explicit authorization per invocation
	// context.
	TierPaid CostTier = "paid"
)

// ModelDescriptor describes one generation backend choice.
type ModelDescriptor struct {
	// ID is the provider model identifier sent on the wire.
	ID string `json:"id"`
	// Name is the human-readable display name.
	Name string `json:"name"`
	// Tier is the billing tier.
	Tier CostTier `json:"tier"`
	// ContextSize is the model's context window in tokens.
	ContextSize int `json:"context"`
	// SupportsTools reports whether the model accepts tool definitions.
	SupportsTools bool `json:"supports_tools"`
	// SupportsReasoning reports whether the model supports extended
	// reasoning.
	SupportsReasoning bool `json:"supports_reasoning"`
	// PriorityRank orders descriptors in the fallback chain; lower is
	// preferred.
	PriorityRank int `json:"priority"`
	// TaskAffinity lists task types this model is preferred for.
	TaskAffinity []string `json:"best_for"`
}
