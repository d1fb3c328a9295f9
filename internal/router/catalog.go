// Package router selects generation backends. It holds the model
// catalog, computes per-call fallback chains, and carries the OpenRouter
// transport used to invoke a chosen model. Failover down the chain is the
// only retry mechanism: each descriptor is attempted exactly once per
// call, which bounds worst-case latency.
package router

import (
	"sort"

	"github.com/agentos-io/agentos/pkg/models"
)

// freeRouterName is the catalog key of the terminal fallback descriptor.
// Chains always end with it so no caller ever sees an empty chain.
const freeRouterName = "free_router"

// Catalog holds the model registry and the task-type routing table.
// Immutable after construction.
type Catalog struct {
	models map[string]models.ModelDescriptor
	// defaultOrder lists catalog keys in default fallback order.
	defaultOrder []string
	// byTask maps a task type to its preferred ordering of catalog keys.
	byTask map[string][]string
}

// ChainOptions constrain a fallback chain computation.
type ChainOptions struct {
	// TaskType selects the preferred ordering; unrecognized values fall
	// back to the default ordering.
	TaskType string
	// NeedsTools drops models without tool support.
	NeedsTools bool
	// NeedsReasoning drops models without reasoning support.
	NeedsReasoning bool
	// MinContext drops models with a smaller context window.
	MinContext int
	// PaidAuthorized admits paid-tier models into the chain.
	PaidAuthorized bool
}

// DefaultCatalog returns the built-in OpenRouter model catalog.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		models: map[string]models.ModelDescriptor{
			"kimi_k25": {
				ID: "opencode/kimi-k2.5-free", Name: "Kimi K2.5 (OpenCode)",
				Tier: models.TierFree, ContextSize: 262144,
				SupportsTools: true, SupportsReasoning: true, PriorityRank: 1,
				TaskAffinity: []string{"coding", "reasoning", "analysis", "agentic", "general"},
			},
			"minimax_m25": {
				ID: "opencode/minimax-m2.5-free", Name: "MiniMax M2.5 (OpenCode)",
				Tier: models.TierFree, ContextSize: 204800,
				SupportsTools: true, SupportsReasoning: true, PriorityRank: 2,
				TaskAffinity: []string{"coding", "office_work", "agents", "general"},
			},
			"trinity": {
				ID: "arcee-ai/trinity-large-preview:free", Name: "Trinity Large Preview",
				Tier: models.TierFree, ContextSize: 131000,
				SupportsTools: true, SupportsReasoning: false, PriorityRank: 3,
				TaskAffinity: []string{"creative_writing", "agentic", "general", "reasoning"},
			},
			"aurora": {
				ID: "openrouter/aurora-alpha", Name: "Aurora Alpha",
				Tier: models.TierFree, ContextSize: 128000,
				SupportsTools: true, SupportsReasoning: true, PriorityRank: 4,
				TaskAffinity: []string{"coding", "agentic", "reasoning"},
			},
			"step_flash": {
				ID: "stepfun/step-3.5-flash:free", Name: "Step 3.5 Flash",
				Tier: models.TierFree, ContextSize: 256000,
				SupportsTools: true, SupportsReasoning: true, PriorityRank: 5,
				TaskAffinity: []string{"reasoning", "long_context", "analysis"},
			},
			"qwen_coder_free": {
				ID: "qwen/qwen3-coder:free", Name: "Qwen3 Coder (Free)",
				Tier: models.TierFree, ContextSize: 262144,
				SupportsTools: true, SupportsReasoning: false, PriorityRank: 6,
				TaskAffinity: []string{"coding", "tool_use"},
			},
			"solar_pro": {
				ID: "upstage/solar-pro-3:free", Name: "Solar Pro 3",
				Tier: models.TierFree, ContextSize: 128000,
				SupportsTools: true, SupportsReasoning: true, PriorityRank: 7,
				TaskAffinity: []string{"general", "multilingual"},
			},
			"glm_air": {
				ID: "z-ai/glm-4.5-air:free", Name: "GLM 4.5 Air",
				Tier: models.TierFree, ContextSize: 128000,
				SupportsTools: true, SupportsReasoning: true, PriorityRank: 8,
				TaskAffinity: []string{"general", "reasoning"},
			},
			"llama_70b": {
				ID: "meta-llama/llama-3.3-70b-instruct:free", Name: "Llama 3.3 70B",
				Tier: models.TierFree, ContextSize: 131072,
				SupportsTools: true, SupportsReasoning: true, PriorityRank: 9,
				TaskAffinity: []string{"general", "reasoning", "coding"},
			},
			"gpt_oss": {
				ID: "openai/gpt-oss-120b:free", Name: "GPT-OSS 120B",
				Tier: models.TierFree, ContextSize: 128000,
				SupportsTools: true, SupportsReasoning: true, PriorityRank: 10,
				TaskAffinity: []string{"general", "coding"},
			},
			freeRouterName: {
				ID: "openrouter/free", Name: "Free Router (random)",
				Tier: models.TierFree, ContextSize: 200000,
				SupportsTools: true, SupportsReasoning: true, PriorityRank: 99,
				TaskAffinity: []string{"general", "testing"},
			},

			// Paid tier: admitted only with explicit authorization.
			"kimi_paid": {
				ID: "moonshotai/kimi-k2.5", Name: "Kimi K2.5 (Paid)",
				Tier: models.TierPaid, ContextSize: 262144,
				SupportsTools: true, SupportsReasoning: true, PriorityRank: 100,
				TaskAffinity: []string{"coding", "reasoning"},
			},
			"minimax_paid": {
				ID: "minimax/minimax-m2.5", Name: "MiniMax M2.5 (Paid)",
				Tier: models.TierPaid, ContextSize: 204800,
				SupportsTools: true, SupportsReasoning: true, PriorityRank: 101,
				TaskAffinity: []string{"coding", "agents"},
			},
			"qwen_coder_paid": {
				ID: "qwen/qwen3-coder-next", Name: "Qwen3 Coder Next (Paid)",
				Tier: models.TierPaid, ContextSize: 262144,
				SupportsTools: true, SupportsReasoning: false, PriorityRank: 102,
				TaskAffinity: []string{"coding", "tool_use"},
			},
		},
		defaultOrder: []string{
			"kimi_k25", "minimax_m25", "trinity",
			"aurora", "step_flash", "qwen_coder_free",
			"solar_pro", "glm_air", "llama_70b", "gpt_oss",
			freeRouterName,
		},
		byTask: map[string][]string{
			"coding":         {"kimi_k25", "minimax_m25", "aurora", "qwen_coder_free", "trinity", "step_flash"},
			"code_review":    {"kimi_k25", "minimax_m25", "aurora", "trinity", "step_flash"},
			"debugging":      {"kimi_k25", "minimax_m25", "aurora", "qwen_coder_free", "trinity"},
			"analysis":       {"kimi_k25", "minimax_m25", "step_flash", "trinity", "aurora"},
			"reasoning":      {"kimi_k25", "minimax_m25", "step_flash", "aurora", "trinity"},
			"research":       {"kimi_k25", "minimax_m25", "step_flash", "trinity", "aurora"},
			"financial":      {"kimi_k25", "minimax_m25", "step_flash", "trinity", "aurora"},
			"legal_analysis": {"kimi_k25", "minimax_m25", "step_flash", "trinity", "aurora"},
			"business":       {"kimi_k25", "minimax_m25", "trinity", "step_flash", "aurora"},
			"writing":        {"kimi_k25", "minimax_m25", "trinity", "aurora", "solar_pro"},
			"marketing":      {"kimi_k25", "minimax_m25", "trinity", "aurora", "solar_pro"},
			"creative":       {"kimi_k25", "minimax_m25", "trinity", "aurora", "solar_pro"},
			"general":        {"kimi_k25", "minimax_m25", "trinity", "aurora", "solar_pro", freeRouterName},
			"simple":         {"kimi_k25", "minimax_m25", "trinity", "solar_pro", freeRouterName},
			"extraction":     {"kimi_k25", "minimax_m25", "aurora", "step_flash", "trinity"},
			"summarization":  {"kimi_k25", "minimax_m25", "step_flash", "trinity", "aurora"},
			"agentic":        {"kimi_k25", "minimax_m25", "trinity", "aurora", "step_flash"},
			"tool_use":       {"kimi_k25", "minimax_m25", "aurora", "qwen_coder_free", "trinity"},
			"long_context":   {"kimi_k25", "minimax_m25", "step_flash", "qwen_coder_free", "trinity"},
		},
	}
	return c
}

// FallbackChain computes the ordered descriptor list for one call.
// The chain starts from the task type's preferred ordering (or the
// default ordering), filters by cost tier and capability constraints,
// and always ends with the terminal free router descriptor.
func (c *Catalog) FallbackChain(opts ChainOptions) []models.ModelDescriptor {
	order, ok := c.byTask[opts.TaskType]
	if !ok {
		order = c.defaultOrder
	}

	var chain []models.ModelDescriptor
	for _, name := range order {
		m, ok := c.models[name]
		if !ok {
			continue
		}
		if m.Tier == models.TierPaid && !opts.PaidAuthorized {
			continue
		}
		if opts.NeedsTools && !m.SupportsTools {
			continue
		}
		if opts.NeedsReasoning && !m.SupportsReasoning {
			continue
		}
		if m.ContextSize < opts.MinContext {
			continue
		}
		chain = append(chain, m)
	}

	terminal := c.models[freeRouterName]
	hasTerminal := false
	for _, m := range chain {
		if m.ID == terminal.ID {
			hasTerminal = true
			break
		}
	}
	if !hasTerminal {
		chain = append(chain, terminal)
	}
	return chain
}

// Lookup returns the descriptor for a catalog short name.
func (c *Catalog) Lookup(name string) (models.ModelDescriptor, bool) {
	m, ok := c.models[name]
	return m, ok
}

// List returns all descriptors ordered by priority rank, optionally
// filtered by tier (empty tier means all).
func (c *Catalog) List(tier models.CostTier) []models.ModelDescriptor {
	var out []models.ModelDescriptor
	for _, m := range c.models {
		if tier != "" && m.Tier != tier {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PriorityRank < out[j].PriorityRank
	})
	return out
}
