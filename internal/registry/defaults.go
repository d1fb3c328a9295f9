package registry

import "github.com/agentos-io/agentos/pkg/models"

// Default returns the built-in organizational registry: four executive
// agents, each leading a team of specialists, plus the central
// coordinator. Used when no agents.yaml override is present.
func Default() *Registry {
	r, err := New(defaultAgents())
	if err != nil {
		// The built-in catalog is static; a construction failure is a
		// programming error.
		panic(err)
	}
	return r
}

func defaultAgents() []models.Agent {
	exec := func(name string, caps ...string) models.Agent {
		return models.Agent{
			Name:         name,
			Capabilities: caps,
			Home:         "/home/" + name,
			Type:         models.AgentTypeExecutive,
			Team:         name,
		}
	}
	sub := func(name, team string, caps ...string) models.Agent {
		return models.Agent{
			Name:         name,
			Capabilities: caps,
			Home:         "/home/" + name,
			Type:         models.AgentTypeSub,
			Team:         team,
		}
	}

	return []models.Agent{
		// Executives
		exec("tesla", "technology", "engineering", "infrastructure", "security", "devops", "ai", "coding", "architecture"),
		exec("warren", "finance", "budgeting", "accounting", "resource_management", "administration", "cost_analysis"),
		exec("steve", "marketing", "branding", "content", "social_media", "seo", "analytics", "growth"),
		exec("tony", "legal", "compliance", "contracts", "ip", "governance", "risk", "regulatory"),

		// Tesla's team
		sub("backend", "tesla", "api", "server", "database", "python", "backend_dev"),
		sub("frontend", "tesla", "ui", "ux", "web", "react", "frontend_dev"),
		sub("ai-mlops", "tesla", "ml", "ai", "training", "models", "mlops", "data_science"),
		sub("devops-engineer", "tesla", "ci_cd", "deployment", "docker", "kubernetes", "monitoring"),
		sub("security-engineer", "tesla", "security", "penetration_testing", "vulnerabilities", "audit"),
		sub("data-engineer", "tesla", "data_pipelines", "etl", "databases", "data_modeling"),

		// Warren's team
		sub("financial-analyst", "warren", "financial_analysis", "forecasting", "valuation", "investment"),
		sub("accounting-specialist", "warren", "bookkeeping", "tax", "audit", "financial_reporting"),
		sub("resource-manager", "warren", "hr", "staffing", "procurement", "budgeting"),
		sub("administrative-coordinator", "warren", "scheduling", "coordination", "documentation", "filing"),

		// Steve's team
		sub("brand-strategist", "steve", "branding", "positioning", "market_research", "strategy"),
		sub("content-creator", "steve", "writing", "copywriting", "blog", "newsletter"),
		sub("social-media-manager", "steve", "social_media", "community", "engagement", "campaigns"),
		sub("seo-specialist", "steve", "seo", "keywords", "search_ranking", "technical_seo"),
		sub("analytics-expert", "steve", "analytics", "metrics", "reporting", "data_visualization"),

		// Tony's team
		sub("contract-specialist", "tony", "contracts", "negotiations", "terms", "agreements"),
		sub("compliance-analyst", "tony", "compliance", "regulations", "policy", "standards"),
		sub("intellectual-property", "tony", "patents", "trademarks", "copyright", "ip_strategy"),
		sub("litigation-support", "tony", "litigation", "disputes", "evidence", "legal_research"),
		sub("corporate-governance", "tony", "governance", "board", "bylaws", "corporate_structure"),
	}
}
