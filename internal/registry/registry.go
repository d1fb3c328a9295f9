// Package registry provides the capability registry: the static mapping
// from agent names to declared skills and execution context. The registry
// is loaded once at process start and never mutated afterwards.
package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agentos-io/agentos/pkg/models"
)

// ErrUnknownAgent indicates a lookup for an agent that is not registered.
// Unknown agents are an error, never a default.
var ErrUnknownAgent = errors.New("unknown agent")

// Registry holds the immutable agent catalog.
type Registry struct {
	agents map[string]models.Agent
}

// New builds a registry from a slice of agents.
// Returns an error on duplicate or unnamed agents.
func New(agents []models.Agent) (*Registry, error) {
	m := make(map[string]models.Agent, len(agents))
	for _, a := range agents {
		if a.Name == "" {
			return nil, fmt.Errorf("agent with empty name")
		}
		if _, dup := m[a.Name]; dup {
			return nil, fmt.Errorf("duplicate agent %q", a.Name)
		}
		m[a.Name] = a
	}
	return &Registry{agents: m}, nil
}

// LoadFile loads a registry from a YAML file containing a list of agents.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var doc struct {
		Agents []models.Agent `yaml:"agents"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse registry file: %w", err)
	}
	if len(doc.Agents) == 0 {
		return nil, fmt.Errorf("registry file %s defines no agents", path)
	}

	return New(doc.Agents)
}

// Get returns the agent with the given name.
func (r *Registry) Get(name string) (models.Agent, error) {
	a, ok := r.agents[name]
	if !ok {
		return models.Agent{}, fmt.Errorf("%w: %s", ErrUnknownAgent, name)
	}
	return a, nil
}

// Exists reports whether the agent is registered.
func (r *Registry) Exists(name string) bool {
	_, ok := r.agents[name]
	return ok
}

// Capabilities returns the declared skill tags for the agent.
func (r *Registry) Capabilities(name string) ([]string, error) {
	a, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return a.Capabilities, nil
}

// Names returns all agent names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	return len(r.agents)
}

// Describe renders the capability listing used in planning prompts,
// one "  - name: cap1, cap2" line per agent in sorted order.
func (r *Registry) Describe() string {
	var b strings.Builder
	for _, name := range r.Names() {
		a := r.agents[name]
		fmt.Fprintf(&b, "  - %s: %s\n", name, strings.Join(a.Capabilities, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
