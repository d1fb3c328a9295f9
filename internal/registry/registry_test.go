package registry

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/agentos-io/agentos/pkg/models"
)

func TestDefaultCatalog(t *testing.T) {
	r := Default()

	if r.Len() != 24 {
		t.Errorf("default registry has %d agents, want 24", r.Len())
	}

	for _, name := range []string{"tesla", "warren", "steve", "tony"} {
		a, err := r.Get(name)
		if err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}
		if a.Type != models.AgentTypeExecutive {
			t.Errorf("%s type = %s, want executive", name, a.Type)
		}
		if a.Team != name {
			t.Errorf("%s team = %s, want %s", name, a.Team, name)
		}
	}

	backend, err := r.Get("backend")
	if err != nil {
		t.Fatal(err)
	}
	if backend.Type != models.AgentTypeSub || backend.Team != "tesla" {
		t.Errorf("backend = %+v", backend)
	}
	if backend.Home != "/home/backend" {
		t.Errorf("backend home = %s", backend.Home)
	}
}

func TestGetUnknownAgent(t *testing.T) {
	r := Default()

	_, err := r.Get("ghost")
	if !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("expected ErrUnknownAgent, got %v", err)
	}
	if r.Exists("ghost") {
		t.Error("Exists(ghost) = true")
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]models.Agent{
		{Name: "a"},
		{Name: "a"},
	})
	if err == nil {
		t.Error("expected error for duplicate agent name")
	}
}

func TestNewRejectsEmptyName(t *testing.T) {
	if _, err := New([]models.Agent{{Capabilities: []string{"x"}}}); err == nil {
		t.Error("expected error for unnamed agent")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	doc := `agents:
  - name: scout
    capabilities: [research, web_search]
    home: /home/scout
    type: sub
    team: tesla
  - name: archivist
    capabilities: [documentation]
    home: /home/archivist
    type: sub
    team: warren
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("loaded %d agents, want 2", r.Len())
	}

	caps, err := r.Capabilities("scout")
	if err != nil {
		t.Fatal(err)
	}
	if len(caps) != 2 || caps[0] != "research" {
		t.Errorf("scout capabilities = %v", caps)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile("/no/such/agents.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("agents: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(empty); err == nil {
		t.Error("expected error for file without agents")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Default().Names()
	if !sort.StringsAreSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
	if len(names) != 24 {
		t.Errorf("got %d names, want 24", len(names))
	}
}

func TestDescribe(t *testing.T) {
	r, err := New([]models.Agent{
		{Name: "beta", Capabilities: []string{"b1", "b2"}},
		{Name: "alpha", Capabilities: []string{"a1"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	got := r.Describe()
	want := "  - alpha: a1\n  - beta: b1, b2"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("Describe() ends with a newline")
	}
}
