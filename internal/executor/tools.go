package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/agentos-io/agentos/internal/queue"
	"github.com/agentos-io/agentos/pkg/models"
)

// Tool names. The set is closed: a model request for anything else is
// an error observation, never an execution.
const (
	toolRunShell     = "run_shell"
	toolReadFile     = "read_file"
	toolWriteFile    = "write_file"
	toolFetchURL     = "fetch_url"
	toolAPICall      = "api_call"
	toolSendMessage  = "send_message"
	toolReportResult = "report_result"
)

// Output limits keep tool observations from flooding the context window.
const (
	shellTimeout    = 30 * time.Second
	shellStdoutMax  = 3000
	shellStderrMax  = 500
	readLinesMax    = 200
	readBytesMax    = 5000
	fetchTimeout    = 15 * time.Second
	fetchDefaultMax = 5000
)

// Toolbox executes tool calls on behalf of one agent. The queue store
// backs send_message; when nil, messaging degrades to an error
// observation.
type Toolbox struct {
	agent models.Agent
	store *queue.Store
	http  *http.Client
}

// NewToolbox builds the tool executor for an agent.
func NewToolbox(agent models.Agent, store *queue.Store) *Toolbox {
	return &Toolbox{
		agent: agent,
		store: store,
		http:  &http.Client{Timeout: fetchTimeout},
	}
}

// Definitions returns the OpenAI-compatible tool definitions offered to
// the model on every executor turn.
func Definitions() []openai.Tool {
	fn := func(name, description string, params jsonschema.Definition) openai.Tool {
		return openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        name,
				Description: description,
				Parameters:  params,
			},
		}
	}

	return []openai.Tool{
		fn(toolRunShell,
			"Execute a shell command and return the output. Use for file operations, system queries, running scripts.",
			jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"command": {Type: jsonschema.String, Description: "The shell command to execute"},
					"cwd":     {Type: jsonschema.String, Description: "Working directory (optional)"},
				},
				Required: []string{"command"},
			}),
		fn(toolReadFile,
			"Read the contents of a file.",
			jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"path":      {Type: jsonschema.String, Description: "Path to the file to read"},
					"max_lines": {Type: jsonschema.Integer, Description: "Max lines to read (default 200)"},
				},
				Required: []string{"path"},
			}),
		fn(toolWriteFile,
			"Write content to a file. Creates parent directories if needed.",
			jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"path":    {Type: jsonschema.String, Description: "Path to the file to write"},
					"content": {Type: jsonschema.String, Description: "Content to write"},
				},
				Required: []string{"path", "content"},
			}),
		fn(toolFetchURL,
			"Fetch a URL and return its content as text/markdown.",
			jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"url":        {Type: jsonschema.String, Description: "URL to fetch"},
					"max_length": {Type: jsonschema.Integer, Description: "Max characters (default 5000)"},
				},
				Required: []string{"url"},
			}),
		fn(toolAPICall,
			"Call a public API and return the JSON response.",
			jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"url":    {Type: jsonschema.String, Description: "Full API URL to call"},
					"method": {Type: jsonschema.String, Description: "HTTP method (GET/POST)"},
				},
				Required: []string{"url"},
			}),
		fn(toolSendMessage,
			"Send a message to another agent in the organization. The message is delivered as a queued task.",
			jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"to":       {Type: jsonschema.String, Description: "Agent name to send to"},
					"subject":  {Type: jsonschema.String, Description: "Message subject"},
					"body":     {Type: jsonschema.String, Description: "Message body"},
					"priority": {Type: jsonschema.String, Enum: []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"}},
				},
				Required: []string{"to", "subject", "body"},
			}),
		fn(toolReportResult,
			"Report the final result of your task. Call this when you have completed the assigned task.",
			jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"status":    {Type: jsonschema.String, Enum: []string{"completed", "partial", "failed", "blocked"}},
					"summary":   {Type: jsonschema.String, Description: "Brief summary of what was accomplished"},
					"details":   {Type: jsonschema.String, Description: "Detailed output or findings"},
					"artifacts": {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}, Description: "List of files created/modified"},
				},
				Required: []string{"status", "summary"},
			}),
	}
}

// reportArgs is the payload of a report_result call.
type reportArgs struct {
	Status    string   `json:"status"`
	Summary   string   `json:"summary"`
	Details   string   `json:"details"`
	Artifacts []string `json:"artifacts"`
}

// Execute runs one tool call and returns the observation text. Failures
// are returned as an error for the caller to fold into the
// conversation; a tool failure never aborts the run.
func (tb *Toolbox) Execute(ctx context.Context, name string, rawArgs string) (string, error) {
	switch name {
	case toolRunShell:
		var args struct {
			Command string `json:"command"`
			Cwd     string `json:"cwd"`
		}
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		return tb.runShell(ctx, args.Command, args.Cwd)

	case toolReadFile:
		var args struct {
			Path     string `json:"path"`
			MaxLines int    `json:"max_lines"`
		}
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		return tb.readFile(args.Path, args.MaxLines)

	case toolWriteFile:
		var args struct {
			Path    string `json:"path"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		return tb.writeFile(args.Path, args.Content)

	case toolFetchURL:
		var args struct {
			URL       string `json:"url"`
			MaxLength int    `json:"max_length"`
		}
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		return tb.fetch(ctx, args.URL, http.MethodGet, args.MaxLength)

	case toolAPICall:
		var args struct {
			URL    string `json:"url"`
			Method string `json:"method"`
		}
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		method := strings.ToUpper(args.Method)
		if method == "" {
			method = http.MethodGet
		}
		return tb.fetch(ctx, args.URL, method, fetchDefaultMax)

	case toolSendMessage:
		var args struct {
			To       string `json:"to"`
			Subject  string `json:"subject"`
			Body     string `json:"body"`
			Priority string `json:"priority"`
		}
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		return tb.sendMessage(args.To, args.Subject, args.Body, args.Priority)

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

func (tb *Toolbox) runShell(ctx context.Context, command, cwd string) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", fmt.Errorf("empty command")
	}

	ctx, cancel := context.WithTimeout(ctx, shellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	if cwd == "" {
		cwd = tb.agent.Home
	}
	if info, err := os.Stat(cwd); err == nil && info.IsDir() {
		cmd.Dir = cwd
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	output := truncate(stdout.String(), shellStdoutMax)
	if stderr.Len() > 0 {
		output += "\nSTDERR: " + truncate(stderr.String(), shellStderrMax)
	}
	if output == "" {
		if runErr != nil {
			return "", runErr
		}
		output = "(no output)"
	}
	// A non-zero exit with output is still an observation the model can
	// act on.
	return output, nil
}

func (tb *Toolbox) readFile(path string, maxLines int) (string, error) {
	if maxLines <= 0 {
		maxLines = readLinesMax
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	lines := strings.SplitAfter(string(data), "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return truncate(strings.Join(lines, ""), readBytesMax), nil
}

func (tb *Toolbox) writeFile(path, content string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return fmt.Sprintf("Written %d bytes to %s", len(content), path), nil
}

func (tb *Toolbox) fetch(ctx context.Context, url, method string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = fetchDefaultMax
	}
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "AgentOS/"+tb.agent.Name)

	resp, err := tb.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxLength)))
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return string(body), nil
}

// sendMessage delivers inter-agent mail as a queued task for the
// recipient, so messages survive restarts and flow through the same
// claim path as planned work.
func (tb *Toolbox) sendMessage(to, subject, body, priority string) (string, error) {
	if tb.store == nil {
		return "", fmt.Errorf("messaging unavailable: no task queue configured")
	}
	p := models.Priority(priority)
	if !p.Valid() {
		p = models.PriorityMedium
	}
	t, err := tb.store.Enqueue(models.Task{
		Title:       subject,
		Description: body,
		AssignedTo:  to,
		AssignedBy:  tb.agent.Name,
		TaskType:    models.TaskTypeGeneral,
		Priority:    p,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Message sent to %s: %s (task %s)", to, subject, t.ID), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
