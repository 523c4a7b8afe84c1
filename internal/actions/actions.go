package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/service"
	"github.com/nhle/workstatus/internal/status"
)

var (
	// ErrUnknownAction is returned for an action name that is not registered.
	ErrUnknownAction = errors.New("unknown action")

	// ErrWriteNotPermitted is returned for write-like action names. The
	// service only reads from its upstream systems.
	ErrWriteNotPermitted = errors.New("write operations are not permitted")
)

// Querier answers the status queries an action can run.
type Querier interface {
	IssueStatus(ctx context.Context, key string) (*model.Issue, error)
	SprintStatus(ctx context.Context, projectKey string) (*model.Sprint, error)
	PRStatus(ctx context.Context, repo string, number int) (*model.PRStatus, error)
	SearchPRs(ctx context.Context, query string) ([]model.SearchHit, error)
}

// Tool describes one action for callers that discover actions at runtime.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type handler func(ctx context.Context, input json.RawMessage) (any, error)

// writeActions are names a caller might try that would mutate upstream
// state. They are refused outright instead of reported as unknown.
var writeActions = map[string]bool{
	"transition_issue":     true,
	"add_comment":          true,
	"assign_issue":         true,
	"update_issue":         true,
	"approve_pull_request": true,
	"merge_pull_request":   true,
	"close_pull_request":   true,
}

// Registry maps action names to status queries.
type Registry struct {
	tools    []Tool
	handlers map[string]handler
}

// NewRegistry creates a registry of the read-only status actions.
func NewRegistry(q Querier) *Registry {
	r := &Registry{handlers: make(map[string]handler)}

	r.register(Tool{
		Name:        "get_issue_status",
		Description: "Get an issue's summary, status, assignee and linked pull requests.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"key": {
					"type": "string",
					"description": "Issue key, e.g. PROJ-123"
				}
			},
			"required": ["key"]
		}`),
	}, func(ctx context.Context, input json.RawMessage) (any, error) {
		var args struct {
			Key string `json:"key"`
		}
		if err := decode(input, &args); err != nil {
			return nil, err
		}
		return q.IssueStatus(ctx, args.Key)
	})

	r.register(Tool{
		Name:        "get_sprint_status",
		Description: "Get the active sprint of a project with its issues and days remaining.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project": {
					"type": "string",
					"description": "Project key, e.g. PROJ"
				}
			},
			"required": ["project"]
		}`),
	}, func(ctx context.Context, input json.RawMessage) (any, error) {
		var args struct {
			Project string `json:"project"`
		}
		if err := decode(input, &args); err != nil {
			return nil, err
		}
		return q.SprintStatus(ctx, args.Project)
	})

	r.register(Tool{
		Name: "get_pr_status",
		Description: "Get a pull request's reviews, checks and merge conflict state. " +
			"Pass either a pull request URL or repo and number.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"url": {
					"type": "string",
					"description": "Pull request URL, e.g. https://github.com/acme/widgets/pull/42"
				},
				"repo": {
					"type": "string",
					"description": "Repository as owner/name"
				},
				"number": {
					"type": "integer",
					"minimum": 1,
					"description": "Pull request number"
				}
			}
		}`),
	}, func(ctx context.Context, input json.RawMessage) (any, error) {
		var args struct {
			URL    string `json:"url"`
			Repo   string `json:"repo"`
			Number int    `json:"number"`
		}
		if err := decode(input, &args); err != nil {
			return nil, err
		}
		if args.URL != "" {
			ref, err := status.ParsePullRequestURL(args.URL)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
			}
			args.Repo, args.Number = ref.FullName(), ref.Number
		}
		return q.PRStatus(ctx, args.Repo, args.Number)
	})

	r.register(Tool{
		Name:        "search_pull_requests",
		Description: "Search pull requests by free text. Returns the top matches.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "Search text; qualifiers such as repo:acme/widgets are allowed"
				}
			},
			"required": ["query"]
		}`),
	}, func(ctx context.Context, input json.RawMessage) (any, error) {
		var args struct {
			Query string `json:"query"`
		}
		if err := decode(input, &args); err != nil {
			return nil, err
		}
		return q.SearchPRs(ctx, args.Query)
	})

	sort.Slice(r.tools, func(i, j int) bool { return r.tools[i].Name < r.tools[j].Name })
	return r
}

func (r *Registry) register(t Tool, h handler) {
	r.tools = append(r.tools, t)
	r.handlers[t.Name] = h
}

// Tools returns the registered actions sorted by name.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Execute runs the named action with a JSON object input. An empty input
// is treated as {}.
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (any, error) {
	name = strings.TrimSpace(name)
	if writeActions[name] {
		return nil, fmt.Errorf("%w: %s", ErrWriteNotPermitted, name)
	}

	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return h(ctx, input)
}

// decode unmarshals an action input, mapping malformed JSON to
// service.ErrInvalidInput.
func decode(input json.RawMessage, v any) error {
	if len(input) == 0 {
		return nil
	}
	if err := json.Unmarshal(input, v); err != nil {
		return fmt.Errorf("%w: decoding action input: %v", service.ErrInvalidInput, err)
	}
	return nil
}
