// Package agent implements a text ReAct loop: the model alternates between
// Thought/Action lines and tool observations until it writes a final answer.
package agent

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/metrics"
)

// ErrMaxSteps is returned when the model has not produced a final answer
// within the step budget.
var ErrMaxSteps = errors.New("agent stopped after reaching the step limit")

const (
	finalAnswerMarker = "Final Answer:"
	observationStop   = "\nObservation:"

	// maxObservationLen caps how much tool output is fed back per step.
	maxObservationLen = 4000
)

// Tool is a capability the agent may call with a single text input.
type Tool struct {
	Name        string
	Description string
	Run         func(ctx context.Context, input string) (string, error)
}

// Config tunes the loop.
type Config struct {
	MaxSteps    int
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns 8 steps at temperature 0.
func DefaultConfig() Config {
	return Config{MaxSteps: 8, MaxTokens: 1024}
}

// ReAct drives a provider through the zero-shot ReAct format.
type ReAct struct {
	provider llm.Provider
	tools    []Tool
	byName   map[string]Tool
	cfg      Config
	logger   *zap.Logger
}

// New creates an agent. Tool names must be unique.
func New(provider llm.Provider, tools []Tool, cfg Config, logger *zap.Logger) *ReAct {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSteps < 1 {
		cfg.MaxSteps = DefaultConfig().MaxSteps
	}
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name] = t
	}
	return &ReAct{provider: provider, tools: tools, byName: byName, cfg: cfg, logger: logger}
}

// Run answers prompt and returns the model's last turn, which contains the
// "Final Answer:" marker.
func (a *ReAct) Run(ctx context.Context, prompt string) (string, error) {
	system := a.systemPrompt()
	var scratchpad strings.Builder

	for step := 1; step <= a.cfg.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := a.provider.Generate(ctx, llm.Request{
			System: system,
			Messages: []llm.Message{{
				Role:    llm.RoleUser,
				Content: "Question: " + prompt + "\nThought:" + scratchpad.String(),
			}},
			Stop:        []string{observationStop},
			MaxTokens:   a.cfg.MaxTokens,
			Temperature: a.cfg.Temperature,
		})
		if err != nil {
			metrics.AgentSteps.Observe(float64(step))
			return "", fmt.Errorf("agent step %d: %w", step, err)
		}
		output := strings.TrimRight(resp.Text(), " \n")

		if strings.Contains(output, finalAnswerMarker) {
			metrics.AgentSteps.Observe(float64(step))
			a.logger.Debug("agent finished", zap.Int("steps", step))
			return output, nil
		}

		var observation string
		action, input, ok := parseAction(output)
		if ok {
			observation = a.callTool(ctx, action, input)
			a.logger.Debug("agent action",
				zap.Int("step", step),
				zap.String("tool", action),
				zap.String("input", input),
			)
		} else {
			observation = "Invalid Format: Missing 'Action:' after 'Thought:'. " +
				"Either call a tool or reply with 'Final Answer:'."
		}

		// The prompt ends with "Thought:", so each turn continues that line.
		scratchpad.WriteString(" ")
		scratchpad.WriteString(strings.TrimSpace(output))
		scratchpad.WriteString("\nObservation: ")
		scratchpad.WriteString(observation)
		scratchpad.WriteString("\nThought:")
	}

	metrics.AgentSteps.Observe(float64(a.cfg.MaxSteps))
	return "", ErrMaxSteps
}

func (a *ReAct) callTool(ctx context.Context, name, input string) string {
	tool, ok := a.byName[name]
	if !ok {
		return fmt.Sprintf("%s is not a valid tool, try one of [%s].", name, a.toolNames())
	}
	out, err := tool.Run(ctx, input)
	if err != nil {
		a.logger.Warn("agent tool failed", zap.String("tool", name), zap.Error(err))
		return "Error: " + err.Error()
	}
	return llm.Preview(out, maxObservationLen)
}

func (a *ReAct) toolNames() string {
	names := make([]string, len(a.tools))
	for i, t := range a.tools {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func (a *ReAct) systemPrompt() string {
	var b strings.Builder
	b.WriteString("Answer the following questions as best you can. You have access to the following tools:\n\n")
	for _, t := range a.tools {
		fmt.Fprintf(&b, "%s: %s\n", t.Name, t.Description)
	}
	fmt.Fprintf(&b, `
Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [%s]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question

Begin!`, a.toolNames())
	return b.String()
}

var actionRe = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)

// parseAction extracts the tool name and input from one model turn.
func parseAction(output string) (name, input string, ok bool) {
	m := actionRe.FindStringSubmatch(output)
	if m == nil {
		return "", "", false
	}
	name = strings.Trim(strings.TrimSpace(m[1]), "`*")
	input = strings.TrimSpace(m[2])
	if i := strings.Index(input, "\n"); i >= 0 {
		input = strings.TrimSpace(input[:i])
	}
	input = strings.Trim(input, `"`)
	if name == "" {
		return "", "", false
	}
	return name, input, true
}
