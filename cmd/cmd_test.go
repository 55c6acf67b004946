package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/store"
)

func sampleQuestion() quiz.Question {
	return quiz.Question{
		Question:      "Which gas do plants absorb?",
		OptionA:       "Oxygen",
		OptionB:       "Carbon dioxide",
		OptionC:       "Nitrogen",
		OptionD:       "Helium",
		CorrectAnswer: "b",
		Explanation:   "Photosynthesis consumes CO2.",
	}
}

func TestPrintQuiz(t *testing.T) {
	yes := true
	q := sampleQuestion().WithValidation(quiz.NewValidationResult(&yes, "Confirmed.", []string{"https://example.com/co2", "bogus"}))

	var buf bytes.Buffer
	printQuiz(&buf, []quiz.Question{sampleQuestion(), q})
	out := buf.String()

	assert.Contains(t, out, "1. Which gas do plants absorb?")
	assert.Contains(t, out, "   b) Carbon dioxide")
	assert.Contains(t, out, "   Answer: b")
	assert.Contains(t, out, "2. Which gas do plants absorb?")
	assert.Contains(t, out, "   Verified: true")
	assert.Contains(t, out, "   Source: https://example.com/co2")
	assert.NotContains(t, out, "bogus")
	assert.Equal(t, 1, strings.Count(out, "Verified:"))
}

func TestPrintVerdictInconclusive(t *testing.T) {
	var buf bytes.Buffer
	printVerdict(&buf, "", quiz.Inconclusive("Could not validate the answer: timeout"))

	assert.Equal(t, "Verified: unknown\nNotes: Could not validate the answer: timeout\n", buf.String())
}

func TestPrintEventTable(t *testing.T) {
	events := []store.LLMEventRecord{
		{
			ID:        2,
			Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			LLMRequestEventData: store.LLMRequestEventData{
				RequestID:    "0f8fad5b-d9cb-469f-a165-70867728950e",
				Purpose:      "answer-validate",
				Model:        "gpt-4o-mini",
				InputTokens:  120,
				OutputTokens: 40,
				LatencyMs:    900,
				Success:      false,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printEventTable(&buf, events))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "answer-validate")
	assert.Contains(t, lines[1], "0f8fad5b")
	assert.NotContains(t, lines[1], "d9cb")
	assert.Contains(t, lines[1], " no ")
}

func TestFailedEvents(t *testing.T) {
	events := []store.LLMEventRecord{
		{ID: 1, LLMRequestEventData: store.LLMRequestEventData{Success: true}},
		{ID: 2, LLMRequestEventData: store.LLMRequestEventData{Success: false}},
	}
	got := failedEvents(events)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestPrintModelCost(t *testing.T) {
	var buf bytes.Buffer
	err := printModelCost(&buf, []store.ModelUsage{
		{Model: "gpt-4o-mini", Calls: 3, InputTokens: 1_000_000, OutputTokens: 0},
		{Model: "mystery-model", Calls: 1},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "$0.15")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: mystery-model")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}

func newDBTestCommand() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().String("db", "", "")
	c.Flags().StringSlice("env-file", nil, "")
	return c
}

func TestResolveDBPath(t *testing.T) {
	c := newDBTestCommand()
	assert.Empty(t, resolveDBPath(c, &config.Config{}), "unset means the event log is disabled")
	assert.Equal(t, "env.db", resolveDBPath(c, &config.Config{DBPath: "env.db"}))

	require.NoError(t, c.Flags().Set("db", "flag.db"))
	assert.Equal(t, "flag.db", resolveDBPath(c, &config.Config{DBPath: "env.db"}))
}

func TestOpenStoreRequiresPath(t *testing.T) {
	t.Setenv("QUIZGEN_DB", "")
	c := newDBTestCommand()
	require.NoError(t, c.Flags().Set("env-file", filepath.Join(t.TempDir(), "missing.env")))

	_, err := openStore(c)
	assert.ErrorIs(t, err, errNoEventLog)

	path := filepath.Join(t.TempDir(), "events.db")
	require.NoError(t, c.Flags().Set("db", path))
	s, err := openStore(c)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, path)
}
