package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/export"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/quizgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate <learning objective>",
	Short: "Generate a quiz from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		objective := strings.TrimSpace(strings.Join(args, " "))
		if objective == "" {
			return &quiz.InputError{Message: "Learning objective is required"}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := newServices(ctx, cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		n := svc.cfg.DefaultNumQuestions
		if cmd.Flags().Changed("num") {
			n, _ = cmd.Flags().GetInt("num")
		}
		n = quizgen.ClampCount(n, 1, svc.cfg.MaxNumQuestions)
		validate, _ := cmd.Flags().GetBool("validate")
		asJSON, _ := cmd.Flags().GetBool("json")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")

		qs := svc.generator.Generate(ctx, objective, n, validate)

		if xlsxPath != "" {
			if err := writeXLSX(xlsxPath, objective, qs); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %d questions to %s\n", len(qs), xlsxPath)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"questions": quiz.APIFormatAll(qs)})
		}
		printQuiz(os.Stdout, qs)
		return nil
	},
}

func writeXLSX(path, objective string, qs []quiz.Question) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteXLSX(f, objective, qs); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}

func printQuiz(w io.Writer, qs []quiz.Question) {
	for i, q := range qs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, q.Question)
		fmt.Fprintf(w, "   a) %s\n", q.OptionA)
		fmt.Fprintf(w, "   b) %s\n", q.OptionB)
		fmt.Fprintf(w, "   c) %s\n", q.OptionC)
		fmt.Fprintf(w, "   d) %s\n", q.OptionD)
		fmt.Fprintf(w, "   Answer: %s\n", q.CorrectAnswer)
		fmt.Fprintf(w, "   Explanation: %s\n", q.Explanation)
		if q.Validation != nil {
			printVerdict(w, "   ", *q.Validation)
		}
	}
}

func printVerdict(w io.Writer, indent string, v quiz.ValidationResult) {
	fmt.Fprintf(w, "%sVerified: %s\n", indent, v.Verdict())
	if v.Explanation != "" {
		fmt.Fprintf(w, "%sNotes: %s\n", indent, v.Explanation)
	}
	for _, src := range v.Sources {
		fmt.Fprintf(w, "%sSource: %s\n", indent, src)
	}
}

func init() {
	generateCmd.Flags().IntP("num", "n", 3, "Number of questions (overrides DEFAULT_NUM_QUESTIONS)")
	generateCmd.Flags().Bool("validate", false, "Fact-check each correct answer with web search")
	generateCmd.Flags().Bool("json", false, "Print the API JSON instead of text")
	generateCmd.Flags().String("xlsx", "", "Also write the quiz to this Excel file")
}
