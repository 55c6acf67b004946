package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/quiz"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Fact-check a single question's answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		question, _ := cmd.Flags().GetString("question")
		answer, _ := cmd.Flags().GetString("answer")
		explanation, _ := cmd.Flags().GetString("explanation")
		if question == "" || answer == "" {
			return &quiz.InputError{Message: "--question and --answer are required"}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := newServices(ctx, cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		result := svc.validator.Validate(ctx, question, answer, explanation)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		printVerdict(os.Stdout, "", result)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringP("question", "q", "", "Question text")
	validateCmd.Flags().StringP("answer", "a", "", "Text of the claimed correct answer")
	validateCmd.Flags().StringP("explanation", "e", "", "Explanation given for the answer")
	validateCmd.Flags().Bool("json", false, "Print the verdict as JSON")
}
