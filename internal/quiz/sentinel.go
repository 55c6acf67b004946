package quiz

import "fmt"

const sentinelExplanation = "Failed to generate valid quiz data due to an error in processing the request."

// Sentinel returns the single placeholder question served when generation
// fails, so callers always receive a valid, non-empty question list.
func Sentinel(err error) []Question {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return []Question{{
		Question:      fmt.Sprintf("Error generating quiz question: %s", msg),
		OptionA:       "Contact administrator",
		OptionB:       "Try again later",
		OptionC:       "Provide a different learning objective",
		OptionD:       "Check API configuration",
		CorrectAnswer: AnswerC,
		Explanation:   sentinelExplanation,
	}}
}

// IsSentinel reports whether qs is the placeholder returned by Sentinel.
func IsSentinel(qs []Question) bool {
	return len(qs) == 1 && qs[0].Explanation == sentinelExplanation && qs[0].OptionD == "Check API configuration"
}
