package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/quizgen"
)

// GenerateRequest is the body of POST /generate-quiz.
type GenerateRequest struct {
	LearningObjective string `json:"learning_objective"`
	NumQuestions      *int   `json:"num_questions"`
	Validate          bool   `json:"validate"`
}

// GenerateResponse is the success body of POST /generate-quiz.
type GenerateResponse struct {
	Questions []quiz.APIQuestion `json:"questions"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) generateQuiz(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("quiz generation failed", zap.Any("panic", r), zap.String("request_id", c.GetString(requestIDKey)))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
				Error: fmt.Sprintf("Failed to generate quiz: %v", r),
			})
		}
	}()

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.LearningObjective = strings.TrimSpace(req.LearningObjective)
	if req.LearningObjective == "" {
		err := &quiz.InputError{Message: "Learning objective is required"}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	n := s.opts.DefaultNumQuestions
	if req.NumQuestions != nil {
		n = *req.NumQuestions
	}
	n = quizgen.ClampCount(n, 1, s.opts.MaxNumQuestions)

	// A client disconnect must not abort validations already in flight.
	ctx := context.WithoutCancel(c.Request.Context())
	qs := s.gen.Generate(ctx, req.LearningObjective, n, req.Validate)
	c.JSON(http.StatusOK, GenerateResponse{Questions: quiz.APIFormatAll(qs)})
}
