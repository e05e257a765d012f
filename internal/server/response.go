package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studybuddy/internal/knowledge"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/study"
)

const internalErrorMessage = "Internal server error"

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// studyError maps a pipeline failure to a status and body. Only the
// generic branch hides its detail in production.
func (s *Server) studyError(err error) (int, errorBody) {
	var notFound *knowledge.NotFoundError
	switch {
	case errors.Is(err, study.ErrEmptyQuery):
		return http.StatusBadRequest, errorBody{Error: "Topic parameter is required", Message: err.Error()}
	case errors.Is(err, study.ErrInvalidMode):
		return http.StatusBadRequest, errorBody{Error: "Invalid mode", Message: err.Error()}
	case errors.As(err, &notFound):
		return http.StatusNotFound, errorBody{Error: "Topic not found", Message: err.Error()}
	case errors.Is(err, llm.ErrNotConfigured):
		return http.StatusInternalServerError, errorBody{Error: "AI service not configured", Message: s.detail(err)}
	default:
		return http.StatusInternalServerError, errorBody{Error: "Failed to generate study material", Message: s.detail(err)}
	}
}

func (s *Server) detail(err error) string {
	if s.production {
		return internalErrorMessage
	}
	return err.Error()
}

// recovery is the gin recovery hook. gin has already logged the stack.
func (s *Server) recovery(c *gin.Context, recovered any) {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}
	s.log.Error("panic while serving request",
		"path", c.Request.URL.Path,
		"request_id", c.GetString(requestIDKey),
		"error", err,
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{
		Error:   "Something went wrong!",
		Message: s.detail(err),
	})
}
