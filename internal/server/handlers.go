package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-engine/internal/assessment"
)

// CreateAssessmentRequest starts an assessment for an application
type CreateAssessmentRequest struct {
	JobID         string `json:"job_id" validate:"required,uuid"`
	ApplicationID string `json:"application_id" validate:"required,uuid"`
}

// TextRequest carries candidate input. Empty text is valid input.
type TextRequest struct {
	Text string `json:"text" validate:"max=20000"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"assessments": s.registry.Len(),
	})
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssessmentRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	jobID := uuid.MustParse(req.JobID)
	applicationID := uuid.MustParse(req.ApplicationID)

	c := assessment.New(s.deps, s.opts...)
	if err := c.Start(r.Context(), jobID, applicationID); err != nil {
		c.Close()
		s.fail(w, err)
		return
	}
	s.registry.Add(c)

	s.jsonResponse(w, http.StatusCreated, c.Snapshot())
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	c, err := s.coordinator(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c.Snapshot())
}

func (s *Server) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !s.registry.Remove(id) {
		s.fail(w, &ErrAssessmentNotFound{ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(c *assessment.Coordinator) error {
		return c.Begin(r.Context())
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(c *assessment.Coordinator) error {
		return c.Cancel()
	})
}

func (s *Server) handleTypingInput(w http.ResponseWriter, r *http.Request) {
	s.actWithText(w, r, func(c *assessment.Coordinator, text string) error {
		_, err := c.TypingInput(r.Context(), text)
		return err
	})
}

func (s *Server) handleTypingFocusLoss(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(c *assessment.Coordinator) error {
		return c.TypingFocusLost()
	})
}

func (s *Server) handleTypingSubmit(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(c *assessment.Coordinator) error {
		_, err := c.SubmitTyping(r.Context())
		return err
	})
}

func (s *Server) handleInterviewDraft(w http.ResponseWriter, r *http.Request) {
	s.actWithText(w, r, func(c *assessment.Coordinator, text string) error {
		return c.InterviewDraft(text)
	})
}

func (s *Server) handleInterviewAnswer(w http.ResponseWriter, r *http.Request) {
	s.actWithText(w, r, func(c *assessment.Coordinator, text string) error {
		_, err := c.SubmitAnswer(r.Context(), text)
		return err
	})
}

func (s *Server) handleInterviewBack(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(c *assessment.Coordinator) error {
		return c.PreviousQuestion()
	})
}

func (s *Server) handlePersistRetry(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(c *assessment.Coordinator) error {
		return c.RetryPersist(r.Context())
	})
}

func (s *Server) handlePersistBypass(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(c *assessment.Coordinator) error {
		return c.BypassPersist(r.Context())
	})
}

// act runs an event against the addressed coordinator and responds with the new snapshot.
// A failed save still answers with the snapshot so the client can offer retry or bypass.
func (s *Server) act(w http.ResponseWriter, r *http.Request, fn func(*assessment.Coordinator) error) {
	c, err := s.coordinator(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := fn(c); err != nil {
		var persistErr *assessment.PersistError
		if errors.As(err, &persistErr) {
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]any{
				"error":    err.Error(),
				"snapshot": c.Snapshot(),
			})
			return
		}
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c.Snapshot())
}

func (s *Server) actWithText(w http.ResponseWriter, r *http.Request, fn func(*assessment.Coordinator, string) error) {
	var req TextRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.act(w, r, func(c *assessment.Coordinator) error {
		return fn(c, req.Text)
	})
}

func (s *Server) coordinator(r *http.Request) (*assessment.Coordinator, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return s.registry.Get(id)
}

// decode reads a JSON body into req and validates it
func (s *Server) decode(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "request body is required"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validator.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}
