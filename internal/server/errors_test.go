package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/assessment-engine/internal/assessment"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &ErrValidation{Field: "text", Message: "max"}, want: http.StatusBadRequest},
		{name: "unknown assessment", err: &ErrAssessmentNotFound{ID: uuid.New()}, want: http.StatusNotFound},
		{name: "config", err: &assessment.ConfigError{Message: "job has no assessment config"}, want: http.StatusNotFound},
		{name: "state", err: &assessment.StateError{Op: "begin a phase", State: "typing-test is active"}, want: http.StatusConflict},
		{name: "persist", err: &assessment.PersistError{Step: "typing result", Cause: errors.New("down")}, want: http.StatusServiceUnavailable},
		{name: "wrapped state", err: fmt.Errorf("event: %w", &assessment.StateError{Op: "x", State: "y"}), want: http.StatusConflict},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	id := uuid.MustParse("6f1d2c3b-0000-4000-8000-0000000000aa")
	assert.Equal(t, "assessment not found: "+id.String(), (&ErrAssessmentNotFound{ID: id}).Error())
	assert.Equal(t, "validation error: id - must be a UUID", (&ErrValidation{Field: "id", Message: "must be a UUID"}).Error())
}
