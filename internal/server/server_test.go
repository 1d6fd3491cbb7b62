package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/assessment-engine/internal/assessment"
	"github.com/jonathan/assessment-engine/internal/interview"
	"github.com/jonathan/assessment-engine/internal/types"
)

var (
	testJobID = uuid.MustParse("6f1d2c3b-0000-4000-8000-000000000001")
	testAppID = uuid.MustParse("6f1d2c3b-0000-4000-8000-000000000002")
)

// memStore is an in-memory assessment.Store
type memStore struct {
	mu            sync.Mutex
	cfg           types.JobAssessmentConfig
	failInterview int
	statuses      []types.ApplicationStatus
}

func (m *memStore) FetchJobConfig(_ context.Context, id uuid.UUID) (*types.JobAssessmentConfig, error) {
	if id != testJobID {
		return nil, nil
	}
	cfg := m.cfg
	return &cfg, nil
}

func (m *memStore) FetchApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
	if id != testAppID {
		return nil, nil
	}
	return &types.Application{ID: testAppID, JobID: testJobID, ATSScore: 90}, nil
}

func (m *memStore) PersistTypingResult(context.Context, uuid.UUID, types.TypingTestResult) error {
	return nil
}

func (m *memStore) PersistInterviewResult(context.Context, uuid.UUID, assessment.InterviewRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInterview > 0 {
		m.failInterview--
		return errors.New("connection reset")
	}
	return nil
}

func (m *memStore) UpdateApplicationStatus(_ context.Context, _ uuid.UUID, status types.ApplicationStatus, _ *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
	return nil
}

type fixedEvaluator int

func (e fixedEvaluator) Evaluate(_ context.Context, q types.Question, a types.Answer) (types.QuestionEvaluation, error) {
	return interview.DeriveEvaluation(q, a, int(e), 50, "ok", nil), nil
}

func setupServer(t *testing.T) (*Server, *memStore) {
	t.Helper()
	store := &memStore{cfg: types.JobAssessmentConfig{
		TypingEnabled:       false,
		TotalQuestions:      2,
		Distribution:        types.Distribution{types.CategoryCoding: 50, types.CategoryDSA: 50},
		Difficulty:          types.DifficultyEasy,
		MinimumPassingScore: 60,
		ATSMinimumScore:     50,
	}}
	s := New(Config{Port: 0}, assessment.Deps{
		Store:     store,
		Evaluator: fixedEvaluator(75),
	}, assessment.WithRand(nil), assessment.WithInterviewDelay(0))
	t.Cleanup(s.Registry().CloseAll)
	return s, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) assessment.Snapshot {
	t.Helper()
	var snap assessment.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func createAssessment(t *testing.T, h http.Handler) assessment.Snapshot {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/assessments",
		`{"job_id": "`+testJobID.String()+`", "application_id": "`+testAppID.String()+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeSnapshot(t, rec)
}

func TestHealth(t *testing.T) {
	s, _ := setupServer(t)

	rec := do(t, s.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok", "assessments": 0}`, rec.Body.String())
}

func TestCreateAssessment(t *testing.T) {
	s, _ := setupServer(t)

	snap := createAssessment(t, s.Handler())

	assert.Equal(t, assessment.ViewOverview, snap.View)
	assert.Equal(t, testAppID, snap.ApplicationID)
	assert.Len(t, snap.Phases, 3)
	assert.Equal(t, 1, s.Registry().Len())
}

func TestCreateAssessment_BadRequests(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "empty body", body: "", status: http.StatusBadRequest},
		{name: "invalid JSON", body: "{", status: http.StatusBadRequest},
		{name: "missing application", body: `{"job_id": "` + testJobID.String() + `"}`, status: http.StatusBadRequest},
		{name: "not a uuid", body: `{"job_id": "abc", "application_id": "` + testAppID.String() + `"}`, status: http.StatusBadRequest},
		{name: "unknown job", body: `{"job_id": "` + uuid.NewString() + `", "application_id": "` + testAppID.String() + `"}`, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/assessments", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
	assert.Equal(t, 0, s.Registry().Len())
}

func TestGetAssessment_NotFound(t *testing.T) {
	s, _ := setupServer(t)

	rec := do(t, s.Handler(), http.MethodGet, "/assessments/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s.Handler(), http.MethodGet, "/assessments/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInterviewFlow(t *testing.T) {
	s, store := setupServer(t)
	h := s.Handler()
	base := "/assessments/" + createAssessment(t, h).ID.String()

	rec := do(t, h, http.MethodPost, base+"/begin", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, assessment.ViewInterview, snap.View)
	require.NotNil(t, snap.Interview)
	assert.Equal(t, 2, snap.Interview.Total)

	rec = do(t, h, http.MethodPost, base+"/typing/input", `{"text": "hello"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPut, base+"/interview/draft", `{"text": "thinking"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "thinking", decodeSnapshot(t, rec).Interview.Draft)

	rec = do(t, h, http.MethodPost, base+"/interview/answer", `{"text": "first answer"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/interview/back", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "first answer", decodeSnapshot(t, rec).Interview.Draft)

	do(t, h, http.MethodPost, base+"/interview/answer", `{"text": "first answer, revised"}`)
	rec = do(t, h, http.MethodPost, base+"/interview/answer", `{"text": "second answer"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	snap = decodeSnapshot(t, rec)
	assert.Equal(t, assessment.ViewResults, snap.View)
	require.NotNil(t, snap.Outcome)
	assert.True(t, snap.Outcome.Passed)
	require.NotNil(t, snap.Outcome.Score)
	assert.Equal(t, 75, *snap.Outcome.Score)
	assert.Equal(t, []types.ApplicationStatus{types.ApplicationStatusUnderReview}, store.statuses)

	rec = do(t, h, http.MethodPost, base+"/cancel", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPersistFailure_ReturnsSnapshot(t *testing.T) {
	s, store := setupServer(t)
	store.failInterview = 1
	h := s.Handler()
	base := "/assessments/" + createAssessment(t, h).ID.String()

	do(t, h, http.MethodPost, base+"/begin", "")
	do(t, h, http.MethodPost, base+"/interview/answer", `{"text": "a"}`)
	rec := do(t, h, http.MethodPost, base+"/interview/answer", `{"text": "b"}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Error    string              `json:"error"`
		Snapshot assessment.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "connection reset")
	assert.Equal(t, "interview result", body.Snapshot.PendingSave)

	rec = do(t, h, http.MethodPost, base+"/persist/retry", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, decodeSnapshot(t, rec).Outcome)

	rec = do(t, h, http.MethodPost, base+"/persist/bypass", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelAndDelete(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()
	base := "/assessments/" + createAssessment(t, h).ID.String()

	do(t, h, http.MethodPost, base+"/begin", "")
	rec := do(t, h, http.MethodPost, base+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, assessment.ViewOverview, decodeSnapshot(t, rec).View)

	rec = do(t, h, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTextRequest_TooLong(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()
	base := "/assessments/" + createAssessment(t, h).ID.String()
	do(t, h, http.MethodPost, base+"/begin", "")

	body, err := json.Marshal(TextRequest{Text: strings.Repeat("a", 20001)})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, base+"/interview/answer", string(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Text")
}

func TestCORSPreflight(t *testing.T) {
	s, _ := setupServer(t)

	rec := do(t, s.Handler(), http.MethodOptions, "/assessments", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
