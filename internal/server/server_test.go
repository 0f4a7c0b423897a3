package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-screener/internal/db"
	"github.com/jonathan/talent-screener/internal/llm"
)

// fakeClient is a canned llm.Client for handler tests.
type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) Generate(_ context.Context, _ llm.Request) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

// newTestServer builds a server with no database. Only routes that fail
// validation before touching storage may be exercised against it.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	s := newServer(nil, &fakeClient{response: "{}"})
	t.Cleanup(s.rateLimiter.Stop)
	return s.routes()
}

func TestHandleHealth(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleRoot(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "talent-screener")
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/jds", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitHeaders(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
}

func TestInvalidIDsRejected(t *testing.T) {
	handler := newTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/jds/not-a-uuid"},
		{http.MethodDelete, "/api/jds/not-a-uuid"},
		{http.MethodGet, "/api/candidates/not-a-uuid"},
		{http.MethodDelete, "/api/candidates/not-a-uuid"},
		{http.MethodDelete, "/api/emails/templates/not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateJD_InvalidBody(t *testing.T) {
	handler := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"title":`},
		{"missing title", `{"description":"Build services."}`},
		{"missing description", `{"title":"Backend Engineer"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/jds", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestGenerateJD_RequiresBrief(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/jds/generate",
		strings.NewReader(`{"title":"Backend Engineer"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Brief")
}

func TestCompare_RequiresTwoIDs(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/candidates/compare",
		strings.NewReader(`{"candidate_ids":["5b7cbbde-6a70-4bba-9f0c-8a2f5a5e6e44"]}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut,
		"/api/candidates/5b7cbbde-6a70-4bba-9f0c-8a2f5a5e6e44/status",
		strings.NewReader(`{"status":"promoted"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "oneof")
}

func TestChat_RequiresMessage(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_RequiresMultipart(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/candidates/analyze",
		strings.NewReader(`{"jd_id":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateEmail_RequiresTemplateType(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/emails/generate",
		strings.NewReader(`{"candidate_name":"Ada"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"senior_backend-engineer.pdf", "Senior Backend Engineer"},
		{"data scientist.docx", "Data Scientist"},
		{"PLATFORM_LEAD.txt", "Platform Lead"},
		{"role.pdf", "Role"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, titleFromFilename(tt.in), tt.in)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.RemoteAddr = "garbage"
	assert.Equal(t, "garbage", clientIP(req))
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{Field: "title", Message: "required"}))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}

// Extraction failures are the client's fault and must map to 400;
// plain errors (persistence) keep mapping to 500.
func TestAnalyzeAndStore_ExtractionErrorsAreClientErrors(t *testing.T) {
	s := newServer(nil, &fakeClient{response: "{}"})
	t.Cleanup(s.rateLimiter.Stop)
	jd := &db.JobDescription{Title: "Backend Engineer"}

	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"unsupported format", "resume.odt", []byte("whatever")},
		{"malformed pdf", "resume.pdf", []byte("not a pdf")},
		{"empty text", "resume.txt", []byte("   \n\n  ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.analyzeAndStore(context.Background(), jd, tt.filename, tt.data)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
		})
	}
}

func TestMessagePreview(t *testing.T) {
	assert.Equal(t, "short", messagePreview("short", 100))

	long := strings.Repeat("é", 120)
	got := messagePreview(long, 100)
	assert.Equal(t, 100, len([]rune(got)))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 100), got)
}
