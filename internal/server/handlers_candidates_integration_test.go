//go:build integration

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-screener/internal/db"
)

// This test requires a running PostgreSQL database.
// Set TEST_DATABASE_URL environment variable to run it.

func getIntegrationServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(database.Close)
	require.NoError(t, database.Migrate(ctx))

	s := newServer(database, &fakeClient{response: `{
		"candidate_name": "Bulk Candidate",
		"overall_match_score": 75,
		"star_rating": 4.0,
		"recommendation": "RECOMMENDED"
	}`})
	t.Cleanup(s.rateLimiter.Stop)
	return s, database
}

func TestIntegration_BulkAnalyze_PartialFailure(t *testing.T) {
	s, database := getIntegrationServer(t)
	ctx := context.Background()

	jdID, err := database.CreateJD(ctx, db.CreateJDParams{
		Title:       "Integration Test Bulk",
		Description: "Build backend services.",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = database.DeleteJD(ctx, jdID) })

	// Three uploads, one with an extension the extractor rejects. The bad
	// file must fail alone without aborting the batch.
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("jd_id", jdID.String()))
	for _, f := range []struct{ name, content string }{
		{"alice.txt", "Alice Example\n10 years of Go."},
		{"broken.odt", "not a supported format"},
		{"bob.txt", "Bob Example\n5 years of SQL."},
	} {
		part, err := form.CreateFormFile("resumes", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/candidates/bulk-analyze", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Processed int `json:"processed"`
		Failed    int `json:"failed"`
		Results   []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Filename string `json:"filename"`
		} `json:"results"`
		Errors []struct {
			File  string `json:"file"`
			Error string `json:"error"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Every upload is accounted for exactly once.
	assert.Equal(t, 3, resp.Processed+resp.Failed)
	assert.Equal(t, 2, resp.Processed)
	assert.Equal(t, 1, resp.Failed)

	badFiles := 0
	for _, e := range resp.Errors {
		if e.File == "broken.odt" {
			badFiles++
			assert.NotEmpty(t, e.Error)
		}
	}
	assert.Equal(t, 1, badFiles, "failing filename must appear exactly once")

	// Successful files preserve upload order and were persisted.
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "alice.txt", resp.Results[0].Filename)
	assert.Equal(t, "bob.txt", resp.Results[1].Filename)

	stored, err := database.ListCandidates(ctx, db.CandidateFilters{JDID: jdID})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
