package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabprep/internal/cleanse"
	"tabprep/internal/config"
	transporthttp "tabprep/internal/transport/http"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(t *testing.T) *transporthttp.CleanseHandler {
	t.Helper()
	return transporthttp.NewCleanseHandler(testLogger(), cleanse.Options{}, nil, 32<<20)
}

const sampleCSV = "Numerical,Boolean,Character,Date\n" +
	"123,True,abc,2023-06-28\n" +
	"NA,NA,None,N.A.\n" +
	"20,false,cde,20230629\n"

func TestCleanseReturnsCSV(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cleanse", strings.NewReader(sampleCSV))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()

	handler.Cleanse(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Numerical,Boolean,Character,Date", lines[0])
	assert.Equal(t, "123,true,abc,2023-06-28", lines[1])
	// Missing cells take each type's empty representation; the csv writer
	// quotes the single-space fields because they start with whitespace.
	assert.Equal(t, `,," "," "`, lines[2])
	assert.Equal(t, "20,false,cde,2023-06-29", lines[3])
}

func TestCleanseReturnsReport(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cleanse?output=report", strings.NewReader(sampleCSV))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()

	handler.Cleanse(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report transporthttp.CleanseReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Rows)
	require.Len(t, report.Columns, 4)

	byName := make(map[string]transporthttp.ColumnReport)
	for _, col := range report.Columns {
		byName[col.Name] = col
	}
	assert.Equal(t, "numeric", byName["Numerical"].Type)
	assert.Equal(t, "boolean", byName["Boolean"].Type)
	assert.Equal(t, "text", byName["Character"].Type)
	assert.Equal(t, "date", byName["Date"].Type)
	assert.Equal(t, 1, byName["Numerical"].Missing)
	assert.Equal(t, 1, byName["Date"].Missing)
}

func TestCleanseMultipartUpload(t *testing.T) {
	handler := newTestHandler(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "input.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cleanse", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.Cleanse(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2023-06-29")
}

func TestCleanseBOMOption(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cleanse?bom=true", strings.NewReader("a\n1\n"))
	rec := httptest.NewRecorder()

	handler.Cleanse(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
}

func TestCleanseInvalidOutputOption(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cleanse?output=xml", strings.NewReader(sampleCSV))
	rec := httptest.NewRecorder()

	handler.Cleanse(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestCleanseInvalidBOMOption(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cleanse?bom=sure", strings.NewReader(sampleCSV))
	rec := httptest.NewRecorder()

	handler.Cleanse(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCleanseMalformedInput(t *testing.T) {
	handler := newTestHandler(t)

	// Duplicate column names are a structural violation.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cleanse", strings.NewReader("a,a\n1,2\n"))
	rec := httptest.NewRecorder()

	handler.Cleanse(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "MALFORMED_TABLE")
}

func TestCleanseEmptyBody(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cleanse", strings.NewReader(""))
	rec := httptest.NewRecorder()

	handler.Cleanse(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCleanseOversizeRawBody(t *testing.T) {
	handler := transporthttp.NewCleanseHandler(testLogger(), cleanse.Options{}, nil, 100)

	body := "value\n" + strings.Repeat("12345\n", 200)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cleanse", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()

	handler.Cleanse(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAYLOAD_TOO_LARGE")
	// The transport-level cause stays out of the response envelope.
	assert.NotContains(t, rec.Body.String(), "request body too large")
}

func TestCleanseOversizeMultipartBody(t *testing.T) {
	handler := transporthttp.NewCleanseHandler(testLogger(), cleanse.Options{}, nil, 100)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "input.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("value\n" + strings.Repeat("12345\n", 3000)))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cleanse", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.Cleanse(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAYLOAD_TOO_LARGE")
}

func TestRouterEndToEnd(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RateLimit.Enabled = false

	router := transporthttp.NewRouter(transporthttp.RouterDeps{
		Logger:  testLogger(),
		Config:  &cfg,
		Version: "test",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cleanse", strings.NewReader(sampleCSV))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestRateLimitMiddleware(t *testing.T) {
	limited := transporthttp.RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// The single burst token is spent; the next request is rejected.
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
