package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/ropeworks/internal/config"
	"github.com/JonMunkholm/ropeworks/internal/core"
	"github.com/JonMunkholm/ropeworks/internal/sheet"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{Port: 8080, RequestTimeout: 5 * time.Second},
		Import:     config.ImportConfig{MaxFileSize: 1024, MaxConcurrent: 1, MaxWaitTime: time.Second},
		Pagination: config.PaginationConfig{PageSize: 10, MaxPageSize: 100},
		Security:   config.SecurityConfig{EnableCSP: true},
	}
}

// newTestServer builds a server whose service has no database. Only routes
// that fail before touching the pool can be exercised.
func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	svc, err := core.NewService(nil, core.Options{
		MaxConcurrentImports: cfg.Import.MaxConcurrent,
		ImportMaxWait:        cfg.Import.MaxWaitTime,
	})
	require.NoError(t, err)
	s := NewServer(svc, cfg)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, field, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/work-jobs/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportStatus(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/import-status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status core.ImportLimiterStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, core.ImportLimiterStatus{Active: 0, Available: 1, MaxConcurrent: 1, Busy: false}, status)
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/import-status", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")

	cfg := testConfig()
	cfg.Security.EnableCSP = false
	rec = do(newTestServer(t, cfg), httptest.NewRequest(http.MethodGet, "/api/import-status", nil))
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestCreateWorkJob_Validation(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(s, jsonRequest(http.MethodPost, "/api/work-jobs", `{"code":"J1"}`))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "VAL001", body.Code)
	var fields []string
	for _, f := range body.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"description", "client_name", "client_id"}, fields)
}

func TestCreateWorkJob_BadBody(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"code":`},
		{"unknown field", `{"code":"J1","colour":"red"}`},
		{"two documents", `{"code":"J1"} {"code":"J2"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, jsonRequest(http.MethodPost, "/api/work-jobs", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "REQ003", decodeError(t, rec).Code)
		})
	}
}

func TestCreateDailyReport_Validation(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			name:     "bad date",
			body:     `{"employee_id":1,"work_job_id":2,"report_date":"01/03/2024","work_entries":[{"work_type_id":3,"start_time":"07:00","end_time":"15:00"}]}`,
			wantCode: "VAL003",
		},
		{
			name:     "bad time",
			body:     `{"employee_id":1,"work_job_id":2,"report_date":"2024-03-01","work_entries":[{"work_type_id":3,"start_time":"7","end_time":"15:00"}]}`,
			wantCode: "VAL002",
		},
		{
			name:     "no entries",
			body:     `{"employee_id":1,"work_job_id":2,"report_date":"2024-03-01","work_entries":[]}`,
			wantCode: "RPT002",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, jsonRequest(http.MethodPost, "/api/daily-reports", tt.body))
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestPathID_Rejected(t *testing.T) {
	s := newTestServer(t, testConfig())

	for _, path := range []string{"/api/work-jobs/abc", "/api/employees/0", "/api/daily-reports/-4"} {
		rec := do(s, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/daily-reports?employee_id=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFoundRoute(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NF001", decodeError(t, rec).Code)
}

func TestImportWorkJobs_RejectedUploads(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantCode   string
	}{
		{"no file field", uploadRequest(t, "", "", nil), http.StatusBadRequest, "FILE004"},
		{"wrong field name", uploadRequest(t, "upload", "jobs.csv", []byte("a,b\n")), http.StatusBadRequest, "FILE004"},
		{"unsupported extension", uploadRequest(t, "file", "jobs.pdf", []byte("%PDF")), http.StatusUnsupportedMediaType, "FILE002"},
		{"over the limit", uploadRequest(t, "file", "jobs.csv", bytes.Repeat([]byte("x"), 2048)), http.StatusRequestEntityTooLarge, "FILE001"},
		{"not multipart", jsonRequest(http.MethodPost, "/api/work-jobs/import", `{}`), http.StatusBadRequest, "FILE004"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, tt.req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, ImportLimit: 1}
	s := newTestServer(t, cfg)

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/import-status", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		return do(s, req)
	}
	assert.Equal(t, http.StatusOK, get().Code)
	assert.Equal(t, http.StatusOK, get().Code)

	rec := get()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE001", decodeError(t, rec).Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimit_ImportRouteIsStricter(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 100, ImportLimit: 1}
	s := newTestServer(t, cfg)

	send := func() *httptest.ResponseRecorder {
		req := uploadRequest(t, "file", "jobs.pdf", []byte("x"))
		req.RemoteAddr = "203.0.113.10:1"
		return do(s, req)
	}
	assert.Equal(t, http.StatusUnsupportedMediaType, send().Code)
	assert.Equal(t, http.StatusTooManyRequests, send().Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("work job 9: %w", core.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("work job already exists: %w", core.ErrConflict), http.StatusConflict},
		{core.ValidationErrors{{Field: "code", Message: "is required"}}, http.StatusUnprocessableEntity},
		{core.ValidationError{Field: "work_entries", Message: "report has no entries"}, http.StatusUnprocessableEntity},
		{fmt.Errorf("daily report: %w", core.ErrInvalidReference), http.StatusUnprocessableEntity},
		{core.ErrImportBusy, http.StatusTooManyRequests},
		{core.ErrNoFile, http.StatusBadRequest},
		{core.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("%w %q", sheet.ErrUnsupportedType, ".pdf"), http.StatusUnsupportedMediaType},
		{fmt.Errorf("open xlsx: no worksheet found: %w", sheet.ErrEmpty), http.StatusBadRequest},
		{errors.New("open xlsx: zip: not a valid zip file"), http.StatusUnprocessableEntity},
		{fmt.Errorf("import cancelled: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRequestTimeout_NotAppliedToImport(t *testing.T) {
	s := newTestServer(t, testConfig())
	timeout := reflect.ValueOf(s.requestTimeout).Pointer()

	timed := make(map[string]bool)
	err := chi.Walk(s.Router(), func(method, route string, _ http.Handler, mws ...func(http.Handler) http.Handler) error {
		for _, mw := range mws {
			if reflect.ValueOf(mw).Pointer() == timeout {
				timed[method+" "+route] = true
			}
		}
		return nil
	})
	require.NoError(t, err)

	assert.False(t, timed["POST /api/work-jobs/import"], "import must run under IMPORT_TIMEOUT only")
	for _, route := range []string{
		"GET /healthz",
		"GET /api/import-status",
		"POST /api/work-jobs/",
		"GET /api/work-jobs/{id}",
		"PUT /api/daily-reports/{id}",
		"GET /api/employees/",
	} {
		assert.True(t, timed[route], route)
	}
}
