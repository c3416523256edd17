package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gear-cost/core/deficit"
	"gear-cost/core/refdata"
	"gear-cost/internal/metrics"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	ref, err := refdata.Default()
	require.NoError(t, err)
	engine, err := deficit.New(ref)
	require.NoError(t, err)
	return NewServer(engine, append([]Option{WithVersion("test")}, opts...)...)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

const greenToBlue = `{
  "parts": [{"part": "Coat", "current": "Green", "target": "Blue"}],
  "owned": [{"resource": "Alloy", "amount": 1000}, {"resource": "Polish", "amount": 100}],
  "purchases": {"Mystery_$5": 1}
}`

func TestDeficitEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/deficit", greenToBlue)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var resp struct {
		Report   deficit.Report `json:"report"`
		Metadata struct {
			Version   string `json:"version"`
			RequestID string `json:"request_id"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []deficit.Row{
		{Resource: "Alloy", Required: 5300, Owned: 1000, Deficit: 4300},
		{Resource: "Polish", Required: 55, Owned: 100, Deficit: 0},
	}, resp.Report.Rows)
	assert.Equal(t, []string{"Mystery_$5"}, resp.Report.IgnoredBundles)
	assert.Equal(t, "test", resp.Metadata.Version)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), resp.Metadata.RequestID)
}

func TestDeficitEndpointFormats(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/deficit?format=csv", greenToBlue)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Resource,Required,Owned,Deficit\nAlloy,5300,1000,4300\nPolish,55,100,0\n", rec.Body.String())

	rec = do(t, s, http.MethodPost, "/deficit?format=table", greenToBlue)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "\033[")

	rec = do(t, s, http.MethodPost, "/deficit?format=xml", greenToBlue)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeUnsupported, decodeError(t, rec).Code)
}

func TestDeficitEndpointErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "bad json", body: `{"parts": [`, status: http.StatusBadRequest, code: CodeInvalidJSON},
		{
			name:   "negative amount",
			body:   `{"owned": [{"resource": "Alloy", "amount": -5}]}`,
			status: http.StatusBadRequest,
			code:   CodeValidation,
		},
		{
			name:   "negative purchase",
			body:   `{"owned": [], "purchases": {"Sublime_$5": -1}}`,
			status: http.StatusBadRequest,
			code:   CodeValidation,
		},
		{
			name:   "bundle total overflows",
			body:   `{"owned": [{"resource": "Alloy", "amount": 0}], "purchases": {"Sublime_$5": 2000000000000000}}`,
			status: http.StatusBadRequest,
			code:   CodeValidation,
		},
		{
			name:   "unknown tier",
			body:   `{"parts": [{"part": "Hat", "current": "Green", "target": "Platinum"}], "owned": []}`,
			status: http.StatusUnprocessableEntity,
			code:   CodeUnknownTier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/deficit", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestUnknownTierDetails(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/deficit",
		`{"parts": [{"part": "Hat", "current": "Gren", "target": "Blue"}], "owned": []}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Hat", body.Details["part"])
	assert.Contains(t, body.Details["did_you_mean"], "Green")
}

func TestRequestTooLarge(t *testing.T) {
	s := newTestServer(t, WithMaxBodyBytes(16))
	rec := do(t, s, http.MethodPost, "/deficit", greenToBlue)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestReferenceEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("tiers", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/tiers", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp TiersResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Green", resp.Tiers[0].Name)
		assert.Equal(t, "Gold", resp.Default)
		assert.Equal(t, refdata.EmbeddedSource, resp.Source)
	})

	t.Run("bundles", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/bundles?category=Sublime", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp BundlesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Bundles)
		assert.Equal(t, "Sublime_$5", resp.Bundles[0].Key)
		require.NotNil(t, resp.Bundles[0].Price)
		assert.Equal(t, "5", resp.Bundles[0].Price.String())

		rec = do(t, s, http.MethodGet, "/bundles?category=Nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("layout", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/layout", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp LayoutResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Groups, 3)
		assert.Equal(t, "Design Plans", resp.Resources[0].Label)
	})

	t.Run("health and version", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"healthy"`)

		rec = do(t, s, http.MethodGet, "/version", "")
		assert.Contains(t, rec.Body.String(), `"test"`)
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/deficit", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, WithRateLimit(0.001, 2))

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/version", "").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/version", "").Code)

	rec := do(t, s, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, CodeRateLimited, decodeError(t, rec).Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
}

func TestGzip(t *testing.T) {
	s := newTestServer(t, WithGzip(true))

	req := httptest.NewRequest(http.MethodGet, "/bundles", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)

	var resp BundlesResponse
	require.NoError(t, json.Unmarshal(plain, &resp))
	assert.NotEmpty(t, resp.Bundles)
}

func TestMetricsEndpoint(t *testing.T) {
	collector, err := metrics.New()
	require.NoError(t, err)
	s := newTestServer(t, WithMetrics(collector))

	do(t, s, http.MethodGet, "/tiers", "")
	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `gearcost_http_requests_total{method="GET",route="GET /tiers",status_code="200"} 1`)
}
