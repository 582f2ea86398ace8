package checker

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "eyJhbGciOiJSUzI1NiJ9.eyJhdWQiOiI0MiJ9.c2ln"

type setFlagTest struct {
	name               string
	response           string
	responseStatusCode int           // defaults to 200
	delay              time.Duration // response delay, bounded by the request context
	timeout            time.Duration
	expectedStatus     Status
	expectedKind       ErrorKind
	expectedMessage    string
	expectedToken      string
	validateReq        func(t *testing.T, req *http.Request)
}

func runSetFlagTests(t *testing.T, tests []setFlagTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusCode := tt.responseStatusCode
			if statusCode == 0 {
				statusCode = http.StatusOK
			}

			var capturedReq *http.Request
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
				_ = r.ParseForm()

				if tt.delay > 0 {
					select {
					case <-r.Context().Done():
						return
					case <-time.After(tt.delay):
					}
				}

				w.WriteHeader(statusCode)
				w.Write([]byte(tt.response))
			}))
			defer server.Close()

			c := newTestChecker(t, server, Config{SetFlagTimeout: tt.timeout})
			result := c.SetFlag(t.Context(), "FLAG_abcdefghijklm")

			if tt.validateReq != nil {
				require.NotNil(t, capturedReq)
				tt.validateReq(t, capturedReq)
			}

			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, tt.expectedKind, result.Kind)
			if tt.expectedMessage != "" {
				assert.Contains(t, result.Message, tt.expectedMessage)
			}
			if tt.expectedToken != "" {
				assert.Equal(t, tt.expectedToken, result.Token)
			}
			assert.Len(t, result.FlagID, 10)
		})
	}
}

func TestChecker_SetFlag(t *testing.T) {
	t.Run("request building", func(t *testing.T) {
		runSetFlagTests(t, []setFlagTest{
			{
				name:           "posts order form",
				response:       testToken,
				expectedStatus: Functional,
				validateReq: func(t *testing.T, req *http.Request) {
					assert.Equal(t, http.MethodPost, req.Method)
					assert.Equal(t, "/order", req.URL.Path)
					assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
					assert.Equal(t, "pizzacheck/0.1.0", req.Header.Get("User-Agent"))
					assert.Equal(t, "FLAG_abcdefghijklm", req.PostForm.Get("address"))
					assert.Equal(t, "1", req.PostForm.Get("pizza_id"))
					assert.Regexp(t, `^[a-z]{10}$`, req.PostForm.Get("name"))
				},
			},
		})
	})

	t.Run("token validation", func(t *testing.T) {
		runSetFlagTests(t, []setFlagTest{
			{
				name:           "three segments",
				response:       testToken,
				expectedStatus: Functional,
				expectedKind:   KindNone,
				expectedToken:  testToken,
			},
			{
				name:           "trailing newline is trimmed",
				response:       testToken + "\n",
				expectedStatus: Functional,
				expectedToken:  testToken,
			},
			{
				name:            "no segments",
				response:        "order placed",
				expectedStatus:  Broken,
				expectedKind:    KindMalformedToken,
				expectedMessage: "malformed token",
				expectedToken:   "order placed",
			},
			{
				name:            "two segments",
				response:        "a.b",
				expectedStatus:  Broken,
				expectedKind:    KindMalformedToken,
				expectedMessage: "malformed token",
			},
			{
				name:            "four segments",
				response:        "a.b.c.d",
				expectedStatus:  Broken,
				expectedKind:    KindMalformedToken,
				expectedMessage: "malformed token",
			},
			{
				name:            "empty body",
				response:        "",
				expectedStatus:  Broken,
				expectedKind:    KindMalformedToken,
				expectedMessage: "malformed token",
			},
		})
	})

	t.Run("error handling", func(t *testing.T) {
		runSetFlagTests(t, []setFlagTest{
			{
				name:               "404 not found",
				response:           "Not Found",
				responseStatusCode: http.StatusNotFound,
				expectedStatus:     Broken,
				expectedKind:       KindHTTPStatus,
				expectedMessage:    "404 Not Found",
			},
			{
				name:               "400 bad request",
				response:           "missing form data",
				responseStatusCode: http.StatusBadRequest,
				expectedStatus:     Broken,
				expectedKind:       KindHTTPStatus,
				expectedMessage:    "400 Bad Request",
			},
			{
				name:               "500 internal server error",
				response:           "failed to place order",
				responseStatusCode: http.StatusInternalServerError,
				expectedStatus:     Broken,
				expectedKind:       KindHTTPStatus,
				expectedMessage:    "500 Internal Server Error",
			},
			{
				name:            "timeout",
				response:        testToken,
				delay:           2 * time.Second,
				timeout:         50 * time.Millisecond,
				expectedStatus:  Down,
				expectedKind:    KindConnection,
				expectedMessage: "timed out",
			},
		})
	})
}

func TestChecker_SetFlag_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	target := targetOf(t, server.URL)
	server.Close()

	c, err := NewChecker(Config{Target: target})
	require.NoError(t, err)

	result := c.SetFlag(t.Context(), "FLAG_abcdefghijklm")

	assert.Equal(t, Down, result.Status)
	assert.Equal(t, KindConnection, result.Kind)
	assert.NotEmpty(t, result.Message)
	assert.Empty(t, result.Token)
}

func TestSetFlag_InvalidTarget(t *testing.T) {
	result := SetFlag(t.Context(), "localhost", 0, "FLAG_abcdefghijklm")

	assert.Equal(t, Down, result.Status)
	assert.Equal(t, KindUnknown, result.Kind)
	assert.Contains(t, result.Message, "invalid target")
}

func TestSetFlagResult_Record(t *testing.T) {
	result := SetFlagResult{FlagID: "abcdefghij", Token: "a.b.c", Status: Broken, Message: "malformed token"}

	assert.Equal(t, map[string]any{
		"FLAG_ID":   "abcdefghij",
		"TOKEN":     "a.b.c",
		"ERROR":     1,
		"ERROR_MSG": "malformed token",
	}, result.Record())
	assert.False(t, result.OK())
}
