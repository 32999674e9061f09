package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.Header.Get(RequestIDHeader)))
})

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	RequestID(okHandler).ServeHTTP(rr, req)

	id := rr.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatal("expected a generated request id")
	}
	if rr.Body.String() != id {
		t.Fatalf("handler saw %q, response header has %q", rr.Body.String(), id)
	}
}

func TestRequestID_KeepsCallerID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()

	RequestID(okHandler).ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected caller id to be kept, got %q", got)
	}
}

func TestAllowedOrigins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"wildcard", "*", []string{"*"}},
		{"empty falls back to wildcard", "", []string{"*"}},
		{"list with trailing slash", "http://a.test, http://b.test/", []string{"http://a.test", "http://b.test"}},
		{"wildcard wins", "http://a.test,*", []string{"*"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := allowedOrigins(tc.input)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		allowed     string
		origin      string
		wantOrigin  string
		wantAllowed bool
	}{
		{"wildcard", "*", "http://localhost:3000", "", true},
		{"listed origin", "http://a.test, http://b.test/", "http://b.test", "http://b.test", true},
		{"unlisted origin", "http://a.test", "http://evil.test", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/get-feedback", nil)
			req.Header.Set("Origin", tc.origin)
			rr := httptest.NewRecorder()

			CORS(tc.allowed)(okHandler).ServeHTTP(rr, req)

			got := rr.Header().Get("Access-Control-Allow-Origin")
			if tc.wantAllowed && got == "" {
				t.Fatal("expected an allow-origin header")
			}
			if !tc.wantAllowed && got != "" {
				t.Fatalf("expected no allow-origin header, got %q", got)
			}
			if tc.wantOrigin != "" && got != tc.wantOrigin {
				t.Fatalf("expected allow-origin %q, got %q", tc.wantOrigin, got)
			}
			exposed := rr.Header().Get("Access-Control-Expose-Headers")
			if tc.wantAllowed && !strings.Contains(strings.ToLower(exposed), strings.ToLower(RequestIDHeader)) {
				t.Fatalf("expected %s to be exposed, got %q", RequestIDHeader, exposed)
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodOptions, "/api/generate-quiz", nil)
	req.Header.Set("Origin", "http://a.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rr := httptest.NewRecorder()

	CORS("http://a.test")(next).ServeHTTP(rr, req)

	if called {
		t.Fatal("preflight must not reach the handler")
	}
	if rr.Code >= 300 {
		t.Fatalf("expected a successful preflight, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://a.test" {
		t.Fatalf("expected allow-origin http://a.test, got %q", got)
	}
}
