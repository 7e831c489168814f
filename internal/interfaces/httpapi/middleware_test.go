package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAdminToken_Valid(t *testing.T) {
	handler := RequireAdminToken("secreto", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/weeks", nil)
	req.Header.Set("X-Admin-Token", "secreto")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireAdminToken_WrongToken(t *testing.T) {
	handler := RequireAdminToken("secreto", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/weeks", nil)
	req.Header.Set("X-Admin-Token", "adivinado")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireAdminToken_MissingHeader(t *testing.T) {
	handler := RequireAdminToken("secreto", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/weeks", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireAdminToken_Unconfigured(t *testing.T) {
	handler := RequireAdminToken("", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/weeks", nil)
	req.Header.Set("X-Admin-Token", "cualquiera")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	handler := CORS([]string{"https://quiniela.example.com"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/weeks/current", nil)
	req.Header.Set("Origin", "https://quiniela.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://quiniela.example.com" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
}

func TestCORS_OptionsPreflight(t *testing.T) {
	handler := CORS([]string{"*"}, okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/v1/weeks/current", nil)
	req.Header.Set("Origin", "https://quiniela.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
}

func TestCORS_DisallowsUnconfiguredOrigin(t *testing.T) {
	handler := CORS([]string{"https://allowed.example.com"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/weeks/current", nil)
	req.Header.Set("Origin", "https://otro.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected empty Access-Control-Allow-Origin, got %q", got)
	}
}
