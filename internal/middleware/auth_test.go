package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"wcm/internal/auth"
)

const testSecret = "middleware-test-secret"

func protectedHandler(t *testing.T, wantUserID int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("claims missing from request context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if claims.UserID != wantUserID {
			t.Errorf("expected user %d in context, got %d", wantUserID, claims.UserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	token, err := auth.GenerateToken(42, "alice", testSecret, 1)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	handler := Authenticate(testSecret)(protectedHandler(t, 42))

	req := httptest.NewRequest("GET", "/campaigns", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.Code)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without credentials")
	}))

	req := httptest.NewRequest("GET", "/campaigns", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.Code)
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with malformed header")
	}))

	for _, header := range []string{"token-without-scheme", "Basic dXNlcjpwYXNz"} {
		req := httptest.NewRequest("GET", "/campaigns", nil)
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if resp.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, resp.Code)
		}
	}
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	token, err := auth.GenerateToken(42, "alice", "other-secret", 1)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with a token signed by another secret")
	}))

	req := httptest.NewRequest("GET", "/campaigns", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.Code)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	token, err := auth.GenerateToken(42, "alice", testSecret, -1)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with an expired token")
	}))

	req := httptest.NewRequest("GET", "/campaigns", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.Code)
	}
}

func TestUserFromContext_EmptyContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := UserFromContext(req.Context()); ok {
		t.Error("expected no claims in a bare context")
	}
}
