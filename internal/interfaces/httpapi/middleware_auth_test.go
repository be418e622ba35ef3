package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/user"
)

type verifierFunc func(ctx context.Context, token string) (user.Principal, error)

func (f verifierFunc) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	return f(ctx, token)
}

func TestRequireAuth_PassesOwnerToHandler(t *testing.T) {
	verifier := verifierFunc(func(_ context.Context, token string) (user.Principal, error) {
		return user.Principal{UserID: "owner-" + token}, nil
	})

	var got user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := requirePrincipal(r.Context())
		if err != nil {
			t.Fatalf("require principal: %v", err)
		}
		got = p
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
	req.Header.Set("Authorization", "bearer 42")
	rec := httptest.NewRecorder()
	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.UserID != "owner-42" {
		t.Fatalf("expected owner-42, got %q", got.UserID)
	}
}

func TestRequirePrincipal_RejectsMissingOrEmptyOwner(t *testing.T) {
	if _, err := requirePrincipal(context.Background()); err == nil {
		t.Fatalf("expected error without principal")
	}
	if _, err := requirePrincipal(withPrincipal(context.Background(), user.Principal{Email: "a@b.c"})); err == nil {
		t.Fatalf("expected error for principal without owner id")
	}
}

func TestRequireAuth_EmptyOwnerIsUnauthorized(t *testing.T) {
	verifier := verifierFunc(func(context.Context, string) (user.Principal, error) {
		return user.Principal{}, nil
	})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := requirePrincipal(r.Context()); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}
