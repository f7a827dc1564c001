package callback

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"aura/internal/backend"
	"aura/internal/environment"
	"aura/internal/token"
	"aura/pkg/requestcontext"
	"aura/pkg/testutil"
)

type CallbackHandlerSuite struct {
	suite.Suite
	verifier    *fakeVerifier
	tokens      *token.Memory
	invalidator *fakeInvalidator
	router      chi.Router
}

func (s *CallbackHandlerSuite) SetupTest() {
	s.verifier = &fakeVerifier{result: &backend.VerifyResult{Success: true, Valid: true}}
	s.tokens = token.NewMemory()
	s.invalidator = &fakeInvalidator{}
	classifier := environment.NewStatic([]string{"app.aura.social"}, []string{"median"})
	resolver := New(s.verifier, s.tokens, s.invalidator, classifier, 0)

	s.router = chi.NewRouter()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithSessionKey(r.Context(), "key-1")
			ctx = requestcontext.WithHostname(ctx, r.Host)
			ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.9", r.UserAgent())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	NewHandler(resolver).Register(s.router)
}

func TestCallbackHandlerSuite(t *testing.T) {
	suite.Run(t, new(CallbackHandlerSuite))
}

func (s *CallbackHandlerSuite) TestResolvedCallbackRedirectsToRoot() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/auth-callback?token=tok-1&success=true")
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusFound, rr.Code)
	s.Equal("/", rr.Header().Get("Location"))

	stored, err := s.tokens.Get(context.Background(), token.ScopeUser)
	s.Require().NoError(err)
	s.Equal("tok-1", stored)
	s.Equal([]string{"key-1"}, s.invalidator.keys)
}

func (s *CallbackHandlerSuite) TestEmbeddedHostRedirectsInApp() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/auth-callback?token=tok-1&success=true")
	req.Host = "app.aura.social"
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusFound, rr.Code)
	s.Equal("/home", rr.Header().Get("Location"))
}

func (s *CallbackHandlerSuite) TestMalformedCallbackRedirectsToLogin() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/auth-callback?success=true")
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusFound, rr.Code)
	s.Equal("/api/login", rr.Header().Get("Location"))
	s.Empty(s.invalidator.keys)
}
