package admin

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"aura/internal/backend"
	"aura/internal/session/models"
	sessionservice "aura/internal/session/service"
	"aura/internal/session/store"
	"aura/internal/token"
	adminmw "aura/pkg/platform/middleware/admin"
	"aura/pkg/requestcontext"
	"aura/pkg/testutil"
)

const adminToken = "sekrit"

type AdminHandlerSuite struct {
	suite.Suite
	backend *fakeAdminBackend
	router  chi.Router
}

func (s *AdminHandlerSuite) SetupTest() {
	s.backend = &fakeAdminBackend{}
	cache := sessionservice.New(Fetcher(s.backend), store.NewMemory(), 30*time.Second, 100*time.Millisecond)
	service := New(s.backend, cache, token.NewMemory())

	hash, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithSessionKey(r.Context(), "key-1")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	s.router.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(string(hash), slog.Default()))
		NewHandler(service, slog.Default()).Register(r)
	})
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerSuite))
}

func (s *AdminHandlerSuite) TestGetSession() {
	s.Run("rejects a missing admin token", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/admin/session")
		rr := testutil.DoRequest(s.router, req)

		s.Equal(http.StatusUnauthorized, rr.Code)
		s.Zero(s.backend.fetches)
	})

	s.Run("returns the admin snapshot", func() {
		s.backend.principal = &backend.Principal{ID: "a-1", Email: "warden@aura.social", Admin: true}

		req := testutil.NewRequest(s.T(), http.MethodGet, "/admin/session")
		req.Header.Set("X-Admin-Token", adminToken)
		rr := testutil.DoRequest(s.router, req)

		s.Equal(http.StatusOK, rr.Code)
		body := testutil.UnmarshalResponse[models.Snapshot](s.T(), rr)
		s.Require().NotNil(body.Principal)
		s.True(body.Principal.Admin)
	})

}

func (s *AdminHandlerSuite) TestNonAdminPrincipalSerializesNull() {
	s.backend.principal = &backend.Principal{ID: "u-1", Admin: false}

	req := testutil.NewRequest(s.T(), http.MethodGet, "/admin/session")
	req.Header.Set("X-Admin-Token", adminToken)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), `"principal":null`)
}

func (s *AdminHandlerSuite) TestLogout() {
	req := testutil.NewRequest(s.T(), http.MethodPost, "/admin/logout")
	req.Header.Set("X-Admin-Token", adminToken)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusNoContent, rr.Code)
	s.Equal(1, s.backend.logouts)
}
