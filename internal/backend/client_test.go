package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"aura/pkg/platform/sentinel"
)

type ClientSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ClientSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) TestFetchUser() {
	s.Run("decodes principal and keeps raw payload", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.Equal("/api/auth/user", r.URL.Path)
			s.Equal("aura_session=abc", r.Header.Get("Cookie"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":           "user-1",
				"email":        "seeker@aura.social",
				"chakraAccent": "indigo",
			})
		}))
		defer srv.Close()

		principal, err := New(srv.URL).FetchUser(s.ctx, "aura_session=abc")
		s.Require().NoError(err)
		s.Equal("user-1", principal.ID)
		s.Equal("seeker@aura.social", principal.Email)
		s.Contains(string(principal.Raw), "chakraAccent")
	})

	s.Run("401 surfaces as the unauthenticated fact", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := New(srv.URL).FetchUser(s.ctx, "")
		s.Require().ErrorIs(err, sentinel.ErrUnauthenticated)
	})

	s.Run("403 surfaces as the unauthenticated fact", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := New(srv.URL).FetchUser(s.ctx, "")
		s.Require().ErrorIs(err, sentinel.ErrUnauthenticated)
	})

	s.Run("5xx surfaces as unavailable", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := New(srv.URL).FetchUser(s.ctx, "")
		s.Require().ErrorIs(err, sentinel.ErrUnavailable)
	})

	s.Run("context deadline propagates", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(s.ctx, 20*time.Millisecond)
		defer cancel()

		_, err := New(srv.URL).FetchUser(ctx, "")
		s.Require().ErrorIs(err, context.DeadlineExceeded)
	})
}

func (s *ClientSuite) TestVerifyMobileToken() {
	s.Run("posts token and decodes result", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.Equal("/api/auth/mobile-verify", r.URL.Path)
			s.Equal(http.MethodPost, r.Method)

			var body map[string]string
			s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
			s.Equal("tok-123", body["token"])

			_ = json.NewEncoder(w).Encode(VerifyResult{Success: true, Valid: true})
		}))
		defer srv.Close()

		result, err := New(srv.URL).VerifyMobileToken(s.ctx, "tok-123")
		s.Require().NoError(err)
		s.True(result.Success)
		s.True(result.Valid)
	})

	s.Run("negative verification is a result, not an error", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(VerifyResult{Success: false, Valid: false})
		}))
		defer srv.Close()

		result, err := New(srv.URL).VerifyMobileToken(s.ctx, "tok-123")
		s.Require().NoError(err)
		s.False(result.Valid)
	})

	s.Run("backend 500 is an error", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := New(srv.URL).VerifyMobileToken(s.ctx, "tok-123")
		s.Require().ErrorIs(err, sentinel.ErrUnavailable)
	})
}

func (s *ClientSuite) TestAdminLogout() {
	s.Run("posts cookie to logout endpoint", func() {
		var gotCookie string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.Equal("/api/admin/logout", r.URL.Path)
			gotCookie = r.Header.Get("Cookie")
		}))
		defer srv.Close()

		err := New(srv.URL).AdminLogout(s.ctx, "aura_session=xyz")
		s.Require().NoError(err)
		s.Equal("aura_session=xyz", gotCookie)
	})

	s.Run("4xx is tolerated, 5xx is not", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()
		s.NoError(New(srv.URL).AdminLogout(s.ctx, ""))

		srv500 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv500.Close()
		s.ErrorIs(New(srv500.URL).AdminLogout(s.ctx, ""), sentinel.ErrUnavailable)
	})
}
