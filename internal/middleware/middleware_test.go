package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWrapOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("inner"), mark("outer"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRequireSession(t *testing.T) {
	tokens, err := config.NewSessionTokenWithSecret([]byte("secret"), time.Hour)
	require.NoError(t, err)
	foreign, err := config.NewSessionTokenWithSecret([]byte("other"), time.Hour)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("POST /game/{id}/move", RequireSession(discardLogger(), tokens)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := SessionClaims(r.Context())
			require.True(t, ok)
			w.Write([]byte(claims.SessionID))
		}),
	))

	sign := func(tok *config.SessionToken, id string) string {
		s, err := tok.Sign(id)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"bearer header", "/game/abc/move", "Bearer " + sign(tokens, "abc"), http.StatusOK},
		{"query token", "/game/abc/move?token=" + sign(tokens, "abc"), "", http.StatusOK},
		{"missing", "/game/abc/move", "", http.StatusUnauthorized},
		{"wrong scheme", "/game/abc/move", "Basic " + sign(tokens, "abc"), http.StatusUnauthorized},
		{"foreign signature", "/game/abc/move", "Bearer " + sign(foreign, "abc"), http.StatusUnauthorized},
		{"other session", "/game/xyz/move", "Bearer " + sign(tokens, "abc"), http.StatusForbidden},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, test.path, nil)
			if test.header != "" {
				req.Header.Set("Authorization", test.header)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, test.status, rec.Code)
			if test.status == http.StatusOK {
				assert.Equal(t, "abc", rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/game/1", nil))

	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"path":"/game/1"`)
}

func TestCors(t *testing.T) {
	h := Cors()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/game", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}
