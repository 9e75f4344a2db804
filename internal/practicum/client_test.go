package practicum

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "homework-status-bot/internal/common/errors"
	apphttp "homework-status-bot/internal/common/http"
	"homework-status-bot/internal/common/logger"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	return NewClient(endpoint, "secret-token", apphttp.NewClient(time.Second), logger.NewTestLogger(t))
}

func TestClient_GetStatuses_Success(t *testing.T) {
	var gotAuth, gotFromDate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFromDate = r.URL.Query().Get("from_date")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"homeworks":[{"homework_name":"task1","status":"approved"}],"current_date":1700000000}`))
	}))
	defer srv.Close()

	body, err := newTestClient(t, srv.URL).GetStatuses(context.Background(), 1697408000)
	require.NoError(t, err)

	assert.Equal(t, "OAuth secret-token", gotAuth)
	assert.Equal(t, "1697408000", gotFromDate)
	homeworks, ok := body["homeworks"].([]interface{})
	require.True(t, ok)
	assert.Len(t, homeworks, 1)
}

func TestClient_GetStatuses_BadStatus(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError, http.StatusNoContent} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			}))
			defer srv.Close()

			body, err := newTestClient(t, srv.URL).GetStatuses(context.Background(), 0)

			assert.Nil(t, body)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrAPIBadStatus))
			assert.False(t, errors.Is(err, apperrors.ErrAPIRequestFailed))

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, code, stdErr.StatusCode)
		})
	}
}

func TestClient_GetStatuses_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	body, err := newTestClient(t, endpoint).GetStatuses(context.Background(), 0)

	assert.Nil(t, body)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAPIRequestFailed))
	assert.False(t, errors.Is(err, apperrors.ErrAPIBadStatus))
	assert.NotNil(t, errors.Unwrap(err))
}

func TestClient_GetStatuses_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", apphttp.NewClient(20*time.Millisecond), logger.NewNoOpLogger())
	_, err := c.GetStatuses(context.Background(), 0)

	assert.True(t, errors.Is(err, apperrors.ErrAPIRequestFailed))
}

func TestClient_GetStatuses_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).GetStatuses(context.Background(), 0)

	assert.True(t, errors.Is(err, apperrors.ErrAPIResponseInvalid))
}
