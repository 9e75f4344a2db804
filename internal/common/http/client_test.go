package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get_MergesQueryAndHeaders(t *testing.T) {
	var gotQuery url.Values
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	resp, err := c.Get(context.Background(), srv.URL+"/api/?lang=ru",
		url.Values{"from_date": []string{"100"}},
		http.Header{"Authorization": []string{"OAuth secret"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "100", gotQuery.Get("from_date"))
	assert.Equal(t, "ru", gotQuery.Get("lang"))
	assert.Equal(t, "OAuth secret", gotAuth)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(20 * time.Millisecond)
	_, err := c.Get(context.Background(), srv.URL, nil, nil)
	assert.Error(t, err)
}

func TestClient_Get_BadURL(t *testing.T) {
	c := NewClient(time.Second)
	_, err := c.Get(context.Background(), "://bad", nil, nil)
	assert.Error(t, err)
}
