package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	var gotQuery, gotCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		gotQuery = r.URL.Query().Get("t")
		gotCache = r.Header.Get("Cache-Control")
		_, _ = w.Write([]byte(`{"lastUpdated":"10:00"}`))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.Client(), zerolog.Nop())
	c.now = func() time.Time { return time.Unix(0, 1700000000123) }

	body, err := c.Fetch(context.Background(), srv.URL+"/exec")
	require.NoError(t, err)
	assert.JSONEq(t, `{"lastUpdated":"10:00"}`, string(body))
	assert.Equal(t, "1700000000123", gotQuery)
	assert.Equal(t, "no-cache", gotCache)
}

func TestClient_Fetch_KeepsExistingQuery(t *testing.T) {
	var got map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.Client(), zerolog.Nop()).Fetch(context.Background(), srv.URL+"/exec?sheet=main")
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, got["sheet"])
	assert.Len(t, got["t"], 1)
}

func TestClient_Fetch_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.Client(), zerolog.Nop()).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_Fetch_InvalidEndpoint(t *testing.T) {
	c := New(nil, zerolog.Nop())

	_, err := c.Fetch(context.Background(), "ftp://example.com/doc")
	require.Error(t, err)

	_, err = c.Fetch(context.Background(), "://bad")
	require.Error(t, err)
}

func TestClient_Push(t *testing.T) {
	var gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)

	err := New(srv.Client(), zerolog.Nop()).Push(context.Background(), srv.URL, []byte(`{"outbound":[]}`))
	require.NoError(t, err)
	assert.Equal(t, ContentType, gotType)
	assert.Equal(t, `{"outbound":[]}`, gotBody)
}

func TestClient_Push_StatusNotInspected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	err := New(srv.Client(), zerolog.Nop()).Push(context.Background(), srv.URL, []byte(`{}`))
	assert.NoError(t, err)
}

func TestClient_Push_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(nil, zerolog.Nop()).Push(context.Background(), url, []byte(`{}`))
	assert.Error(t, err)
}
