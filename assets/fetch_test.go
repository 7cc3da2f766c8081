package assets

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/image.png":
			w.Write([]byte("image bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)

	data, err := f.Fetch(srv.URL + "/image.png")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "image bytes" {
		t.Errorf("Fetch() = %q", data)
	}

	_, err = f.Fetch(srv.URL + "/missing.png")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Fetch(404) error = %v, want ErrNetwork", err)
	}
}

func TestHTTPFetcherTransportError(t *testing.T) {
	f := NewHTTPFetcher(time.Second)
	_, err := f.Fetch("http://127.0.0.1:1/unreachable.png")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Fetch() error = %v, want ErrNetwork", err)
	}
}

func TestNewHTTPFetcherDefaultTimeout(t *testing.T) {
	f := NewHTTPFetcher(0)
	if f.Client.Timeout != 30*time.Second {
		t.Errorf("default timeout = %v, want 30s", f.Client.Timeout)
	}
}
