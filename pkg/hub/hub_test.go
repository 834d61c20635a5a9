package hub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/easonai/weapon-inventory-qa/resolve/main/config.json":
			w.Write([]byte(`{"vocab_size": 152704}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := New(srv.URL, "", srv.Client())

	err := c.Download(context.Background(), "easonai/weapon-inventory-qa", []string{"config.json"}, dir, false)
	if err != nil {
		t.Fatalf("Download() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"vocab_size": 152704}` {
		t.Errorf("downloaded content = %q", data)
	}
}

func TestDownload_SkipsExisting(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "config.json")
	if err := os.WriteFile(existing, []byte("cached"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(srv.URL, "", srv.Client())
	if err := c.Download(context.Background(), "r/m", []string{"config.json"}, dir, false); err != nil {
		t.Fatalf("Download() failed: %v", err)
	}

	if hits != 0 {
		t.Errorf("server hit %d times for a cached file", hits)
	}

	data, _ := os.ReadFile(existing)
	if string(data) != "cached" {
		t.Errorf("cached file overwritten: %q", data)
	}
}

func TestDownload_ForceRefetches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "config.json")
	if err := os.WriteFile(existing, []byte("cached"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(srv.URL, "", srv.Client())
	if err := c.Download(context.Background(), "r/m", []string{"config.json"}, dir, true); err != nil {
		t.Fatalf("Download() failed: %v", err)
	}

	data, _ := os.ReadFile(existing)
	if string(data) != "fresh" {
		t.Errorf("force download did not refetch: %q", data)
	}
}

func TestDownload_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "stale-token", srv.Client())
	err := c.Download(context.Background(), "r/m", []string{"config.json"}, t.TempDir(), false)

	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
}

func TestDownload_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "", srv.Client())
	err := c.Download(context.Background(), "r/missing", []string{"config.json"}, t.TempDir(), false)

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestUpload(t *testing.T) {
	var gotAuth, gotPath, gotMessage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMessage = r.Header.Get("X-Commit-Message")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	src := filepath.Join(t.TempDir(), "model.safetensors")
	if err := os.WriteFile(src, []byte("weights"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(srv.URL, "hf_token", srv.Client())
	err := c.Upload(context.Background(), "easonai/weapon-inventory-qa", []string{src}, "add merged model")
	if err != nil {
		t.Fatalf("Upload() failed: %v", err)
	}

	if gotAuth != "Bearer hf_token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/api/models/easonai/weapon-inventory-qa/upload/main/model.safetensors" {
		t.Errorf("upload path = %q", gotPath)
	}
	if gotMessage != "add merged model" {
		t.Errorf("commit message = %q", gotMessage)
	}
}

func TestUpload_RequiresToken(t *testing.T) {
	c := New("https://example.com", "", nil)
	err := c.Upload(context.Background(), "r/m", []string{"whatever"}, "")

	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
}

func TestUpload_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	src := filepath.Join(t.TempDir(), "model.safetensors")
	if err := os.WriteFile(src, []byte("weights"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(srv.URL, "token", srv.Client())
	err := c.Upload(context.Background(), "r/m", []string{src}, "")

	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}
