package qbit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFakeServer(t *testing.T, added *[]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse login form: %v", err)
		}
		if r.Form.Get("username") != "admin" || r.Form.Get("password") != "secret" {
			w.Write([]byte("Fails."))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "SID", Value: "session", Path: "/"})
		w.Write([]byte("Ok."))
	})
	mux.HandleFunc("/api/v2/app/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("v4.6.0"))
	})
	mux.HandleFunc("/api/v2/torrents/add", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("SID"); err != nil || c.Value != "session" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		*added = append(*added, r.FormValue("urls")+"|"+r.FormValue("savepath"))
		w.Write([]byte("Ok."))
	})
	return httptest.NewServer(mux)
}

func TestAddMagnetLogsInOnce(t *testing.T) {
	var added []string
	srv := newFakeServer(t, &added)
	defer srv.Close()

	c := NewClientURL(srv.URL, "admin", "secret")
	ctx := context.Background()

	if !c.IsConnected(ctx) {
		t.Fatal("expected server to be reachable")
	}
	if err := c.AddMagnet(ctx, "magnet:?xt=urn:btih:one", "/data"); err != nil {
		t.Fatalf("AddMagnet: %v", err)
	}
	if err := c.AddMagnet(ctx, "magnet:?xt=urn:btih:two", ""); err != nil {
		t.Fatalf("AddMagnet: %v", err)
	}

	want := []string{"magnet:?xt=urn:btih:one|/data", "magnet:?xt=urn:btih:two|"}
	if len(added) != len(want) {
		t.Fatalf("added %v, want %v", added, want)
	}
	for i := range want {
		if added[i] != want[i] {
			t.Errorf("added[%d] = %q, want %q", i, added[i], want[i])
		}
	}
}

func TestAddMagnetBadCredentials(t *testing.T) {
	var added []string
	srv := newFakeServer(t, &added)
	defer srv.Close()

	c := NewClientURL(srv.URL, "admin", "wrong")
	if err := c.AddMagnet(context.Background(), "magnet:?xt=urn:btih:x", ""); err == nil {
		t.Fatal("expected login error")
	}
	if len(added) != 0 {
		t.Fatalf("nothing should be added, got %v", added)
	}
}

func TestAddMagnetRejectsNonMagnet(t *testing.T) {
	c := NewClient("localhost", 1, "u", "p")
	if err := c.AddMagnet(context.Background(), "https://example.com/file.torrent", ""); err == nil {
		t.Fatal("expected error for non-magnet link")
	}
}

func TestIsConnectedUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	if NewClientURL(base, "u", "p").IsConnected(context.Background()) {
		t.Fatal("expected unreachable server")
	}
}
