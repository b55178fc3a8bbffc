package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.pdb" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("HEADER    TEST\n"))
	}))
	defer srv.Close()

	body, err := Get(srv.URL + "/1tst.pdb")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "HEADER    TEST\n" {
		t.Errorf("unexpected body %q", body)
	}

	if _, err := Get(srv.URL + "/missing.pdb"); err == nil {
		t.Error("expected error for 404")
	}
}
