package linkedoutsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestConcurrentCallsShareClient(t *testing.T) {
	var mu sync.Mutex
	ids := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer T" {
			t.Errorf("authorization = %q", got)
		}
		mu.Lock()
		ids[r.Header.Get("X-Request-ID")] = true
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"signedUrl": r.URL.Query().Get("fileUrl") + "?sig=x", "expiresIn": 3600},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Tokens = StaticToken("T")
	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env, err := c.SignedURL(context.Background(), "/files/resumes/1/cv.pdf")
			if err != nil {
				errs <- err
				return
			}
			if env.Data == nil || env.Data.SignedURL != "/files/resumes/1/cv.pdf?sig=x" {
				errs <- errors.New("unexpected signed url")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("signed url: %v", err)
	}
	if len(ids) != n {
		t.Fatalf("request ids = %d, want %d distinct", len(ids), n)
	}
	if c.HTTPClient != nil {
		t.Fatalf("HTTPClient was written during calls")
	}
}

func TestNon2xxCarriesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"Already applied"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ApplyToJob(context.Background(), 3, "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message() != "Already applied" {
		t.Fatalf("api error = %d %q", apiErr.StatusCode, apiErr.Message())
	}
}
