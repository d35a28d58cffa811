package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
)

func newManager(retries int) *AsyncNetworkManager {
	cfg := &models.MConfig{Network: models.MNetworkConfig{RequestTimeout: 5, MaxRetries: retries, UserAgent: "test-agent"}}
	nm := NewAsyncNetworkManager(cfg, logger.NewDiscardLogger("network-test"))
	nm.BaseDelay = time.Millisecond
	return nm
}

func TestGetRetriesUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.Header.Get("User-Agent") != "test-agent" || r.URL.Query().Get("file") != "scada" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	body, err := newManager(3).Get(context.Background(), srv.URL, map[string]string{"file": "scada"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if string(body) != "payload" || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("got %q after %d calls", body, calls)
	}
}

func TestGetGivesUp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := newManager(1).Get(context.Background(), srv.URL, nil); err == nil {
		t.Fatalf("expected error after retries")
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestGetHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newManager(0).Get(ctx, "http://127.0.0.1:1/archive.zip", nil); err == nil {
		t.Fatalf("cancelled context must fail")
	}
}
