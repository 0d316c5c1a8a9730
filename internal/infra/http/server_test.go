//go:build !integration

package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestServer_Routes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "ops_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	ts := httptest.NewServer(NewServer(0, reg, nil).Handler())
	defer ts.Close()

	t.Run("should report health", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/health")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK || string(body) != "OK" {
			t.Errorf("got %d %q", resp.StatusCode, body)
		}
	})

	t.Run("should expose metrics", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/metrics")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), "ops_test_total 1") {
			t.Errorf("metrics output missing counter:\n%s", body)
		}
	})

	t.Run("should 404 unknown paths", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/payment/success")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	if err := NewServer(0, nil, nil).Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
