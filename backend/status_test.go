package backend

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProbeService(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		want       string
	}{
		{"healthy endpoint", http.StatusOK, "up"},
		{"redirecting endpoint", http.StatusFound, "up"},
		{"client error still counts as up", http.StatusForbidden, "up"},
		{"server error", http.StatusInternalServerError, "down"},
		{"bad gateway", http.StatusBadGateway, "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer srv.Close()

			status := probeService(srv.URL, "")
			if status.Status != tt.want {
				t.Errorf("probeService = %q, want %q", status.Status, tt.want)
			}
			if status.CheckedAt.IsZero() {
				t.Error("CheckedAt should be stamped")
			}
		})
	}
}

func TestProbeServiceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close() // free the port so the probe gets connection refused

	if status := probeService(addr, ""); status.Status != "down" {
		t.Errorf("unreachable host = %q, want down", status.Status)
	}
}

func TestProbeBinary(t *testing.T) {
	// "sh" exists on any platform these tests run on; the other never will.
	if status := probeBinary("sh"); status.Status != "up" {
		t.Errorf("probeBinary(sh) = %q, want up", status.Status)
	}
	if status := probeBinary("no-such-binary-xyz"); status.Status != "down" {
		t.Errorf("probeBinary(missing) = %q, want down", status.Status)
	}
}

// Mixed cache hits and live probes write the result map from different
// goroutines in the same call; run it repeatedly under -race.
func TestCheckServiceStatusMixedCacheAndProbes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cachedA := "cached_a_" + t.Name()
	cachedB := "cached_b_" + t.Name()
	fresh := "fresh_" + t.Name()
	serviceEndpoints[cachedA] = srv.URL
	serviceEndpoints[cachedB] = srv.URL
	serviceEndpoints[fresh] = srv.URL
	defer func() {
		delete(serviceEndpoints, cachedA)
		delete(serviceEndpoints, cachedB)
		delete(serviceEndpoints, fresh)
	}()
	defer func() {
		globalServiceCache.mu.Lock()
		delete(globalServiceCache.entries, cachedA)
		delete(globalServiceCache.entries, cachedB)
		delete(globalServiceCache.entries, fresh)
		globalServiceCache.mu.Unlock()
	}()

	for i := 0; i < 50; i++ {
		globalServiceCache.mu.Lock()
		globalServiceCache.entries[cachedA] = ServiceStatus{Status: "up", CheckedAt: time.Now()}
		globalServiceCache.entries[cachedB] = ServiceStatus{Status: "up", CheckedAt: time.Now()}
		delete(globalServiceCache.entries, fresh)
		globalServiceCache.mu.Unlock()

		result := CheckServiceStatus("")
		for _, name := range []string{cachedA, cachedB, fresh} {
			if result[name].Status != "up" {
				t.Fatalf("iteration %d: %s = %q, want up", i, name, result[name].Status)
			}
		}
	}
}

func TestCheckServiceStatusUsesCache(t *testing.T) {
	name := "cached_" + t.Name()
	serviceEndpoints[name] = "http://never-contacted.invalid"
	defer delete(serviceEndpoints, name)

	globalServiceCache.mu.Lock()
	globalServiceCache.entries[name] = ServiceStatus{Status: "up", CheckedAt: time.Now()}
	globalServiceCache.mu.Unlock()
	defer func() {
		globalServiceCache.mu.Lock()
		delete(globalServiceCache.entries, name)
		globalServiceCache.mu.Unlock()
	}()

	result := CheckServiceStatus("")

	status, ok := result[name]
	if !ok {
		t.Fatal("cached service missing from result")
	}
	if status.Status != "up" {
		t.Errorf("cached status = %q, want up", status.Status)
	}
	if _, ok := result["yt-dlp"]; !ok {
		t.Error("yt-dlp probe missing from result")
	}
}
