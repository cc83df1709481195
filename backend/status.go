package backend

import (
	"net/http"
	"os/exec"
	"sync"
	"time"
)

// ServiceStatus represents the health of an external audio service.
type ServiceStatus struct {
	Status    string    `json:"status"` // "up", "down", "unknown"
	CheckedAt time.Time `json:"checkedAt"`
}

// serviceStatusCache caches the result of HEAD checks per service.
type serviceStatusCache struct {
	mu      sync.RWMutex
	entries map[string]ServiceStatus
	ttl     time.Duration
}

var globalServiceCache = &serviceStatusCache{
	entries: make(map[string]ServiceStatus),
	ttl:     5 * time.Minute,
}

// serviceEndpoints maps source names to probe URLs.
var serviceEndpoints = map[string]string{
	"youtube": "https://www.youtube.com",
	"archive": "https://archive.org",
	"jamendo": "https://api.jamendo.com",
	"catalog": "https://api.spotify.com",
}

// CheckServiceStatus returns the status of all upstream services.
// Results are cached for 5 minutes to avoid hammering external endpoints.
func CheckServiceStatus(proxyURL string) map[string]ServiceStatus {
	result := make(map[string]ServiceStatus)

	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, endpoint := range serviceEndpoints {
		globalServiceCache.mu.RLock()
		cached, ok := globalServiceCache.entries[name]
		globalServiceCache.mu.RUnlock()

		if ok && time.Since(cached.CheckedAt) < globalServiceCache.ttl {
			// Probe goroutines from earlier iterations may already be
			// writing result; cache hits need the same lock.
			mu.Lock()
			result[name] = cached
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(svcName, url string) {
			defer wg.Done()

			status := probeService(url, proxyURL)

			globalServiceCache.mu.Lock()
			globalServiceCache.entries[svcName] = status
			globalServiceCache.mu.Unlock()

			mu.Lock()
			result[svcName] = status
			mu.Unlock()
		}(name, endpoint)
	}

	wg.Wait()

	// yt-dlp is a local binary, not a network endpoint.
	result["yt-dlp"] = probeBinary("yt-dlp")
	return result
}

func probeService(endpoint, proxyURL string) ServiceStatus {
	client, err := NewHTTPClient(10*time.Second, proxyURL)
	if err != nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Head(endpoint)
	if err != nil {
		return ServiceStatus{Status: "down", CheckedAt: time.Now()}
	}
	defer resp.Body.Close()

	status := "up"
	if resp.StatusCode >= 500 {
		status = "down"
	}
	return ServiceStatus{Status: status, CheckedAt: time.Now()}
}

func probeBinary(name string) ServiceStatus {
	status := "up"
	if _, err := exec.LookPath(name); err != nil {
		status = "down"
	}
	return ServiceStatus{Status: status, CheckedAt: time.Now()}
}
