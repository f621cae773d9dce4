package testsignups

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request without a body. The registry carries the
// student email in the query string rather than a JSON payload.
func (c *HTTPClient) Post(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Delete performs a DELETE request
func (c *HTTPClient) Delete(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// signupURL builds the signup endpoint URL for one signup.
func signupURL(baseURL string, s Signup) string {
	return baseURL + "/activities/" + url.PathEscape(s.Activity) + "/signup?email=" + url.QueryEscape(s.Email)
}

// unregisterURL builds the unregister endpoint URL for one signup.
func unregisterURL(baseURL string, s Signup) string {
	return baseURL + "/activities/" + url.PathEscape(s.Activity) + "/unregister?email=" + url.QueryEscape(s.Email)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitSignups submits signups concurrently using worker pools
func submitSignups(ctx context.Context, config *Config, signups []Signup, stats *Stats) error {
	log.Printf("📤 Submitting %d signups with %d workers...", len(signups), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Counters for statistics
	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	// Progress reporting
	var lastReport atomic.Int64
	reportInterval := 1 * time.Second

	// Create worker pool
	signupChan := make(chan Signup, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for signup := range signupChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleSignup(ctx, client, config.BaseURL, signup)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					last := lastReport.Load()
					now := time.Now().UnixNano()
					if now-last >= reportInterval.Nanoseconds() && lastReport.CompareAndSwap(last, now) {
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						dup := atomic.LoadInt64(&duplicate)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (success: %d, duplicate: %d, failed: %d)",
								total, len(signups), succ, dup, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (success: %d, duplicate: %d, failed: %d)",
								total, len(signups), succ, dup, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send signups to workers
	go func() {
		defer close(signupChan)
		for _, signup := range signups {
			select {
			case <-ctx.Done():
				return
			case signupChan <- signup:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.SignupsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SignupsSuccessful = int(atomic.LoadInt64(&successful))
	stats.SignupsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SignupsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Signup submission completed:
   Successful: %d
   Duplicate: %d
   Failed: %d
`, stats.SignupsSuccessful, stats.SignupsDuplicate, stats.SignupsFailed)

	return nil
}

// submitSingleSignup submits a single signup and returns the result
func submitSingleSignup(ctx context.Context, client *HTTPClient, baseURL string, signup Signup) string {
	resp, err := client.Post(ctx, signupURL(baseURL, signup))
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	// Parse response based on status code
	switch resp.StatusCode {
	case StatusOK:
		var ack MessageResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Message != "" {
			return "success"
		}
		return "success" // Assume success for 200 even if parsing fails
	case StatusBadRequest:
		var errResp ErrorResponse
		if err := unmarshalJSON(body, &errResp); err == nil && errResp.Code == "already_signed_up" {
			return "duplicate"
		}
		return "failed"
	default:
		// Error
		return "failed"
	}
}
