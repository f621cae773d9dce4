package testsignups

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// fetchActivities retrieves the activity catalog with current rosters.
func fetchActivities(ctx context.Context, client *HTTPClient, baseURL string) (map[string]Activity, error) {
	resp, err := client.Get(ctx, baseURL+"/activities")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var activities map[string]Activity
	if err := unmarshalJSON(body, &activities); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return activities, nil
}

// unregisterSignups removes signups concurrently using worker pools.
func unregisterSignups(ctx context.Context, config *Config, signups []Signup, stats *Stats) error {
	log.Printf("🗑️  Unregistering %d signups with %d workers...", len(signups), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Counters for statistics
	var (
		successful int64
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
					ok := submitSingleUnregister(ctx, client, config.BaseURL, signup)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					if ok {
						atomic.AddInt64(&successful, 1)
					} else {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to unregister %s from %s", signup.Email, signup.Activity)
						}
					}

					// Progress reporting
					last := lastReport.Load()
					now := time.Now().UnixNano()
					if now-last >= reportInterval.Nanoseconds() && lastReport.CompareAndSwap(last, now) {
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)

						log.Printf("📊 Unregister progress: %d/%d submitted (success: %d, failed: %d)",
							total, len(signups), succ, fail)
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

	// Update stats
	stats.UnregistersSubmitted = int(atomic.LoadInt64(&submitted))
	stats.UnregistersSuccessful = int(atomic.LoadInt64(&successful))
	stats.UnregistersFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Unregister submission completed:
   Successful: %d
   Failed: %d
`, stats.UnregistersSuccessful, stats.UnregistersFailed)

	return nil
}

// submitSingleUnregister removes a single signup and reports whether the
// service acknowledged it.
func submitSingleUnregister(ctx context.Context, client *HTTPClient, baseURL string, signup Signup) bool {
	resp, err := client.Delete(ctx, unregisterURL(baseURL, signup))
	if err != nil {
		return false
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return false
	}

	if resp.StatusCode != StatusOK {
		return false
	}

	var ack MessageResponse
	if err := unmarshalJSON(body, &ack); err == nil && ack.Message != "" {
		return true
	}
	return true // Assume success for 200 even if parsing fails
}
