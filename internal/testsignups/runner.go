package testsignups

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mergington/rollcall/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete signup test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting rollcall signup test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("signups", config.NumSignups),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.Int("unregisterPct", config.UnregisterPct),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	client := newHTTPClient(config.Timeout)

	// Step 2: Fetch the activity catalog
	baseline, err := fetchActivities(ctx, client, config.BaseURL)
	if err != nil {
		return fmt.Errorf("catalog fetch failed: %w", err)
	}
	if len(baseline) == 0 {
		return fmt.Errorf("service returned an empty activity catalog")
	}

	// Step 3: Generate signups
	signups, err := generateSignups(ctx, config, baseline, stats)
	if err != nil {
		return fmt.Errorf("signup generation failed: %w", err)
	}

	// Step 4: Submit signups concurrently
	if err := submitSignups(ctx, config, signups, stats); err != nil {
		return fmt.Errorf("signup submission failed: %w", err)
	}

	// Step 5: Wait for roster gauges to refresh
	logger.Get().Info(ctx, "waiting for roster metrics to refresh")
	time.Sleep(RosterSettleDelay)

	// Step 6: Re-fetch rosters and verify the signups landed
	updated, err := fetchActivities(ctx, client, config.BaseURL)
	if err != nil {
		return fmt.Errorf("roster fetch failed: %w", err)
	}
	if err := verifyRosters(ctx, config, updated, signups, stats); err != nil {
		return fmt.Errorf("roster verification failed: %w", err)
	}

	// Step 7: Unregister a slice of the signups and verify removal
	removed := signupsToUnregister(signups, config.UnregisterPct)
	if len(removed) > 0 {
		if err := unregisterSignups(ctx, config, removed, stats); err != nil {
			return fmt.Errorf("unregister submission failed: %w", err)
		}

		final, err := fetchActivities(ctx, client, config.BaseURL)
		if err != nil {
			return fmt.Errorf("final roster fetch failed: %w", err)
		}
		verifyRemovals(ctx, config, final, removed, stats)
	}

	// Step 8: Save signups to file
	if err := saveSignupsToFile(ctx, config, signups); err != nil {
		logger.Get().Warn(ctx, "failed to save signups to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "signup test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// signupsToUnregister returns the leading slice of signups covered by the
// configured percentage.
func signupsToUnregister(signups []Signup, pct int) []Signup {
	if pct <= 0 || len(signups) == 0 {
		return nil
	}
	if pct > PercentageMultiplier {
		pct = PercentageMultiplier
	}
	count := len(signups) * pct / PercentageMultiplier
	return signups[:count]
}

// saveSignupsToFile saves the generated signups to a JSON file.
func saveSignupsToFile(ctx context.Context, config *Config, signups []Signup) error {
	if len(signups) == 0 {
		return fmt.Errorf("no signups to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_signups_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write signups to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, signup := range signups {
		jsonData, err := marshalJSON(signup)
		if err != nil {
			return fmt.Errorf("failed to marshal signup %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write signup %d: %w", i, err)
		}

		// Add comma except for last signup
		if i < len(signups)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "signups saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, signupsPerSecond float64

	if stats.SignupsSubmitted > 0 {
		successRate = float64(stats.SignupsSuccessful) / float64(stats.SignupsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		signupsPerSecond = float64(stats.SignupsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("signupsGenerated", stats.SignupsGenerated),
		logger.Int("signupsSubmitted", stats.SignupsSubmitted),
		logger.Int("signupsSuccessful", stats.SignupsSuccessful),
		logger.Int("signupsDuplicate", stats.SignupsDuplicate),
		logger.Int("signupsFailed", stats.SignupsFailed),
		logger.Int("rostersVerified", stats.RostersVerified),
		logger.Int("unregistersSubmitted", stats.UnregistersSubmitted),
		logger.Int("unregistersSuccessful", stats.UnregistersSuccessful),
		logger.Int("unregistersFailed", stats.UnregistersFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("signupsPerSecond", signupsPerSecond))
}
