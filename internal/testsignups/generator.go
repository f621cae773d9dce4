package testsignups

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"

	"github.com/google/uuid"
	"github.com/mergington/rollcall/pkg/logger"
)

// Email generation constants.
const (
	studentEmailPrefix = "student-"
	studentEmailDomain = "@mergington.edu"
)

// randomIndex returns a uniform random index below n using crypto/rand.
func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateSignups creates the specified number of signups with unique student emails,
// each assigned to a random activity from the fetched catalog.
func generateSignups(ctx context.Context, config *Config, activities map[string]Activity, stats *Stats) ([]Signup, error) {
	if config.NumSignups <= 0 {
		return nil, fmt.Errorf("signup count must be positive, got %d", config.NumSignups)
	}

	logger.Get().Info(ctx, "generating signups with unique student emails",
		logger.Int("numSignups", config.NumSignups),
		logger.Int("activities", len(activities)))

	names := make([]string, 0, len(activities))
	for name := range activities {
		names = append(names, name)
	}
	sort.Strings(names)

	signups := make([]Signup, config.NumSignups)

	// Pre-allocate student emails to ensure uniqueness
	emails := make([]string, config.NumSignups)
	for i := 0; i < config.NumSignups; i++ {
		emails[i] = studentEmailPrefix + uuid.New().String() + studentEmailDomain
	}

	// Generate signups concurrently
	type signupResult struct {
		index  int
		signup Signup
		err    error
	}

	resultChan := make(chan signupResult, config.NumSignups)

	// Use worker pool for signup generation
	workerCount := minInt(config.Workers, config.NumSignups)
	signupsPerWorker := config.NumSignups / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * signupsPerWorker
		end := start + signupsPerWorker
		if worker == workerCount-1 {
			end = config.NumSignups // Last worker gets remaining signups
		}

		go func(_ int, start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- signupResult{index: i, err: ctx.Err()}
					return
				default:
					signup := generateSingleSignup(emails[i], names)
					resultChan <- signupResult{index: i, signup: signup, err: nil}
				}
			}
		}(worker, start, end)
	}

	// Collect results
	for i := 0; i < config.NumSignups; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during signup generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate signup %d: %w", result.index, result.err)
			}
			signups[result.index] = result.signup
		}
	}

	stats.SignupsGenerated = len(signups)
	logger.Get().Info(ctx, "generated signups successfully", logger.Int("count", len(signups)))

	return signups, nil
}

// generateSingleSignup creates a single signup for the given email against a
// random activity from the catalog.
func generateSingleSignup(email string, names []string) Signup {
	return Signup{
		Email:    email,
		Activity: names[randomIndex(len(names))],
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
