package testsignups

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// verifyRosters confirms the submitted signups landed on the fetched rosters.
func verifyRosters(ctx context.Context, config *Config, activities map[string]Activity, signups []Signup, stats *Stats) error {
	log.Println("🔍 Verifying rosters...")

	if len(activities) == 0 {
		return fmt.Errorf("no activities to verify")
	}

	present := 0
	missing := 0
	for _, signup := range signups {
		activity, ok := activities[signup.Activity]
		if !ok {
			missing++
			continue
		}
		if containsParticipant(activity.Participants, signup.Email) {
			present++
		} else {
			missing++
		}
	}

	stats.RostersVerified = present

	// Submissions that failed outright are expected to be absent
	if missing > stats.SignupsFailed {
		log.Printf("⚠️  Roster consistency warning: %d signups missing from rosters but only %d submissions failed",
			missing, stats.SignupsFailed)
	} else {
		log.Println("✅ Roster consistency verified")
	}

	displayBusiestActivities(activities, config.TopN, config.Verbose)

	log.Println("✅ Roster verification completed")
	return nil
}

// verifyRemovals confirms unregistered signups no longer appear on the rosters.
func verifyRemovals(ctx context.Context, config *Config, activities map[string]Activity, removed []Signup, stats *Stats) {
	log.Println("🔍 Verifying removals...")

	remaining := 0
	for _, signup := range removed {
		if activity, ok := activities[signup.Activity]; ok && containsParticipant(activity.Participants, signup.Email) {
			remaining++
		}
	}

	if remaining > stats.UnregistersFailed {
		log.Printf("⚠️  Unregister consistency warning: %d emails still on rosters but only %d removals failed",
			remaining, stats.UnregistersFailed)
	} else {
		log.Println("✅ Unregister consistency verified")
	}
}

// containsParticipant reports whether email appears on the roster.
func containsParticipant(participants []string, email string) bool {
	for _, participant := range participants {
		if participant == email {
			return true
		}
	}
	return false
}

// displayBusiestActivities shows the activities with the fullest rosters.
func displayBusiestActivities(activities map[string]Activity, topN int, verbose bool) {
	type rosterCount struct {
		name  string
		count int
		max   int
	}

	counts := make([]rosterCount, 0, len(activities))
	for name, activity := range activities {
		counts = append(counts, rosterCount{name: name, count: len(activity.Participants), max: activity.MaxParticipants})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})

	if topN > len(counts) {
		topN = len(counts)
	}

	log.Printf("🏆 Top %d busiest activities:", topN)
	for i := 0; i < topN; i++ {
		entry := counts[i]
		log.Printf("   %d. %s - %d/%d signed up", i+1, entry.name, entry.count, entry.max)
	}

	if verbose {
		// Show some statistics
		totalParticipants := 0
		totalCapacity := 0
		for _, entry := range counts {
			totalParticipants += entry.count
			totalCapacity += entry.max
		}

		log.Printf(`📊 Roster statistics:
   Participants: %d
   Capacity: %d
   Average fill: %.1f%%
`, totalParticipants, totalCapacity, calculateAverageFill(activities))
	}
}

// calculateAverageFill calculates the average roster fill percentage across
// activities with an advertised capacity.
func calculateAverageFill(activities map[string]Activity) float64 {
	sum := 0.0
	counted := 0
	for _, activity := range activities {
		if activity.MaxParticipants <= 0 {
			continue
		}
		sum += float64(len(activity.Participants)) / float64(activity.MaxParticipants) * PercentageMultiplier
		counted++
	}

	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}
