package testsignups

import "time"

// Config holds configuration for the signup test
type Config struct {
	BaseURL       string        // Base URL of the service
	NumSignups    int           // Number of signups to generate
	TopN          int           // Number of busiest activities to display
	UnregisterPct int           // Percentage of signups to unregister afterwards
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	OutputFile    string        // Output file for signups
	LogFile       string        // Log file for test output
	Verbose       bool          // Enable verbose logging
}

// Signup represents one student signup to be submitted
type Signup struct {
	Email    string `json:"email"`
	Activity string `json:"activity"`
}

// Activity represents one catalog entry with its roster
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// MessageResponse represents the acknowledgement from a roster mutation
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error payload from the service
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Stats holds test statistics
type Stats struct {
	SignupsGenerated      int
	SignupsSubmitted      int
	SignupsSuccessful     int
	SignupsDuplicate      int
	SignupsFailed         int
	RostersVerified       int
	UnregistersSubmitted  int
	UnregistersSuccessful int
	UnregistersFailed     int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
