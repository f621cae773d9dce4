// Package catalog holds the seed activities loaded into the registry at startup.
package catalog

import "github.com/mergington/rollcall/internal/domain/model"

// Default returns the seed registry contents. Each call builds fresh
// values so callers may mutate the result freely.
func Default() map[string]*model.Activity {
	return map[string]*model.Activity{
		"Basketball": {
			Description:     "Learn basketball skills and compete in inter-school tournaments",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
		},
		"Tennis Club": {
			Description:     "Practice tennis techniques and play friendly matches",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
		},
		"Art Studio": {
			Description:     "Explore painting, drawing, and sculpture techniques",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"amelia@mergington.edu", "harper@mergington.edu"},
		},
		"Drama Club": {
			Description:     "Rehearse and perform plays for the school community",
			Schedule:        "Mondays and Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"ella@mergington.edu", "scarlett@mergington.edu"},
		},
		"Debate Team": {
			Description:     "Develop argumentation and public speaking skills",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 12,
			Participants:    []string{"james@mergington.edu", "benjamin@mergington.edu"},
		},
		"Science Club": {
			Description:     "Conduct experiments and explore scientific concepts",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 16,
			Participants:    []string{"lucas@mergington.edu", "henry@mergington.edu"},
		},
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
	}
}
