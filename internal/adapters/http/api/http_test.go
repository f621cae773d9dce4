package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mergington/rollcall/internal/adapters/http/api"
	"github.com/mergington/rollcall/internal/adapters/registry"
	"github.com/mergington/rollcall/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing

// mockRegistry implements the Dependencies interface against a plain map.
type mockRegistry struct {
	activities    map[string]*model.Activity
	listErr       error
	signupErr     error
	unregisterErr error
}

func (m *mockRegistry) ListActivities(ctx context.Context) (map[string]*model.Activity, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.activities, nil
}

func (m *mockRegistry) Signup(ctx context.Context, activity, email string) error {
	if m.signupErr != nil {
		return m.signupErr
	}
	a, ok := m.activities[activity]
	if !ok {
		return registry.ErrActivityNotFound
	}
	if a.HasParticipant(email) {
		return registry.ErrAlreadySignedUp
	}
	a.Participants = append(a.Participants, email)
	return nil
}

func (m *mockRegistry) Unregister(ctx context.Context, activity, email string) error {
	if m.unregisterErr != nil {
		return m.unregisterErr
	}
	a, ok := m.activities[activity]
	if !ok {
		return registry.ErrActivityNotFound
	}
	for i, p := range a.Participants {
		if p == email {
			a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
			return nil
		}
	}
	return registry.ErrNotSignedUp
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func testActivities() map[string]*model.Activity {
	return map[string]*model.Activity{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Art Studio": {
			Description:     "Explore painting, drawing, and sculpture techniques",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{},
		},
	}
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockRegistry{activities: testActivities()}
		statsProvider := &mockStatsProvider{stats: map[string]interface{}{"started": true}}
		server := api.NewServer(deps, statsProvider)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux, deps)

			Convey("Then all expected routes should be registered", func() {
				So(mux, ShouldNotBeNil)
			})

			Convey("And health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And activities endpoint should return the registry", func() {
				req := httptest.NewRequest("GET", "/activities", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "Chess Club")
			})

			Convey("And signup route should be reachable under /activities/", func() {
				req := httptest.NewRequest("POST", "/activities/Chess%20Club/signup?email=newbie%40mergington.edu", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And unregister route should be reachable under /activities/", func() {
				req := httptest.NewRequest("DELETE", "/activities/Chess%20Club/unregister?email=michael%40mergington.edu", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And unknown roster operations should return 404", func() {
				req := httptest.NewRequest("POST", "/activities/Chess%20Club/promote", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And root endpoint should catch everything else", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestActivitiesHandler_HandleGetActivities(t *testing.T) {
	Convey("Given an activities handler", t, func() {
		deps := &mockRegistry{activities: testActivities()}
		handler := api.NewActivitiesHandler(deps)

		Convey("When requesting the activity list", func() {
			req := httptest.NewRequest("GET", "/activities", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return every activity with its full shape", func() {
				handler.HandleGetActivities(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var response map[string]activityPayload
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(len(response), ShouldEqual, 2)

				chess := response["Chess Club"]
				So(chess.Description, ShouldEqual, "Learn strategies and compete in chess tournaments")
				So(chess.Schedule, ShouldEqual, "Fridays, 3:30 PM - 5:00 PM")
				So(chess.MaxParticipants, ShouldEqual, 12)
				So(len(chess.Participants), ShouldEqual, 2)
			})

			Convey("And empty rosters should encode as arrays, not null", func() {
				handler.HandleGetActivities(w, req)
				So(w.Body.String(), ShouldContainSubstring, `"participants":[]`)
			})
		})

		Convey("When the registry query fails", func() {
			deps.listErr = fmt.Errorf("registry unavailable")
			req := httptest.NewRequest("GET", "/activities", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandleGetActivities(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When using a non-GET method", func() {
			req := httptest.NewRequest("POST", "/activities", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleGetActivities(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSignupHandler_HandleSignup(t *testing.T) {
	Convey("Given a signup handler", t, func() {
		deps := &mockRegistry{activities: testActivities()}
		handler := api.NewSignupHandler(deps)

		Convey("When handling a valid signup request", func() {
			req := httptest.NewRequest("POST", "/activities/Chess%20Club/signup?email=newbie%40mergington.edu", nil)
			w := httptest.NewRecorder()

			Convey("Then it should confirm the signup", func() {
				handler.HandleSignup(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response messageResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Message, ShouldEqual, "Signed up newbie@mergington.edu for Chess Club")
			})

			Convey("And the roster should contain the new participant", func() {
				handler.HandleSignup(w, req)
				So(deps.activities["Chess Club"].HasParticipant("newbie@mergington.edu"), ShouldBeTrue)
			})
		})

		Convey("When signing up the same student twice", func() {
			first := httptest.NewRequest("POST", "/activities/Chess%20Club/signup?email=twice%40mergington.edu", nil)
			w1 := httptest.NewRecorder()
			handler.HandleSignup(w1, first)

			second := httptest.NewRequest("POST", "/activities/Chess%20Club/signup?email=twice%40mergington.edu", nil)
			w2 := httptest.NewRecorder()

			Convey("Then the second request should be rejected", func() {
				handler.HandleSignup(w2, second)
				So(w2.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w2.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "already_signed_up")
				So(response.Detail, ShouldContainSubstring, "already signed up")
			})
		})

		Convey("When the activity does not exist", func() {
			req := httptest.NewRequest("POST", "/activities/Rocketry%20Club/signup?email=newbie%40mergington.edu", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found with a detail message", func() {
				handler.HandleSignup(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "not_found")
				So(response.Detail, ShouldContainSubstring, "not found")
			})
		})

		Convey("When the email parameter is missing", func() {
			req := httptest.NewRequest("POST", "/activities/Chess%20Club/signup", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleSignup(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "missing_email")
			})
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/activities/Chess%20Club/signup?email=x%40mergington.edu", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleSignup(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the path has no activity name", func() {
			req := httptest.NewRequest("POST", "/activities/signup?email=x%40mergington.edu", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleSignup(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the registry fails unexpectedly", func() {
			deps.signupErr = fmt.Errorf("registry unavailable")
			req := httptest.NewRequest("POST", "/activities/Chess%20Club/signup?email=x%40mergington.edu", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandleSignup(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestUnregisterHandler_HandleUnregister(t *testing.T) {
	Convey("Given an unregister handler", t, func() {
		deps := &mockRegistry{activities: testActivities()}
		handler := api.NewUnregisterHandler(deps)

		Convey("When handling a valid unregister request", func() {
			req := httptest.NewRequest("DELETE", "/activities/Chess%20Club/unregister?email=michael%40mergington.edu", nil)
			w := httptest.NewRecorder()

			Convey("Then it should confirm the removal", func() {
				handler.HandleUnregister(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response messageResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Message, ShouldEqual, "Unregistered michael@mergington.edu from Chess Club")
			})

			Convey("And the roster should no longer contain the participant", func() {
				handler.HandleUnregister(w, req)
				So(deps.activities["Chess Club"].HasParticipant("michael@mergington.edu"), ShouldBeFalse)
			})
		})

		Convey("When the student is not on the roster", func() {
			req := httptest.NewRequest("DELETE", "/activities/Chess%20Club/unregister?email=stranger%40mergington.edu", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request with a detail message", func() {
				handler.HandleUnregister(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "not_signed_up")
				So(response.Detail, ShouldContainSubstring, "not signed up")
			})
		})

		Convey("When the activity does not exist", func() {
			req := httptest.NewRequest("DELETE", "/activities/Rocketry%20Club/unregister?email=x%40mergington.edu", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found", func() {
				handler.HandleUnregister(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Detail, ShouldContainSubstring, "not found")
			})
		})

		Convey("When the email parameter is missing", func() {
			req := httptest.NewRequest("DELETE", "/activities/Chess%20Club/unregister", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleUnregister(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "missing_email")
			})
		})

		Convey("When handling a non-DELETE request", func() {
			req := httptest.NewRequest("POST", "/activities/Chess%20Club/unregister?email=x%40mergington.edu", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleUnregister(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"activities":   9,
				"participants": 18,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["activities"], ShouldEqual, 9)
				So(response["participants"], ShouldEqual, 18)
			})
		})

		Convey("When using a non-GET method", func() {
			req := httptest.NewRequest("DELETE", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

// Local types for testing
type activityPayload struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}
