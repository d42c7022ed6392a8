package resources_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NexoraTechHQ/nexora-sub000/gateway"
	"github.com/NexoraTechHQ/nexora-sub000/navigation"
	"github.com/NexoraTechHQ/nexora-sub000/resources"
	"github.com/NexoraTechHQ/nexora-sub000/session"
	"github.com/NexoraTechHQ/nexora-sub000/session/sessionfakes"
	"github.com/NexoraTechHQ/nexora-sub000/tokenstore"
	"github.com/NexoraTechHQ/nexora-sub000/tokenstore/storefakes"
	"github.com/NexoraTechHQ/nexora-sub000/users"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// setupClient wires a resources client over the real gateway against an
// httptest API, with a valid session already in place.
func setupClient(t *testing.T, handler http.Handler) *resources.Client {
	t.Helper()

	store := storefakes.NewFakeStore()
	require.NoError(t, store.Set(tokenstore.Tokens{
		AccessToken:  "valid-access",
		RefreshToken: "valid-refresh",
		ExpiresAt:    baseTime.Add(time.Hour),
	}))
	require.NoError(t, store.SetUser(users.User{ID: "user-1", Name: "Alice Reed"}))

	service, err := session.NewService(store, sessionfakes.NewFakeAuthority(),
		session.WithNowTime(func() time.Time { return baseTime }))
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gw, err := gateway.New(server.URL, service, navigation.NewRecorder(navigation.RouteDashboard))
	require.NoError(t, err)

	client, err := resources.NewClient(gw)
	require.NoError(t, err)
	return client
}

func TestClient_ListVisitors(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/visitors", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"id":"v-1","name":"Dana Cole","company":"Acme","status":"expected"},
				{"id":"v-2","name":"Omar Silva","status":"checked_in"}
			],
			"total": 2
		}`))
	})

	client := setupClient(t, handler)
	visitors, err := client.ListVisitors(context.Background(), resources.ListOptions{Offset: 20, Limit: 10})
	require.NoError(t, err)
	require.Len(t, visitors, 2)
	require.Equal(t, "Dana Cole", visitors[0].Name)
	require.Equal(t, resources.VisitorCheckedIn, visitors[1].Status)
	require.Equal(t, "limit=10&offset=20", gotQuery)
}

func TestClient_CreateVisitor(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/visitors", r.URL.Path)

		var got resources.Visitor
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		got.ID = "v-9"
		got.Status = resources.VisitorExpected

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(got)
	})

	client := setupClient(t, handler)
	created, err := client.CreateVisitor(context.Background(), resources.Visitor{
		Name:    "Dana Cole",
		Company: "Acme",
		Host:    "Alice Reed",
	})
	require.NoError(t, err)
	require.Equal(t, "v-9", created.ID)
	require.Equal(t, "Dana Cole", created.Name)
	require.Equal(t, resources.VisitorExpected, created.Status)
}

func TestClient_CheckInVisitor(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/visitors/v-1/check-in", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"v-1","name":"Dana Cole","status":"checked_in","badge_number":"B-0042"}`))
	})

	client := setupClient(t, handler)
	visitor, err := client.CheckInVisitor(context.Background(), "v-1")
	require.NoError(t, err)
	require.Equal(t, resources.VisitorCheckedIn, visitor.Status)
	require.Equal(t, "B-0042", visitor.BadgeNumber)
}

func TestClient_DeleteVisitor(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/v1/visitors/v-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	client := setupClient(t, handler)
	require.NoError(t, client.DeleteVisitor(context.Background(), "v-1"))
}

func TestClient_Appointments(t *testing.T) {
	t.Run("cancel", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			require.Equal(t, "/v1/appointments/a-1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		client := setupClient(t, handler)
		require.NoError(t, client.CancelAppointment(context.Background(), "a-1"))
	})

	t.Run("list", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/appointments", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"items": [{"id":"a-1","visitor_id":"v-1","host_id":"user-1","scheduled_at":"2026-03-14T13:00:00Z","status":"scheduled"}]
			}`))
		})

		client := setupClient(t, handler)
		appointments, err := client.ListAppointments(context.Background(), resources.ListOptions{})
		require.NoError(t, err)
		require.Len(t, appointments, 1)
		require.Equal(t, resources.AppointmentScheduled, appointments[0].Status)
	})
}

func TestClient_GetDashboardStats(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/stats/dashboard", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total_visitors": 120,
			"active_visitors": 7,
			"appointments_today": 12,
			"check_ins_today": 9,
			"visitors_by_day": [{"date":"2026-03-13","count":31},{"date":"2026-03-14","count":9}]
		}`))
	})

	client := setupClient(t, handler)
	stats, err := client.GetDashboardStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 120, stats.TotalVisitors)
	require.Equal(t, 7, stats.ActiveVisitors)
	require.Len(t, stats.VisitorsByDay, 2)
	require.Equal(t, 31, stats.VisitorsByDay[0].Count)
}

func TestClient_ListUsers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [{"id":"user-2","name":"Ben Okafor","email":"ben.okafor@example.com","role":"user","department":"Facilities"}]
		}`))
	})

	client := setupClient(t, handler)
	list, err := client.ListUsers(context.Background(), resources.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, users.RoleUser, list[0].Role)
}
