package resources

import (
	"time"

	"github.com/NexoraTechHQ/nexora-sub000/users"
)

// VisitorStatus tracks where a visitor is in their visit.
type VisitorStatus string

const (
	VisitorExpected   VisitorStatus = "expected"
	VisitorCheckedIn  VisitorStatus = "checked_in"
	VisitorCheckedOut VisitorStatus = "checked_out"
)

type Visitor struct {
	ID          string        `json:"id,omitempty"`
	Name        string        `json:"name"`
	Email       string        `json:"email,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	Company     string        `json:"company,omitempty"`
	Host        string        `json:"host,omitempty"` // hosting employee
	Status      VisitorStatus `json:"status,omitempty"`
	BadgeNumber string        `json:"badge_number,omitempty"`
	CreatedAt   time.Time     `json:"created_at,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at,omitempty"`
}

// AppointmentStatus tracks the lifecycle of a scheduled visit.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID          string            `json:"id,omitempty"`
	VisitorID   string            `json:"visitor_id"`
	HostID      string            `json:"host_id"`
	Purpose     string            `json:"purpose,omitempty"`
	Location    string            `json:"location,omitempty"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Status      AppointmentStatus `json:"status,omitempty"`
	CreatedAt   time.Time         `json:"created_at,omitempty"`
}

// VisitorLog is one check-in or check-out event at a gate.
type VisitorLog struct {
	ID          string    `json:"id"`
	VisitorID   string    `json:"visitor_id"`
	VisitorName string    `json:"visitor_name,omitempty"`
	Action      string    `json:"action"` // check_in or check_out
	Gate        string    `json:"gate,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// AccessLog is one console-side audit record.
type AccessLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Resource  string    `json:"resource"`
	Action    string    `json:"action"`
	Allowed   bool      `json:"allowed"`
	Timestamp time.Time `json:"timestamp"`
}

// DayCount is one bucket of the per-day visitor chart data.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DashboardStats is the aggregate the dashboard renders.
type DashboardStats struct {
	TotalVisitors     int        `json:"total_visitors"`
	ActiveVisitors    int        `json:"active_visitors"`
	AppointmentsToday int        `json:"appointments_today"`
	CheckInsToday     int        `json:"check_ins_today"`
	VisitorsByDay     []DayCount `json:"visitors_by_day,omitempty"`
}

// listPage is the envelope every list endpoint responds with.
type listPage[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total,omitempty"`
}

// Directory users come back as the shared profile type.
type User = users.User
