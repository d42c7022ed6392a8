package navigation

import "sync"

// Console surfaces the session layer can route to.
const (
	RouteSignIn         = "/login"
	RouteSignUp         = "/register"
	RouteForgotPassword = "/forgot-password"
	RouteDashboard      = "/dashboard"
)

// publicRoutes are reachable without a session.
var publicRoutes = map[string]struct{}{
	RouteSignIn:         {},
	RouteSignUp:         {},
	RouteForgotPassword: {},
}

// IsPublic reports whether path is reachable without authentication.
func IsPublic(path string) bool {
	_, ok := publicRoutes[path]
	return ok
}

// Navigator is the single navigation boundary: an abstract "redirect to
// path" plus the current location, so the session layer never touches the
// rendering surface directly.
type Navigator interface {
	CurrentPath() string
	NavigateTo(path string)
}

// Recorder is a Navigator for tests. It records every navigation in order.
type Recorder struct {
	mu    sync.Mutex
	path  string
	moves []string
}

var _ Navigator = (*Recorder)(nil)

func NewRecorder(startPath string) *Recorder {
	return &Recorder{path: startPath}
}

func (r *Recorder) CurrentPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

func (r *Recorder) NavigateTo(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = path
	r.moves = append(r.moves, path)
}

// Moves returns a copy of every navigation performed so far.
func (r *Recorder) Moves() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.moves...)
}
