package users

// RoleType represents the access level a console user holds.
type RoleType string

const (
	RoleAdmin   RoleType = "admin"
	RoleManager RoleType = "manager"
	RoleUser    RoleType = "user"
)

// User is the signed-in profile returned by the issuing authority. It is
// replaced wholesale on every login and never edited locally.
type User struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       RoleType `json:"role"`
	Department string   `json:"department,omitempty"`
	AvatarURL  string   `json:"avatar_url,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManage reports whether the user may administer visitor records.
func (u User) CanManage() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}
