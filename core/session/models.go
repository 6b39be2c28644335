package session

import (
	"time"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
)

// Roles, as issued by the courses API.
const (
	RoleStudent  = "STUDENT"
	RoleLecturer = "LECTURER"
	RoleAdmin    = "ADMIN"
)

// DashboardPath is where the UI lands after a successful login.
const DashboardPath = "/dashboard"

// Session is the authenticated user context. Token is the courses API bearer token
// and never leaves the server.
type Session struct {
	ID            string    `json:"id"`
	Token         string    `json:"-"`
	FullName      string    `json:"fullname"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	StudentNumber string    `json:"studentnumber,omitempty"`
	Email         string    `json:"email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s Session) IsStudent() bool  { return s.Role == RoleStudent }
func (s Session) IsLecturer() bool { return s.Role == RoleLecturer }
func (s Session) IsAdmin() bool    { return s.Role == RoleAdmin }

// CanTeach reports whether the session may create, edit and grade assignments.
func (s Session) CanTeach() bool { return s.IsLecturer() || s.IsAdmin() }

// Identifier returns the student number, falling back to the username.
func (s Session) Identifier() string {
	if s.StudentNumber != "" {
		return s.StudentNumber
	}
	return s.Username
}

func (s Session) LogUser() core.LogUser {
	return core.LogUser{ID: s.ID, Username: s.Username, Email: s.Email}
}

// Profile is what the courses API answers to a successful login.
type Profile struct {
	Token         string `json:"token"`
	FullName      string `json:"fullname"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	StudentNumber string `json:"studentnumber,omitempty"`
	Email         string `json:"email,omitempty"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks both fields are filled in, reporting every missing one.
func (c *Credentials) Validate() error {
	c.Username = core.CleanString(c.Username)

	var flds []core.FieldError
	if c.Username == "" {
		flds = append(flds, core.FieldError{Field: "username", Error: errUsernameRequired})
	}
	if c.Password == "" {
		flds = append(flds, core.FieldError{Field: "password", Error: errPasswordRequired})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}
