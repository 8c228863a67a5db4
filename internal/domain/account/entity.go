package account

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleDispatcher Role = "DISPATCHER"
	RoleDriver     Role = "DRIVER"
)

// AllRoles lists the roles selectable in account forms.
var AllRoles = []Role{RoleAdmin, RoleDispatcher, RoleDriver}

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusBlocked  Status = "BLOCKED"
	StatusInactive Status = "INACTIVE"
)

var AllStatuses = []Status{StatusActive, StatusBlocked, StatusInactive}

type Account struct {
	ID          int64      `json:"id"`
	Login       string     `json:"login"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	UserID      int64      `json:"userId"`
	Roles       []Role     `json:"roles"`
}

// UserShort is the account summary embedded in the /api/me response.
type UserShort struct {
	AccountID   int64      `json:"accountId"`
	Login       string     `json:"login"`
	Status      Status     `json:"status"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	UserID      int64      `json:"userId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
}

// Me describes the signed-in principal.
type Me struct {
	Authenticated bool       `json:"authenticated"`
	Username      string     `json:"username,omitempty"`
	Roles         []string   `json:"roles"`
	Account       *UserShort `json:"account,omitempty"`
}

// HasRole matches both "ROLE" and "ROLE_ROLE" spellings.
func (m *Me) HasRole(role Role) bool {
	if m == nil {
		return false
	}
	want := string(role)
	for _, r := range m.Roles {
		if r == want || r == "ROLE_"+want {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal holds at least one of roles.
func (m *Me) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if m.HasRole(r) {
			return true
		}
	}
	return false
}

func (m *Me) DisplayName() string {
	if m == nil {
		return ""
	}
	if m.Account != nil {
		if name := strings.TrimSpace(m.Account.FirstName + " " + m.Account.LastName); name != "" {
			return name
		}
		return m.Account.Login
	}
	return m.Username
}

// UserID returns the fleet user id of the principal, zero when unknown.
func (m *Me) UserID() int64 {
	if m == nil || m.Account == nil {
		return 0
	}
	return m.Account.UserID
}

type User struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"firstName"`
	MiddleName *string `json:"middleName,omitempty"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	BirthDate  *string `json:"birthDate,omitempty"` // YYYY-MM-DD
	AccountID  *int64  `json:"accountId,omitempty"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type UserCreate struct {
	FirstName  string  `json:"firstName"`
	MiddleName *string `json:"middleName,omitempty"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	BirthDate  *string `json:"birthDate,omitempty"`
}

type UserUpdate struct {
	FirstName  *string `json:"firstName,omitempty"`
	MiddleName *string `json:"middleName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	BirthDate  *string `json:"birthDate,omitempty"`
}

type AccountUserView struct {
	Account Account `json:"account"`
	User    User    `json:"user"`
}

type Register struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	UserID   *int64 `json:"userId,omitempty"`
	Roles    []Role `json:"roles,omitempty"`
	Status   Status `json:"status,omitempty"`
}

type AdminCreateUserWithAccount struct {
	FirstName  string  `json:"firstName"`
	MiddleName *string `json:"middleName,omitempty"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	BirthDate  *string `json:"birthDate,omitempty"`
	Login      string  `json:"login"`
	Password   string  `json:"password"`
	Roles      []Role  `json:"roles"`
	Status     Status  `json:"status,omitempty"`
}

type AdminCreateUserWithAccountResult struct {
	User    User    `json:"user"`
	Account Account `json:"account"`
}

type LoginHistory struct {
	ID           int64     `json:"id"`
	LoggedAt     time.Time `json:"loggedAt"`
	IP           *string   `json:"ip,omitempty"`
	UserAgent    *string   `json:"userAgent,omitempty"`
	Result       string    `json:"result"`
	AccountID    int64     `json:"accountId"`
	AccountLogin string    `json:"accountLogin"`
}

type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// AuthResult is returned by login and refresh.
type AuthResult struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	Account      *Account `json:"account,omitempty"`
}
