package account

import (
	"strings"

	domainAccount "fleet-console/internal/domain/account"
)

const (
	DefaultPageSize   = 10
	minPasswordLength = 6
	historyLimit      = 5
)

type ListRequest struct {
	Search string `form:"q" validate:"max=200"`
	Page   int    `form:"page" validate:"gte=0"`
	Size   int    `form:"size" validate:"omitempty,gte=1,lte=100"`
	Sort   string `form:"sort" validate:"omitempty,oneof=id name email login status roles"`
	Dir    string `form:"dir" validate:"omitempty,oneof=asc desc"`
}

// UserForm backs the combined user + account dialog. Login and Password are
// only read on create, ResetPassword only on edit.
type UserForm struct {
	FirstName     string   `form:"firstName" validate:"required,max=100"`
	MiddleName    string   `form:"middleName" validate:"max=100"`
	LastName      string   `form:"lastName" validate:"required,max=100"`
	Email         string   `form:"email" validate:"required,email"`
	Phone         string   `form:"phone" validate:"omitempty,phone"`
	BirthDate     string   `form:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Login         string   `form:"login" validate:"omitempty,min=3,max=100"`
	Password      string   `form:"password"`
	Status        string   `form:"status" validate:"required,account_status"`
	Roles         []string `form:"roles" validate:"dive,role"`
	ResetPassword string   `form:"resetPassword"`
}

// NewUserForm returns the create form defaults.
func NewUserForm() *UserForm {
	return &UserForm{Status: string(domainAccount.StatusActive), Roles: []string{string(domainAccount.RoleDriver)}}
}

// FormFor prefills the edit form from a user and its optional account.
func FormFor(u *domainAccount.User, acc *domainAccount.Account) *UserForm {
	f := &UserForm{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Status:    string(domainAccount.StatusActive),
	}
	if u.MiddleName != nil {
		f.MiddleName = *u.MiddleName
	}
	if u.Phone != nil {
		f.Phone = *u.Phone
	}
	if u.BirthDate != nil && len(*u.BirthDate) >= 10 {
		f.BirthDate = (*u.BirthDate)[:10]
	}
	if acc != nil {
		f.Login = acc.Login
		f.Status = string(acc.Status)
		for _, r := range acc.Roles {
			f.Roles = append(f.Roles, string(r))
		}
	}
	return f
}

func (f *UserForm) roles() []domainAccount.Role {
	out := make([]domainAccount.Role, 0, len(f.Roles))
	seen := make(map[string]bool, len(f.Roles))
	for _, r := range f.Roles {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, domainAccount.Role(r))
	}
	return out
}

// Row pairs a user with its linked account, nil when there is none or it failed to load.
type Row struct {
	User    domainAccount.User
	Account *domainAccount.Account
}

func (r Row) Name() string {
	return r.User.FullName()
}

func (r Row) RolesLabel() string {
	if r.Account == nil {
		return ""
	}
	return joinRoles(r.Account.Roles)
}

func joinRoles(roles []domainAccount.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

// UpdateResult carries the notice for the update chain. Warn is set when
// the user and account were saved but the password reset was not.
type UpdateResult struct {
	Message string
	Warn    bool
}

// AccountDetails is the admin view of one account.
type AccountDetails struct {
	User    domainAccount.User
	Account domainAccount.Account
	History []domainAccount.LoginHistory
}

// MyAccount is the signed-in principal's account page.
type MyAccount struct {
	Me         *domainAccount.Me
	RolesLabel string
	History    []domainAccount.LoginHistory
}
