package account

import (
	"context"

	"fleet-console/internal/domain/page"
)

type AuthRepository interface {
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*Me, error)
}

type Repository interface {
	Register(ctx context.Context, req *Register) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	View(ctx context.Context, id int64) (*AccountUserView, error)
	FindByLogin(ctx context.Context, login string) (*Account, error)
	ResetPassword(ctx context.Context, id int64, newPassword string) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	UpdateRoles(ctx context.Context, id int64, roles []Role) error
}

type UserRepository interface {
	Create(ctx context.Context, req *UserCreate) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Details(ctx context.Context, id int64) (*AccountUserView, error)
	List(ctx context.Context, q page.Query) (*page.Page[User], error)
	Search(ctx context.Context, q string, size int) ([]User, error)
	Update(ctx context.Context, id int64, req *UserUpdate) (*User, error)
	Delete(ctx context.Context, id int64) error
}

type AdminRepository interface {
	CreateUserWithAccount(ctx context.Context, req *AdminCreateUserWithAccount) (*AdminCreateUserWithAccountResult, error)
}

type LoginHistoryRepository interface {
	Mine(ctx context.Context) ([]LoginHistory, error)
	ByAccount(ctx context.Context, accountID int64) ([]LoginHistory, error)
}
