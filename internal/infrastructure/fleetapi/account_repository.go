package fleetapi

import (
	"context"
	"fmt"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/page"
)

const (
	accountBase      = "/api/accounts"
	userBase         = "/api/users"
	loginHistoryBase = "/api/login-histories"
)

type AccountRepository struct {
	client *Client
}

func NewAccountRepository(client *Client) account.Repository {
	return &AccountRepository{client: client}
}

func (r *AccountRepository) Register(ctx context.Context, req *account.Register) (*account.Account, error) {
	return postJSON[account.Account](ctx, r.client, accountBase, req)
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	return getJSON[account.Account](ctx, r.client, fmt.Sprintf("%s/%d", accountBase, id), nil)
}

func (r *AccountRepository) View(ctx context.Context, id int64) (*account.AccountUserView, error) {
	return getJSON[account.AccountUserView](ctx, r.client, fmt.Sprintf("%s/%d/details", accountBase, id), nil)
}

func (r *AccountRepository) FindByLogin(ctx context.Context, login string) (*account.Account, error) {
	return getJSON[account.Account](ctx, r.client, accountBase, NewQuery().String("q", login))
}

func (r *AccountRepository) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	body := map[string]string{"newPassword": newPassword}
	return r.client.patch(ctx, fmt.Sprintf("%s/%d/password", accountBase, id), body, nil)
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, id int64, status account.Status) error {
	return r.client.patch(ctx, fmt.Sprintf("%s/%d/status", accountBase, id), statusBody[account.Status]{Status: status}, nil)
}

func (r *AccountRepository) UpdateRoles(ctx context.Context, id int64, roles []account.Role) error {
	body := map[string][]account.Role{"roles": roles}
	return r.client.patch(ctx, fmt.Sprintf("%s/%d/roles", accountBase, id), body, nil)
}

type UserRepository struct {
	client *Client
}

func NewUserRepository(client *Client) account.UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) Create(ctx context.Context, req *account.UserCreate) (*account.User, error) {
	return postJSON[account.User](ctx, r.client, userBase, req)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*account.User, error) {
	return getJSON[account.User](ctx, r.client, fmt.Sprintf("%s/%d", userBase, id), nil)
}

func (r *UserRepository) Details(ctx context.Context, id int64) (*account.AccountUserView, error) {
	return getJSON[account.AccountUserView](ctx, r.client, fmt.Sprintf("%s/%d/details", userBase, id), nil)
}

// List fills envelope fields the users endpoint may omit.
func (r *UserRepository) List(ctx context.Context, q page.Query) (*page.Page[account.User], error) {
	if q.Size <= 0 {
		q.Size = 10
	}
	return listPage[account.User](ctx, r.client, userBase, q)
}

func (r *UserRepository) Search(ctx context.Context, q string, size int) ([]account.User, error) {
	if size <= 0 {
		size = 10
	}
	p, err := r.List(ctx, page.Query{Q: q, Page: 0, Size: size})
	if err != nil {
		return nil, err
	}
	return p.Content, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, req *account.UserUpdate) (*account.User, error) {
	return patchJSON[account.User](ctx, r.client, fmt.Sprintf("%s/%d", userBase, id), req)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.client.delete(ctx, fmt.Sprintf("%s/%d", userBase, id))
}

type AdminRepository struct {
	client *Client
}

func NewAdminRepository(client *Client) account.AdminRepository {
	return &AdminRepository{client: client}
}

func (r *AdminRepository) CreateUserWithAccount(ctx context.Context, req *account.AdminCreateUserWithAccount) (*account.AdminCreateUserWithAccountResult, error) {
	return postJSON[account.AdminCreateUserWithAccountResult](ctx, r.client, "/api/admin/users-with-account", req)
}

type LoginHistoryRepository struct {
	client *Client
}

func NewLoginHistoryRepository(client *Client) account.LoginHistoryRepository {
	return &LoginHistoryRepository{client: client}
}

func (r *LoginHistoryRepository) Mine(ctx context.Context) ([]account.LoginHistory, error) {
	return getList[account.LoginHistory](ctx, r.client, loginHistoryBase+"/me", nil)
}

func (r *LoginHistoryRepository) ByAccount(ctx context.Context, accountID int64) ([]account.LoginHistory, error) {
	return getList[account.LoginHistory](ctx, r.client, fmt.Sprintf("%s/account/%d", loginHistoryBase, accountID), nil)
}
