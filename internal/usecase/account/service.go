package account

import (
	"context"
	"errors"
	"sort"
	"strings"

	domainAccount "fleet-console/internal/domain/account"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/logger"
	"fleet-console/internal/validator"
	appErrors "fleet-console/pkg/errors"
	"fleet-console/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const accountFetchLimit = 4

// Service implements the user + account administration page and the
// signed-in principal's account page.
type Service struct {
	users    domainAccount.UserRepository
	accounts domainAccount.Repository
	admin    domainAccount.AdminRepository
	history  domainAccount.LoginHistoryRepository
}

func NewService(users domainAccount.UserRepository, accounts domainAccount.Repository, admin domainAccount.AdminRepository, history domainAccount.LoginHistoryRepository) *Service {
	return &Service{users: users, accounts: accounts, admin: admin, history: history}
}

// ListUsers loads a page of users with their linked accounts. Accounts that
// fail to load are left empty. Sorting applies to the loaded page.
func (s *Service) ListUsers(ctx context.Context, req *ListRequest) (*page.Page[Row], error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	q := page.Query{Q: strings.TrimSpace(req.Search), Page: req.Page, Size: req.Size}
	if q.Size == 0 {
		q.Size = DefaultPageSize
	}
	q = q.Clamp()

	p, err := s.users.List(ctx, q)
	if err != nil {
		return nil, err
	}
	p.Normalize(q.Page, q.Size)

	accounts := s.loadAccounts(ctx, p.Content)
	rows := make([]Row, 0, len(p.Content))
	for _, u := range p.Content {
		row := Row{User: u}
		if u.AccountID != nil {
			row.Account = accounts[*u.AccountID]
		}
		rows = append(rows, row)
	}
	sortRows(rows, req.Sort, req.Dir == "desc")

	return &page.Page[Row]{Content: rows, TotalElements: p.TotalElements, TotalPages: p.TotalPages, Size: p.Size, Number: p.Number}, nil
}

func (s *Service) loadAccounts(ctx context.Context, users []domainAccount.User) map[int64]*domainAccount.Account {
	ids := make([]int64, 0, len(users))
	seen := make(map[int64]bool, len(users))
	for _, u := range users {
		if u.AccountID != nil && *u.AccountID > 0 && !seen[*u.AccountID] {
			seen[*u.AccountID] = true
			ids = append(ids, *u.AccountID)
		}
	}

	found := make([]*domainAccount.Account, len(ids))
	var g errgroup.Group
	g.SetLimit(accountFetchLimit)
	for i, id := range ids {
		g.Go(func() error {
			acc, err := s.accounts.GetByID(ctx, id)
			if err != nil {
				logger.Debug("Account load failed", zap.Int64("account_id", id), zap.Error(err))
				return nil
			}
			found[i] = acc
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[int64]*domainAccount.Account, len(ids))
	for i, id := range ids {
		out[id] = found[i]
	}
	return out
}

func sortRows(rows []Row, key string, desc bool) {
	var value func(r Row) string
	switch key {
	case "name":
		value = Row.Name
	case "email":
		value = func(r Row) string { return r.User.Email }
	case "login":
		value = func(r Row) string {
			if r.Account == nil {
				return ""
			}
			return r.Account.Login
		}
	case "status":
		value = func(r Row) string {
			if r.Account == nil {
				return ""
			}
			return string(r.Account.Status)
		}
	case "roles":
		value = Row.RolesLabel
	case "id":
		sort.SliceStable(rows, func(i, j int) bool {
			if desc {
				return rows[i].User.ID > rows[j].User.ID
			}
			return rows[i].User.ID < rows[j].User.ID
		})
		return
	default:
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return value(rows[i]) > value(rows[j])
		}
		return value(rows[i]) < value(rows[j])
	})
}

func (s *Service) GetUser(ctx context.Context, userID int64) (*domainAccount.User, *domainAccount.Account, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if u.AccountID == nil {
		return u, nil, nil
	}
	acc, err := s.accounts.GetByID(ctx, *u.AccountID)
	if err != nil {
		return u, nil, nil
	}
	return u, acc, nil
}

func (s *Service) CreateUserWithAccount(ctx context.Context, form *UserForm) (*domainAccount.AdminCreateUserWithAccountResult, error) {
	if err := validator.Check(form); err != nil {
		return nil, err
	}
	roles := form.roles()
	if len(roles) == 0 {
		return nil, warn("Select at least one role")
	}
	login := strings.TrimSpace(form.Login)
	if login == "" {
		return nil, warn("Login is required")
	}
	password := strings.TrimSpace(form.Password)
	if len(password) < minPasswordLength {
		return nil, warn("Password must have at least 6 chars")
	}

	res, err := s.admin.CreateUserWithAccount(ctx, &domainAccount.AdminCreateUserWithAccount{
		FirstName:  strings.TrimSpace(form.FirstName),
		MiddleName: utils.OptionalString(form.MiddleName),
		LastName:   strings.TrimSpace(form.LastName),
		Email:      utils.SanitizeEmail(form.Email),
		Phone:      utils.OptionalString(utils.SanitizePhone(form.Phone)),
		BirthDate:  utils.OptionalString(form.BirthDate),
		Login:      login,
		Password:   password,
		Roles:      roles,
		Status:     domainAccount.Status(form.Status),
	})
	if err != nil {
		return nil, err
	}
	logger.Info("User with account created",
		zap.Int64("user_id", res.User.ID),
		zap.Int64("account_id", res.Account.ID),
		zap.String("event", "user_account_created"),
	)
	return res, nil
}

// UpdateUserWithAccount saves the user, then the account status and roles,
// then the optional password reset. A failed reset still reports the earlier
// steps as saved.
func (s *Service) UpdateUserWithAccount(ctx context.Context, userID int64, form *UserForm) (*UpdateResult, error) {
	if err := validator.Check(form); err != nil {
		return nil, err
	}
	roles := form.roles()
	if len(roles) == 0 {
		return nil, warn("Select at least one role")
	}

	firstName := strings.TrimSpace(form.FirstName)
	lastName := strings.TrimSpace(form.LastName)
	email := utils.SanitizeEmail(form.Email)
	u, err := s.users.Update(ctx, userID, &domainAccount.UserUpdate{
		FirstName:  &firstName,
		MiddleName: utils.OptionalString(form.MiddleName),
		LastName:   &lastName,
		Email:      &email,
		Phone:      utils.OptionalString(utils.SanitizePhone(form.Phone)),
		BirthDate:  utils.OptionalString(form.BirthDate),
	})
	if err != nil {
		return nil, err
	}
	if u.AccountID == nil || *u.AccountID == 0 {
		return &UpdateResult{Message: "User updated"}, nil
	}
	accountID := *u.AccountID

	if err := s.accounts.UpdateStatus(ctx, accountID, domainAccount.Status(form.Status)); err != nil {
		return nil, err
	}
	if err := s.accounts.UpdateRoles(ctx, accountID, roles); err != nil {
		return nil, err
	}
	logger.Info("User with account updated",
		zap.Int64("user_id", userID),
		zap.Int64("account_id", accountID),
		zap.String("event", "user_account_updated"),
	)

	password := strings.TrimSpace(form.ResetPassword)
	if password == "" {
		return &UpdateResult{Message: "User + account updated"}, nil
	}
	if len(password) < minPasswordLength {
		return &UpdateResult{Message: "Password must have at least 6 chars", Warn: true}, nil
	}
	if err := s.accounts.ResetPassword(ctx, accountID, password); err != nil {
		logger.Warn("Password reset failed",
			zap.Int64("account_id", accountID),
			zap.Error(err),
		)
		msg := "Updated, but password reset failed"
		var apiErr interface{ Message() string }
		if errors.As(err, &apiErr) && apiErr.Message() != "" {
			msg = apiErr.Message()
		}
		return &UpdateResult{Message: msg, Warn: true}, nil
	}
	return &UpdateResult{Message: "User + account updated (password reset)"}, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	logger.Info("User deleted",
		zap.Int64("user_id", userID),
		zap.String("event", "user_deleted"),
	)
	return nil
}

// AccountDetails loads the account linked to a user with its login history.
func (s *Service) AccountDetails(ctx context.Context, userID int64) (*AccountDetails, error) {
	u, acc, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, warn("User has no linked account")
	}
	history, err := s.history.ByAccount(ctx, acc.ID)
	if err != nil {
		logger.Debug("Login history load failed", zap.Int64("account_id", acc.ID), zap.Error(err))
		history = nil
	}
	return &AccountDetails{User: *u, Account: *acc, History: newestFirst(history, 0)}, nil
}

// My builds the account page of the signed-in principal with the five most
// recent logins. History failures leave the list empty.
func (s *Service) My(ctx context.Context, me *domainAccount.Me) *MyAccount {
	view := &MyAccount{Me: me, RolesLabel: "-", History: []domainAccount.LoginHistory{}}
	if me == nil || !me.Authenticated {
		return view
	}
	if len(me.Roles) > 0 {
		view.RolesLabel = strings.Join(me.Roles, ", ")
	}
	history, err := s.history.Mine(ctx)
	if err != nil {
		logger.Debug("Login history load failed", zap.Error(err))
		return view
	}
	view.History = newestFirst(history, historyLimit)
	return view
}

func newestFirst(list []domainAccount.LoginHistory, limit int) []domainAccount.LoginHistory {
	out := append([]domainAccount.LoginHistory{}, list...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LoggedAt.After(out[j].LoggedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func warn(message string) error {
	return appErrors.NewAppError("VALIDATION_ERROR", message, appErrors.ErrInvalidInput)
}
