// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auth-app/internal/database"
	"auth-app/internal/logging"
	"auth-app/internal/model"
	"auth-app/internal/store"
)

var (
	getUserByEmail = store.GetUserByEmail
	getUserByID    = store.GetUserByID
	createUser     = store.CreateUser
)

// AuthResult 為註冊與登入的回傳內容，不含密碼雜湊
type AuthResult struct {
	Token string
	User  model.Profile
}

// Authenticator 負責註冊、登入與個人資料查詢
type Authenticator struct {
	db     database.DB
	hasher *PasswordHasher
	tokens *TokenManager
	log    logging.Logger
}

func NewAuthenticator(db database.DB, hasher *PasswordHasher, tokens *TokenManager, log logging.Logger) *Authenticator {
	if log == nil {
		log = logging.Nop()
	}
	return &Authenticator{db: db, hasher: hasher, tokens: tokens, log: log}
}

// Register 建立新使用者並簽發令牌；email 已存在時回傳 ErrDuplicateUser
func (a *Authenticator) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	if _, err := getUserByEmail(ctx, a.db, email); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, store.ErrNotFound) {
		a.log.Error(ctx, "lookup user failed", "email", email, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	hash, err := a.hasher.Hash(ctx, password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		a.log.Error(ctx, "hash password failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	u, err := createUser(ctx, a.db, &model.User{Username: username, Email: email, PasswordHash: hash})
	if err != nil {
		// 併發註冊時由 unique constraint 決定輸家
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrDuplicateUser
		}
		a.log.Error(ctx, "create user failed", "email", email, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	return a.issue(ctx, u)
}

// Login 驗證帳密；email 不存在與密碼錯誤都回傳相同的 ErrInvalidCredentials
func (a *Authenticator) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	u, err := getUserByEmail(ctx, a.db, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.hasher.CompareDummy(ctx, password)
			a.log.Debug(ctx, "login rejected", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		a.log.Error(ctx, "lookup user failed", "email", email, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if err := a.hasher.Compare(ctx, u.PasswordHash, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			a.log.Debug(ctx, "login rejected", "reason", "password mismatch", "user_id", u.ID)
			return nil, ErrInvalidCredentials
		}
		a.log.Error(ctx, "compare password failed", "user_id", u.ID, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	return a.issue(ctx, u)
}

// GetProfile 每次都查資料庫；使用者可能被外部刪除，不快取
func (a *Authenticator) GetProfile(ctx context.Context, userID int) (*model.Profile, error) {
	u, err := getUserByID(ctx, a.db, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		a.log.Error(ctx, "get user failed", "user_id", userID, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	p := u.Profile()
	return &p, nil
}

func (a *Authenticator) issue(ctx context.Context, u *model.User) (*AuthResult, error) {
	token, err := a.tokens.Issue(u.ID)
	if err != nil {
		a.log.Error(ctx, "issue token failed", "user_id", u.ID, "err", err)
		return nil, err
	}
	return &AuthResult{Token: token, User: u.Profile()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
