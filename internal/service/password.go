// File: internal/service/password.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"auth-app/internal/worker"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes bcrypt 只接受 72 bytes 以內的輸入，以 byte 計算而非字元
const MaxPasswordBytes = 72

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	randRead                     = rand.Read
)

var (
	// ErrPasswordMismatch 密碼與雜湊不符
	ErrPasswordMismatch = errors.New("password does not match")
	// ErrPasswordTooLong 密碼超過 MaxPasswordBytes
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// PasswordHasher 以 bcrypt 雜湊與比對密碼；bcrypt 的 salt 每次隨機產生並存在雜湊字串內。
// pool 不為 nil 時，所有 bcrypt 運算都交由 worker pool 執行，以限制同時佔用的 CPU。
type PasswordHasher struct {
	cost int
	pool worker.Pool

	dummy    []byte
	dummyErr error
}

// NewPasswordHasher 同時預先產生 CompareDummy 使用的假雜湊
func NewPasswordHasher(cost int, pool worker.Pool) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h := &PasswordHasher{cost: cost, pool: pool}
	h.dummy, h.dummyErr = newDummyHash(cost)
	return h
}

func newDummyHash(cost int) ([]byte, error) {
	buf := make([]byte, 18)
	if _, err := randRead(buf); err != nil {
		return nil, err
	}
	return bcryptGenerateFromPassword([]byte(base64.RawStdEncoding.EncodeToString(buf)), cost)
}

// Hash 接收明文密碼，回傳 bcrypt 哈希字串
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	var hashBytes []byte
	var err error
	if runErr := h.run(ctx, func() {
		hashBytes, err = bcryptGenerateFromPassword([]byte(password), h.cost)
	}); runErr != nil {
		return "", runErr
	}
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Compare 比對明文密碼與 bcrypt 哈希，成功回傳 nil，不符回傳 ErrPasswordMismatch。
// 超過 MaxPasswordBytes 的密碼一律視為不符，避免 bcrypt 截斷後誤判相同。
func (h *PasswordHasher) Compare(ctx context.Context, hash, password string) error {
	if len(password) > MaxPasswordBytes {
		return ErrPasswordMismatch
	}
	var err error
	if runErr := h.run(ctx, func() {
		err = bcryptCompareHashAndPassword([]byte(hash), []byte(password))
	}); runErr != nil {
		return runErr
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// CompareDummy 對固定的假雜湊做一次比對，讓「帳號不存在」與「密碼錯誤」耗時相近
func (h *PasswordHasher) CompareDummy(ctx context.Context, password string) {
	if h.dummyErr != nil {
		return
	}
	_ = h.Compare(ctx, string(h.dummy), password)
}

func (h *PasswordHasher) run(ctx context.Context, fn func()) error {
	if h.pool == nil {
		fn()
		return nil
	}
	done := make(chan struct{})
	if err := h.pool.Submit(ctx, func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
