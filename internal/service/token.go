// File: internal/service/token.go
package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL 存取令牌固定一小時到期，沒有 refresh 機制
const TokenTTL = time.Hour

// Claims 定義 JWT 負載內容
type Claims struct {
	ID int `json:"id"`
	jwt.RegisteredClaims
}

var timeNow = time.Now

// TokenManager 以 HS256 與建構時注入的密鑰簽發、驗證令牌
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager 密鑰為空時回傳 ErrSigningKeyMissing；ttl <= 0 時使用 TokenTTL
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrSigningKeyMissing
	}
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue 依據使用者 ID 產生 JWT
func (m *TokenManager) Issue(userID int) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrSigningKeyMissing
	}
	now := timeNow()
	claims := Claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

// Verify 驗證簽章、演算法與到期時間；任何失敗都回傳 ErrInvalidToken
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(timeNow),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID <= 0 || claims.Subject != strconv.Itoa(claims.ID) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsTokenExpired 讓呼叫端區分過期與其他無效原因（僅供記錄使用）
func IsTokenExpired(err error) bool {
	return errors.Is(err, ErrInvalidToken) && errors.Is(err, jwt.ErrTokenExpired)
}
