package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer はHS256署名のJWTをログイントークンとして発行する。
// 発行後の照合はトークンマップへの存在確認のみで、署名と有効期限は検証しない。
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// tokenClaims はトークンに埋め込むクレーム。
type tokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// NewTokenIssuer はTokenIssuerを生成する。
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue はユーザーKeyを埋め込んだ新しいトークンを発行する。
// jtiにUUIDを入れるため、同一秒内の連続発行でも毎回異なる文字列になる。
func (i *TokenIssuer) Issue(userKey string) (string, error) {
	now := i.now().UTC()
	claims := tokenClaims{
		UserID: userKey,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
