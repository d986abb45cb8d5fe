// Package token 负责签发与校验访问令牌（HMAC JWT），令牌携带 user_id 与 username.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yeisme/sharevault/pkg/configs"
)

var (
	// ErrExpired 令牌已过期.
	ErrExpired = errors.New("token expired")
	// ErrInvalid 令牌格式、签名或声明无效.
	ErrInvalid = errors.New("invalid token")
)

// Claims 令牌声明.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager 按配置签发、校验令牌.
type Manager struct {
	secret []byte
	method jwt.SigningMethod
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewManager 根据认证配置创建 Manager.
func NewManager(cfg configs.AuthConfig) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth secret is empty")
	}

	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %q", cfg.Algorithm)
	}

	expiry := time.Duration(cfg.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = configs.DefaultAuthExpiryHours * time.Hour
	}

	return &Manager{
		secret: []byte(cfg.Secret),
		method: method,
		expiry: expiry,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// Issue 为用户签发令牌.
func (m *Manager) Issue(userID uint, username string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.expiry)

	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, exp, nil
}

// Parse 校验令牌并返回声明.过期返回 ErrExpired，其余失败返回 ErrInvalid.
func (m *Manager) Parse(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}

		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.UserID == 0 {
		return nil, ErrInvalid
	}

	return claims, nil
}
