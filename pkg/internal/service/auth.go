package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/model"
	"github.com/yeisme/sharevault/pkg/internal/storage/db"
	"github.com/yeisme/sharevault/pkg/internal/types"
	nlog "github.com/yeisme/sharevault/pkg/log"
	"github.com/yeisme/sharevault/pkg/token"
)

// errNoIssuer 未配置签名密钥，无法签发令牌.
var errNoIssuer = errors.New("token issuer not configured")

// AuthService 账户注册与登录.
type AuthService struct {
	deps   Deps
	tokens *token.Manager
}

// NewAuthService 从 context 获取依赖实例，令牌参数来自全局配置.
func NewAuthService(c context.Context) *AuthService {
	tm, err := token.NewManager(configs.GetConfig().Auth)
	if err != nil {
		nlog.Logger().Error().Err(err).Msg("create token manager failed")
	}

	return NewAuthServiceWith(DepsFromContext(c), tm)
}

// NewAuthServiceWith 使用显式依赖创建服务.
func NewAuthServiceWith(deps Deps, tokens *token.Manager) *AuthService {
	return &AuthService{deps: deps.normalize(), tokens: tokens}
}

// Register 创建用户并签发令牌.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error) {
	if s.tokens == nil {
		return nil, errNoIssuer
	}

	users := s.deps.DB.Users()

	if _, err := users.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		CreatedAt:    s.deps.Now().UTC(),
	}

	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}

		return nil, err
	}

	nlog.Logger().Info().Uint("user_id", u.UserID).Str("username", u.Username).Msg("user registered")

	return s.issue(u)
}

// Login 校验用户名与密码并签发令牌.用户不存在与密码错误返回同一个错误.
func (s *AuthService) Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error) {
	if s.tokens == nil {
		return nil, errNoIssuer
	}

	u, err := s.deps.DB.Users().GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *AuthService) issue(u *model.User) (*types.AuthResponse, error) {
	signed, exp, err := s.tokens.Issue(u.UserID, u.Username)
	if err != nil {
		return nil, err
	}

	return &types.AuthResponse{
		Token:     signed,
		Username:  u.Username,
		UserID:    u.UserID,
		ExpiresAt: exp,
	}, nil
}
