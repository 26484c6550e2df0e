package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/hitoshi/studymate/internal/metrics"
	"github.com/hitoshi/studymate/internal/model"
	"github.com/hitoshi/studymate/internal/repository"
)

// SocialLoginInput はソーシャルログインの入力。
// AccessTokenが無い、または照会に失敗した場合はクライアント申告のID/Email/Nameを使う。
type SocialLoginInput struct {
	Provider     string
	AccessToken  string
	ID           string
	Email        string
	Name         string
	ProfileImage string
}

// RegisterInput はローカルユーザー登録の入力。
type RegisterInput struct {
	Email       string
	Username    string
	Name        string
	ProfileName string
}

// LoginResult はログイン・登録の結果。
type LoginResult struct {
	Token   string
	User    *model.User
	Created bool
	Message string
}

const defaultRegisterName = "New User"

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	issuer    *TokenIssuer
	providers map[string]UserInfoProvider
	metrics   metrics.MetricsCollector
	now       func() time.Time
}

// NewService はServiceを生成する。
// providersのキーはプロバイダー名（"kakao" 等）。登録の無いプロバイダーは未対応として扱う。
func NewService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	issuer *TokenIssuer,
	providers map[string]UserInfoProvider,
	mc metrics.MetricsCollector,
) *Service {
	if mc == nil {
		mc = metrics.Nop()
	}
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		issuer:    issuer,
		providers: providers,
		metrics:   mc,
		now:       time.Now,
	}
}

// SocialLogin はソーシャルログインを処理し、新しいトークンを発行する。
// 未登録のユーザーKeyは作成し、登録済みなら最終ログイン日時とプロフィール画像を更新する。
func (s *Service) SocialLogin(ctx context.Context, in SocialLoginInput) (*LoginResult, error) {
	provider, ok := s.providers[in.Provider]
	if !ok {
		return nil, model.NewUnsupportedProviderError(in.Provider)
	}

	providerID, email, name := in.ID, in.Email, in.Name
	if in.AccessToken != "" {
		start := s.now()
		info, err := provider.FetchUserInfo(ctx, in.AccessToken)
		s.metrics.RecordOAuthLatency(s.now().Sub(start))
		if err != nil {
			// 照会失敗時はクライアント申告値で続行する
			slog.Warn("oauth user info lookup failed, using client-supplied fields",
				slog.String("provider", in.Provider),
				slog.String("error", err.Error()),
			)
			s.metrics.RecordOAuthVerify(in.Provider, metrics.OAuthResultFallback)
		} else {
			providerID, email, name = info.ProviderUserID, info.Email, info.Name
			s.metrics.RecordOAuthVerify(in.Provider, metrics.OAuthResultVerified)
		}
	} else {
		s.metrics.RecordOAuthVerify(in.Provider, metrics.OAuthResultSkipped)
	}

	if providerID == "" {
		return nil, model.NewInvalidRequestError("id is required")
	}

	key := model.SocialUserKey(in.Provider, providerID)
	user, err := s.userRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	now := s.now().UTC()
	created := user == nil
	if created {
		first, last := splitName(name)
		username := key
		if email != "" {
			username = localPart(email)
		}
		user = &model.User{
			Key:          key,
			ID:           key,
			Provider:     in.Provider,
			ProviderID:   providerID,
			Email:        email,
			Username:     username,
			Name:         name,
			FirstName:    first,
			LastName:     last,
			ProfileImage: in.ProfileImage,
			CreatedAt:    now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		slog.Info("new user created",
			slog.String("user_id", key),
			slog.String("provider", in.Provider),
		)
	} else {
		user.LastLogin = &now
		user.ProfileImage = in.ProfileImage
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		slog.Info("existing user logged in",
			slog.String("user_id", key),
			slog.String("provider", in.Provider),
		)
	}

	token, err := s.issueToken(ctx, key)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLogin(in.Provider, created)
	return &LoginResult{
		Token:   token,
		User:    user,
		Created: created,
		Message: socialLoginMessage(in.Provider, created),
	}, nil
}

// Login はメールアドレスでローカルログインする。パスワードは検証しない。
// 未登録のメールアドレスはその場でユーザーを作成する。
func (s *Service) Login(ctx context.Context, email string) (*LoginResult, error) {
	user, err := s.userRepo.FindByKey(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	created := user == nil
	if created {
		local := localPart(email)
		user = &model.User{
			Key:       email,
			Provider:  model.ProviderLocal,
			Email:     email,
			Username:  local,
			Name:      titleCase(local),
			CreatedAt: s.now().UTC(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		slog.Info("local user auto-created on login", slog.String("user_id", user.ID))
	}

	token, err := s.issueToken(ctx, user.Key)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLogin(model.ProviderLocal, created)
	return &LoginResult{Token: token, User: user, Created: created, Message: "로그인 성공"}, nil
}

// Register はローカルユーザーを作成する。同じメールアドレスのユーザーは置き換える。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	username := in.Username
	if username == "" {
		username = localPart(in.Email)
	}
	name := in.Name
	if name == "" {
		name = in.ProfileName
	}
	if name == "" {
		name = defaultRegisterName
	}

	user := &model.User{
		Key:       in.Email,
		Provider:  model.ProviderLocal,
		Email:     in.Email,
		Username:  username,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(ctx, user.Key)
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", slog.String("user_id", user.ID))
	s.metrics.RecordLogin(model.ProviderLocal, true)
	return &LoginResult{Token: token, User: user, Created: true, Message: "User registered successfully"}, nil
}

// Logout はトークンを破棄する。未登録・空のトークンでもエラーにしない。
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.tokenRepo.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	slog.Info("user logged out")
	return nil
}

// ResolveUserKey はトークンに紐づくユーザーKeyを返す。未登録なら空文字列を返す。
func (s *Service) ResolveUserKey(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}
	key, err := s.tokenRepo.FindUserKey(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to find token: %w", err)
	}
	return key, nil
}

// CurrentUser はトークンから現在のユーザーを取得する。
// トークンが無い・未登録なら NOT_AUTHENTICATED、ユーザーが消えていれば USER_NOT_FOUND を返す。
func (s *Service) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	key, err := s.ResolveUserKey(ctx, token)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, model.NewNotAuthenticatedError()
	}

	user, err := s.userRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// issueToken はトークンを発行してトークンマップに登録する。
// 既存トークンは失効させない。
func (s *Service) issueToken(ctx context.Context, userKey string) (string, error) {
	token, err := s.issuer.Issue(userKey)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	if err := s.tokenRepo.Create(ctx, token, userKey); err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}
	return token, nil
}

func socialLoginMessage(provider string, created bool) string {
	label := provider
	switch provider {
	case model.ProviderKakao:
		label = "카카오"
	case model.ProviderGoogle:
		label = "구글"
	}
	if created {
		return label + " 로그인 성공"
	}
	return label + " 로그인 (재로그인) 성공"
}

// localPart はメールアドレスの@より前を返す。
func localPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// splitName は最初の空白で名と姓に分ける。
func splitName(name string) (first, last string) {
	if name == "" {
		return "", ""
	}
	parts := strings.Split(name, " ")
	return parts[0], strings.Join(parts[1:], " ")
}

// titleCase は英字の連続ごとに先頭を大文字、残りを小文字にする。
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
