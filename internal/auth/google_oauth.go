package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hitoshi/studymate/internal/model"
)

const defaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleOAuthConfig はGoogleプロバイダーの設定。
type GoogleOAuthConfig struct {
	// テスト用にオーバーライド可能なURL
	UserInfoURL string
	Timeout     time.Duration
}

// GoogleOAuthProvider はGoogleのuserinfoエンドポイントでアクセストークンを解決する。
// 認可コードの交換はクライアント側で済んでいる前提。
type GoogleOAuthProvider struct {
	config GoogleOAuthConfig
	client *http.Client
}

// NewGoogleOAuthProvider はGoogleOAuthProviderを生成する。
func NewGoogleOAuthProvider(config GoogleOAuthConfig) *GoogleOAuthProvider {
	if config.UserInfoURL == "" {
		config.UserInfoURL = defaultGoogleUserInfoURL
	}
	return &GoogleOAuthProvider{
		config: config,
		client: newHTTPClient(config.Timeout),
	}
}

// googleUserInfo はGoogleのユーザー情報エンドポイントのレスポンス。
type googleUserInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// FetchUserInfo はアクセストークンでGoogleのユーザー情報を取得する。
func (p *GoogleOAuthProvider) FetchUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	var info googleUserInfo
	if err := getUserInfoJSON(ctx, p.client, p.config.UserInfoURL, accessToken, &info); err != nil {
		return nil, fmt.Errorf("google: %w", err)
	}

	if info.Sub == "" {
		return nil, fmt.Errorf("google: empty sub in user info response")
	}

	return &OAuthUserInfo{
		ProviderUserID: info.Sub,
		Email:          info.Email,
		Name:           info.Name,
		Provider:       model.ProviderGoogle,
	}, nil
}

// compile-time interface check
var _ UserInfoProvider = (*GoogleOAuthProvider)(nil)
