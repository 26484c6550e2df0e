package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/studymate/internal/model"
)

const defaultKakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"

// KakaoOAuthConfig はKakaoプロバイダーの設定。
type KakaoOAuthConfig struct {
	// テスト用にオーバーライド可能なURL
	UserInfoURL string
	Timeout     time.Duration
}

// KakaoOAuthProvider はKakaoのユーザー情報APIでアクセストークンを解決する。
type KakaoOAuthProvider struct {
	config KakaoOAuthConfig
	client *http.Client
}

// NewKakaoOAuthProvider はKakaoOAuthProviderを生成する。
func NewKakaoOAuthProvider(config KakaoOAuthConfig) *KakaoOAuthProvider {
	if config.UserInfoURL == "" {
		config.UserInfoURL = defaultKakaoUserInfoURL
	}
	return &KakaoOAuthProvider{
		config: config,
		client: newHTTPClient(config.Timeout),
	}
}

// kakaoUserInfo はKakaoのユーザー情報エンドポイントのレスポンス。
type kakaoUserInfo struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// FetchUserInfo はアクセストークンでKakaoのユーザー情報を取得する。
func (p *KakaoOAuthProvider) FetchUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	var info kakaoUserInfo
	if err := getUserInfoJSON(ctx, p.client, p.config.UserInfoURL, accessToken, &info); err != nil {
		return nil, fmt.Errorf("kakao: %w", err)
	}

	if info.ID == 0 {
		return nil, fmt.Errorf("kakao: empty id in user info response")
	}

	return &OAuthUserInfo{
		ProviderUserID: strconv.FormatInt(info.ID, 10),
		Email:          info.KakaoAccount.Email,
		Name:           info.KakaoAccount.Profile.Nickname,
		Provider:       model.ProviderKakao,
	}, nil
}

// compile-time interface check
var _ UserInfoProvider = (*KakaoOAuthProvider)(nil)
