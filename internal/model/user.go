// Package model はドメインモデルを定義する。
package model

import "time"

// 認証プロバイダー
const (
	ProviderLocal  = "local"
	ProviderKakao  = "kakao"
	ProviderGoogle = "google"
)

// User はアプリ利用ユーザーを表す。
// ローカルユーザーはメールアドレス、ソーシャルユーザーは "{provider}_{provider_id}" をKeyとする。
type User struct {
	Key          string
	ID           string
	Provider     string
	ProviderID   string
	Email        string
	Username     string
	Name         string
	FirstName    string
	LastName     string
	ProfileImage string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// SocialUserKey はソーシャルログインユーザーのKeyを組み立てる。
func SocialUserKey(provider, providerID string) string {
	return provider + "_" + providerID
}
