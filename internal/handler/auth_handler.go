package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/studymate/internal/auth"
	"github.com/hitoshi/studymate/internal/middleware"
	"github.com/hitoshi/studymate/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// SocialLogin はソーシャルログインを処理しトークンを発行する。
	SocialLogin(ctx context.Context, in auth.SocialLoginInput) (*auth.LoginResult, error)
	// Login はメールアドレスでログインする。未登録なら作成する。
	Login(ctx context.Context, email string) (*auth.LoginResult, error)
	// Register はローカルユーザーを作成する。
	Register(ctx context.Context, in auth.RegisterInput) (*auth.LoginResult, error)
	// Logout はトークンを破棄する。
	Logout(ctx context.Context, token string) error
	// CurrentUser はトークンに紐づくユーザーを返す。
	CurrentUser(ctx context.Context, token string) (*model.User, error)
	// ResolveUserKey はトークンに紐づくユーザーKeyを返す。
	ResolveUserKey(ctx context.Context, token string) (string, error)
}

// AuthHandler は認証とプロフィールのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

type socialLoginRequest struct {
	Provider     string `json:"provider" validate:"required"`
	AccessToken  string `json:"access_token"`
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	ProfileName string `json:"profile_name"`
	Password    string `json:"password"`
}

// userSummary はログイン系レスポンスに含めるユーザー情報。
type userSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type socialUserResponse struct {
	ID        string              `json:"id"`
	Email     string              `json:"email"`
	Username  string              `json:"username"`
	Name      string              `json:"name"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	Profile   socialProfileFields `json:"profile"`
}

type socialProfileFields struct {
	ProfileImage string `json:"profile_image"`
	Name         string `json:"name"`
}

type socialLoginResponse struct {
	Token   string             `json:"token"`
	User    socialUserResponse `json:"user"`
	Created bool               `json:"created"`
	Message string             `json:"message"`
}

type loginResponse struct {
	Status  string      `json:"status"`
	Token   string      `json:"token"`
	User    userSummary `json:"user"`
	Created bool        `json:"created"`
}

type registerResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    userSummary `json:"user"`
}

// meResponse はプロフィール取得のレスポンス。
type meResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	Name         string  `json:"name"`
	ProfileName  string  `json:"profile_name"`
	ProfileImage string  `json:"profile_image"`
	Provider     string  `json:"provider"`
	CreatedAt    string  `json:"created_at"`
	DateJoined   string  `json:"date_joined"`
	LastLogin    *string `json:"last_login"`
}

// SocialLogin はソーシャルログインを処理する。
// POST /api/auth/social/login
func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[socialLoginRequest](w, r)
	if !ok {
		return
	}

	result, err := h.service.SocialLogin(r.Context(), auth.SocialLoginInput{
		Provider:     req.Provider,
		AccessToken:  req.AccessToken,
		ID:           req.ID,
		Email:        req.Email,
		Name:         req.Name,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	u := result.User
	writeJSON(w, http.StatusOK, socialLoginResponse{
		Token: result.Token,
		User: socialUserResponse{
			ID:        u.ID,
			Email:     u.Email,
			Username:  u.Username,
			Name:      u.Name,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Profile: socialProfileFields{
				ProfileImage: u.ProfileImage,
				Name:         u.Name,
			},
		},
		Created: result.Created,
		Message: result.Message,
	})
}

// Login はメールアドレスでログインする。パスワードは検証しない。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[loginRequest](w, r)
	if !ok {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Status:  "success",
		Token:   result.Token,
		User:    toUserSummary(result.User),
		Created: result.Created,
	})
}

// Register はローカルユーザーを登録する。
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[registerRequest](w, r)
	if !ok {
		return
	}

	result, err := h.service.Register(r.Context(), auth.RegisterInput{
		Email:       req.Email,
		Username:    req.Username,
		Name:        req.Name,
		ProfileName: req.ProfileName,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Status:  "success",
		Message: result.Message,
		Token:   result.Token,
		User:    toUserSummary(result.User),
	})
}

// Logout は提示されたトークンを破棄する。トークンが無くても成功とする。
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.TokenFromRequest(r)); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Logged out successfully"})
}

// Me は現在のユーザー情報を返す。
// GET /api/users/me, /api/user, /api/user/profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context(), middleware.TokenFromRequest(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	joined := formatTime(user.CreatedAt)
	writeJSON(w, http.StatusOK, meResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		Name:         user.Name,
		ProfileName:  user.Name,
		ProfileImage: user.ProfileImage,
		Provider:     user.Provider,
		CreatedAt:    joined,
		DateJoined:   joined,
		LastLogin:    formatTimePtr(user.LastLogin),
	})
}

func toUserSummary(u *model.User) userSummary {
	return userSummary{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Name:     u.Name,
	}
}
