package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/studymate/internal/auth"
	"github.com/hitoshi/studymate/internal/goal"
	"github.com/hitoshi/studymate/internal/model"
	"github.com/hitoshi/studymate/internal/stats"
	"github.com/hitoshi/studymate/internal/studysession"
)

// --- モック定義 ---

type mockAuthService struct {
	socialLoginFn    func(ctx context.Context, in auth.SocialLoginInput) (*auth.LoginResult, error)
	loginFn          func(ctx context.Context, email string) (*auth.LoginResult, error)
	registerFn       func(ctx context.Context, in auth.RegisterInput) (*auth.LoginResult, error)
	logoutFn         func(ctx context.Context, token string) error
	currentUserFn    func(ctx context.Context, token string) (*model.User, error)
	resolveUserKeyFn func(ctx context.Context, token string) (string, error)
}

func (m *mockAuthService) SocialLogin(ctx context.Context, in auth.SocialLoginInput) (*auth.LoginResult, error) {
	if m.socialLoginFn != nil {
		return m.socialLoginFn(ctx, in)
	}
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, email string) (*auth.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email)
	}
	return nil, nil
}

func (m *mockAuthService) Register(ctx context.Context, in auth.RegisterInput) (*auth.LoginResult, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, token)
	}
	return nil
}

func (m *mockAuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if m.currentUserFn != nil {
		return m.currentUserFn(ctx, token)
	}
	return nil, model.NewNotAuthenticatedError()
}

func (m *mockAuthService) ResolveUserKey(ctx context.Context, token string) (string, error) {
	if m.resolveUserKeyFn != nil {
		return m.resolveUserKeyFn(ctx, token)
	}
	return "", nil
}

type mockGoalService struct {
	listFn   func(ctx context.Context) ([]model.Goal, error)
	getFn    func(ctx context.Context, id string) (model.Goal, error)
	createFn func(ctx context.Context, in goal.CreateInput) (model.Goal, error)
	updateFn func(ctx context.Context, id string, fields map[string]any) (model.Goal, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockGoalService) List(ctx context.Context) ([]model.Goal, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockGoalService) Get(ctx context.Context, id string) (model.Goal, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewGoalNotFoundError(id)
}

func (m *mockGoalService) Create(ctx context.Context, in goal.CreateInput) (model.Goal, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return model.Goal{}, nil
}

func (m *mockGoalService) Update(ctx context.Context, id string, fields map[string]any) (model.Goal, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, model.NewGoalNotFoundError(id)
}

func (m *mockGoalService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockSessionService struct {
	listFn   func(ctx context.Context) ([]*model.StudySession, error)
	startFn  func(ctx context.Context, in studysession.StartInput) (*model.StudySession, error)
	recordFn func(ctx context.Context, in studysession.RecordInput) (*model.StudySession, error)
	endFn    func(ctx context.Context, id string, in studysession.EndInput) (*studysession.EndResult, error)
}

func (m *mockSessionService) List(ctx context.Context) ([]*model.StudySession, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockSessionService) Start(ctx context.Context, in studysession.StartInput) (*model.StudySession, error) {
	if m.startFn != nil {
		return m.startFn(ctx, in)
	}
	return &model.StudySession{}, nil
}

func (m *mockSessionService) Record(ctx context.Context, in studysession.RecordInput) (*model.StudySession, error) {
	if m.recordFn != nil {
		return m.recordFn(ctx, in)
	}
	return &model.StudySession{}, nil
}

func (m *mockSessionService) End(ctx context.Context, id string, in studysession.EndInput) (*studysession.EndResult, error) {
	if m.endFn != nil {
		return m.endFn(ctx, id, in)
	}
	return &studysession.EndResult{ID: id}, nil
}

type mockChatService struct {
	chatFn    func(ctx context.Context, userID, message string) (*model.ChatMessage, error)
	historyFn func(ctx context.Context) ([]*model.ChatMessage, error)
}

func (m *mockChatService) Chat(ctx context.Context, userID, message string) (*model.ChatMessage, error) {
	if m.chatFn != nil {
		return m.chatFn(ctx, userID, message)
	}
	return &model.ChatMessage{UserID: userID, Query: message}, nil
}

func (m *mockChatService) History(ctx context.Context) ([]*model.ChatMessage, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx)
	}
	return nil, nil
}

type mockStatsService struct {
	overviewFn func(ctx context.Context) (*stats.Overview, error)
}

func (m *mockStatsService) Overview(ctx context.Context) (*stats.Overview, error) {
	if m.overviewFn != nil {
		return m.overviewFn(ctx)
	}
	return &stats.Overview{}, nil
}

// --- ヘルパー ---

// decodeRecorder はレスポンスボディをmapにデコードする。
func decodeRecorder(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

// assertErrorCode はエラーレスポンスのステータスとコードを検証する。
func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Errorf("status = %d, want %d", w.Code, wantStatus)
	}
	body := decodeRecorder(t, w)
	if body["code"] != wantCode {
		t.Errorf("code = %v, want %q", body["code"], wantCode)
	}
}

// withURLParam はchiのURLパラメータをリクエストに設定する。
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
