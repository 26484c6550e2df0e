package repository

import (
	"context"
	"testing"
	"time"

	"github.com/hitoshi/studymate/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MemoryStoreTestSuite はテストごとに新しいストアを用意する。
type MemoryStoreTestSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func (s *MemoryStoreTestSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
}

func (s *MemoryStoreTestSuite) TestUser_CreateAssignsSequentialID() {
	users := s.store.Users()

	a := &model.User{Key: "a@example.com", Email: "a@example.com"}
	b := &model.User{Key: "kakao_42", ID: "kakao_42"}
	require.NoError(s.T(), users.Create(s.ctx, a))
	require.NoError(s.T(), users.Create(s.ctx, b))

	assert.Equal(s.T(), "1", a.ID)
	assert.Equal(s.T(), "kakao_42", b.ID)

	assert.Equal(s.T(), 2, s.store.Counts()["users"])
}

func (s *MemoryStoreTestSuite) TestUser_FindByKeyReturnsCopy() {
	users := s.store.Users()
	require.NoError(s.T(), users.Create(s.ctx, &model.User{Key: "a@example.com", Name: "A"}))

	got, err := users.FindByKey(s.ctx, "a@example.com")
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got)
	got.Name = "changed"

	again, _ := users.FindByKey(s.ctx, "a@example.com")
	assert.Equal(s.T(), "A", again.Name)
}

func (s *MemoryStoreTestSuite) TestUser_FindByKeyMissingReturnsNil() {
	got, err := s.store.Users().FindByKey(s.ctx, "missing")
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got)
}

func (s *MemoryStoreTestSuite) TestToken_MultipleTokensPerUser() {
	tokens := s.store.Tokens()
	require.NoError(s.T(), tokens.Create(s.ctx, "t1", "u"))
	require.NoError(s.T(), tokens.Create(s.ctx, "t2", "u"))

	k1, _ := tokens.FindUserKey(s.ctx, "t1")
	k2, _ := tokens.FindUserKey(s.ctx, "t2")
	assert.Equal(s.T(), "u", k1)
	assert.Equal(s.T(), "u", k2)

	require.NoError(s.T(), tokens.Delete(s.ctx, "t1"))
	k1, _ = tokens.FindUserKey(s.ctx, "t1")
	assert.Empty(s.T(), k1)
	k2, _ = tokens.FindUserKey(s.ctx, "t2")
	assert.Equal(s.T(), "u", k2)
}

func (s *MemoryStoreTestSuite) TestToken_DeleteUnknownIsNoop() {
	assert.NoError(s.T(), s.store.Tokens().Delete(s.ctx, "never-issued"))
}

func (s *MemoryStoreTestSuite) TestGoal_CreateListUpdateDelete() {
	goals := s.store.Goals()

	g1, err := goals.Create(s.ctx, model.Goal{"title": "first"})
	require.NoError(s.T(), err)
	g2, err := goals.Create(s.ctx, model.Goal{"title": "second"})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "1", g1.ID())
	assert.Equal(s.T(), "2", g2.ID())

	updated, err := goals.Update(s.ctx, "1", map[string]any{"status": "completed", "extra": true})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), updated)
	assert.Equal(s.T(), "completed", updated.Status())
	assert.Equal(s.T(), true, updated["extra"])
	assert.Equal(s.T(), "first", updated["title"])

	require.NoError(s.T(), goals.Delete(s.ctx, "1"))
	list, err := goals.List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), "2", list[0].ID())
}

func (s *MemoryStoreTestSuite) TestGoal_UpdateMissingReturnsNil() {
	got, err := s.store.Goals().Update(s.ctx, "99", map[string]any{"title": "x"})
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got)
}

func (s *MemoryStoreTestSuite) TestGoal_IDCollisionAfterDeleteIsAccepted() {
	goals := s.store.Goals()
	_, _ = goals.Create(s.ctx, model.Goal{"title": "a"})
	_, _ = goals.Create(s.ctx, model.Goal{"title": "b"})
	require.NoError(s.T(), goals.Delete(s.ctx, "1"))

	// 件数ベースの採番のため、残っている "2" と同じIDが振られる
	g, err := goals.Create(s.ctx, model.Goal{"title": "c"})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "2", g.ID())
}

func (s *MemoryStoreTestSuite) TestGoal_ListReturnsCopies() {
	goals := s.store.Goals()
	_, _ = goals.Create(s.ctx, model.Goal{"title": "a"})

	list, _ := goals.List(s.ctx)
	list[0]["title"] = "mutated"

	again, _ := goals.FindByID(s.ctx, "1")
	assert.Equal(s.T(), "a", again["title"])
}

func (s *MemoryStoreTestSuite) TestSession_CreateAndEnd() {
	sessions := s.store.Sessions()
	sess := &model.StudySession{Subject: "math", IsActive: true}
	require.NoError(s.T(), sessions.Create(s.ctx, sess))
	assert.Equal(s.T(), "1", sess.ID)

	end := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	got, err := sessions.End(s.ctx, "1", model.SessionEnd{Duration: 30, Notes: "done", Effectiveness: 4, EndTime: end})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got)
	assert.False(s.T(), got.IsActive)
	assert.Equal(s.T(), 30, got.ActualDuration)
	assert.Equal(s.T(), model.SessionStatusCompleted, got.Status)
	assert.True(s.T(), got.EndTime.Equal(end))

	missing, err := sessions.End(s.ctx, "404", model.SessionEnd{})
	require.NoError(s.T(), err)
	assert.Nil(s.T(), missing)
}

func (s *MemoryStoreTestSuite) TestChat_AppendOnly() {
	chat := s.store.Chat()
	require.NoError(s.T(), chat.Append(s.ctx, &model.ChatMessage{ID: "a"}))
	require.NoError(s.T(), chat.Append(s.ctx, &model.ChatMessage{ID: "b"}))

	list, err := chat.List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 2)
	assert.Equal(s.T(), "a", list[0].ID)
	assert.Equal(s.T(), "b", list[1].ID)
}

func (s *MemoryStoreTestSuite) TestSeedFixtures() {
	s.store.SeedFixtures(time.Now())

	key, err := s.store.Tokens().FindUserKey(s.ctx, FixtureUserToken)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), FixtureUserEmail, key)

	goals, _ := s.store.Goals().List(s.ctx)
	require.Len(s.T(), goals, 3)
	assert.Equal(s.T(), "1", goals[0].ID())

	counts := s.store.Counts()
	assert.Equal(s.T(), 1, counts["users"])
	assert.Equal(s.T(), 3, counts["goals"])
}

func TestMemoryStoreTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreTestSuite))
}
