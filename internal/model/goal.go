package model

import "fmt"

// Goal は学習目標を表す。
// PUTで任意フィールドをそのままマージできるよう、JSONオブジェクト相当のマップとして保持する。
type Goal map[string]any

// Goalの既知フィールド名
const (
	GoalFieldID          = "id"
	GoalFieldTitle       = "title"
	GoalFieldDescription = "description"
	GoalFieldTargetDate  = "target_date"
	GoalFieldSubject     = "subject"
	GoalFieldDifficulty  = "difficulty"
	GoalFieldIsActive    = "is_active"
	GoalFieldProgress    = "progress"
	GoalFieldStatus      = "status"
	GoalFieldCreatedAt   = "created_at"
	GoalFieldUpdatedAt   = "updated_at"
)

// 目標ステータス
const (
	GoalStatusActive     = "active"
	GoalStatusInProgress = "in_progress"
	GoalStatusCompleted  = "completed"
)

// ID は目標IDを文字列で返す。PUTで数値に上書きされた場合も文字列化する。
func (g Goal) ID() string {
	return stringField(g, GoalFieldID)
}

// Status は目標ステータスを返す。
func (g Goal) Status() string {
	return stringField(g, GoalFieldStatus)
}

// Clone はトップレベルのフィールドをコピーした新しいGoalを返す。
func (g Goal) Clone() Goal {
	c := make(Goal, len(g))
	for k, v := range g {
		c[k] = v
	}
	return c
}

// Merge は指定フィールドを検証なしで上書きする。
func (g Goal) Merge(fields map[string]any) {
	for k, v := range fields {
		g[k] = v
	}
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
