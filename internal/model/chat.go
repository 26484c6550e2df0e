package model

import "time"

// ChatMessage はAIチャットの1往復を表す。履歴は追記のみ。
type ChatMessage struct {
	ID          string
	UserID      string
	Type        string
	Query       string
	Response    string
	Suggestions []string
	Confidence  float64
	CreatedAt   time.Time
}
