package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/studymate/internal/stats"
)

// StatsServiceInterface は統計ハンドラーが必要とするサービスインターフェース。
type StatsServiceInterface interface {
	Overview(ctx context.Context) (*stats.Overview, error)
}

// StatsHandler は学習統計のHTTPハンドラー。
type StatsHandler struct {
	service StatsServiceInterface
}

// NewStatsHandler はStatsHandlerを生成する。
func NewStatsHandler(service StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: service}
}

type dayHoursResponse struct {
	Day   string `json:"day"`
	Hours int    `json:"hours"`
}

type overviewResponse struct {
	TotalStudyTime int                `json:"total_study_time"`
	TotalSessions  int                `json:"total_sessions"`
	ActiveGoals    int                `json:"active_goals"`
	CompletedGoals int                `json:"completed_goals"`
	WeeklyData     []dayHoursResponse `json:"weekly_data"`
}

// Overview は学習統計の概要を返す。
// GET /api/study/stats/overview
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.service.Overview(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	weekly := make([]dayHoursResponse, len(ov.WeeklyData))
	for i, d := range ov.WeeklyData {
		weekly[i] = dayHoursResponse{Day: d.Day, Hours: d.Hours}
	}
	writeJSON(w, http.StatusOK, overviewResponse{
		TotalStudyTime: ov.TotalStudyTime,
		TotalSessions:  ov.TotalSessions,
		ActiveGoals:    ov.ActiveGoals,
		CompletedGoals: ov.CompletedGoals,
		WeeklyData:     weekly,
	})
}
