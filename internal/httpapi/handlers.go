// ABOUTME: HTTP handlers for daily readings, demographics, scores and backfill.
// ABOUTME: Each handler binds and validates input, then calls storage or the scoring service.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/harperreed/wellness/internal/wellness"
)

const defaultWeeklyLimit = 12

// Handler serves the wellness API routes.
type Handler struct {
	repo storage.Repository
	svc  *wellness.Service
	now  func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(repo storage.Repository, svc *wellness.Service) *Handler {
	return &Handler{repo: repo, svc: svc, now: time.Now}
}

// GET /healthcheck
func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.repo.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "list_users_failed", err)
		return
	}
	respondOK(c, gin.H{"users": users})
}

type dailyRequest struct {
	Date       string   `json:"date" binding:"omitempty,day"`
	MetricType string   `json:"metric_type" binding:"required,metric_type"`
	Value      *float64 `json:"value" binding:"required"`
}

// POST /api/users/:user_id/daily
func (h *Handler) RecordDaily(c *gin.Context) {
	userID := c.Param("user_id")
	var req dailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", bindError(err))
		return
	}

	day := models.Day(h.now())
	if req.Date != "" {
		day, _ = models.ParseDay(req.Date)
	}

	ctx := c.Request.Context()
	r := models.NewDailyMetricRecord(userID, day).WithValue(models.MetricType(req.MetricType), *req.Value)
	if err := h.repo.SaveDailyRecord(ctx, r); err != nil {
		respondError(c, http.StatusInternalServerError, "save_failed", err)
		return
	}

	// Return the merged day so callers see every reading stored for it.
	records, err := h.repo.ListDailyRecords(ctx, userID, day, day)
	if err != nil || len(records) == 0 {
		c.JSON(http.StatusCreated, gin.H{"record": r})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": records[0]})
}

type rangeQuery struct {
	From string `form:"from" binding:"omitempty,day"`
	To   string `form:"to" binding:"omitempty,day"`
}

// GET /api/users/:user_id/daily
func (h *Handler) ListDaily(c *gin.Context) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_query", bindError(err))
		return
	}
	var from, to time.Time
	if q.From != "" {
		from, _ = models.ParseDay(q.From)
	}
	if q.To != "" {
		to, _ = models.ParseDay(q.To)
	}

	records, err := h.repo.ListDailyRecords(c.Request.Context(), c.Param("user_id"), from, to)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "list_daily_failed", err)
		return
	}
	if records == nil {
		records = []*models.DailyMetricRecord{}
	}
	respondOK(c, gin.H{"records": records})
}

// GET /api/users/:user_id/demographics
func (h *Handler) GetDemographics(c *gin.Context) {
	demo, err := h.repo.GetDemographics(c.Request.Context(), c.Param("user_id"))
	if errors.Is(err, storage.ErrNotFound) {
		respondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "get_demographics_failed", err)
		return
	}
	respondOK(c, gin.H{"demographics": demo, "effective_bmi": demo.EffectiveBMI()})
}

type demographicsRequest struct {
	Age      *float64 `json:"age" binding:"omitempty,gt=0"`
	BMI      *float64 `json:"bmi" binding:"omitempty,gt=0"`
	HeightCm *float64 `json:"height_cm" binding:"omitempty,gt=0"`
	WeightKg *float64 `json:"weight_kg" binding:"omitempty,gt=0"`
}

// PUT /api/users/:user_id/demographics
func (h *Handler) SetDemographics(c *gin.Context) {
	userID := c.Param("user_id")
	var req demographicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", bindError(err))
		return
	}
	if req.Age == nil && req.BMI == nil && req.HeightCm == nil && req.WeightKg == nil {
		respondError(c, http.StatusBadRequest, "empty_profile", errors.New("set at least one of age, bmi, height_cm, weight_kg"))
		return
	}

	ctx := c.Request.Context()
	d := &models.Demographics{
		UserID:   userID,
		Age:      req.Age,
		BMI:      req.BMI,
		HeightCm: req.HeightCm,
		WeightKg: req.WeightKg,
	}
	if err := h.repo.SaveDemographics(ctx, d); err != nil {
		respondError(c, http.StatusInternalServerError, "save_failed", err)
		return
	}

	stored, err := h.repo.GetDemographics(ctx, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "get_demographics_failed", err)
		return
	}
	respondOK(c, gin.H{"demographics": stored, "effective_bmi": stored.EffectiveBMI()})
}

type scoreQuery struct {
	rangeQuery
	Legacy bool `form:"legacy"`
}

// GET /api/users/:user_id/score
func (h *Handler) Score(c *gin.Context) {
	var q scoreQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_query", bindError(err))
		return
	}

	req := wellness.Request{UserID: c.Param("user_id")}
	if q.From != "" {
		d, _ := models.ParseDay(q.From)
		req.From = &d
	}
	if q.To != "" {
		d, _ := models.ParseDay(q.To)
		req.To = &d
	}

	resp, err := h.svc.Compute(c.Request.Context(), req)
	switch {
	case errors.Is(err, wellness.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "score_failed", err)
		return
	}

	if q.Legacy {
		respondOK(c, resp.Legacy)
		return
	}
	respondOK(c, resp)
}

type weeklyQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=520"`
}

// GET /api/users/:user_id/weekly
func (h *Handler) ListWeekly(c *gin.Context) {
	var q weeklyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_query", bindError(err))
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultWeeklyLimit
	}

	scores, err := h.repo.RecentWeeklyScores(c.Request.Context(), c.Param("user_id"), models.Day(h.now()), q.Limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "list_weekly_failed", err)
		return
	}
	if scores == nil {
		scores = []*models.WeeklyScoreRecord{}
	}
	respondOK(c, gin.H{"weekly_scores": scores})
}

type backfillRequest struct {
	Weeks       int      `json:"weeks" binding:"required,min=1,max=104"`
	Concurrency int      `json:"concurrency" binding:"omitempty,min=1,max=64"`
	UserIDs     []string `json:"user_ids"`
}

// POST /api/backfill
func (h *Handler) Backfill(c *gin.Context) {
	var req backfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", bindError(err))
		return
	}

	report, err := h.svc.Backfill(c.Request.Context(), wellness.BackfillOptions{
		Weeks:       req.Weeks,
		Concurrency: req.Concurrency,
		UserIDs:     req.UserIDs,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "backfill_failed", err)
		return
	}
	respondOK(c, report)
}
