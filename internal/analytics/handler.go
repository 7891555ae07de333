package analytics

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/inclusion-hub/heva/internal/finance"
	"github.com/inclusion-hub/heva/internal/users"
)

const defaultMetricsLimit = 30

// Handler exposes analytics HTTP endpoints.
type Handler struct {
	users      *users.Service
	updater    *Updater
	aggregator *Aggregator
	metrics    *MetricsService
}

// NewHandler builds an analytics HTTP handler.
func NewHandler(userSvc *users.Service, updater *Updater, aggregator *Aggregator, metrics *MetricsService) *Handler {
	return &Handler{users: userSvc, updater: updater, aggregator: aggregator, metrics: metrics}
}

type userAnalyticsResponse struct {
	UserID         string    `json:"user_id"`
	CreditScore    string    `json:"credit_score"`
	RiskLevel      string    `json:"risk_level"`
	InclusionScore int       `json:"inclusion_score"`
	LastUpdated    time.Time `json:"last_updated"`
}

type metricsResponse struct {
	Date              string  `json:"date"`
	TotalUsers        int64   `json:"total_users"`
	MarginalizedUsers int64   `json:"marginalized_users"`
	RefugeeUsers      int64   `json:"refugee_users"`
	PWDUsers          int64   `json:"pwd_users"`
	LGBTQIUsers       int64   `json:"lgbtqi_users"`
	CreativeUsers     int64   `json:"creative_users"`
	AvgIncome         float64 `json:"avg_income"`
	AvgExpenses       float64 `json:"avg_expenses"`
	FundingRequests   int64   `json:"funding_requests"`
	TotalStories      int64   `json:"total_stories"`
	ApprovedStories   int64   `json:"approved_stories"`
	UrgentStories     int64   `json:"urgent_stories"`
}

func toMetricsResponse(m InclusionMetrics) metricsResponse {
	return metricsResponse{
		Date:              m.Date.Format(dateLayout),
		TotalUsers:        m.TotalUsers,
		MarginalizedUsers: m.MarginalizedUsers,
		RefugeeUsers:      m.RefugeeUsers,
		PWDUsers:          m.PWDUsers,
		LGBTQIUsers:       m.LGBTQIUsers,
		CreativeUsers:     m.CreativeUsers,
		AvgIncome:         finance.Units(m.AvgIncomeCents),
		AvgExpenses:       finance.Units(m.AvgExpenseCents),
		FundingRequests:   m.FundingRequests,
		TotalStories:      m.TotalStories,
		ApprovedStories:   m.ApprovedStories,
		UrgentStories:     m.UrgentStories,
	}
}

// UserAnalytics recomputes and returns the snapshot for the user in the path.
func (h *Handler) UserAnalytics(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("userId"))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	snapshot, err := h.updater.Update(c.UserContext(), user)
	if err != nil {
		return fiber.NewError(http.StatusServiceUnavailable, ErrUnavailable.Error())
	}
	return c.Status(http.StatusOK).JSON(userAnalyticsResponse{
		UserID:         snapshot.UserID,
		CreditScore:    string(snapshot.CreditScore),
		RiskLevel:      string(snapshot.RiskLevel),
		InclusionScore: snapshot.InclusionScore,
		LastUpdated:    snapshot.LastUpdated,
	})
}

// Dashboard returns the cross-user report.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	report, err := h.aggregator.Report(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, ErrDashboardUnavailable.Error())
	}
	return c.Status(http.StatusOK).JSON(report)
}

// Snapshot records today's inclusion metrics rollup.
func (h *Handler) Snapshot(c *fiber.Ctx) error {
	m, err := h.metrics.Snapshot(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toMetricsResponse(m))
}

// Metrics lists recent rollups; ?limit= defaults to 30.
func (h *Handler) Metrics(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultMetricsLimit)
	if limit <= 0 {
		return fiber.NewError(http.StatusBadRequest, "limit must be positive")
	}
	list, err := h.metrics.List(c.UserContext(), limit)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]metricsResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMetricsResponse(m))
	}
	return c.Status(http.StatusOK).JSON(out)
}
