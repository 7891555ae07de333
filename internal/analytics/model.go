package analytics

import (
	"time"

	"github.com/inclusion-hub/heva/internal/scoring"
)

// UserAnalytics is the per-user snapshot recomputed on every read.
type UserAnalytics struct {
	UserID         string
	CreditScore    scoring.Tier
	InclusionScore int
	RiskLevel      scoring.Tier
	LastUpdated    time.Time
}

// DashboardCounts holds the raw cross-store counters the dashboard and the
// metrics snapshot are derived from. Money is in minor units.
type DashboardCounts struct {
	TotalUsers    int64
	AnyGroupUsers int64
	RefugeeUsers  int64
	PWDUsers      int64
	LGBTQIUsers   int64
	CreativeUsers int64
	NewUsersToday int64

	IncomeCents    int64
	ExpenseCents   int64
	IncomeEntries  int64
	ExpenseEntries int64
	FundingEntries int64

	TotalStories    int64
	ApprovedStories int64
	UrgentStories   int64
	NewStoriesToday int64
}

// UserDemographics is the user group of the dashboard report.
type UserDemographics struct {
	TotalUsers        int64 `json:"total_users"`
	MarginalizedUsers int64 `json:"marginalized_users"`
	PWDUsers          int64 `json:"pwd_users"`
	LGBTQIUsers       int64 `json:"lgbtqi_users"`
	NewUsersToday     int64 `json:"new_users_today"`
}

// FinancialAnalytics is the money group of the dashboard report.
type FinancialAnalytics struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	NetFlow       float64 `json:"net_flow"`
}

// StoryAnalytics is the story group of the dashboard report.
type StoryAnalytics struct {
	TotalStories    int64 `json:"total_stories"`
	ApprovedStories int64 `json:"approved_stories"`
	UrgentStories   int64 `json:"urgent_stories"`
	NewStoriesToday int64 `json:"new_stories_today"`
}

// InclusionPercentages expresses subgroup sizes as a share of all users.
type InclusionPercentages struct {
	MarginalizedPercentage float64 `json:"marginalized_percentage"`
	PWDPercentage          float64 `json:"pwd_percentage"`
	LGBTQIPercentage       float64 `json:"lgbtqi_percentage"`
}

// DashboardReport is the reporting view returned by Aggregator.Report.
type DashboardReport struct {
	UserDemographics   UserDemographics     `json:"user_demographics"`
	FinancialAnalytics FinancialAnalytics   `json:"financial_analytics"`
	StoryAnalytics     StoryAnalytics       `json:"story_analytics"`
	InclusionMetrics   InclusionPercentages `json:"inclusion_metrics"`
}

// InclusionMetrics is a dated rollup of the dashboard counters.
type InclusionMetrics struct {
	Date              time.Time
	TotalUsers        int64
	MarginalizedUsers int64
	RefugeeUsers      int64
	PWDUsers          int64
	LGBTQIUsers       int64
	CreativeUsers     int64
	AvgIncomeCents    int64
	AvgExpenseCents   int64
	FundingRequests   int64
	TotalStories      int64
	ApprovedStories   int64
	UrgentStories     int64
}
