package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type DashboardSummary struct {
	ByStatus  map[entity.Status]int `json:"by_status"`
	Open      int                   `json:"open"`
	Won       int                   `json:"won"`
	Lost      int                   `json:"lost"`
	FollowUps int                   `json:"follow_ups"`
	Total     int                   `json:"total"`
}

// DashboardSummaryUseCase feeds the metric cards on the dashboard.
type DashboardSummaryUseCase struct {
	Leads LeadRepositoryInterface
}

func NewDashboardSummaryUseCase(leads LeadRepositoryInterface) *DashboardSummaryUseCase {
	return &DashboardSummaryUseCase{Leads: leads}
}

// Execute with ownerID "" summarizes the whole workspace.
func (uc *DashboardSummaryUseCase) Execute(ctx context.Context, ownerID string) (*DashboardSummary, error) {
	counts, err := uc.Leads.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, &TechnicalError{Code: "STORE_ERROR", Message: err.Error()}
	}

	summary := &DashboardSummary{ByStatus: make(map[entity.Status]int, len(entity.AllStatuses))}
	for _, status := range entity.AllStatuses {
		n := counts[status]
		summary.ByStatus[status] = n
		summary.Total += n
		switch {
		case status == entity.StatusClosedWon:
			summary.Won += n
		case status == entity.StatusClosedLost:
			summary.Lost += n
		case status == entity.StatusFollowUp:
			summary.FollowUps += n
		default:
			summary.Open += n
		}
	}
	return summary, nil
}
