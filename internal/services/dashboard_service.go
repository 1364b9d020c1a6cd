package services

import (
	"context"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/views"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/logger"
	"go.uber.org/zap"
)

// DashboardService assembles the dashboard from the student's meeting
// history and transaction ledger.
type DashboardService struct {
	api DashboardAPI
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(api DashboardAPI) *DashboardService {
	return &DashboardService{api: api}
}

// Load fetches both dashboard resources. The two fetches are independent:
// either may fail while the other populates, and a partial result renders
// with a per-resource error rather than failing the page.
func (s *DashboardService) Load(ctx context.Context, token string) *views.Dashboard {
	meetings, meetingsErr := s.api.FetchHistoricMeetings(ctx, token)
	if meetingsErr != nil {
		logger.Error("Failed to fetch historic meetings", zap.Error(meetingsErr))
	}

	transactions, transactionsErr := s.api.FetchTransactions(ctx, token)
	if transactionsErr != nil {
		logger.Error("Failed to fetch transactions", zap.Error(transactionsErr))
	}

	return views.BuildDashboard(meetings, transactions, meetingsErr, transactionsErr)
}
