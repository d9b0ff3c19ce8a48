package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"bank-risk-service/internal/models"
)

// CardUsage pairs a card with its number of recorded operations
type CardUsage struct {
	CardID     int64 `json:"card_id"`
	Operations int64 `json:"operations"`
}

// ReportService computes back-office statistics over cards and operations
type ReportService struct {
	cards      cardStore
	operations operationStore
}

// NewReportService initializes a new report service
func NewReportService(cards cardStore, operations operationStore) *ReportService {
	return &ReportService{cards: cards, operations: operations}
}

// TopUsedCards returns the cards with the most recorded operations, most
// used first. Ties break on the lower card identifier for a stable order.
func (s *ReportService) TopUsedCards(ctx context.Context, limit int) ([]CardUsage, error) {
	operations, err := s.operations.FindAllOperations(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64)
	for _, op := range operations {
		counts[op.CardID]++
	}

	usage := make([]CardUsage, 0, len(counts))
	for cardID, n := range counts {
		usage = append(usage, CardUsage{CardID: cardID, Operations: n})
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Operations != usage[j].Operations {
			return usage[i].Operations > usage[j].Operations
		}
		return usage[i].CardID < usage[j].CardID
	})

	if limit > 0 && len(usage) > limit {
		usage = usage[:limit]
	}
	return usage, nil
}

// MonthlyTotals sums operation amounts per type for one calendar month
func (s *ReportService) MonthlyTotals(ctx context.Context, year int, month time.Month) (map[models.OperationType]decimal.Decimal, error) {
	start, end := monthBounds(year, month)
	operations, err := s.operations.FindOperationsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[models.OperationType]decimal.Decimal)
	for _, op := range operations {
		totals[op.Type] = totals[op.Type].Add(op.Amount)
	}
	return totals, nil
}

// MonthlyCounts counts operations per type for one calendar month
func (s *ReportService) MonthlyCounts(ctx context.Context, year int, month time.Month) (map[models.OperationType]int64, error) {
	start, end := monthBounds(year, month)
	operations, err := s.operations.FindOperationsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	counts := make(map[models.OperationType]int64)
	for _, op := range operations {
		counts[op.Type]++
	}
	return counts, nil
}

// CardsByStatus lists cards currently in the given status
func (s *ReportService) CardsByStatus(ctx context.Context, status models.CardStatus) ([]models.Card, error) {
	cards, err := s.cards.FindAllCards(ctx)
	if err != nil {
		return nil, err
	}

	var filtered []models.Card
	for _, card := range cards {
		if card.Status == status {
			filtered = append(filtered, card)
		}
	}
	return filtered, nil
}

// SuspiciousCards lists cards the fraud engine escalated, i.e. every card
// currently Blocked or Suspended
func (s *ReportService) SuspiciousCards(ctx context.Context) ([]models.Card, error) {
	cards, err := s.cards.FindAllCards(ctx)
	if err != nil {
		return nil, err
	}

	var suspicious []models.Card
	for _, card := range cards {
		if card.Status == models.CardStatusBlocked || card.Status == models.CardStatusSuspended {
			suspicious = append(suspicious, card)
		}
	}
	return suspicious, nil
}

// TotalAmountForPeriod sums all operation amounts within [start, end]
func (s *ReportService) TotalAmountForPeriod(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	operations, err := s.operations.FindOperationsByDateRange(ctx, start, end)
	if err != nil {
		return decimal.Decimal{}, err
	}

	total := decimal.Zero
	for _, op := range operations {
		total = total.Add(op.Amount)
	}
	return total, nil
}

// AverageOperationAmount returns the mean operation amount rounded to two
// decimal places, or zero when no operations exist
func (s *ReportService) AverageOperationAmount(ctx context.Context) (decimal.Decimal, error) {
	operations, err := s.operations.FindAllOperations(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(operations) == 0 {
		return decimal.Zero, nil
	}

	total := decimal.Zero
	for _, op := range operations {
		total = total.Add(op.Amount)
	}
	return total.DivRound(decimal.NewFromInt(int64(len(operations))), 2), nil
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}
