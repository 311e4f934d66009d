package core

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/heathtechnical/FlareTracker-sub000/internal/insights"
	"github.com/heathtechnical/FlareTracker-sub000/internal/store"
)

// InsightService bridges the store and the insights engine. Analyses are
// recomputed in full on every call; the engine has no way to know which days
// changed, so nothing is cached.
type InsightService struct {
	dbStore *store.SQLiteStore
}

func NewInsightService(db *store.SQLiteStore) *InsightService {
	return &InsightService{dbStore: db}
}

// GetConditionInsight analyzes a single condition the user owns.
func (s *InsightService) GetConditionInsight(userID int64, conditionID string) (*insights.ConditionInsight, error) {
	condition, err := s.dbStore.GetConditionByID(conditionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load condition: %w", err)
	}
	if condition == nil {
		return nil, nil // Not found
	}

	checkIns, err := s.dbStore.GetCheckInsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	insight := insights.AnalyzeTriggers(checkIns, condition.ID, condition.Name, insights.DefaultMinSampleSize)
	return &insight, nil
}

// GetAllConditionInsights analyzes every condition the user tracks. Each
// condition's analysis is independent, so they run concurrently; results land
// in a pre-sized slice so the output order matches the condition list.
func (s *InsightService) GetAllConditionInsights(userID int64) ([]insights.ConditionInsight, error) {
	conditions, err := s.dbStore.GetConditionsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conditions: %w", err)
	}

	checkIns, err := s.dbStore.GetCheckInsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	results := make([]insights.ConditionInsight, len(conditions))
	var g errgroup.Group
	for i, cond := range conditions {
		g.Go(func() error {
			results[i] = insights.AnalyzeTriggers(checkIns, cond.ID, cond.Name, insights.DefaultMinSampleSize)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
