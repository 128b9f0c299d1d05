package app

import (
	"context"
	"strings"

	"github.com/julianstephens/habitflow/internal/models"
)

// Insight asks the advisor for a short coaching message about userID's
// habits. Advisor failures come back as its fallback text.
func (s *Service) Insight(ctx context.Context, userID string) (string, error) {
	habits, err := s.UserHabits(userID)
	if err != nil {
		return "", err
	}
	return s.advisor.GetInsight(ctx, models.Summarize(habits)), nil
}

// Nutrition estimates the macros of a meal description. Blank input returns
// nil without calling the advisor.
func (s *Service) Nutrition(ctx context.Context, meal string) *models.NutritionData {
	meal = strings.TrimSpace(meal)
	if meal == "" {
		return nil
	}
	return s.advisor.AnalyzeNutrition(ctx, meal)
}
