// Package advisor is the AI coach: habit suggestions, progress insights and
// meal nutrition estimates from the Gemini generateContent API.
//
// Every call is a single best-effort attempt. Failures never surface as
// errors; each operation degrades to a fixed fallback and logs why.
package advisor

import (
	"context"

	"github.com/julianstephens/habitflow/internal/models"
)

// Advisor is implemented by the Gemini client and by test fakes.
type Advisor interface {
	// SuggestHabits proposes habits for a topic; empty on failure.
	SuggestHabits(ctx context.Context, topic string) []models.HabitSuggestion
	// GetInsight returns a short analysis plus motivation; never empty.
	GetInsight(ctx context.Context, habits []models.HabitSummary) string
	// AnalyzeNutrition estimates a meal's macros; nil on failure.
	AnalyzeNutrition(ctx context.Context, meal string) *models.NutritionData
}

// Reasons reported to the log and to Options.OnFallback.
const (
	ReasonNoAPIKey       = "no_api_key"
	ReasonRateLimited    = "rate_limited"
	ReasonEncode         = "encode"
	ReasonHTTPRequest    = "http_request"
	ReasonHTTPStatus     = "http_status"
	ReasonDecode         = "decode"
	ReasonEmptyText      = "empty_text"
	ReasonParse          = "parse"
	ReasonInvalidPayload = "invalid_payload"
)
