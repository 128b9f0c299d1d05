package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
)

// Options configures a Gemini client. Zero values select the defaults.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	// RequestsPerMinute caps outgoing calls; calls over the cap fall back
	// immediately. Zero or negative disables the cap.
	RequestsPerMinute int
	Burst             int
	// OnFallback, if set, is called with the reason of every fallback.
	OnFallback func(op, reason string, err error)
}

// Gemini is an Advisor backed by the Gemini REST API.
type Gemini struct {
	apiKey     string
	model      string
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	onFallback func(op, reason string, err error)
}

var _ Advisor = (*Gemini)(nil)

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Items       *schema            `json:"items,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// fallbackError carries the reason a call could not produce a usable answer.
type fallbackError struct {
	reason string
	err    error
}

func (e *fallbackError) Error() string {
	if e.err == nil {
		return e.reason
	}
	return e.reason + ": " + e.err.Error()
}

func (e *fallbackError) Unwrap() error { return e.err }

func fail(reason string, err error) error {
	return &fallbackError{reason: reason, err: err}
}

// NewGemini builds a client. A missing API key is allowed: every call then
// falls back with reason no_api_key.
func NewGemini(opts Options) *Gemini {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = constants.DefaultGeminiBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = constants.DefaultGeminiModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: constants.DefaultGeminiTimeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerMinute > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), burst)
	}

	return &Gemini{
		apiKey:     strings.TrimSpace(opts.APIKey),
		model:      model,
		baseURL:    baseURL,
		client:     client,
		limiter:    limiter,
		onFallback: opts.OnFallback,
	}
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.model }

// HasAPIKey reports whether calls will reach the network.
func (g *Gemini) HasAPIKey() bool { return g.apiKey != "" }

func (g *Gemini) SuggestHabits(ctx context.Context, topic string) []models.HabitSuggestion {
	const op = "suggest_habits"
	prompt := fmt.Sprintf(
		"Suggest %d specific, actionable habits for someone interested in: %q. "+
			"For each habit, provide a title, a short description, and a recommended frequency (Daily or Weekly).",
		constants.SuggestionCount, strings.TrimSpace(topic))

	text, err := g.generate(ctx, prompt, &geminiGenerationConfig{
		Temperature:      0.7,
		CandidateCount:   1,
		ResponseMimeType: "application/json",
		ResponseSchema: &schema{
			Type: "ARRAY",
			Items: &schema{
				Type: "OBJECT",
				Properties: map[string]*schema{
					"title":       {Type: "STRING"},
					"description": {Type: "STRING"},
					"frequency":   {Type: "STRING"},
				},
			},
		},
	})
	if err != nil {
		g.fallback(op, err)
		return []models.HabitSuggestion{}
	}

	parsed, err := parsePayload[[]models.HabitSuggestion](text)
	if err != nil {
		g.fallback(op, fail(ReasonParse, err))
		return []models.HabitSuggestion{}
	}

	out := make([]models.HabitSuggestion, 0, len(parsed))
	for _, s := range parsed {
		s.Title = strings.TrimSpace(s.Title)
		if s.Title == "" {
			continue
		}
		s.Description = strings.TrimSpace(s.Description)
		s.Frequency = strings.TrimSpace(s.Frequency)
		out = append(out, s)
	}
	logger.Debug("Habit suggestions received", "topic", topic, "count", len(out))
	return out
}

func (g *Gemini) GetInsight(ctx context.Context, habits []models.HabitSummary) string {
	const op = "insight"
	data, err := json.Marshal(habits)
	if err != nil {
		g.fallback(op, fail(ReasonEncode, err))
		return constants.DefaultInsightFallback
	}
	prompt := fmt.Sprintf(
		"Here is the user's habit tracking data: %s. Analyze their performance briefly. "+
			"Provide one sentence of analysis and one sentence of high-energy motivation. "+
			"Keep it under %d words total. Address the user directly.",
		data, constants.InsightWordBudget)

	text, err := g.generate(ctx, prompt, &geminiGenerationConfig{Temperature: 0.8, CandidateCount: 1})
	if err != nil {
		g.fallback(op, err)
		if reasonOf(err) == ReasonEmptyText {
			return constants.EmptyInsightFallback
		}
		return constants.DefaultInsightFallback
	}
	return strings.TrimSpace(text)
}

var nutritionFields = []string{"calories", "protein", "carbs", "fat", "summary", "mealName"}

func (g *Gemini) AnalyzeNutrition(ctx context.Context, meal string) *models.NutritionData {
	const op = "analyze_nutrition"
	prompt := fmt.Sprintf(
		"Analyze the nutritional content of the following meal description: %q. "+
			"Estimate the calories, protein, carbs, and fat. Provide a short health summary (1 sentence). "+
			"Also provide a short name for the meal.",
		strings.TrimSpace(meal))

	text, err := g.generate(ctx, prompt, &geminiGenerationConfig{
		Temperature:      0.2,
		CandidateCount:   1,
		ResponseMimeType: "application/json",
		ResponseSchema: &schema{
			Type: "OBJECT",
			Properties: map[string]*schema{
				"calories": {Type: "NUMBER"},
				"protein":  {Type: "NUMBER", Description: "in grams"},
				"carbs":    {Type: "NUMBER", Description: "in grams"},
				"fat":      {Type: "NUMBER", Description: "in grams"},
				"summary":  {Type: "STRING"},
				"mealName": {Type: "STRING"},
			},
			Required: nutritionFields,
		},
	})
	if err != nil {
		g.fallback(op, err)
		return nil
	}

	fragment := extractJSONFragment(text)
	if !gjson.Valid(fragment) {
		g.fallback(op, fail(ReasonParse, errors.New("response is not valid JSON")))
		return nil
	}
	fields := gjson.GetMany(fragment, nutritionFields...)
	for i, f := range fields {
		want := gjson.Number
		if i >= 4 {
			want = gjson.String
		}
		if !f.Exists() || f.Type != want {
			g.fallback(op, fail(ReasonInvalidPayload, fmt.Errorf("field %q missing or mistyped", nutritionFields[i])))
			return nil
		}
	}

	return &models.NutritionData{
		Calories: fields[0].Float(),
		Protein:  fields[1].Float(),
		Carbs:    fields[2].Float(),
		Fat:      fields[3].Float(),
		Summary:  fields[4].String(),
		MealName: fields[5].String(),
	}
}

// generate performs one generateContent call and returns the first non-blank
// text part of the response.
func (g *Gemini) generate(ctx context.Context, prompt string, cfg *geminiGenerationConfig) (string, error) {
	if g.apiKey == "" {
		return "", fail(ReasonNoAPIKey, nil)
	}
	if !g.limiter.Allow() {
		return "", fail(ReasonRateLimited, nil)
	}

	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(geminiRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", fail(ReasonEncode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return "", fail(ReasonHTTPRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fail(ReasonHTTPRequest, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fail(ReasonHTTPRequest, err)
	}
	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error.message").String()
		return "", fail(ReasonHTTPStatus, fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	if !gjson.ValidBytes(body) {
		return "", fail(ReasonDecode, errors.New("response body is not JSON"))
	}

	text := extractText(body)
	if text == "" {
		return "", fail(ReasonEmptyText, nil)
	}
	return text, nil
}

func (g *Gemini) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func reasonOf(err error) string {
	var fe *fallbackError
	if errors.As(err, &fe) {
		return fe.reason
	}
	return ReasonHTTPRequest
}

func (g *Gemini) fallback(op string, err error) {
	reason := reasonOf(err)
	logger.Warn("AI request fell back", "op", op, "reason", reason, "error", err)
	if g.onFallback != nil {
		g.onFallback(op, reason, err)
	}
}

// extractText returns the first non-blank text part across all candidates.
func extractText(body []byte) string {
	var text string
	gjson.GetBytes(body, "candidates.#.content.parts.#.text").ForEach(func(_, parts gjson.Result) bool {
		parts.ForEach(func(_, part gjson.Result) bool {
			if s := part.String(); strings.TrimSpace(s) != "" {
				text = s
				return false
			}
			return true
		})
		return text == ""
	})
	return text
}

func parsePayload[T any](raw string) (T, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

// extractJSONFragment strips Markdown code fences and any prose around the
// outermost JSON object or array.
func extractJSONFragment(raw string) string {
	text := trimCodeFence(strings.TrimSpace(raw))
	if text == "" {
		return ""
	}
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```JSON")
	text = strings.TrimPrefix(text, "```")
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
