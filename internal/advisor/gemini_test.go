package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/models"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// geminiBody wraps text in a minimal generateContent response.
func geminiBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(b)
}

func respond(status int, body string) roundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	}
}

// newTestClient returns a client wired to rt and a pointer to the last
// fallback reason it reported.
func newTestClient(rt http.RoundTripper) (*Gemini, *string) {
	reason := new(string)
	g := NewGemini(Options{
		APIKey:     "test-key",
		HTTPClient: &http.Client{Transport: rt},
		OnFallback: func(_, r string, _ error) { *reason = r },
	})
	return g, reason
}

func TestSuggestHabits(t *testing.T) {
	payload := `[{"title":"Morning walk","description":"10 minutes outside","frequency":"Daily"},` +
		`{"title":"  ","description":"blank title dropped"},` +
		`{"title":"Weekly review","frequency":"Weekly"}]`

	var captured *http.Request
	var body []byte
	g, reason := newTestClient(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		captured = r
		body, _ = io.ReadAll(r.Body)
		return respond(http.StatusOK, geminiBody(payload))(r)
	}))

	got := g.SuggestHabits(context.Background(), "fitness")
	if *reason != "" {
		t.Fatalf("unexpected fallback: %s", *reason)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d: %+v", len(got), got)
	}
	if got[0].Title != "Morning walk" || got[1].Frequency != "Weekly" {
		t.Errorf("unexpected suggestions: %+v", got)
	}

	if captured.Method != http.MethodPost {
		t.Errorf("method = %s, want POST", captured.Method)
	}
	if !strings.HasSuffix(captured.URL.Path, "/models/"+constants.DefaultGeminiModel+":generateContent") {
		t.Errorf("unexpected endpoint: %s", captured.URL.Path)
	}
	if captured.Header.Get("x-goog-api-key") != "test-key" {
		t.Error("API key header not set")
	}
	if captured.URL.Query().Get("key") != "" {
		t.Error("API key must not be sent in the query string")
	}
	if gjson.GetBytes(body, "generationConfig.responseMimeType").String() != "application/json" {
		t.Errorf("JSON response mode not requested: %s", body)
	}
	if gjson.GetBytes(body, "generationConfig.responseSchema.type").String() != "ARRAY" {
		t.Errorf("response schema missing: %s", body)
	}
	if !strings.Contains(gjson.GetBytes(body, "contents.0.parts.0.text").String(), "fitness") {
		t.Errorf("prompt does not mention the topic: %s", body)
	}
}

func TestSuggestHabitsFencedJSON(t *testing.T) {
	text := "```json\n[{\"title\":\"Read\",\"description\":\"10 pages\",\"frequency\":\"Daily\"}]\n```"
	g, _ := newTestClient(respond(http.StatusOK, geminiBody(text)))

	got := g.SuggestHabits(context.Background(), "learning")
	if len(got) != 1 || got[0].Title != "Read" {
		t.Errorf("fenced payload not parsed: %+v", got)
	}
}

func TestSuggestHabitsFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		rt     roundTripFunc
		reason string
	}{
		{
			name: "transport error",
			rt: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("boom")
			},
			reason: ReasonHTTPRequest,
		},
		{
			name:   "server error",
			rt:     respond(http.StatusInternalServerError, `{"error":{"message":"overloaded"}}`),
			reason: ReasonHTTPStatus,
		},
		{
			name:   "non-json body",
			rt:     respond(http.StatusOK, "<html>"),
			reason: ReasonDecode,
		},
		{
			name:   "no candidates",
			rt:     respond(http.StatusOK, `{"candidates":[]}`),
			reason: ReasonEmptyText,
		},
		{
			name:   "prose instead of JSON",
			rt:     respond(http.StatusOK, geminiBody("Sure! Try walking more.")),
			reason: ReasonParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, reason := newTestClient(tt.rt)
			got := g.SuggestHabits(context.Background(), "sleep")
			if got == nil || len(got) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", got)
			}
			if *reason != tt.reason {
				t.Errorf("reason = %q, want %q", *reason, tt.reason)
			}
		})
	}
}

func TestNoAPIKeyNeverCallsNetwork(t *testing.T) {
	called := false
	var reasons []string
	g := NewGemini(Options{
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			called = true
			return nil, errors.New("unexpected")
		})},
		OnFallback: func(_, r string, _ error) { reasons = append(reasons, r) },
	})

	if g.HasAPIKey() {
		t.Error("HasAPIKey() = true without a key")
	}
	if got := g.SuggestHabits(context.Background(), "x"); len(got) != 0 {
		t.Errorf("SuggestHabits = %v", got)
	}
	if got := g.GetInsight(context.Background(), nil); got != constants.DefaultInsightFallback {
		t.Errorf("GetInsight = %q", got)
	}
	if got := g.AnalyzeNutrition(context.Background(), "toast"); got != nil {
		t.Errorf("AnalyzeNutrition = %+v", got)
	}
	if called {
		t.Error("network was called without an API key")
	}
	for _, r := range reasons {
		if r != ReasonNoAPIKey {
			t.Errorf("reason = %q, want %q", r, ReasonNoAPIKey)
		}
	}
	if len(reasons) != 3 {
		t.Errorf("expected 3 fallbacks, got %d", len(reasons))
	}
}

func TestGetInsight(t *testing.T) {
	var body []byte
	g, _ := newTestClient(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		body, _ = io.ReadAll(r.Body)
		return respond(http.StatusOK, geminiBody("  You logged 12 runs this month. Keep the fire burning!  "))(r)
	}))

	got := g.GetInsight(context.Background(), []models.HabitSummary{
		{Title: "Run", Completions: 12, Frequency: "Daily"},
	})
	if got != "You logged 12 runs this month. Keep the fire burning!" {
		t.Errorf("GetInsight() = %q", got)
	}

	prompt := gjson.GetBytes(body, "contents.0.parts.0.text").String()
	if !strings.Contains(prompt, `"completions":12`) || !strings.Contains(prompt, "under 50 words") {
		t.Errorf("prompt missing summary or word budget: %s", prompt)
	}
	if gjson.GetBytes(body, "generationConfig.responseMimeType").Exists() {
		t.Error("insight should request free text")
	}
}

func TestGetInsightFallbacks(t *testing.T) {
	g, _ := newTestClient(respond(http.StatusOK, geminiBody("   ")))
	if got := g.GetInsight(context.Background(), nil); got != constants.EmptyInsightFallback {
		t.Errorf("empty text fallback = %q, want %q", got, constants.EmptyInsightFallback)
	}

	g, _ = newTestClient(respond(http.StatusBadGateway, ""))
	if got := g.GetInsight(context.Background(), nil); got != constants.DefaultInsightFallback {
		t.Errorf("failure fallback = %q, want %q", got, constants.DefaultInsightFallback)
	}
}

func TestAnalyzeNutrition(t *testing.T) {
	text := `{"calories":520,"protein":32.5,"carbs":48,"fat":18,"summary":"Balanced meal.","mealName":"Chicken rice bowl"}`
	g, _ := newTestClient(respond(http.StatusOK, geminiBody(text)))

	got := g.AnalyzeNutrition(context.Background(), "chicken with rice and broccoli")
	if got == nil {
		t.Fatal("expected nutrition data")
	}
	want := models.NutritionData{Calories: 520, Protein: 32.5, Carbs: 48, Fat: 18, Summary: "Balanced meal.", MealName: "Chicken rice bowl"}
	if *got != want {
		t.Errorf("AnalyzeNutrition() = %+v, want %+v", *got, want)
	}
}

func TestAnalyzeNutritionRejectsIncompletePayload(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing mealName", `{"calories":520,"protein":32,"carbs":48,"fat":18,"summary":"ok"}`},
		{"string calories", `{"calories":"520","protein":32,"carbs":48,"fat":18,"summary":"ok","mealName":"x"}`},
		{"array", `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, reason := newTestClient(respond(http.StatusOK, geminiBody(tt.text)))
			if got := g.AnalyzeNutrition(context.Background(), "meal"); got != nil {
				t.Errorf("expected nil, got %+v", got)
			}
			if *reason != ReasonInvalidPayload {
				t.Errorf("reason = %q, want %q", *reason, ReasonInvalidPayload)
			}
		})
	}
}

func TestRateLimitedCallsFallBackImmediately(t *testing.T) {
	calls := 0
	reasons := map[string]int{}
	g := NewGemini(Options{
		APIKey:            "k",
		RequestsPerMinute: 1,
		Burst:             1,
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls++
			return respond(http.StatusOK, geminiBody("Nice work."))(r)
		})},
		OnFallback: func(_, r string, _ error) { reasons[r]++ },
	})

	first := g.GetInsight(context.Background(), nil)
	second := g.GetInsight(context.Background(), nil)

	if first != "Nice work." {
		t.Errorf("first call = %q", first)
	}
	if second != constants.DefaultInsightFallback {
		t.Errorf("second call = %q, want fallback", second)
	}
	if calls != 1 {
		t.Errorf("expected 1 network call, got %d", calls)
	}
	if reasons[ReasonRateLimited] != 1 {
		t.Errorf("rate_limited fallbacks = %d, want 1", reasons[ReasonRateLimited])
	}
}

func TestCustomBaseURLAndModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-test:generateContent" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, geminiBody("Served locally."))
	}))
	defer srv.Close()

	g := NewGemini(Options{APIKey: "k", BaseURL: srv.URL + "/v1beta/", Model: "gemini-test"})
	if g.Model() != "gemini-test" {
		t.Errorf("Model() = %q", g.Model())
	}
	if got := g.GetInsight(context.Background(), nil); got != "Served locally." {
		t.Errorf("GetInsight() = %q", got)
	}
}

func TestExtractJSONFragment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`[{"a":1}]`, `[{"a":1}]`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Here you go: {\"a\":1} enjoy", `{"a":1}`},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := extractJSONFragment(tt.in); got != tt.want {
			t.Errorf("extractJSONFragment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
