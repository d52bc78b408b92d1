package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel is an llms.Model that replays canned outputs and errors.
type fakeModel struct {
	outputs []string
	errs    []error
	calls   int
	prompts []string
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	i := f.calls
	f.calls++
	for _, m := range messages {
		for _, p := range m.Parts {
			if text, ok := p.(llms.TextContent); ok {
				f.prompts = append(f.prompts, text.Text)
			}
		}
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	out := ""
	if i < len(f.outputs) {
		out = f.outputs[i]
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: out}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestAnalyze_StructuredOutput(t *testing.T) {
	model := &fakeModel{outputs: []string{`{"auto_renewal": "Renews yearly", "termination_fees": "None"}`}}
	svc := NewWithModel(model, Options{Model: "gpt-4", Attempts: 3}, nil)

	result, err := svc.Analyze(context.Background(), "This agreement renews automatically.")
	require.NoError(t, err)

	assert.JSONEq(t, `{"auto_renewal": "Renews yearly", "termination_fees": "None"}`, string(result.Flags))
	assert.Equal(t, "gpt-4", result.Model)
	assert.Equal(t, 1, model.calls)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "This agreement renews automatically.")
	assert.Contains(t, model.prompts[0], "exclusivity_clauses")
}

func TestAnalyze_RetriesThenSucceeds(t *testing.T) {
	model := &fakeModel{
		errs:    []error{errors.New("rate limited"), errors.New("timeout"), nil},
		outputs: []string{"", "", `{"payment_terms": "Net 60"}`},
	}
	svc := NewWithModel(model, Options{Attempts: 3}, nil)

	result, err := svc.Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 3, model.calls)
	assert.JSONEq(t, `{"payment_terms": "Net 60"}`, string(result.Flags))
}

func TestAnalyze_AttemptsExhausted(t *testing.T) {
	boom := errors.New("upstream down")
	model := &fakeModel{errs: []error{boom, boom, boom}}
	svc := NewWithModel(model, Options{Attempts: 3}, nil)

	_, err := svc.Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAttemptsExhausted))
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, model.calls)
}

func TestAnalyze_RawFallback(t *testing.T) {
	model := &fakeModel{outputs: []string{"No red flags found."}}
	svc := NewWithModel(model, Options{Attempts: 1}, nil)

	result, err := svc.Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw": "No red flags found."}`, string(result.Flags))
}

func TestAnalyze_NotConfigured(t *testing.T) {
	svc, err := New(Options{}, nil)
	require.NoError(t, err)
	assert.False(t, svc.Configured())

	_, err = svc.Analyze(context.Background(), "text")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestAnalyze_CanceledBetweenAttempts(t *testing.T) {
	model := &fakeModel{errs: []error{errors.New("fail"), errors.New("fail")}}
	svc := NewWithModel(model, Options{Attempts: 2, Backoff: time.Hour}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, "text")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, model.calls)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		want           string
		wantStructured bool
	}{
		{
			name:           "plain object",
			content:        `{"a": 1}`,
			want:           `{"a":1}`,
			wantStructured: true,
		},
		{
			name:           "markdown fenced",
			content:        "```json\n{\"auto_renewal\": \"yes\"}\n```",
			want:           `{"auto_renewal":"yes"}`,
			wantStructured: true,
		},
		{
			name:           "prose around nested object",
			content:        `Here you go: {"a": {"b": [1, 2]}} hope it helps`,
			want:           `{"a":{"b":[1,2]}}`,
			wantStructured: true,
		},
		{
			name:           "array is not an object",
			content:        `[1, 2, 3]`,
			want:           `{"raw":"[1, 2, 3]"}`,
			wantStructured: false,
		},
		{
			name:           "null",
			content:        `null`,
			want:           `{"raw":"null"}`,
			wantStructured: false,
		},
		{
			name:           "plain text",
			content:        `nothing to report`,
			want:           `{"raw":"nothing to report"}`,
			wantStructured: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, structured := parseFlags(tt.content)
			assert.Equal(t, tt.wantStructured, structured)
			assert.JSONEq(t, tt.want, string(got))
			assert.True(t, json.Valid(got))
		})
	}
}

func TestPromptWindow(t *testing.T) {
	short := "short contract"
	assert.Equal(t, short, promptWindow(short, 100))

	long := strings.Repeat("clause ", 200) // 1400 chars
	window := promptWindow(long, 100)
	assert.LessOrEqual(t, len([]rune(window)), 100)
	assert.NotEmpty(t, window)
	assert.True(t, strings.HasPrefix(window, "clause"))

	unbroken := strings.Repeat("x", 500)
	assert.Len(t, promptWindow(unbroken, 50), 50)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "hé", TruncateRunes("héllo", 2))
	assert.Equal(t, "héllo", TruncateRunes("héllo", 10))
	assert.Equal(t, "", TruncateRunes("héllo", 0))
}
