package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"inventory-chart-backend/config"
	"inventory-chart-backend/internal/dto"
	"inventory-chart-backend/internal/model"
)

var (
	ErrInterpreterNotConfigured = errors.New("interpreter is not configured: API_KEY is empty")
	errEmptyCompletion          = errors.New("received empty or invalid response structure from Gemini")
)

// Interpreter asks a language model which chart answers a question about a table. The
// reply is returned verbatim; it is untrusted text.
type Interpreter interface {
	Interpret(ctx context.Context, columns []dto.DatasetColumn, sampleRows [][]string, question string) (string, error)
}

type geminiInterpreter struct {
	cli        *genai.Client
	model      string
	timeout    time.Duration
	maxRetries uint64
}

func NewGeminiInterpreter(cfg *config.Config) (Interpreter, error) {
	s := &geminiInterpreter{
		model:      cfg.LLM.Model,
		timeout:    cfg.LLM.Timeout,
		maxRetries: cfg.LLM.MaxRetries,
	}
	if cfg.APIKey == "" {
		log.Warn().Msg("API_KEY is empty, chart queries will fail until it is set")
		return s, nil
	}
	cli, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	s.cli = cli
	return s, nil
}

func (s *geminiInterpreter) Interpret(ctx context.Context, columns []dto.DatasetColumn, sampleRows [][]string, question string) (string, error) {
	if s.cli == nil {
		return "", ErrInterpreterNotConfigured
	}
	log.Info().Str("query", question).Int("column_count", len(columns)).Msg("Gemini interpreter: interpreting query")

	prompt := BuildChartPrompt(columns, sampleRows, question)
	var text string
	operation := func() error {
		var err error
		text, err = s.generate(ctx, prompt)
		if errors.Is(err, errEmptyCompletion) {
			return backoff.Permanent(err)
		}
		if err != nil {
			log.Warn().Err(err).Msg("Gemini request failed, retrying")
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		log.Error().Err(err).Msg("Gemini interpreter failed")
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	log.Debug().Str("generated_text", text).Msg("Gemini interpreter: received reply")
	return text, nil
}

func (s *geminiInterpreter) generate(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	resp, err := s.cli.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errEmptyCompletion
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// BuildChartPrompt renders the fixed instruction template for one question.
func BuildChartPrompt(columns []dto.DatasetColumn, sampleRows [][]string, question string) string {
	var schema strings.Builder
	for _, c := range columns {
		fmt.Fprintf(&schema, "- %s (%s)\n", c.Name, c.Kind)
	}
	var sample strings.Builder
	for _, row := range sampleRows {
		sample.WriteString(strings.Join(row, " | "))
		sample.WriteByte('\n')
	}

	return fmt.Sprintf(`
You are a data visualization assistant for an inventory table. Choose the single chart that best answers the user's question. Respond *ONLY* with a valid JSON object matching the specified format, without any introductory text or markdown formatting.

Columns:
%s
Sample rows:
%s
Desired JSON Output Format:
{
  "chart_type": (%s),
  "x_col": (string | null),
  "y_col": (string | null),
  "group_by": (string | null),
  "aggregation": ("sum" | "count" | null),
  "bins": (number | null), // histogram only
  "additional_notes": (string | null),
  "insight": (string | null)
}

Use only the column names listed above. If the question cannot be answered with a chart of this table, respond with {"error": "<short reason>"}.

User Query: "%s"

JSON Output:`, schema.String(), sample.String(), quotedChartTypes(), question)
}

func quotedChartTypes() string {
	names := model.SupportedChartTypeNames()
	for i, n := range names {
		names[i] = `"` + n + `"`
	}
	return strings.Join(names, " | ")
}
