// Package analyst turns raw sales CSV into a structured analysis using an LLM.
package analyst

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/yildizm/SalesDash/internal/ai"
	"github.com/yildizm/SalesDash/internal/logger"
	"github.com/yildizm/SalesDash/internal/sales"
	"github.com/yildizm/go-promptfmt"
)

// Provider is the analysis back-end the dashboard depends on. Both calls are
// single-shot; failures are returned as *ai.ProviderError.
type Provider interface {
	GenerateSample(ctx context.Context) (string, error)
	Analyze(ctx context.Context, raw string) (*sales.AnalysisResult, error)
}

// Options tune the completion requests
type Options struct {
	Model               string
	MaxTokens           int
	SampleTemperature   float64
	AnalysisTemperature float64
	SampleRows          int
}

// DefaultOptions returns the options used by the CLI
func DefaultOptions() Options {
	return Options{
		SampleTemperature:   0.9,
		AnalysisTemperature: 0.2,
		SampleRows:          20,
	}
}

// LLM implements Provider over an ai.LLMProvider
type LLM struct {
	llm    ai.LLMProvider
	opts   Options
	logger *logger.Logger
}

// New creates an LLM-backed analysis provider
func New(llm ai.LLMProvider, opts Options, log *logger.Logger) *LLM {
	if log == nil {
		log = logger.Discard()
	}
	if opts.SampleRows <= 0 {
		opts.SampleRows = DefaultOptions().SampleRows
	}
	return &LLM{llm: llm, opts: opts, logger: log}
}

// GenerateSample asks the model for a plausible retail sales CSV
func (a *LLM) GenerateSample(ctx context.Context) (string, error) {
	prompt := NewSampleDataPattern().WithRows(a.opts.SampleRows).Build()

	content, err := a.complete(ctx, "sample", &ai.CompletionRequest{
		Prompt:       prompt.String(),
		SystemPrompt: prompt.SystemPrompt,
		Model:        a.opts.Model,
		MaxTokens:    a.opts.MaxTokens,
		Temperature:  a.opts.SampleTemperature,
	})
	if err != nil {
		return "", err
	}

	return stripCodeFence(content), nil
}

// Analyze sends raw to the model and decodes the structured result. A body that
// does not have the analysis shape is an ErrTypeDecode provider error.
func (a *LLM) Analyze(ctx context.Context, raw string) (*sales.AnalysisResult, error) {
	prompt := NewSalesAnalysisPattern().WithData(raw).Build()

	content, err := a.complete(ctx, "analyze", &ai.CompletionRequest{
		Prompt:       prompt.String(),
		SystemPrompt: prompt.SystemPrompt,
		Model:        a.opts.Model,
		MaxTokens:    a.opts.MaxTokens,
		Temperature:  a.opts.AnalysisTemperature,
		ResponseFormat: &ai.ResponseFormat{
			Type:   ai.ResponseFormatJSON,
			Schema: AnalysisSchema(),
		},
	})
	if err != nil {
		return nil, err
	}

	result, err := decodeResult(content)
	if err != nil {
		a.logger.Debug("undecodable analysis response: %.200s", content)
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeDecode, "response did not match the analysis shape", a.llm.Name(), err)
	}
	return result, nil
}

func (a *LLM) complete(ctx context.Context, op string, req *ai.CompletionRequest) (string, error) {
	req.RequestID = ai.NewRequestID()
	start := time.Now()

	resp, err := a.llm.Complete(ctx, req)
	if err != nil {
		a.logger.DebugWithFields("completion failed", []logger.Field{
			logger.F("op", op), logger.F("request_id", req.RequestID), logger.Error(err),
		})
		return "", err
	}

	a.logger.InfoWithFields("completion finished", []logger.Field{
		logger.F("op", op),
		logger.F("request_id", req.RequestID),
		logger.F("model", resp.Model),
		logger.Duration(time.Since(start)),
	})

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", ai.NewProviderError(ai.ErrTypeEmptyResponse, "no response from AI", a.llm.Name())
	}
	return content, nil
}

// decodeResult tries the body as-is, then lets promptfmt dig JSON out of prose.
// Either way the strict structural decoder has the final word.
func decodeResult(content string) (*sales.AnalysisResult, error) {
	result, err := sales.DecodeAnalysis([]byte(stripCodeFence(content)))
	if err == nil {
		return result, nil
	}

	var probe map[string]interface{}
	if parsed := promptfmt.NewResponse(content).TryParseJSON(&probe); !parsed.Success || probe == nil {
		return nil, err
	}
	data, merr := json.Marshal(probe)
	if merr != nil {
		return nil, err
	}
	return sales.DecodeAnalysis(data)
}

// stripCodeFence removes a surrounding ``` block, with or without a language tag.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
