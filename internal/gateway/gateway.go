// Package gateway adapts the Gemini API to the two operations this system
// needs: refining an intention into a structured result, and generating an
// anchor image from a visual prompt. Responses are validated here at the
// boundary; nothing downstream trusts a partial shape.
package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"manifest/internal/intention"
)

// generator is the slice of the genai client the gateway needs. Tests
// substitute a fake.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config selects the models and rendering parameters.
type Config struct {
	APIKey      string
	TextModel   string
	ImageModel  string
	AspectRatio string
	Timeout     time.Duration
	CacheTTL    time.Duration
}

func (c *Config) applyDefaults() {
	if c.TextModel == "" {
		c.TextModel = "gemini-3-flash-preview"
	}
	if c.ImageModel == "" {
		c.ImageModel = "gemini-2.5-flash-image"
	}
	if c.AspectRatio == "" {
		c.AspectRatio = "16:9"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 10 * time.Minute
	}
}

// Gateway is the AI adapter. Both operations are independent per call: no
// shared session, no automatic retry.
type Gateway struct {
	models  generator
	cfg     Config
	refined *cache.Cache
	logger  *zap.Logger
}

// New creates a gateway backed by the Gemini API.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Gateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gateway: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newWith(client.Models, cfg, logger), nil
}

func newWith(models generator, cfg Config, logger *zap.Logger) *Gateway {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		models:  models,
		cfg:     cfg,
		refined: cache.New(cfg.CacheTTL, cfg.CacheTTL/2),
		logger:  logger,
	}
}

// Refine sends the intention through the instruction profile and returns
// the validated structured result. Identical drafts within the cache TTL
// are served from memory instead of paying for a second call.
func (g *Gateway) Refine(ctx context.Context, intentionText string) (*intention.RefinementResult, error) {
	key := strings.TrimSpace(intentionText)
	if hit, found := g.refined.Get(key); found {
		res := hit.(intention.RefinementResult)
		return &res, nil
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.cfg.TextModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: refineContentsPrefix + fmt.Sprintf("%q", intentionText)}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: refineSystemInstruction}}},
			ResponseMIMEType:  "application/json",
			ResponseSchema:    refinementSchema,
		},
	)
	if err != nil {
		return nil, &RefinementError{Err: err}
	}

	res, err := parseRefinement(firstText(resp))
	if err != nil {
		return nil, &RefinementError{Err: err}
	}
	g.logger.Info("intention refined",
		zap.String("model", g.cfg.TextModel),
		zap.Float64("resonance", res.ResonanceScore),
		zap.Duration("elapsed", time.Since(start)),
	)
	g.refined.Set(key, *res, cache.DefaultExpiration)
	return res, nil
}

// GenerateAnchorImage renders the visual prompt and returns the image as a
// data URL ready for direct display.
func (g *Gateway) GenerateAnchorImage(ctx context.Context, visualPrompt string) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	resp, err := g.models.GenerateContent(ctx, g.cfg.ImageModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: fmt.Sprintf(imagePromptTemplate, visualPrompt)}}}},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{AspectRatio: g.cfg.AspectRatio},
		},
	)
	if err != nil {
		return "", &ImageGenerationError{Err: err}
	}

	url, err := extractImage(resp)
	if err != nil {
		return "", &ImageGenerationError{Err: err}
	}
	g.logger.Info("anchor image generated", zap.String("model", g.cfg.ImageModel))
	return url, nil
}

// parseRefinement decodes and validates a refine response body. Missing
// required fields are rejected; an out-of-range resonanceScore is not.
func parseRefinement(body string) (*intention.RefinementResult, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("empty response body")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("unparseable response: %w", err)
	}
	for _, required := range []string{"refinedIntention", "explanation", "resonanceScore", "focusKeywords", "visualPrompt"} {
		if _, ok := fields[required]; !ok {
			return nil, fmt.Errorf("response missing required field %q", required)
		}
	}

	var res intention.RefinementResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return nil, fmt.Errorf("response shape mismatch: %w", err)
	}
	return &res, nil
}

// firstText returns the first text part of the first candidate.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// extractImage finds the first inline-data part and encodes it as a data
// URL. Absence of an image part is an error.
func extractImage(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("empty response")
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
				return fmt.Sprintf("data:%s;base64,%s", part.InlineData.MIMEType, encoded), nil
			}
		}
	}
	return "", errors.New("no image part in response")
}
