package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/config"
	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/dataset"
)

// Annotation is the parsed output of one relevance-scoring call.
type Annotation struct {
	Relevant  bool
	Score     float64
	Rationale string
}

// Scorer judges a paper's relevance and optionally translates abstracts.
type Scorer interface {
	Score(ctx context.Context, title, abstract string) (Annotation, error)
	Translate(ctx context.Context, text, language string) (string, error)
}

// New creates a Scorer from the given AI config.
func New(cfg *config.AIConfig, apiKey, topics string) (Scorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("AI not configured")
	}

	client := &http.Client{Timeout: 30 * time.Second}

	provider := ""
	model := ""
	if cfg != nil {
		provider = cfg.Provider
		model = cfg.Model
	}

	switch provider {
	case "openrouter", "":
		if model == "" {
			model = "openai/gpt-4o-mini"
		}
		return &scorer{topics: topics, caller: &chatProvider{
			endpoint: "https://openrouter.ai/api/v1/chat/completions",
			apiKey:   apiKey, model: model, client: client,
		}}, nil
	case "openai":
		if model == "" {
			model = "gpt-4o-mini"
		}
		return &scorer{topics: topics, caller: &chatProvider{
			endpoint: "https://api.openai.com/v1/chat/completions",
			apiKey:   apiKey, model: model, client: client,
		}}, nil
	case "claude":
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		return &scorer{topics: topics, caller: &claudeProvider{
			endpoint: "https://api.anthropic.com/v1/messages",
			apiKey:   apiKey, model: model, client: client,
		}}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q (valid: %s)", provider, strings.Join(config.ValidProviders, ", "))
	}
}

const scorePrompt = `You are screening new arXiv papers for a daily digest about: %s.

Decide whether this paper is relevant to any of those topics and rate its priority for readers of the digest from 0 to 10.

Format your response EXACTLY like this:
RELEVANT: yes or no
SCORE: <number 0-10>
REASON: <one short sentence>

Title: %s
Abstract: %s`

const translatePrompt = `Translate the following paper abstract into %s. Respond with ONLY the translation, nothing else.

%s`

// caller issues one prompt to a provider and returns the raw text reply.
type caller interface {
	call(ctx context.Context, prompt string) (string, error)
}

type scorer struct {
	topics string
	caller caller
}

func (s *scorer) Score(ctx context.Context, title, abstract string) (Annotation, error) {
	text, err := s.caller.call(ctx, fmt.Sprintf(scorePrompt, s.topics, title, abstract))
	if err != nil {
		return Annotation{}, err
	}
	return parseAnnotation(text)
}

func (s *scorer) Translate(ctx context.Context, text, language string) (string, error) {
	out, err := s.caller.call(ctx, fmt.Sprintf(translatePrompt, language, text))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// parseAnnotation reads the RELEVANT/SCORE/REASON lines out of a model reply.
// A reply without a RELEVANT line is a parse failure.
func parseAnnotation(text string) (Annotation, error) {
	var a Annotation
	sawRelevant := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "RELEVANT:"):
			v := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "RELEVANT:")))
			a.Relevant = v == "yes" || v == "true"
			sawRelevant = true
		case strings.HasPrefix(line, "SCORE:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "SCORE:"))
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				if f < 0 {
					f = 0
				}
				if f > 10 {
					f = 10
				}
				a.Score = f
			}
		case strings.HasPrefix(line, "REASON:"):
			a.Rationale = strings.TrimSpace(strings.TrimPrefix(line, "REASON:"))
		}
	}

	if !sawRelevant {
		return Annotation{}, fmt.Errorf("no RELEVANT line in response")
	}
	return a, nil
}

// ScoreResult holds the annotated records and any per-record errors.
type ScoreResult struct {
	Records []dataset.Record
	Errors  []error
}

// ScoreAll scores each paper with one request. A failed request or unparseable
// reply keeps the record unscored rather than aborting the run; relevant
// papers get their abstract translated when translateTo is set.
func ScoreAll(ctx context.Context, s Scorer, papers []dataset.Paper, translateTo string) ScoreResult {
	var result ScoreResult
	for _, p := range papers {
		rec := dataset.Record{Paper: p}

		a, err := s.Score(ctx, p.Title, p.Abstract)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("scoring %s: %w", p.ID, err))
			result.Records = append(result.Records, rec)
			continue
		}

		rec.Scored = true
		rec.Relevant = a.Relevant
		rec.Score = a.Score
		rec.Rationale = a.Rationale
		rec.Method = dataset.MethodLLM

		if translateTo != "" && a.Relevant {
			tr, err := s.Translate(ctx, p.Abstract, translateTo)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("translating %s: %w", p.ID, err))
			} else {
				rec.TranslatedAbstract = tr
			}
		}

		result.Records = append(result.Records, rec)
	}
	return result
}

// --- OpenAI-compatible chat completions (openrouter, openai) ---

type chatProvider struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *chatProvider) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("scoring API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("scoring API %d: %s", resp.StatusCode, string(b))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty scoring response")
	}
	return cr.Choices[0].Message.Content, nil
}

// --- Claude provider ---

type claudeProvider struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *claudeProvider) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: 1024,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("claude API %d: %s", resp.StatusCode, string(b))
	}

	var cr claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Content) == 0 {
		return "", fmt.Errorf("empty claude response")
	}
	return cr.Content[0].Text, nil
}
