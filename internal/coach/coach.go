// Package coach asks Gemini for feedback on a closing proposal.
package coach

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/review_proposal.txt
var reviewProposalPrompt string

var reviewTmpl = template.Must(template.New("review_proposal").Parse(reviewProposalPrompt))

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrDisabled is returned by a coach without an API key.
var ErrDisabled = errors.New("proposal coach is disabled: set GEMINI_API_KEY to enable it")

// Request describes the proposal to review.
type Request struct {
	Game     string
	Title    string
	Context  string
	Badge    string
	Scores   map[string]float64
	Choices  []string
	Proposal string
}

// Feedback is the coach's review.
type Feedback struct {
	Summary   string   `yaml:"summary"`
	Strengths []string `yaml:"strengths"`
	Gaps      []string `yaml:"gaps"`
}

// Coach reviews proposals. The zero value is disabled.
type Coach struct {
	client   *genai.Client
	generate func(ctx context.Context, prompt string) (string, error)
}

// New returns a coach backed by Gemini. An empty key yields a disabled
// coach.
func New(ctx context.Context, apiKey, model string) (*Coach, error) {
	if apiKey == "" {
		return &Coach{}, nil
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	m := client.GenerativeModel(model)
	return &Coach{
		client: client,
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := m.GenerateContent(ctx, genai.Text(prompt))
			if err != nil {
				return "", err
			}
			if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
				return "", fmt.Errorf("no content returned from Gemini")
			}
			text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
			if !ok {
				return "", fmt.Errorf("unexpected response type from Gemini")
			}
			return string(text), nil
		},
	}, nil
}

// Enabled reports whether the coach can review.
func (c *Coach) Enabled() bool {
	return c != nil && c.generate != nil
}

// Close releases the Gemini client.
func (c *Coach) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// Review asks for feedback on a proposal.
func (c *Coach) Review(ctx context.Context, req Request) (Feedback, error) {
	if !c.Enabled() {
		return Feedback{}, ErrDisabled
	}
	if strings.TrimSpace(req.Proposal) == "" {
		return Feedback{}, fmt.Errorf("nothing to review: the proposal is empty")
	}
	prompt, err := render(req)
	if err != nil {
		return Feedback{}, err
	}
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return Feedback{}, fmt.Errorf("review proposal: %w", err)
	}
	return parseFeedback(text)
}

func render(req Request) (string, error) {
	var buf bytes.Buffer
	if err := reviewTmpl.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func parseFeedback(text string) (Feedback, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var fb Feedback
	if err := yaml.Unmarshal([]byte(clean), &fb); err != nil {
		return Feedback{}, fmt.Errorf("failed to parse feedback YAML: %v\nOutput was: %s", err, clean)
	}
	if fb.Summary == "" && len(fb.Strengths) == 0 && len(fb.Gaps) == 0 {
		return Feedback{}, fmt.Errorf("empty feedback from Gemini")
	}
	return fb, nil
}
