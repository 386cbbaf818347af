package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"reservation-bot/internal/data/entity"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-2.5-flash"

// Classifier asks Gemini which of a business's services a customer meant.
type Classifier struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

func NewClassifier(ctx context.Context, apiKey, model string, log *zap.Logger) (*Classifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Classifier{
		client: client,
		model:  model,
		log:    log.With(zap.String("integration", "gemini")),
	}, nil
}

// PickService returns one of allowed, or "" when the model found no match.
func (c *Classifier) PickService(ctx context.Context, business *entity.Business, allowed []string, text string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt(business.Name, allowed)))

	resp, err := model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	name, err := parseAnswer(sb.String(), allowed)
	if err != nil {
		return "", err
	}
	c.log.Debug("Service classified",
		zap.String("business_id", business.ID.String()),
		zap.String("service", name))
	return name, nil
}

func (c *Classifier) Close() error {
	return c.client.Close()
}

func systemPrompt(businessName string, allowed []string) string {
	return fmt.Sprintf(`You classify customer messages for %q, a business taking reservations.
The customer is asked which service they want. The services offered are:
- %s

Answer with JSON only: {"service": "<exact name from the list>"}.
If none of the services fits, answer {"service": ""}.`, businessName, strings.Join(allowed, "\n- "))
}

type answer struct {
	Service string `json:"service"`
}

// parseAnswer decodes the model's JSON and maps it onto the canonical
// spelling from allowed. Names outside allowed count as no match.
func parseAnswer(raw string, allowed []string) (string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var a answer
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &a); err != nil {
		return "", fmt.Errorf("gemini: decode answer: %w", err)
	}

	picked := strings.TrimSpace(a.Service)
	if picked == "" {
		return "", nil
	}
	for _, name := range allowed {
		if strings.EqualFold(name, picked) {
			return name, nil
		}
	}
	return "", nil
}
