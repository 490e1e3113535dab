package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/Zornetta/Chatbot-Barista/internal/nlp"
)

// OpenAIClassifier asks a chat model for the intent of a message, with the
// answer constrained by a strict JSON schema. It implements nlp.Classifier,
// so the orchestrator cannot tell it apart from the keyword classifier.
type OpenAIClassifier struct {
	client openai.Client
	model  shared.ChatModel
	labels []string
	prompt string
}

// NewOpenAIClassifier builds a classifier over the OPENAI_API_KEY in the
// environment. OPENAI_MODEL overrides the default model and
// OPENAI_BASE_URL points the client at any OpenAI-compatible server.
func NewOpenAIClassifier(labels []string) (*OpenAIClassifier, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("at least one intent label is required")
	}

	var opts []option.RequestOption
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	model := shared.ChatModelGPT4oMini
	if m := os.Getenv("OPENAI_MODEL"); m != "" {
		model = shared.ChatModel(m)
	}

	return &OpenAIClassifier{
		client: openai.NewClient(opts...),
		model:  model,
		labels: append([]string(nil), labels...),
		prompt: buildIntentPrompt(labels),
	}, nil
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (nlp.Prediction, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.prompt),
			openai.UserMessage(text),
		},
		Model:          c.model,
		ResponseFormat: c.responseFormat(),
		Temperature:    openai.Float(0),
	})
	if err != nil {
		return nlp.Prediction{}, fmt.Errorf("intent completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nlp.Prediction{}, fmt.Errorf("intent completion returned no choices")
	}

	var out intentPrediction
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &out); err != nil {
		return nlp.Prediction{}, fmt.Errorf("decode intent completion: %w", err)
	}

	if out.Confidence < 0 {
		out.Confidence = 0
	}
	if out.Confidence > 1 {
		out.Confidence = 1
	}
	return nlp.Prediction{Label: out.Intent, Confidence: out.Confidence}, nil
}

func (c *OpenAIClassifier) responseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "intent_prediction",
		Description: openai.String("Predicted intent of the user message"),
		Schema:      generateSchema[intentPrediction](),
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: schemaParam,
		},
	}
}
