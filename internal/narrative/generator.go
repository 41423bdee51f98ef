// Package narrative turns computed scores into written analysis through a
// chat-completion model. The model only ever sees numbers the scoring
// engine already produced; it never computes them.
package narrative

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
)

// ErrNoCompletion is returned when the model answers with no text.
var ErrNoCompletion = errors.New("no completion received from model")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AzOpenAIGenerator calls an Azure OpenAI chat deployment.
type AzOpenAIGenerator struct {
	client       *azopenai.Client
	deploymentID string
}

// NewAzOpenAIGenerator creates a generator for the given endpoint and
// deployment. The deployment is used for every call.
func NewAzOpenAIGenerator(endpoint, apiKey, deploymentID string) (*AzOpenAIGenerator, error) {
	if endpoint == "" || apiKey == "" || deploymentID == "" {
		return nil, fmt.Errorf("azure openai: endpoint, api key and deployment are required")
	}
	keyCredential := azcore.NewKeyCredential(apiKey)
	client, err := azopenai.NewClientWithKeyCredential(endpoint, keyCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("create azure openai client: %w", err)
	}
	return &AzOpenAIGenerator{
		client:       client,
		deploymentID: deploymentID,
	}, nil
}

// Generate sends prompt as a single user message and returns the first
// choice's text.
func (g *AzOpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.GetChatCompletions(
		ctx,
		azopenai.ChatCompletionsOptions{
			DeploymentName: to.Ptr(g.deploymentID),
			Messages: []azopenai.ChatRequestMessageClassification{
				&azopenai.ChatRequestUserMessage{
					Content: azopenai.NewChatRequestUserMessageContent(prompt),
				},
			},
			Temperature: to.Ptr[float32](0.2),
		},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) > 0 && resp.Choices[0].Message != nil && resp.Choices[0].Message.Content != nil {
		return *resp.Choices[0].Message.Content, nil
	}
	return "", ErrNoCompletion
}
