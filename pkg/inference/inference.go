// Package inference provides a unified interface for LLM chat and image
// generation.
//
// The package abstracts chat completions (with tool calling) and image
// synthesis behind small interfaces, enabling seamless switching between
// providers like OpenAI, Ollama, vLLM, Together, and others that implement
// the OpenAI-compatible API.
//
// Example usage:
//
//	client, _ := inference.NewClient(
//	    inference.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    inference.WithModel("gpt-4o-mini"),
//	)
//	defer client.Close()
//
//	resp, _ := client.Chat(ctx, &inference.ChatRequest{
//	    Messages: []inference.Message{
//	        inference.NewUserMessage("How much is a ticket to Paris?"),
//	    },
//	    Tools: catalog,
//	})
package inference

import "context"

// Provider is the chat inference interface. The orchestration loop depends
// only on this contract, never on a specific vendor's payload shape.
type Provider interface {
	// Chat generates the next assistant turn from a sequence of messages.
	// When the request carries tools, the response may contain tool call
	// requests instead of (or alongside) text content.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// ImageGenerator synthesizes images from a text prompt.
type ImageGenerator interface {
	// GenerateImage renders an image for the given prompt.
	GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResponse, error)
}

// ChatRequest for chat completions.
type ChatRequest struct {
	// Messages is the conversation history.
	Messages []Message

	// Model overrides the default model.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int

	// Temperature controls randomness (0.0-2.0).
	Temperature float64

	// Tools available for the model to call.
	Tools []Tool

	// ToolChoice controls tool use: "auto", "none", "required".
	ToolChoice string
}

// ChatResponse from chat completion.
type ChatResponse struct {
	// Message is the assistant's response. Tool call requests, if any,
	// are carried in Message.ToolCalls with their arguments verbatim.
	Message Message

	// FinishReason indicates why generation stopped (stop, length, tool_calls).
	FinishReason string

	// Usage tracks token consumption.
	Usage Usage

	// Model used for generation.
	Model string

	// LatencyMs is the response time in milliseconds.
	LatencyMs int64
}

// FinishReasonToolCalls is the finish reason signalling the model requested
// one or more tool invocations.
const FinishReasonToolCalls = "tool_calls"

// ImageRequest for image generation.
type ImageRequest struct {
	// Prompt describes the image to render.
	Prompt string

	// Model overrides the default image model.
	Model string

	// Size is the output resolution, e.g. "1024x1024".
	Size string
}

// ImageResponse from image generation.
type ImageResponse struct {
	// Image is the decoded image bytes (PNG).
	Image []byte

	// Model used for generation.
	Model string

	// LatencyMs is the response time in milliseconds.
	LatencyMs int64
}

// Usage tracks token consumption for billing and limits.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
