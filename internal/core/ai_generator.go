// ABOUTME: AIGenerator runs the bounded tool-calling conversation with the language model
// ABOUTME: Executes requested tools through a per-query executor and forces a text answer at the round limit
package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harper/coursemate/internal/models"
	"github.com/harper/coursemate/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultMaxToolRounds bounds how many rounds of tool calls one query may run
const DefaultMaxToolRounds = 2

// SystemPrompt instructs the model how to use the course tools
const SystemPrompt = `You are an AI assistant specialized in course materials and educational content, with access to tools for course information.

Tool usage:
- Use search_course_content for questions about specific course content or detailed educational material
- Use get_course_outline for questions about a course's structure, its lessons, or its link
- Filter by course_name and lesson_number when the user names a course or lesson
- If a search yields no results, say so clearly without offering alternatives

Response protocol:
- General knowledge questions: answer from existing knowledge without searching
- Course-specific questions: use the tools first, then answer
- No meta-commentary: do not describe your search process or mention tool results
- Give only the direct answer to what was asked

All responses must be brief, concise, educational, and clear. Include examples when they aid understanding.`

// ChatCompleter sends one chat request to the language model
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ToolExecutor offers tool schemas and runs tools for one query
type ToolExecutor interface {
	Schemas() []mcp.Tool
	Execute(ctx context.Context, name string, args map[string]any) (string, error)
}

// ErrModelFailure wraps language model transport failures
var ErrModelFailure = errors.New("language model request failed")

// GenerationState is where a query is in the tool-calling protocol
type GenerationState int

const (
	StateAwaitingModel GenerationState = iota
	StateExecutingTools
	StateDone
)

func (s GenerationState) String() string {
	switch s {
	case StateAwaitingModel:
		return "AWAITING_MODEL"
	case StateExecutingTools:
		return "EXECUTING_TOOLS"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("GenerationState(%d)", int(s))
	}
}

// GeneratorConfig tunes model requests
type GeneratorConfig struct {
	Model         string
	Temperature   float32
	MaxTokens     int
	MaxToolRounds int
}

// AIGenerator talks to the language model on behalf of the RAG pipeline
type AIGenerator struct {
	client ChatCompleter
	config GeneratorConfig
}

// NewAIGenerator creates a generator. A zero MaxToolRounds uses DefaultMaxToolRounds.
func NewAIGenerator(client ChatCompleter, config GeneratorConfig) *AIGenerator {
	if config.MaxToolRounds <= 0 {
		config.MaxToolRounds = DefaultMaxToolRounds
	}
	return &AIGenerator{client: client, config: config}
}

// GenerateResponse answers query given prior exchanges, letting the model call tools
// through exec. It never touches session state or citations.
func (g *AIGenerator) GenerateResponse(ctx context.Context, query string, history []models.Exchange, exec ToolExecutor) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2+2*len(history))
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt})
	for _, ex := range history {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: ex.UserMessage},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: ex.AIResponse},
		)
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: query})

	var toolDefs []openai.Tool
	if exec != nil {
		toolDefs = ToOpenAITools(exec.Schemas())
	}

	state := StateAwaitingModel
	for round := 0; ; round++ {
		forceText := round >= g.config.MaxToolRounds
		log.Debug("generation", "state", state, "round", round, "force_text", forceText)

		msg, err := g.complete(ctx, messages, toolDefs, forceText)
		if err != nil {
			return "", err
		}

		if len(msg.ToolCalls) == 0 || forceText || exec == nil {
			state = StateDone
			log.Debug("generation", "state", state, "round", round)
			return msg.Content, nil
		}

		state = StateExecutingTools
		log.Debug("generation", "state", state, "round", round, "calls", len(msg.ToolCalls))
		messages = append(messages, openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   msg.Content,
			ToolCalls: msg.ToolCalls,
		})
		for _, call := range msg.ToolCalls {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    runToolCall(ctx, exec, call),
				ToolCallID: call.ID,
			})
		}
		state = StateAwaitingModel
	}
}

func (g *AIGenerator) complete(ctx context.Context, messages []openai.ChatCompletionMessage, toolDefs []openai.Tool, forceText bool) (openai.ChatCompletionMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.config.Model,
		Messages:    messages,
		Temperature: g.config.Temperature,
		MaxTokens:   g.config.MaxTokens,
	}
	if len(toolDefs) > 0 {
		req.Tools = toolDefs
		if forceText {
			req.ToolChoice = "none"
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("%w: %w", ErrModelFailure, err)
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, fmt.Errorf("%w: no choices returned", ErrModelFailure)
	}
	return resp.Choices[0].Message, nil
}

// runToolCall executes one call; every failure becomes text for the model
func runToolCall(ctx context.Context, exec ToolExecutor, call openai.ToolCall) string {
	args, err := tools.ParseArguments(call.Function.Arguments)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	out, err := exec.Execute(ctx, call.Function.Name, args)
	if err != nil {
		log.Warn("tool call rejected", "tool", call.Function.Name, "err", err)
		return fmt.Sprintf("Error: %v", err)
	}
	return out
}

// ToOpenAITools converts MCP tool schemas into OpenAI function definitions
func ToOpenAITools(schemas []mcp.Tool) []openai.Tool {
	if len(schemas) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(schemas))
	for _, s := range schemas {
		props := s.InputSchema.Properties
		if props == nil {
			props = map[string]interface{}{}
		}
		params := map[string]interface{}{
			"type":       "object",
			"properties": props,
		}
		if len(s.InputSchema.Required) > 0 {
			params["required"] = s.InputSchema.Required
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  params,
			},
		})
	}
	return out
}
