package iterm

import (
	"context"
	"errors"
	"fmt"

	"github.com/lydakis/itermctl/internal/applescript"
	"github.com/lydakis/itermctl/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// Operation names, registered under "<namespace>:<operation>".
const (
	OpWriteToTerminal      = "write_to_terminal"
	OpReadTerminalOutput   = "read_terminal_output"
	OpSendControlCharacter = "send_control_character"
)

// ToolName joins a namespace and an operation.
func ToolName(namespace, op string) string {
	return namespace + ":" + op
}

// TextResult is the read_terminal_output result.
type TextResult struct {
	Text string `json:"text"`
}

// Toolset exposes the executor, reader and sender as router tools.
type Toolset struct {
	Executor *CommandExecutor
	Reader   *TTYReader
	Sender   *ControlSender
}

// Tools returns the three terminal tools under namespace.
func (ts Toolset) Tools(namespace string) []tools.Tool {
	return []tools.Tool{
		{
			Definition: mcp.NewTool(ToolName(namespace, OpWriteToTerminal),
				mcp.WithDescription("Types text into the active iTerm2 session followed by a newline, as if entered at the keyboard. Use it to run shell commands or answer prompts. Returns once the text is delivered, not when the command finishes."),
				mcp.WithString("command",
					mcp.Required(),
					mcp.Description("Command or text to type. Newlines are delivered as separate lines."),
				),
				mcp.WithTitleAnnotation("Write to terminal"),
				mcp.WithReadOnlyHintAnnotation(false),
				mcp.WithDestructiveHintAnnotation(true),
				mcp.WithIdempotentHintAnnotation(false),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: ts.writeToTerminal,
		},
		{
			Definition: mcp.NewTool(ToolName(namespace, OpReadTerminalOutput),
				mcp.WithDescription("Reads the most recent lines buffered on the active iTerm2 session's TTY. Escape sequences are stripped unless disabled in configuration."),
				mcp.WithNumber("lines_of_output",
					tools.IntegerType(),
					mcp.Required(),
					mcp.Min(0),
					mcp.Description("Number of trailing lines to return. 0 returns an empty string."),
				),
				mcp.WithTitleAnnotation("Read terminal output"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(false),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Aliases: map[string]string{"linesOfOutput": "lines_of_output"},
			Handler: ts.readTerminalOutput,
		},
		{
			Definition: mcp.NewTool(ToolName(namespace, OpSendControlCharacter),
				mcp.WithDescription("Sends a control character to the active iTerm2 session, for example C for Control-C or ] for the telnet escape."),
				mcp.WithString("letter",
					mcp.Required(),
					mcp.MinLength(1),
					mcp.Description("A letter A-Z (either case) or one of @ [ \\ ] ^ _"),
				),
				mcp.WithTitleAnnotation("Send control character"),
				mcp.WithReadOnlyHintAnnotation(false),
				mcp.WithDestructiveHintAnnotation(true),
				mcp.WithIdempotentHintAnnotation(false),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: ts.sendControlCharacter,
		},
	}
}

func (ts Toolset) writeToTerminal(ctx context.Context, args map[string]any) (any, error) {
	command, _ := args["command"].(string)
	if err := ts.Executor.Execute(ctx, command); err != nil {
		return nil, classify(err)
	}
	return struct{}{}, nil
}

func (ts Toolset) readTerminalOutput(ctx context.Context, args map[string]any) (any, error) {
	n, ok := args["lines_of_output"].(int64)
	if !ok {
		return nil, fmt.Errorf("%w: lines_of_output must be an integer", mcp.ErrInvalidParams)
	}
	text, err := ts.Reader.Read(ctx, int(n))
	if err != nil {
		return nil, classify(err)
	}
	return TextResult{Text: text}, nil
}

func (ts Toolset) sendControlCharacter(ctx context.Context, args map[string]any) (any, error) {
	letter, _ := args["letter"].(string)
	if err := ts.Sender.Send(ctx, letter); err != nil {
		return nil, classify(err)
	}
	return struct{}{}, nil
}

// classify tags err with the tools.Kind the router reports. Invalid
// parameter errors pass through untouched.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mcp.ErrInvalidParams):
		return err
	case errors.Is(err, ErrInitializationFailed):
		return tools.NewError(tools.KindInitializationFailed, err)
	case errors.Is(err, ErrIO):
		return tools.NewError(tools.KindIO, err)
	case errors.Is(err, applescript.ErrTimeout):
		return tools.NewError(tools.KindTimeout, err)
	case errors.Is(err, applescript.ErrExecutionFailed):
		return tools.NewError(tools.KindExecutionFailed, err)
	default:
		return tools.NewError(tools.KindTool, err)
	}
}
