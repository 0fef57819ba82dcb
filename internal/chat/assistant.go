// ABOUTME: Conversational assistant that speaks its replies
// ABOUTME: Splits model output into sentences and streams them to synthesis
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/log"
)

// Speaker is the synthesis surface the assistant talks through. Satisfied by
// *client.Client.
type Speaker interface {
	Speak(text string) error
	Flush() error
}

// Assistant generates replies with the Anthropic API and speaks them
// sentence by sentence, flushing after each full reply so the service emits
// trailing audio immediately.
type Assistant struct {
	name    string
	model   string
	client  anthropic.Client
	speaker Speaker
	history []anthropic.MessageParam
	logger  *log.Logger
}

// New creates an assistant with the given display name, credential, and
// model, speaking through speaker.
func New(name, apiKey, model string, speaker Speaker) *Assistant {
	return &Assistant{
		name:    name,
		model:   model,
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		speaker: speaker,
		logger:  log.WithPrefix("chat"),
	}
}

// persona is the pacing prompt: the synthesis voice reads punctuation as
// timing, so the model is asked to write for the ear.
func (a *Assistant) persona() string {
	return fmt.Sprintf(`You are %s, a personal AI assistant built to make life easier. Respond accordingly. Be concise and natural in your responses. Use the following techniques to make your speech more natural:
1. Use ellipsis (...) for natural pauses, especially when thinking or changing topics.
2. Use commas (,) for short pauses within sentences.
3. Use periods (.) for slightly longer pauses between sentences.
4. Occasionally use filler words like "um" or "uh" for a more natural speech pattern.
5. For emphasis or to slow down speech, use periods between words (e.g., "This. Is. Important.")
6. For silent pauses, use spaced dots (e.g., ". . .")
7. Spell out acronyms or difficult words phonetically when necessary.

Remember to balance these techniques and not overuse them.`, a.name)
}

// Name returns the assistant's display name.
func (a *Assistant) Name() string {
	return a.name
}

// Greet speaks the opening line and returns it.
func (a *Assistant) Greet() (string, error) {
	greeting := fmt.Sprintf("Hello! ... I'm %s, your personal AI assistant. ... How can I help you today?", a.name)
	if err := a.say(greeting); err != nil {
		return greeting, err
	}
	return greeting, nil
}

// Farewell speaks the closing line and returns it.
func (a *Assistant) Farewell() (string, error) {
	farewell := "Goodbye! ... Have a nice day."
	if err := a.say(farewell); err != nil {
		return farewell, err
	}
	return farewell, nil
}

// Respond sends the user input to the model, speaks the reply sentence by
// sentence, and returns the full reply text.
func (a *Assistant) Respond(ctx context.Context, userInput string) (string, error) {
	a.history = append(a.history, anthropic.NewUserMessage(anthropic.NewTextBlock(userInput)))

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: a.persona()}},
		Messages:  a.history,
	})
	if err != nil {
		// Drop the failed turn so a transient API error doesn't poison
		// the history.
		a.history = a.history[:len(a.history)-1]
		return "", fmt.Errorf("generate reply: %w", err)
	}

	var reply strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			reply.WriteString(block.AsText().Text)
		}
	}
	text := strings.TrimSpace(reply.String())
	if text == "" {
		a.history = a.history[:len(a.history)-1]
		return "", fmt.Errorf("model returned no text content")
	}

	a.history = append(a.history, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))

	if err := a.say(text); err != nil {
		return text, err
	}
	return text, nil
}

// say streams text to synthesis one sentence at a time, then flushes.
func (a *Assistant) say(text string) error {
	for _, sentence := range SplitSentences(text) {
		if err := a.speaker.Speak(sentence); err != nil {
			return fmt.Errorf("speak sentence: %w", err)
		}
	}
	if err := a.speaker.Flush(); err != nil {
		return fmt.Errorf("flush synthesis: %w", err)
	}
	return nil
}
