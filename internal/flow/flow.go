// Package flow runs the end-to-end sous chef conversation scenario.
package flow

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/raulc0399/arcane-kitchen/internal/kitchen"
	"github.com/raulc0399/arcane-kitchen/internal/logging"
)

// DefaultPause separates message sends so the backend is not flooded
const DefaultPause = time.Second

// Report summarises one run
type Report struct {
	ConversationID string
	Sent           int
	Replies        []kitchen.Message
	History        []kitchen.Message
}

// Flow creates a conversation, sends messages in order and reads the history back
type Flow struct {
	kitchen  *kitchen.Kitchen
	out      io.Writer
	logger   logging.Logger
	messages []string
	pause    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Flow
type Option func(*Flow)

// WithMessages replaces the prompts
func WithMessages(messages []string) Option {
	return func(f *Flow) { f.messages = messages }
}

// WithPause changes the gap between sends
func WithPause(d time.Duration) Option {
	return func(f *Flow) { f.pause = d }
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(f *Flow) { f.logger = logger }
}

// New creates a Flow writing its transcript to out
func New(k *kitchen.Kitchen, out io.Writer, opts ...Option) *Flow {
	f := &Flow{
		kitchen:  k,
		out:      out,
		logger:   logging.NopLogger{},
		messages: kitchen.SampleMessages(),
		pause:    DefaultPause,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run executes the scenario. A failed conversation create aborts the run; a failed
// send stops further sends but the history is still fetched. The first failure is
// returned alongside the partial report.
func (f *Flow) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	fmt.Fprintln(f.out, "\nStep 1: Creating conversation...")
	conversation, err := f.kitchen.CreateConversation(ctx)
	if err != nil {
		fmt.Fprintf(f.out, "Failed to create conversation: %v\n", err)
		return report, err
	}
	report.ConversationID = conversation.ID
	fmt.Fprintf(f.out, "Created conversation: %s\n", conversation.ID)
	f.logger.Info("Conversation created", logging.F("conversationId", conversation.ID))

	var firstErr error
	for i, text := range f.messages {
		if i > 0 {
			if err := f.sleep(ctx, f.pause); err != nil {
				firstErr = err
				break
			}
		}

		fmt.Fprintf(f.out, "\nStep %d: Sending message...\n", i+2)
		fmt.Fprintf(f.out, "User: %s\n", text)

		reply, result, err := f.kitchen.SendMessageResult(ctx, conversation.ID, text)
		if result != nil {
			f.logger.Debug("Send message response",
				logging.F("status", result.StatusCode),
				logging.F("body", string(result.Raw)))
		}
		if err != nil {
			if result != nil {
				fmt.Fprintf(f.out, "Raw response: %d - %s\n", result.StatusCode, string(result.Raw))
			}
			fmt.Fprintf(f.out, "Failed to send message: %v\n", err)
			firstErr = err
			break
		}
		report.Sent++
		report.Replies = append(report.Replies, *reply)
		fmt.Fprintf(f.out, "AI: %s\n", kitchen.Truncate(reply.Text(), 100))
	}

	fmt.Fprintf(f.out, "\nStep %d: Retrieving full conversation...\n", len(f.messages)+2)
	full, err := f.kitchen.GetConversation(ctx, conversation.ID)
	if err != nil {
		fmt.Fprintf(f.out, "Failed to retrieve conversation: %v\n", err)
		if firstErr == nil {
			firstErr = err
		}
	} else {
		report.History = kitchen.SortMessages(full.Items())
		fmt.Fprintf(f.out, "Retrieved %d messages\n", len(report.History))
		fmt.Fprintln(f.out, "\nFull Conversation History:")
		fmt.Fprintln(f.out, strings.Repeat("-", 40))
		for _, msg := range report.History {
			role := "AI"
			if msg.Role == kitchen.RoleUser {
				role = "User"
			}
			fmt.Fprintf(f.out, "%s | %s: %s\n", msg.Timestamp(), role, kitchen.Truncate(msg.Text(), 80))
		}
	}

	fmt.Fprintf(f.out, "\nConversation test complete! ID: %s\n", conversation.ID)
	return report, firstErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
