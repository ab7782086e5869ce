package kitchen

import (
	"sort"
	"strings"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Recipe is a recipe record as returned by the API
type Recipe struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prepTime"`
	CookTime     string   `json:"cookTime"`
	Servings     int      `json:"servings"`
	IsPublic     bool     `json:"isPublic"`
}

// RecipeInput is the CreateRecipeInput payload. Validation happens server side.
type RecipeInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	PrepTime     string   `json:"prepTime,omitempty"`
	CookTime     string   `json:"cookTime,omitempty"`
	Servings     int      `json:"servings,omitempty"`
	IsPublic     bool     `json:"isPublic"`
}

// Conversation is a sous chef conversation
type Conversation struct {
	ID        string       `json:"id"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
	Messages  *MessagePage `json:"messages,omitempty"`
}

// Items returns the conversation's messages, or nil when none were selected
func (c *Conversation) Items() []Message {
	if c == nil || c.Messages == nil {
		return nil
	}
	return c.Messages.Items
}

// MessagePage is the connection wrapper around messages
type MessagePage struct {
	Items []Message `json:"items"`
}

// ContentBlock is one block of message content
type ContentBlock struct {
	Text string `json:"text"`
}

// Message is one turn of a conversation
type Message struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversationId,omitempty"`
	Role           string         `json:"role"`
	CreatedAt      string         `json:"createdAt"`
	Content        []ContentBlock `json:"content"`
}

// Text returns the first content block's text
func (m Message) Text() string {
	if len(m.Content) == 0 || m.Content[0].Text == "" {
		return "No content"
	}
	return m.Content[0].Text
}

// IsAssistant reports whether the sous chef wrote the message
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// SortMessages orders messages by creation time, oldest first.
// createdAt is ISO-8601 so string order is time order.
func SortMessages(messages []Message) []Message {
	sorted := make([]Message, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt < sorted[j].CreatedAt
	})
	return sorted
}

// Timestamp renders createdAt as "2006-01-02 15:04:05"
func (m Message) Timestamp() string {
	ts := m.CreatedAt
	if len(ts) > 19 {
		ts = ts[:19]
	}
	return strings.Replace(ts, "T", " ", 1)
}

// Truncate shortens s to n runes, marking the cut with "..."
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// MutationField is one field of the schema's mutation type
type MutationField struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Args        []Argument `json:"args"`
}

// Argument is a mutation argument
type Argument struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// TypeRef is the shallow type reference returned by introspection
type TypeRef struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ArgNames lists the argument names in order
func (f MutationField) ArgNames() []string {
	names := make([]string, len(f.Args))
	for i, arg := range f.Args {
		names[i] = arg.Name
	}
	return names
}

// Signature renders name(arg1, arg2)
func (f MutationField) Signature() string {
	return f.Name + "(" + strings.Join(f.ArgNames(), ", ") + ")"
}

// String renders the type reference the way introspection reports it
func (t TypeRef) String() string {
	if t.Name == "" {
		return t.Kind
	}
	return t.Kind + " " + t.Name
}
