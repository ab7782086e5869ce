// Package kitchen wraps the Arcane Kitchen recipe and sous chef operations.
package kitchen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/raulc0399/arcane-kitchen/internal/appsync"
	"github.com/raulc0399/arcane-kitchen/internal/config"
)

// ErrNotFound is returned when a get resolves to null
var ErrNotFound = errors.New("kitchen: record not found")

// Timeouts bounds the two kinds of calls
type Timeouts struct {
	Read    time.Duration
	Message time.Duration
}

// Kitchen issues the recipe and conversation operations
type Kitchen struct {
	caller   appsync.Caller
	timeouts Timeouts
}

// New creates a Kitchen on top of caller
func New(caller appsync.Caller, timeouts Timeouts) *Kitchen {
	if timeouts.Read <= 0 {
		timeouts.Read = config.ReadTimeout
	}
	if timeouts.Message <= 0 {
		timeouts.Message = config.MessageTimeout
	}
	return &Kitchen{caller: caller, timeouts: timeouts}
}

// Exchange sends a raw document with the read timeout and returns the response as is
func (k *Kitchen) Exchange(ctx context.Context, query string, variables map[string]any) (*appsync.Result, error) {
	return k.caller.Do(ctx, appsync.Request{Query: query, Variables: variables}, appsync.WithTimeout(k.timeouts.Read))
}

// CreateRecipe creates one recipe. Repeating the call creates another record.
func (k *Kitchen) CreateRecipe(ctx context.Context, input RecipeInput) (*Recipe, error) {
	result, err := k.Exchange(ctx, CreateRecipeMutation, map[string]any{"input": input})
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe %q: %w", input.Title, err)
	}

	var recipe *Recipe
	if err := result.Decode("createRecipe", &recipe); err != nil {
		return nil, fmt.Errorf("failed to decode created recipe: %w", err)
	}
	if recipe == nil || recipe.ID == "" {
		return nil, fmt.Errorf("createRecipe returned no record for %q", input.Title)
	}
	return recipe, nil
}

// ListRecipes lists every recipe visible to the caller
func (k *Kitchen) ListRecipes(ctx context.Context) ([]Recipe, error) {
	result, err := k.Exchange(ctx, ListRecipesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	var page struct {
		Items []Recipe `json:"items"`
	}
	if err := result.Decode("listRecipes", &page); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	return page.Items, nil
}

// GetRecipe fetches one recipe; a null result is ErrNotFound
func (k *Kitchen) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	result, err := k.Exchange(ctx, GetRecipeQuery, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %s: %w", id, err)
	}
	if result.IsNull("getRecipe") {
		return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}

	var recipe Recipe
	if err := result.Decode("getRecipe", &recipe); err != nil {
		return nil, fmt.Errorf("failed to decode recipe: %w", err)
	}
	return &recipe, nil
}

// CreateConversation opens a new sous chef conversation
func (k *Kitchen) CreateConversation(ctx context.Context) (*Conversation, error) {
	result, err := k.Exchange(ctx, CreateConversationMutation, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	var conversation *Conversation
	if err := result.Decode("createConversationSousChef", &conversation); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}
	if conversation == nil || conversation.ID == "" {
		return nil, fmt.Errorf("createConversationSousChef returned no id: %s", string(result.Raw))
	}
	return conversation, nil
}

// GetConversation fetches a conversation with its messages; null is ErrNotFound
func (k *Kitchen) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	result, err := k.Exchange(ctx, GetConversationQuery, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation %s: %w", id, err)
	}
	if result.IsNull("getConversationSousChef") {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}

	var conversation Conversation
	if err := result.Decode("getConversationSousChef", &conversation); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}
	return &conversation, nil
}

// ListConversations lists the caller's conversations
func (k *Kitchen) ListConversations(ctx context.Context) ([]Conversation, error) {
	result, err := k.Exchange(ctx, ListConversationsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	var page struct {
		Items []Conversation `json:"items"`
	}
	if err := result.Decode("listConversationSousChefs", &page); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}
	return page.Items, nil
}

// SendMessage posts text to a conversation and returns the sous chef's reply.
// It uses the longer message timeout since the resolver waits on the model.
func (k *Kitchen) SendMessage(ctx context.Context, conversationID, text string) (*Message, error) {
	message, _, err := k.SendMessageResult(ctx, conversationID, text)
	return message, err
}

// SendMessageResult is SendMessage that also hands back the raw response, which is
// non-nil whenever the API answered, even on failure.
func (k *Kitchen) SendMessageResult(ctx context.Context, conversationID, text string) (*Message, *appsync.Result, error) {
	variables := map[string]any{
		"conversationId": conversationID,
		"content":        []ContentBlock{{Text: text}},
	}
	result, err := k.caller.Do(ctx,
		appsync.Request{Query: SendMessageMutation, Variables: variables},
		appsync.WithTimeout(k.timeouts.Message),
	)
	if err != nil {
		return nil, result, fmt.Errorf("failed to send message: %w", err)
	}

	var message *Message
	if err := result.Decode("sousChef", &message); err != nil {
		return nil, result, fmt.Errorf("failed to decode reply: %w", err)
	}
	if message == nil {
		return nil, result, fmt.Errorf("sousChef returned no message: %s", string(result.Raw))
	}
	return message, result, nil
}

// MutationFields introspects the schema's mutation type
func (k *Kitchen) MutationFields(ctx context.Context) ([]MutationField, error) {
	result, err := k.Exchange(ctx, MutationIntrospectionQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect schema: %w", err)
	}

	var schema struct {
		MutationType *struct {
			Fields []MutationField `json:"fields"`
		} `json:"mutationType"`
	}
	if err := result.Decode("__schema", &schema); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	if schema.MutationType == nil {
		return nil, nil
	}
	return schema.MutationType.Fields, nil
}

// ConversationMutations keeps the mutations that belong to the sous chef conversation
func ConversationMutations(fields []MutationField) []MutationField {
	var matched []MutationField
	for _, field := range fields {
		if strings.Contains(field.Name, "sousChef") || strings.Contains(field.Name, "Conversation") {
			matched = append(matched, field)
		}
	}
	return matched
}
