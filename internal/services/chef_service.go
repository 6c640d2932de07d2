package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/example/samsa/internal/models"
)

// ApologyReply is shown in the chat transcript whenever the upstream model
// cannot be reached. Transport errors never surface to the customer.
const ApologyReply = "Sorry, the chef stepped away from the counter for a moment. Please ask me again in a minute!"

const chefSystemPrompt = "You are the head chef of an Uzbek food delivery kitchen. " +
	"Recommend dishes from the menu below, answer questions about ingredients, and keep replies short and warm. " +
	"When you recommend a specific dish, append the marker [[recommend:<id>]] with its menu id."

// recommendMarker is the machine-readable tag the model embeds in a reply.
var recommendMarker = regexp.MustCompile(`\[\[recommend:([A-Za-z0-9_-]+)\]\]`)

// ChatTurn is one prior exchange entry, oldest first.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChefReply is a chat answer with an optional extracted recommendation.
type ChefReply struct {
	Reply             string `json:"reply"`
	RecommendedItemID string `json:"recommendedItemId,omitempty"`
}

// ChefService proxies chat messages to a chat-completions API.
type ChefService struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

// NewChefService constructs a ChefService.
func NewChefService(apiURL, apiKey, model string) *ChefService {
	return &ChefService{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ask sends the current message plus prior exchange and the menu snapshot
// upstream and returns the chef's reply. Any failure substitutes the fixed
// apology instead of an error.
func (s *ChefService) Ask(message string, history []ChatTurn, menu []models.MenuItem) ChefReply {
	reply, err := s.complete(message, history, menu)
	if err != nil {
		log.Printf("[Chef] completion failed: %v", err)
		return ChefReply{Reply: ApologyReply}
	}
	return parseReply(reply)
}

func (s *ChefService) complete(message string, history []ChatTurn, menu []models.MenuItem) (string, error) {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: chefSystemPrompt + "\n\n" + menuPrompt(menu)})

	for _, turn := range history {
		role := "user"
		if turn.Role == "assistant" || turn.Role == "chef" {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: message})

	body, err := json.Marshal(chatRequest{Model: s.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute chat request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat request failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal chat response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat response missing content")
	}

	return parsed.Choices[0].Message.Content, nil
}

func menuPrompt(menu []models.MenuItem) string {
	var b strings.Builder
	b.WriteString("Menu:\n")
	for _, item := range menu {
		fmt.Fprintf(&b, "- %s (id: %s, %d): %s\n", item.Title, item.ID, item.Price, item.Description)
	}
	return b.String()
}

// parseReply extracts the recommendation marker, if any, and strips it from
// the visible text.
func parseReply(raw string) ChefReply {
	reply := ChefReply{Reply: raw}

	if m := recommendMarker.FindStringSubmatch(raw); m != nil {
		reply.RecommendedItemID = m[1]
		reply.Reply = strings.TrimSpace(recommendMarker.ReplaceAllString(raw, ""))
	}

	return reply
}
