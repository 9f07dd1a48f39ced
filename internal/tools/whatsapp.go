package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SendTextMessageInput defines the input schema for
// whatsapp_send_text_message.
type SendTextMessageInput struct {
	RecipientID string `json:"recipient_id" jsonschema:"required,The recipient's WhatsApp phone number"`
	Message     string `json:"message" jsonschema:"required,The text message to send"`
}

// NewSendTextMessageHandler sends a text message through the WhatsApp
// Cloud API. Requires WHATSAPP_ACCESS_TOKEN and WHATSAPP_PHONE_NUMBER_ID
// in the environment.
func NewSendTextMessageHandler(deps *Dependencies) mcp.ToolHandlerFor[SendTextMessageInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SendTextMessageInput) (*mcp.CallToolResult, any, error) {
		if input.RecipientID == "" || input.Message == "" {
			return ErrorResult("recipient_id and message are required", ""), nil, nil
		}

		token := os.Getenv("WHATSAPP_ACCESS_TOKEN")
		phoneID := os.Getenv("WHATSAPP_PHONE_NUMBER_ID")
		if token == "" || phoneID == "" {
			return ErrorResult("WhatsApp credentials not configured",
				"Set WHATSAPP_ACCESS_TOKEN and WHATSAPP_PHONE_NUMBER_ID"), nil, nil
		}

		payload, err := json.Marshal(map[string]any{
			"messaging_product": "whatsapp",
			"to":                input.RecipientID,
			"type":              "text",
			"text":              map[string]string{"body": input.Message},
		})
		if err != nil {
			return ErrorResult("Failed to build request", err.Error()), nil, nil
		}

		url := fmt.Sprintf("https://graph.facebook.com/v19.0/%s/messages", phoneID)
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return ErrorResult("Failed to build request", err.Error()), nil, nil
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(httpReq)
		if err != nil {
			return ErrorResult("WhatsApp API unreachable", err.Error()), nil, nil
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return ErrorResult("WhatsApp API error", resp.Status), nil, nil
		}

		deps.log().Info("whatsapp message sent", "recipient", input.RecipientID)
		return TextResult("Message sent to " + input.RecipientID), nil, nil
	}
}
