package llm

import "github.com/tmc/langchaingo/llms"

// OwnerToolCatalog is the set of tool definitions offered to the model
// during owner sessions. Customer sessions get no tools. The names and
// schemas mirror the tool server's registered handlers.
func OwnerToolCatalog() []llms.Tool {
	return []llms.Tool{
		tool("market_analyze_market",
			"Performs a comprehensive market analysis for a product query, including competitor research and strategic insights.",
			params{
				"query": prop("string", "The product or market to research."),
			}, "query"),
		tool("market_suggest_price",
			"Performs a full market analysis to suggest a competitive price for a product.",
			params{
				"product_description": prop("string", "A detailed description of the product."),
			}, "product_description"),
		tool("bizintel_generate_content_calendar",
			"Generates a strategic, multi-day social media content calendar.",
			params{
				"topic":         prop("string", "The central theme for the content plan."),
				"duration_days": prop("integer", "The number of days the calendar should cover."),
			}, "topic"),
		tool("bizintel_analyze_customer_feedback",
			"Analyzes customer comments to identify themes, sentiment, and insights.",
			params{
				"feedback_list": arrayProp("string", "A list of customer feedback strings."),
			}, "feedback_list"),
		tool("seo_generate_keyword_ideas",
			"Generates SEO keyword ideas for a product or topic.",
			params{
				"topic": prop("string", "The product or topic to generate search keywords for."),
				"count": prop("integer", "How many keyword ideas to produce."),
			}, "topic"),
		tool("design_create_poster",
			"Generates a promotional poster description from product details.",
			params{
				"product_name":   prop("string", "The name of the product featured on the poster."),
				"description":    prop("string", "A short marketing description of the product."),
				"call_to_action": prop("string", "The call to action text, e.g. 'Shop Now'."),
				"save_path":      prop("string", "The local file path where the poster will be saved."),
			}, "product_name", "description", "call_to_action", "save_path"),
		tool("system_get_current_directory",
			"Returns the current working directory.",
			params{}),
		tool("file_system_list_files",
			"Lists all files and subdirectories within a specified local directory.",
			params{
				"directory_path": prop("string", "The path to the directory to inspect."),
			}),
		tool("file_system_write_text_file",
			"Creates or overwrites a text file with provided content.",
			params{
				"file_path": prop("string", "The full local path for the file."),
				"content":   prop("string", "The text content to write."),
			}, "file_path", "content"),
		tool("whatsapp_send_text_message",
			"Sends a text message to a WhatsApp number.",
			params{
				"recipient_id": prop("string", "The recipient's WhatsApp phone number."),
				"message":      prop("string", "The text message to send."),
			}, "recipient_id", "message"),
	}
}

type params map[string]any

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func arrayProp(itemType, desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": desc,
		"items":       map[string]any{"type": itemType},
	}
}

func tool(name, desc string, props params, required ...string) llms.Tool {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any(props),
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        name,
			Description: desc,
			Parameters:  schema,
		},
	}
}
