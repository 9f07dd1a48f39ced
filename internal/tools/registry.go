package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Ping tool - test/placeholder
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Test tool - responds with pong or echoes input",
	}, NewPingHandler(deps))

	// Market research
	mcp.AddTool(server, &mcp.Tool{
		Name:        "market_analyze_market",
		Description: "Performs a comprehensive market analysis for a product query, including competitor research and strategic insights",
	}, NewAnalyzeMarketHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "market_suggest_price",
		Description: "Performs a full market analysis to suggest a competitive price for a product",
	}, NewSuggestPriceHandler(deps))

	// Business intelligence
	mcp.AddTool(server, &mcp.Tool{
		Name:        "bizintel_generate_content_calendar",
		Description: "Generates a strategic, multi-day social media content calendar",
	}, NewContentCalendarHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bizintel_analyze_customer_feedback",
		Description: "Analyzes customer comments to identify themes, sentiment, and insights",
	}, NewFeedbackAnalysisHandler(deps))

	// SEO
	mcp.AddTool(server, &mcp.Tool{
		Name:        "seo_generate_keyword_ideas",
		Description: "Generates SEO keyword ideas for a product or topic",
	}, NewKeywordIdeasHandler(deps))

	// Design
	mcp.AddTool(server, &mcp.Tool{
		Name:        "design_create_poster",
		Description: "Generates a promotional poster design brief and saves it locally",
	}, NewCreatePosterHandler(deps))

	// File system
	mcp.AddTool(server, &mcp.Tool{
		Name:        "system_get_current_directory",
		Description: "Returns the current working directory",
	}, NewCurrentDirectoryHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "file_system_list_files",
		Description: "Lists all files and subdirectories within a specified local directory",
	}, NewListFilesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "file_system_write_text_file",
		Description: "Creates or overwrites a text file with provided content",
	}, NewWriteTextFileHandler(deps))

	// Messaging
	mcp.AddTool(server, &mcp.Tool{
		Name:        "whatsapp_send_text_message",
		Description: "Sends a text message to a WhatsApp number",
	}, NewSendTextMessageHandler(deps))
}
