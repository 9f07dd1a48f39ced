package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AnalyzeMarketInput defines the input schema for market_analyze_market.
type AnalyzeMarketInput struct {
	Query string `json:"query" jsonschema:"required,The product or market to research"`
}

const marketAnalystPrompt = `You are a market research analyst for small businesses.
Given a product or market query, produce a concise analysis covering:
1. Market overview and current demand.
2. Typical competitor positioning and price bands.
3. Three concrete strategic recommendations for a small seller.
Keep the analysis actionable and under 400 words.`

// NewAnalyzeMarketHandler runs a model-backed market analysis.
func NewAnalyzeMarketHandler(deps *Dependencies) mcp.ToolHandlerFor[AnalyzeMarketInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeMarketInput) (*mcp.CallToolResult, any, error) {
		if input.Query == "" {
			return ErrorResult("query is required", "Provide the product or market to research"), nil, nil
		}

		analysis, err := deps.Model.GenerateWithSystem(ctx, marketAnalystPrompt, "Market query: "+input.Query)
		if err != nil {
			return ErrorResult("Market analysis failed", err.Error()), nil, nil
		}

		deps.log().Info("market analysis completed", "query", input.Query)
		return JSONResult(map[string]string{
			"query":    input.Query,
			"analysis": analysis,
		}), nil, nil
	}
}

// SuggestPriceInput defines the input schema for market_suggest_price.
type SuggestPriceInput struct {
	ProductDescription string `json:"product_description" jsonschema:"required,A detailed description of the product"`
}

const pricingPrompt = `You are a pricing strategist for small businesses.
Given a product description, suggest a competitive retail price range
with a brief rationale based on comparable products. Answer with a
recommended price range and two sentences of justification.`

// NewSuggestPriceHandler suggests a competitive price for a product.
func NewSuggestPriceHandler(deps *Dependencies) mcp.ToolHandlerFor[SuggestPriceInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SuggestPriceInput) (*mcp.CallToolResult, any, error) {
		if input.ProductDescription == "" {
			return ErrorResult("product_description is required", ""), nil, nil
		}

		suggestion, err := deps.Model.GenerateWithSystem(ctx, pricingPrompt, "Product: "+input.ProductDescription)
		if err != nil {
			return ErrorResult("Price suggestion failed", err.Error()), nil, nil
		}
		return JSONResult(map[string]string{
			"product":    input.ProductDescription,
			"suggestion": suggestion,
		}), nil, nil
	}
}
