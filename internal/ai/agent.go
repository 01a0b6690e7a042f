package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"go-drug-pricing/internal/database"
	"go-drug-pricing/internal/models"
	"go-drug-pricing/internal/pricing"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers catalog and pricing questions with Gemini tool calling.
// The tools are read-only plus a what-if preview; saving prices stays a
// human action behind the normal save flow.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	systemPrompt := fmt.Sprintf(`SYSTEM: You are the pricing assistant for a pharmacy catalog.

	RULES:
	1. LOOKUP: If a user asks about an item (cost, saved prices, class), call
	   'search_catalog' with part of the code or name, then read the JSON and
	   answer. Do NOT say you cannot see the catalog. You CAN search it.

	2. WHAT-IF: If a user asks "what would the ladder look like at OPD price X"
	   or "at Y%% margin", call 'preview_price' with mode 'opd' or 'gm' and the
	   target. Report the OPD/IPD/SKG/foreigner prices and whether the SKG
	   channel loses money after the discount.

	3. MARGINS: For questions about average margins per subclass, use
	   'get_subclass_summary'.

	4. Never claim a price was saved. You have no tool for that.

	USER: %s`, userMessage)

	// --- DEFINE TOOLS ---
	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "search_catalog",
					Description: "Search catalog items by code, name, class or subclass substring. Returns code, names, cost, saved OPD/IPD prices and subclass.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"query": {Type: genai.TypeString, Description: "Free-text needle, e.g. part of an item code or generic name"},
						},
						Required: []string{"query"},
					},
				},
				{
					Name:        "preview_price",
					Description: "Compute the full price ladder for one item from a target OPD price (mode 'opd') or target gross margin percent (mode 'gm'). Nothing is saved.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"item_code": {Type: genai.TypeString, Description: "Exact item code"},
							"mode":      {Type: genai.TypeString, Description: "'opd' or 'gm'"},
							"target":    {Type: genai.TypeNumber, Description: "Target OPD price or target GM percent"},
						},
						Required: []string{"item_code", "mode", "target"},
					},
				},
				{
					Name:        "get_subclass_summary",
					Description: "Average saved gross margin per catalog subclass.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	// --- HANDLE TOOL CALLS ---
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {

			if funcCall.Name == "search_catalog" {
				return executeSearchCatalog(ctx, session, funcCall), nil
			}

			if funcCall.Name == "preview_price" {
				return executePreviewPrice(ctx, session, funcCall), nil
			}

			if funcCall.Name == "get_subclass_summary" {
				return executeSubclassSummary(ctx, session), nil
			}
		}
	}

	return printResponse(resp), nil
}

// --- HELPER FUNCTIONS ---

func executeSearchCatalog(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	query, _ := funcCall.Args["query"].(string)

	items, err := database.SearchItems(database.DB, query)
	if err != nil {
		return "Error searching the catalog."
	}

	// Trim to what the model needs; the full Item is noisy
	type slimItem struct {
		Code     string   `json:"code"`
		Generic  string   `json:"generic_name"`
		Full     string   `json:"full_name"`
		SubClass string   `json:"sub_class"`
		Cost     float64  `json:"cost"`
		OPDPrice *float64 `json:"opd_price,omitempty"`
		IPDPrice *float64 `json:"ipd_price,omitempty"`
	}
	var slim []slimItem
	for i, it := range items {
		if i >= 25 { // keep the tool response small
			break
		}
		slim = append(slim, slimItem{
			Code:     it.ItemCode,
			Generic:  it.GenericName,
			Full:     it.FullName,
			SubClass: it.SubClass,
			Cost:     it.Cost,
			OPDPrice: it.OPDPrice,
			IPDPrice: it.IPDPrice,
		})
	}

	jsonBytes, _ := json.Marshal(slim)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "search_catalog",
		Response: map[string]interface{}{"items": string(jsonBytes), "total_matches": len(items)},
	})
	if err != nil {
		return "Error searching the catalog."
	}
	return printResponse(finalResp)
}

func executePreviewPrice(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	code, _ := funcCall.Args["item_code"].(string)
	mode, _ := funcCall.Args["mode"].(string)
	target, _ := funcCall.Args["target"].(float64)

	var item models.Item
	if err := database.DB.Where("item_code = ?", code).First(&item).Error; err != nil {
		return fmt.Sprintf("Item %s not found.", code)
	}

	cfg, err := database.GetPricingConfig(database.DB)
	if err != nil {
		return "Error reading pricing config."
	}

	var result pricing.Result
	if mode == "gm" {
		result = pricing.ComputeFromGM(item, target, cfg.SKGDiscountPct)
	} else {
		result = pricing.ComputeFromOPD(item, target, cfg.SKGDiscountPct)
	}

	jsonBytes, _ := json.Marshal(result)

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "preview_price",
		Response: map[string]interface{}{"item_code": code, "ladder": string(jsonBytes)},
	})
	return printResponse(finalResp)
}

func executeSubclassSummary(ctx context.Context, session *genai.ChatSession) string {
	rows, err := database.GetSubclassSummary(database.DB)
	if err != nil {
		return "Error building the subclass summary."
	}

	jsonBytes, _ := json.Marshal(rows)

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "get_subclass_summary",
		Response: map[string]interface{}{"rows": string(jsonBytes)},
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
