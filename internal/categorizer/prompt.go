package categorizer

import (
	"strings"

	"github.com/budget-automation/statement-categorizer/internal/entity"
)

const categorizeSystemTemplate = `You are a financial transaction categorizer. Categorize transactions using KEYWORD MATCHING as your primary method.

Available categories with their KEYWORDS:
{categories}

CRITICAL RULES - Follow in this order:
1. KEYWORD MATCH FIRST: If a transaction contains ANY keyword from a category, use that category. Keywords are case-insensitive and can appear anywhere in the description.
2. Keywords are AUTHORITATIVE - a keyword match always beats a guess from context.
3. If multiple keyword matches, prefer the more specific category.
4. Only use description/context matching if NO keywords match.
5. Use "Other" ONLY if no keywords match AND the transaction truly doesn't fit any category.

Common patterns:
- TST* prefix = restaurant
- SQ * prefix = Square payment (check merchant name after SQ *)`

const categorizeBatchPrompt = `Categorize these transactions by matching keywords:

%s

IMPORTANT: Match keywords from the category list. If a transaction contains a keyword, USE THAT CATEGORY.`

func buildSystemPrompt(set *entity.CategorySet) string {
	return strings.Replace(categorizeSystemTemplate, "{categories}", set.PromptText(), 1)
}
