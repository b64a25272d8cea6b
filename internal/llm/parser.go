package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cleanMarkdownWrapper strips a ```json ... ``` fence the models tend to
// wrap structured output in.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// parseDraft extracts a draft transaction from the model's JSON output.
func parseDraft(content string) (DraftTransaction, error) {
	content = cleanMarkdownWrapper(content)

	var draft DraftTransaction
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return DraftTransaction{}, fmt.Errorf("failed to parse draft JSON: %w", err)
	}

	if draft.Amount <= 0 {
		return DraftTransaction{}, fmt.Errorf("no positive amount found in response")
	}
	switch draft.Type {
	case "income", "expense", "transfer", "debt_payment":
	case "":
		draft.Type = "expense"
	default:
		return DraftTransaction{}, fmt.Errorf("unknown transaction type %q in response", draft.Type)
	}
	return draft, nil
}
