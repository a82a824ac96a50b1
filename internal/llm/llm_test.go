package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fundfaq/internal/domain"
)

func TestBuildPrompt(t *testing.T) {
	passages := []domain.ScoredRecord{
		{Record: domain.Record{
			Text:      "JM Value Fund Direct Plan Growth - Expense Ratio: 0.98%.",
			SourceURL: "https://groww.in/mutual-funds/jm-basic-fund-direct-growth",
		}, Score: 0.8},
		{Record: domain.Record{
			Text:      "Online: Open an account. Complete KYC.",
			SourceURL: "https://groww.in/p/how-to-invest-in-mutual-funds",
		}, Score: 0.4},
	}

	prompt := BuildPrompt("What is the expense ratio of JM Value Fund?", passages)

	assert.Contains(t, prompt, "Snippet 1 (source: https://groww.in/mutual-funds/jm-basic-fund-direct-growth):")
	assert.Contains(t, prompt, "JM Value Fund Direct Plan Growth - Expense Ratio: 0.98%.")
	assert.Contains(t, prompt, "Snippet 2 (source: https://groww.in/p/how-to-invest-in-mutual-funds):")
	assert.Contains(t, prompt, "User question: What is the expense ratio of JM Value Fund?")
}

func TestBuildPrompt_SkipsPassagesWithoutSourceURL(t *testing.T) {
	passages := []domain.ScoredRecord{
		{Record: domain.Record{Text: "orphaned fact"}, Score: 0.9},
	}
	prompt := BuildPrompt("question", passages)

	assert.NotContains(t, prompt, "orphaned fact")
	assert.Contains(t, prompt, "No snippets available.")
}

func TestBuildPrompt_NoPassages(t *testing.T) {
	prompt := BuildPrompt("question", nil)
	assert.Contains(t, prompt, "No snippets available.")
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	t.Setenv("FUNDFAQ_TEST_LLM_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "FUNDFAQ_TEST_LLM_KEY"})
	assert.Error(t, err)
}
