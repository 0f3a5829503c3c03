package model

import (
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
)

// TestCategorize will test function Categorize
func TestCategorize(t *testing.T) {
	tests := []struct {
		name               string
		repo               RepositoryRecord
		expectedCategories []Category
	}{
		{
			name: "AI repository matched by name, description and topics",
			repo: RepositoryRecord{
				Name:        "ai-chatbot-app",
				Description: github.String("An LLM helper"),
				Topics:      []string{"llm"},
			},
			expectedCategories: []Category{CategoryAIML, CategoryWebApps},
		},
		{
			name: "No keyword matches falls back to web-apps",
			repo: RepositoryRecord{
				Name:   "zzz",
				Topics: []string{},
			},
			expectedCategories: []Category{CategoryWebApps},
		},
		{
			name: "Repository can land in several categories",
			repo: RepositoryRecord{
				Name: "react-quiz-game",
			},
			expectedCategories: []Category{CategoryWebApps, CategoryGames},
		},
		{
			name: "Topics alone are enough",
			repo: RepositoryRecord{
				Name:   "zzz",
				Topics: []string{"template"},
			},
			expectedCategories: []Category{CategoryTemplates},
		},
		{
			name: "Description alone is enough",
			repo: RepositoryRecord{
				Name:        "zzz",
				Description: github.String("a workflow runner"),
			},
			expectedCategories: []Category{CategoryAutomation},
		},
		{
			name: "Matching is case insensitive",
			repo: RepositoryRecord{
				Name: "My-ChatGPT-Bot",
			},
			expectedCategories: []Category{CategoryAIML},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedCategories, Categorize(tt.repo))
		})
	}
}
