package model

import "strings"

// Category is a topical bucket used to filter the project gallery
type Category string

const (
	CategoryAll        Category = "all"
	CategoryAIML       Category = "ai-ml"
	CategoryWebApps    Category = "web-apps"
	CategoryAutomation Category = "automation"
	CategoryGames      Category = "games"
	CategoryTemplates  Category = "templates"
)

type categoryKeywords struct {
	ID       Category
	Keywords []string
}

// keyword lists are ordered, matching is a substring scan over the lowercased
// repository text. A repository can land in several categories.
var categories = []categoryKeywords{
	{ID: CategoryAIML, Keywords: []string{"ai", "ml", "gpt", "llm", "chatbot", "nlp", "huggingface", "langchain", "openai", "friday", "chatgpt"}},
	{ID: CategoryWebApps, Keywords: []string{"web", "app", "portal", "dashboard", "website", "next", "react", "builder"}},
	{ID: CategoryAutomation, Keywords: []string{"automation", "n8n", "make", "workflow", "cli", "vibe"}},
	{ID: CategoryGames, Keywords: []string{"game", "games", "meme", "draw", "fun", "quiz"}},
	{ID: CategoryTemplates, Keywords: []string{"template", "starter", "boilerplate", "garden", "fox"}},
}

// Categorize maps a repository to its categories by keyword matching over the
// name, description and topics. Repositories matching nothing fall back to
// web-apps so that every repository stays reachable through a filter.
func Categorize(repo RepositoryRecord) []Category {
	var text strings.Builder
	text.WriteString(repo.Name)
	text.WriteString(" ")

	if repo.Description != nil {
		text.WriteString(*repo.Description)
		text.WriteString(" ")
	}

	text.WriteString(strings.Join(repo.Topics, " "))
	searchText := strings.ToLower(text.String())

	matched := make([]Category, 0)

	for _, cat := range categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(searchText, kw) {
				matched = append(matched, cat.ID)
				break
			}
		}
	}

	if len(matched) == 0 {
		return []Category{CategoryWebApps}
	}

	return matched
}
