package model

import "sort"

// LanguageStat is one entry of the ranked language histogram
type LanguageStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// DerivedStats are display statistics recomputed from every new
// AggregateResponse, never cached separately
type DerivedStats struct {
	TotalStars   int            `json:"totalStars"`
	TotalForks   int            `json:"totalForks"`
	TotalRepos   int            `json:"totalRepos"`
	Followers    int            `json:"followers"`
	Following    int            `json:"following"`
	TopLanguages []LanguageStat `json:"topLanguages"`
}

const topLanguagesLimit = 6

const defaultLanguageColor = "#6e7681"

var languageColors = map[string]string{
	"TypeScript": "#3178c6",
	"JavaScript": "#f7df1e",
	"Python":     "#3776ab",
	"HTML":       "#e34c26",
	"CSS":        "#1572b6",
	"Java":       "#ed8b00",
	"C++":        "#00599c",
	"C":          "#555555",
	"Go":         "#00add8",
	"Rust":       "#dea584",
	"Ruby":       "#cc342d",
	"PHP":        "#777bb4",
	"Swift":      "#fa7343",
	"Kotlin":     "#7f52ff",
	"Dart":       "#0175c2",
	"Shell":      "#89e051",
	"Vue":        "#4fc08d",
	"Svelte":     "#ff3e00",
}

// ComputeStats derives display statistics from an aggregate response.
// Star and fork totals are summed over the full repository set, before any
// fork/archived filtering is applied. The repository count comes from the
// profile, not from the array length. The language ranking is a stable sort
// by descending repository count, ties keeping first-encountered order.
func ComputeStats(user UserProfile, repos []RepositoryRecord) DerivedStats {
	stats := DerivedStats{
		TotalRepos: user.PublicRepos,
		Followers:  user.Followers,
		Following:  user.Following,
	}

	languageCounts := make(map[string]int)
	languageOrder := make([]string, 0)

	for _, repo := range repos {
		stats.TotalStars += repo.StargazersCount
		stats.TotalForks += repo.ForksCount

		if repo.Language != nil {
			if _, seen := languageCounts[*repo.Language]; !seen {
				languageOrder = append(languageOrder, *repo.Language)
			}
			languageCounts[*repo.Language]++
		}
	}

	sort.SliceStable(languageOrder, func(i, j int) bool {
		return languageCounts[languageOrder[i]] > languageCounts[languageOrder[j]]
	})

	if len(languageOrder) > topLanguagesLimit {
		languageOrder = languageOrder[:topLanguagesLimit]
	}

	stats.TopLanguages = make([]LanguageStat, 0, len(languageOrder))

	for _, name := range languageOrder {
		color, found := languageColors[name]
		if !found {
			color = defaultLanguageColor
		}

		stats.TopLanguages = append(stats.TopLanguages, LanguageStat{
			Name:  name,
			Count: languageCounts[name],
			Color: color,
		})
	}

	return stats
}
