// Package news holds the fetched-article record and its category tagging.
package news

import "strings"

// Article is one feed item in arrival order.
type Article struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Source    string `json:"source"`
}

type Category string

const (
	CategoryEconomy  Category = "economy"
	CategoryAI       Category = "ai"
	CategoryTravel   Category = "travel"
	CategoryRegional Category = "regional"
	CategoryWorld    Category = "world"
	CategoryGeneral  Category = "general"
)

// categoryOrder is the fixed digest priority: economy > ai > travel >
// regional > world > general.
var categoryOrder = []Category{
	CategoryEconomy,
	CategoryAI,
	CategoryTravel,
	CategoryRegional,
	CategoryWorld,
	CategoryGeneral,
}

// CategoryQuota caps how many articles of one category reach the digest
// prompt.
const CategoryQuota = 4

var lexica = map[Category][]string{
	CategoryEconomy: {
		"economía", "economy", "inflación", "inflation", "mercado", "market",
		"peso", "dólar", "dollar", "banco", "bank", "fed", "banxico",
		"bolsa", "stocks", "pib", "gdp", "tasa", "interest rate",
	},
	CategoryAI: {
		"inteligencia artificial", "artificial intelligence", " ai ", " ia ",
		"openai", "gemini", "chatgpt", "machine learning", "startup",
		"tecnología", "technology", "tech",
	},
	CategoryTravel: {
		"viaje", "travel", "turismo", "tourism", "aerolínea", "airline",
		"hotel", "vuelo", "flight", "aeropuerto", "airport",
	},
	CategoryRegional: {
		"méxico", "mexico", "cdmx", "monterrey", "guadalajara", "sheinbaum",
	},
	CategoryWorld: {
		"mundial", "world", "internacional", "international", "guerra", "war",
		"europa", "europe", "china", "ukraine", "ucrania",
	},
}

// Categorize tags an article by keyword matching against the fixed lexica,
// checking categories in digest priority order. No match lands in general.
func Categorize(a Article) Category {
	text := strings.ToLower(a.Title + " " + a.Summary)
	for _, cat := range categoryOrder {
		for _, kw := range lexica[cat] {
			if strings.Contains(text, kw) {
				return cat
			}
		}
	}
	return CategoryGeneral
}

// Arrange groups articles by category, caps each category at CategoryQuota
// and concatenates them in the fixed priority order. Within a category the
// feed-arrival order is preserved; there is no ranking.
func Arrange(articles []Article) []Article {
	buckets := make(map[Category][]Article)
	for _, a := range articles {
		cat := Categorize(a)
		if len(buckets[cat]) >= CategoryQuota {
			continue
		}
		buckets[cat] = append(buckets[cat], a)
	}

	var out []Article
	for _, cat := range categoryOrder {
		out = append(out, buckets[cat]...)
	}
	return out
}
