package keywords

import (
	"seokeys/internal/extract"
	"seokeys/internal/models"
)

// Prompt is the instruction sent with every extraction.
const Prompt = `Analyze this website and identify 6 high-value SEO blog topics.

For each topic, provide:
- keyword: Primary target keyword (2-4 words, high search potential)
- intent: Search intent (informational/commercial/transactional/navigational)
- titleIdea: SEO-optimized blog title (compelling + keyword-rich)
- difficulty: SEO difficulty score 1-100 (realistic assessment)
- volume: Estimated monthly search volume

Focus on:
- High-traffic, achievable keywords
- Topics that drive qualified leads
- Content gaps competitors miss
- Long-tail opportunities with commercial value
- Trending industry topics

Return exactly 6 diverse, high-impact suggestions.`

// ResponseSchema describes the {suggestions: [...]} object the extraction
// must return.
func ResponseSchema() *extract.Schema {
	intents := make([]string, len(models.Intents))
	for i, in := range models.Intents {
		intents[i] = string(in)
	}

	suggestion := &extract.Schema{
		Type: extract.TypeObject,
		Properties: map[string]*extract.Schema{
			"keyword": {
				Type:      extract.TypeString,
				MinLength: extract.Ptr(1),
			},
			"intent": {
				Type: extract.TypeString,
				Enum: intents,
			},
			"titleIdea": {
				Type: extract.TypeString,
			},
			"difficulty": {
				Type:    extract.TypeNumber,
				Minimum: extract.Ptr(1.0),
				Maximum: extract.Ptr(100.0),
			},
			"volume": {
				Type:    extract.TypeNumber,
				Minimum: extract.Ptr(0.0),
			},
		},
		Required:             []string{"keyword", "intent", "titleIdea", "difficulty", "volume"},
		AdditionalProperties: extract.Ptr(false),
	}

	return &extract.Schema{
		Type: extract.TypeObject,
		Properties: map[string]*extract.Schema{
			"suggestions": {
				Type:     extract.TypeArray,
				Items:    suggestion,
				MinItems: extract.Ptr(models.SuggestionCount),
				MaxItems: extract.Ptr(models.SuggestionCount),
			},
		},
		Required:             []string{"suggestions"},
		AdditionalProperties: extract.Ptr(false),
	}
}
