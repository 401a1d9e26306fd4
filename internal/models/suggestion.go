package models

// SuggestionCount is the number of suggestions in every valid generation.
const SuggestionCount = 6

// Intent is the search intent label attached to a keyword.
type Intent string

// Search intent constants
const (
	IntentInformational Intent = "informational"
	IntentCommercial    Intent = "commercial"
	IntentTransactional Intent = "transactional"
	IntentNavigational  Intent = "navigational"
)

// Intents lists every accepted intent in prompt order.
var Intents = []Intent{
	IntentInformational,
	IntentCommercial,
	IntentTransactional,
	IntentNavigational,
}

// Valid reports whether i is one of the four known intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentInformational, IntentCommercial, IntentTransactional, IntentNavigational:
		return true
	}
	return false
}

// Suggestion is one SEO keyword recommendation.
type Suggestion struct {
	Keyword    string  `json:"keyword" bson:"keyword"`
	Intent     Intent  `json:"intent" bson:"intent"`
	TitleIdea  string  `json:"titleIdea" bson:"titleIdea"`
	Difficulty float64 `json:"difficulty" bson:"difficulty"`
	Volume     float64 `json:"volume" bson:"volume"`
}
