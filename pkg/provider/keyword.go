package provider

import (
	"context"
	"strings"
	"unicode"

	"github.com/verdantlabs/agora/pkg/a2a"
)

/*
KeywordClassifier scores agents by word overlap between the user's message
and each card's name, description, skills and tags.  It needs no credentials,
which makes it the default route picker and the one the tests exercise.
*/
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (clf *KeywordClassifier) Classify(
	ctx context.Context, text string, agents []a2a.AgentCard,
) (string, error) {
	words := tokenize(text)

	if len(words) == 0 {
		return "", nil
	}

	var (
		best      string
		bestScore int
	)

	for _, card := range agents {
		score := scoreCard(card, words)

		if score > bestScore {
			best = card.Name
			bestScore = score
		}
	}

	return best, nil
}

func scoreCard(card a2a.AgentCard, words map[string]struct{}) int {
	score := overlap(card.Name, words)*3 + overlap(card.Description, words)

	for _, skill := range card.Skills {
		score += overlap(skill.Name, words)*2 + overlap(skill.Description, words)

		for _, tag := range skill.Tags {
			score += overlap(tag, words) * 2
		}

		for _, example := range skill.Examples {
			score += overlap(example, words)
		}
	}

	return score
}

func overlap(text string, words map[string]struct{}) int {
	count := 0

	for word := range tokenize(text) {
		if _, ok := words[word]; ok {
			count++
		}
	}

	return count
}

// stopWords are too common to carry routing signal.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "to": {}, "of": {},
	"and": {}, "or": {}, "for": {}, "in": {}, "on": {}, "me": {}, "my": {},
	"please": {}, "can": {}, "you": {}, "what": {}, "i": {}, "it": {},
}

func tokenize(text string) map[string]struct{} {
	words := make(map[string]struct{})

	split := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	for _, word := range split {
		if _, skip := stopWords[word]; skip {
			continue
		}

		if len(word) < 2 {
			continue
		}

		words[word] = struct{}{}
	}

	return words
}
