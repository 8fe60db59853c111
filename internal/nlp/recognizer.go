package nlp

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/scholargraph/scholargraph-backend/internal/types"
)

// Recognizer produces raw entity and relation candidates for one document's
// text. Implementations are external collaborators; the service only relies
// on this contract. Zero candidates is a valid result, not an error.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]types.EntityCandidate, []types.RelationCandidate, error)
}

// CooccurrenceRecognizer is the built-in heuristic: capitalized phrases are
// entity mentions, and entities appearing in the same sentence are related.
// It stands in for a statistical NER model behind the same interface.
type CooccurrenceRecognizer struct{}

func NewCooccurrenceRecognizer() *CooccurrenceRecognizer {
	return &CooccurrenceRecognizer{}
}

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+\s+|\n+`)
	entityPhraseRe  = regexp.MustCompile(`\p{Lu}[\p{L}\p{N}]*(?:[ ]\p{Lu}[\p{L}\p{N}]*)*`)
)

var sentenceStopwords = map[string]struct{}{
	"the": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"a": {}, "an": {}, "it": {}, "in": {}, "on": {}, "at": {},
	"we": {}, "i": {}, "our": {}, "its": {}, "however": {},
	"thus": {}, "therefore": {}, "here": {}, "there": {}, "as": {},
	"for": {}, "with": {}, "and": {}, "but": {}, "or": {},
}

const maxSentenceProp = 500

func (r *CooccurrenceRecognizer) Recognize(ctx context.Context, text string) ([]types.EntityCandidate, []types.RelationCandidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, nil
	}

	var entities []types.EntityCandidate
	var relations []types.RelationCandidate

	offset := 0
	for _, sentence := range splitSentences(text) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		start := strings.Index(text[offset:], sentence)
		if start < 0 {
			start = 0
		}
		sentStart := offset + start
		offset = sentStart + len(sentence)

		sentEntities := extractMentions(sentence, sentStart)
		entities = append(entities, sentEntities...)

		trimmed := strings.TrimSpace(sentence)
		if len(trimmed) > maxSentenceProp {
			trimmed = trimmed[:maxSentenceProp]
		}
		for i := 0; i < len(sentEntities); i++ {
			for j := i + 1; j < len(sentEntities); j++ {
				relations = append(relations, types.RelationCandidate{
					SourceID: sentEntities[i].ID,
					TargetID: sentEntities[j].ID,
					Label:    "cooccurs_in_sentence",
					Properties: map[string]any{
						"sentence": trimmed,
					},
				})
			}
		}
	}

	return entities, relations, nil
}

func splitSentences(text string) []string {
	parts := sentenceSplitRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func extractMentions(sentence string, base int) []types.EntityCandidate {
	locs := entityPhraseRe.FindAllStringIndex(sentence, -1)
	out := make([]types.EntityCandidate, 0, len(locs))
	for _, loc := range locs {
		name := sentence[loc[0]:loc[1]]
		if !keepMention(name, loc[0]) {
			continue
		}
		start := base + loc[0]
		end := base + loc[1]
		out = append(out, types.EntityCandidate{
			ID:   fmt.Sprintf("ent-%d-%d", start, end),
			Name: name,
			Type: classifyMention(name),
			Properties: map[string]any{
				"start": start,
				"end":   end,
			},
		})
	}
	return out
}

// keepMention drops short fragments and lone sentence-initial function words
// that only look like names because of sentence casing.
func keepMention(name string, sentenceOffset int) bool {
	if len(name) < 3 {
		return false
	}
	if strings.Contains(name, " ") {
		return true
	}
	if sentenceOffset > 0 {
		return true
	}
	_, stop := sentenceStopwords[strings.ToLower(name)]
	return !stop
}

var orgSuffixes = []string{"university", "institute", "laboratory", "lab", "corporation", "corp", "inc", "foundation", "group", "agency"}

func classifyMention(name string) string {
	lower := strings.ToLower(name)
	for _, suffix := range orgSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return "organization"
		}
	}
	return ""
}
