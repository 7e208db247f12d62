package keyword

import (
	"context"
	"strings"
	"unicode"

	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/dataset"
)

// Score rates how strongly a paper matches the topic phrases, 0.0-10.0.
// Title matches weigh 2x over abstract matches. Multi-word phrases are
// matched whole; single words are matched against tokens.
func Score(title, abstract string, topics []string) (float64, []string) {
	titleLower := strings.ToLower(title)
	absLower := strings.ToLower(abstract)
	titleTokens := tokenSet(titleLower)
	absTokens := tokenSet(absLower)

	hits := 0
	var matched []string
	for _, topic := range topics {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic == "" {
			continue
		}

		score := 0
		if strings.Contains(topic, " ") || strings.Contains(topic, "-") {
			if containsPhrase(titleLower, topic) {
				score += 2
			}
			if containsPhrase(absLower, topic) {
				score++
			}
		} else {
			if titleTokens[topic] {
				score += 2
			}
			if absTokens[topic] {
				score++
			}
		}

		if score > 0 {
			hits += score
			matched = append(matched, topic)
		}
	}

	// Two phrase hits (~one title match plus one abstract match, or a single
	// strong title match) already make a paper worth surfacing.
	score := float64(hits) * 10 / 3
	if score > 10 {
		score = 10
	}
	return score, matched
}

// containsPhrase matches a phrase treating hyphens and spaces as equivalent,
// since arXiv abstracts spell e.g. "vision-language" both ways.
func containsPhrase(text, phrase string) bool {
	flat := strings.ReplaceAll(text, "-", " ")
	return strings.Contains(text, phrase) ||
		strings.Contains(flat, strings.ReplaceAll(phrase, "-", " "))
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(s) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			set[word] = true
		}
	}
	return set
}

// Annotate scores one paper offline and fills in the record annotation.
func Annotate(p dataset.Paper, topics []string, threshold float64) dataset.Record {
	score, matched := Score(p.Title, p.Abstract, topics)
	rec := dataset.Record{
		Paper:    p,
		Scored:   true,
		Score:    score,
		Relevant: score >= threshold,
		Method:   dataset.MethodKeyword,
	}
	if len(matched) > 0 {
		rec.Rationale = "matches: " + strings.Join(matched, ", ")
	}
	return rec
}

// ScoreAll annotates every paper with the offline keyword score. It never
// fails; it exists so the pipeline still produces a digest without an API key.
func ScoreAll(ctx context.Context, papers []dataset.Paper, topics []string, threshold float64) []dataset.Record {
	records := make([]dataset.Record, 0, len(papers))
	for _, p := range papers {
		select {
		case <-ctx.Done():
			return records
		default:
		}
		records = append(records, Annotate(p, topics, threshold))
	}
	return records
}
