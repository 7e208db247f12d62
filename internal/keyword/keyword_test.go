package keyword

import (
	"context"
	"strings"
	"testing"

	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/dataset"
)

var topics = []string{"robotics", "reinforcement learning", "world models", "vision-language-action"}

func TestScoreTitleOutweighsAbstract(t *testing.T) {
	titleScore, _ := Score("Robotics for assembly", "a paper about assembly", topics)
	absScore, _ := Score("A paper about assembly", "robotics for assembly", topics)
	if titleScore <= absScore {
		t.Errorf("title match (%v) should outscore abstract match (%v)", titleScore, absScore)
	}
}

func TestScoreNoMatch(t *testing.T) {
	score, matched := Score("Algebraic topology of sheaves", "We prove a theorem.", topics)
	if score != 0 {
		t.Errorf("expected 0 for unrelated paper, got %v", score)
	}
	if len(matched) != 0 {
		t.Errorf("expected no matches, got %v", matched)
	}
}

func TestScorePhraseMatch(t *testing.T) {
	score, matched := Score(
		"Reinforcement Learning for Legged Robots",
		"We train world models with reinforcement learning.",
		topics,
	)
	if score == 0 {
		t.Fatal("expected nonzero score")
	}
	found := false
	for _, m := range matched {
		if m == "reinforcement learning" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected phrase match, got %v", matched)
	}
}

func TestScoreHyphenEquivalence(t *testing.T) {
	// "vision language action" spelled with spaces should still match the
	// hyphenated topic.
	score, _ := Score("A vision language action policy", "", topics)
	if score == 0 {
		t.Error("expected hyphen/space-insensitive phrase match")
	}
}

func TestScoreCapped(t *testing.T) {
	title := strings.Repeat("robotics reinforcement learning world models ", 3)
	score, _ := Score(title, title, topics)
	if score > 10 {
		t.Errorf("score should cap at 10, got %v", score)
	}
}

func TestScoreEmptyTopics(t *testing.T) {
	score, matched := Score("Robotics", "robotics", nil)
	if score != 0 || matched != nil {
		t.Errorf("empty topics should score 0, got %v %v", score, matched)
	}
}

func TestAnnotate(t *testing.T) {
	p := dataset.Paper{ID: "x", Title: "Reinforcement Learning for Robotics", Abstract: "world models"}
	rec := Annotate(p, topics, 5)
	if !rec.Scored {
		t.Error("keyword annotation should always be scored")
	}
	if rec.Method != dataset.MethodKeyword {
		t.Errorf("method = %q", rec.Method)
	}
	if !rec.Relevant {
		t.Errorf("expected relevant at score %v", rec.Score)
	}
	if !strings.HasPrefix(rec.Rationale, "matches: ") {
		t.Errorf("rationale = %q", rec.Rationale)
	}
}

func TestAnnotateBelowThreshold(t *testing.T) {
	p := dataset.Paper{ID: "x", Title: "A paper", Abstract: "mentions robotics once"}
	rec := Annotate(p, topics, 9.5)
	if rec.Relevant {
		t.Errorf("score %v should be below threshold 9.5", rec.Score)
	}
}

func TestScoreAll(t *testing.T) {
	papers := []dataset.Paper{
		{ID: "a", Title: "Robotics"},
		{ID: "b", Title: "Topology"},
	}
	records := ScoreAll(context.Background(), papers, topics, 5)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, r := range records {
		if !r.Scored {
			t.Errorf("record %s unscored", r.ID)
		}
	}
}
