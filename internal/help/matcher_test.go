package help

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"  Multiple   spaces\t here ", "multiple spaces here"},
		{"Pâté à l'Américaine", "pate a l americaine"},
		{"p-value (alpha=0.05)", "p value alpha 0 05"},
		{"", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMatch_ExactIDScoresHundred(t *testing.T) {
	res := Match("correlation")
	if res.Best == nil {
		t.Fatal("expected a best match for an exact topic id")
	}
	if res.Best.Topic.ID != "correlation" {
		t.Errorf("best match should be the id-matched topic, got %s", res.Best.Topic.ID)
	}
	if res.Best.Score != 100 {
		t.Errorf("id match should score 100, got %d", res.Best.Score)
	}
}

func TestMatch_QueryContainingID(t *testing.T) {
	res := Match("how does correlation work")
	if res.Best == nil || res.Best.Topic.ID != "correlation" {
		t.Fatalf("query containing a topic id should match it, got %+v", res.Best)
	}
	if res.Best.Score != 100 {
		t.Errorf("containing the id should score 100, got %d", res.Best.Score)
	}
}

func TestMatch_EmptyAndStopwordQueries(t *testing.T) {
	for _, q := range []string{"", "   ", "a an of", "!!"} {
		res := Match(q)
		if res.Best != nil {
			t.Errorf("query %q should have no best match, got %s", q, res.Best.Topic.ID)
		}
		if len(res.Suggestions) != 0 {
			t.Errorf("query %q should have no suggestions, got %d", q, len(res.Suggestions))
		}
	}
}

func TestMatch_AliasTokens(t *testing.T) {
	res := Match("chi square table")
	if res.Best == nil {
		t.Fatal("expected a match via aliases")
	}
	if res.Best.Topic.ID != "crosstab" {
		t.Errorf("chi square should lead to the crosstab topic, got %s", res.Best.Topic.ID)
	}
}

func TestMatch_SuggestionCap(t *testing.T) {
	// "statistics" appears in many titles and aliases
	res := Match("statistics test model data")
	if len(res.Suggestions) > 5 {
		t.Errorf("suggestions must be capped at 5, got %d", len(res.Suggestions))
	}
	for i := 1; i < len(res.Suggestions); i++ {
		if res.Suggestions[i-1].Score < res.Suggestions[i].Score {
			t.Errorf("suggestions must be ranked by score: %d < %d at %d",
				res.Suggestions[i-1].Score, res.Suggestions[i].Score, i)
		}
	}
}

func TestMatch_TieKeepsCatalogOrder(t *testing.T) {
	topics := []Topic{
		{ID: "first", Title: "Widget alpha"},
		{ID: "second", Title: "Widget beta"},
	}
	res := matchAgainst("widget", topics)
	if res.Best == nil || res.Best.Topic.ID != "first" {
		t.Errorf("equal scores should keep catalog order, got %+v", res.Best)
	}
}

func TestMatch_ShortTokensIgnored(t *testing.T) {
	topics := []Topic{{ID: "t1", Title: "an ab cd"}}
	res := matchAgainst("an ab", topics)
	// tokens of length <= 2 score nothing, but the whole-query substring
	// bonus still applies
	if res.Best == nil || res.Best.Score != 10 {
		t.Errorf("expected only the substring bonus, got %+v", res.Best)
	}
}

func TestCatalog_StableAndRendered(t *testing.T) {
	a := Catalog()
	b := Catalog()
	if len(a) == 0 {
		t.Fatal("catalog should not be empty")
	}
	if len(a) != len(b) {
		t.Fatalf("catalog must be built once: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("catalog order must be stable at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
	seen := map[string]bool{}
	for _, topic := range a {
		if seen[topic.ID] {
			t.Errorf("duplicate topic id %s", topic.ID)
		}
		seen[topic.ID] = true
		if topic.BodyHTML == "" || !strings.Contains(topic.BodyHTML, "<") {
			t.Errorf("topic %s should have rendered HTML", topic.ID)
		}
	}
}

func TestTopicByID(t *testing.T) {
	if _, ok := TopicByID("getting-started"); !ok {
		t.Error("getting-started should exist")
	}
	if _, ok := TopicByID("nope"); ok {
		t.Error("unknown id should not resolve")
	}
}
