package jsonx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDirectJSON(t *testing.T) {
	raw := `{"suggestions": ["Milk", "Bread"]}`

	got, ok := Extract(raw)
	require.True(t, ok)
	assert.JSONEq(t, raw, string(got))
}

func TestExtractMarkdownFence(t *testing.T) {
	inner := `{"suggestions": ["Milk", "Bread"]}`

	for _, raw := range []string{
		"```json\n" + inner + "\n```",
		"```\n" + inner + "\n```",
		"```json\n" + inner + "\n```\nHope that helps!",
	} {
		got, ok := Extract(raw)
		require.True(t, ok, "input: %q", raw)
		assert.JSONEq(t, inner, string(got), "fenced extraction must match parsing the unwrapped text")
	}
}

func TestExtractSurroundingProse(t *testing.T) {
	raw := `Sure! Here is the JSON you asked for:
{"products": [{"id": 1, "name": "Milk"}]}
Let me know if you need anything else.`

	got, ok := Extract(raw)
	require.True(t, ok)
	assert.JSONEq(t, `{"products": [{"id": 1, "name": "Milk"}]}`, string(got))
}

func TestExtractBareArray(t *testing.T) {
	raw := "Here you go: [\"Milk\", \"Bread\"] as requested."

	got, ok := Extract(raw)
	require.True(t, ok)
	assert.JSONEq(t, `["Milk", "Bread"]`, string(got))
}

func TestExtractUnrecoverable(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"I could not produce any structured data, sorry.",
		"{ definitely not json",
	} {
		_, ok := Extract(raw)
		assert.False(t, ok, "input: %q", raw)
	}
}

func TestExtractArrayFieldTruncatedObjects(t *testing.T) {
	// Response cut off mid-element: two promotions complete, third truncated.
	raw := `{"promotions": [
		{"title": "25% off produce", "store": "Checkers"},
		{"title": "Milk price drop", "store": "Pick n Pay"},
		{"title": "Bread mul`

	got, ok := ExtractArrayField(raw, "promotions")
	require.True(t, ok)

	var parsed struct {
		Promotions []map[string]string `json:"promotions"`
	}
	require.NoError(t, json.Unmarshal(got, &parsed))
	require.Len(t, parsed.Promotions, 2)
	assert.Equal(t, "25% off produce", parsed.Promotions[0]["title"])
	assert.Equal(t, "Milk price drop", parsed.Promotions[1]["title"])
}

func TestExtractArrayFieldTruncatedStrings(t *testing.T) {
	raw := `{"suggestions": ["Milk", "Bread", "Che`

	got, ok := ExtractArrayField(raw, "suggestions")
	require.True(t, ok)

	var parsed struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(got, &parsed))
	assert.Equal(t, []string{"Milk", "Bread"}, parsed.Suggestions)
}

func TestExtractArrayFieldTruncatedNestedArrays(t *testing.T) {
	raw := `{"stores": [
		{"name": "Shoprite", "priceBreakdown": [{"item": "milk", "price": 28.99}]},
		{"name": "Checkers", "priceBreakdown": [{"item": "mi`

	got, ok := ExtractArrayField(raw, "stores")
	require.True(t, ok)

	var parsed struct {
		Stores []struct {
			Name string `json:"name"`
		} `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(got, &parsed))
	require.Len(t, parsed.Stores, 1)
	assert.Equal(t, "Shoprite", parsed.Stores[0].Name)
}

func TestExtractArrayFieldPrefixProperty(t *testing.T) {
	full := `{"promotions": [{"title": "A"}, {"title": "B"}, {"title": "C"}]}`

	// Cutting the response anywhere must yield a prefix of the full list,
	// never a parse panic or garbage elements.
	for cut := len(full) - 1; cut > len(`{"promotions": [`); cut-- {
		got, ok := ExtractArrayField(full[:cut], "promotions")
		if !ok {
			continue
		}
		var parsed struct {
			Promotions []map[string]string `json:"promotions"`
		}
		require.NoError(t, json.Unmarshal(got, &parsed), "cut at %d", cut)
		require.LessOrEqual(t, len(parsed.Promotions), 3)
		for i, p := range parsed.Promotions {
			assert.Equal(t, string(rune('A'+i)), p["title"], "cut at %d", cut)
		}
	}
}

func TestExtractArrayFieldWrapsBareArray(t *testing.T) {
	// Only the trailing brace is missing; the greedy bracket slice finds the
	// complete array, which must still come back wrapped under the field name.
	raw := `{"promotions": [{"title": "A"}, {"title": "B"}, {"title": "C"}]`

	got, ok := ExtractArrayField(raw, "promotions")
	require.True(t, ok)

	var parsed struct {
		Promotions []map[string]string `json:"promotions"`
	}
	require.NoError(t, json.Unmarshal(got, &parsed))
	require.Len(t, parsed.Promotions, 3)
	assert.Equal(t, "C", parsed.Promotions[2]["title"])
}

func TestExtractArrayFieldNoBracketedField(t *testing.T) {
	_, ok := ExtractArrayField(`{"promotions": "not an array"`, "promotions")
	assert.False(t, ok)
}

func TestExtractArrayFieldIgnoresBracesInsideStrings(t *testing.T) {
	raw := `{"promotions": [{"title": "Save {big} today"}, {"title": "Bro`

	got, ok := ExtractArrayField(raw, "promotions")
	require.True(t, ok)

	var parsed struct {
		Promotions []map[string]string `json:"promotions"`
	}
	require.NoError(t, json.Unmarshal(got, &parsed))
	require.Len(t, parsed.Promotions, 1)
	assert.Equal(t, "Save {big} today", parsed.Promotions[0]["title"])
}
