package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/journal"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shanghai = time.FixedZone("CST", 8*3600)

func mustCategory(t *testing.T, k journal.Kind) journal.Category {
	t.Helper()
	c, err := journal.Classify(string(k))
	require.NoError(t, err)
	return c
}

func TestRender_DiaryBlock(t *testing.T) {
	r := NewRenderer(shanghai, LocaleZH)
	recs := []journal.Record{{"title": "海边", "createdAt": "2024-06-15"}}

	s, err := r.Render(mustCategory(t, journal.KindDiary), recs)
	require.NoError(t, err)

	want := "# 日记\n\n" +
		"共 1 条记录\n\n" +
		"## 1. 海边\n\n" +
		"**时间**: 2024-06-15 00:00:00\n\n" +
		"---\n\n"
	if diff := cmp.Diff(want, s.NarrativeText); diff != "" {
		t.Fatalf("narrative mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, s.ItemCount)
}

func TestRender_LedgerAmountSign(t *testing.T) {
	r := NewRenderer(shanghai, LocaleZH)
	recs := []journal.Record{
		{"type": "income", "amount": 500, "date": "2024-02-01"},
		{"type": "expense", "amount": 32.5, "date": "2024-02-02"},
	}

	s, err := r.Render(mustCategory(t, journal.KindLedger), recs)
	require.NoError(t, err)

	assert.Contains(t, s.NarrativeText, "## 1. 无标题")
	assert.Contains(t, s.NarrativeText, "**金额**: +¥500\n")
	assert.Contains(t, s.NarrativeText, "**金额**: -¥32.5\n")
	assert.Contains(t, s.NarrativeText, "**时间**: 2024-02-01 00:00:00")
}

func TestRender_StructuredIsLossless(t *testing.T) {
	r := NewRenderer(shanghai, LocaleZH)
	recs := []journal.Record{
		{"id": "a", "content": "hello", "tags": []any{"x", "y"}, "extra": map[string]any{"k": 1.5}},
		{"id": "b", "content": "world", "nested": map[string]any{"deep": []any{true, nil}}},
	}

	s, err := r.Render(mustCategory(t, journal.KindMessage), recs)
	require.NoError(t, err)

	var got []journal.Record
	require.NoError(t, json.Unmarshal([]byte(s.StructuredText), &got))
	if diff := cmp.Diff(recs, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, strings.HasPrefix(s.StructuredText, "[\n  {"), "two-space indented array")
}

func TestRender_EmptySection(t *testing.T) {
	r := NewRenderer(shanghai, LocaleZH)

	s, err := r.Render(mustCategory(t, journal.KindWish), nil)
	require.NoError(t, err)

	assert.Equal(t, "[]", s.StructuredText)
	assert.Equal(t, 0, s.ItemCount)
	assert.Equal(t, "# 心愿\n\n共 0 条记录\n\n", s.NarrativeText)
}

func TestRender_SerializationFailure(t *testing.T) {
	r := NewRenderer(shanghai, LocaleZH)
	recs := []journal.Record{{"content": "ok", "bad": make(chan int)}}

	_, err := r.Render(mustCategory(t, journal.KindDiary), recs)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSerializationFailure)
}

func TestRender_ProjectionOrder(t *testing.T) {
	r := NewRenderer(shanghai, LocaleZH)
	rec := journal.Record{
		"content":     "去看海",
		"description": "周末计划",
		"title":       "旅行",
		"amount":      120,
		"type":        "expense",
		"address":     "青岛",
		"mood":        "开心",
		"priority":    "high",
		"status":      "in_progress",
		"createdAt":   "2024-05-01T10:00:00+08:00",
	}

	s, err := r.Render(mustCategory(t, journal.KindTask), []journal.Record{rec})
	require.NoError(t, err)

	parts := []string{
		"## 1. 旅行",
		"去看海",
		"**描述**: 周末计划",
		"**金额**: -¥120",
		"**地点**: 青岛",
		"**心情**: 开心",
		"**优先级**: 高",
		"**状态**: 进行中",
		"**时间**: 2024-05-01 10:00:00",
		"---",
	}
	last := -1
	for _, p := range parts {
		idx := strings.Index(s.NarrativeText, p)
		require.GreaterOrEqual(t, idx, 0, "missing %q", p)
		assert.Greater(t, idx, last, "%q out of order", p)
		last = idx
	}
	// the explicit title is already the block title
	assert.NotContains(t, s.NarrativeText, "### 旅行")
}

func TestRender_BlankTitleFallsBackToContent(t *testing.T) {
	r := NewRenderer(shanghai, LocaleZH)
	// title is whitespace-only, so the computed title comes from content
	rec := journal.Record{"content": "今天很开心", "title": " "}
	s, err := r.Render(mustCategory(t, journal.KindDiary), []journal.Record{rec})
	require.NoError(t, err)
	assert.Contains(t, s.NarrativeText, "## 1. 今天很开心")
	assert.NotContains(t, s.NarrativeText, "###")
}

func TestRender_PaddedTitleNotRepeated(t *testing.T) {
	r := NewRenderer(shanghai, LocaleZH)
	rec := journal.Record{"title": " 海边 ", "createdAt": "2024-06-15T10:00:00"}
	s, err := r.Render(mustCategory(t, journal.KindDiary), []journal.Record{rec})
	require.NoError(t, err)
	assert.Contains(t, s.NarrativeText, "## 1. 海边\n")
	assert.NotContains(t, s.NarrativeText, "###")
}

func TestRender_StructuredKeepsHTMLCharacters(t *testing.T) {
	r := NewRenderer(shanghai, LocaleZH)
	rec := journal.Record{"content": "<3 & love"}
	s, err := r.Render(mustCategory(t, journal.KindMessage), []journal.Record{rec})
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"content\": \"<3 & love\"\n  }\n]", s.StructuredText)
}

func TestRender_CompletedFlag(t *testing.T) {
	r := NewRenderer(shanghai, LocaleEN)
	recs := []journal.Record{
		{"title": "a", "completed": true},
		{"title": "b", "isCompleted": false},
	}
	s, err := r.Render(mustCategory(t, journal.KindHundredThings), recs)
	require.NoError(t, err)
	assert.Contains(t, s.NarrativeText, "**Status**: done")
	assert.Contains(t, s.NarrativeText, "**Status**: not done")
	assert.Contains(t, s.NarrativeText, "2 items")
}

func TestRender_HeadingLevel(t *testing.T) {
	r := &Renderer{Location: shanghai, Locale: LocaleZH, HeadingLevel: 2}
	s, err := r.Render(mustCategory(t, journal.KindMood), []journal.Record{{"mood": "平静"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.NarrativeText, "## 心情\n"))
	assert.Contains(t, s.NarrativeText, "### 1. 无标题")
}

func TestTitle(t *testing.T) {
	long := strings.Repeat("爱", 40)
	tests := []struct {
		name string
		rec  journal.Record
		want string
	}{
		{"explicit", journal.Record{"title": " 纪念日 ", "content": "x"}, "纪念日"},
		{"short content", journal.Record{"content": "早安\n宝贝"}, "早安 宝贝"},
		{"truncated", journal.Record{"content": long}, strings.Repeat("爱", 30) + "..."},
		{"exactly thirty", journal.Record{"content": strings.Repeat("a", 30)}, strings.Repeat("a", 30)},
		{"untitled", journal.Record{"amount": 1}, "无标题"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.rec, "无标题"))
		})
	}
}

func TestSignedAmount(t *testing.T) {
	assert.Equal(t, "+¥500", SignedAmount(500, "income"))
	assert.Equal(t, "-¥500", SignedAmount(500, "expense"))
	assert.Equal(t, "-¥12.3", SignedAmount(-12.3, ""))
	assert.Equal(t, "+¥7", SignedAmount(-7, "income"))
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "", plain(nil))
	assert.Equal(t, "3.5", plain(3.5))
	assert.Equal(t, "true", plain(true))
	assert.Equal(t, "外滩", plain(map[string]any{"lat": 1.0, "name": "外滩"}))
	assert.Equal(t, "a, b", plain([]any{"a", "b"}))
	assert.Equal(t, `{"lat":1}`, plain(map[string]any{"lat": 1}))
	assert.Equal(t, "42", plain(42))
}
