package export

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/journal"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlat_RoundTrip(t *testing.T) {
	data := map[journal.Kind][]journal.Record{
		journal.KindDiary:       {{"id": "d1", "title": "海边", "createdAt": "2024-06-15"}},
		journal.KindAnniversary: {{"id": "a1", "title": "相识", "date": "2020-05-20"}},
	}
	sections := renderSections(t, NewRenderer(shanghai, LocaleZH), data)
	a, err := NewAssembler(shanghai, LocaleZH).AssembleFlat(sections, FormatJSON, exportedAt)
	require.NoError(t, err)

	doc, err := ParseFlat(a.Bytes)
	require.NoError(t, err)

	if diff := cmp.Diff(data, doc.Records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, doc.ExportDate.Equal(exportedAt))
	assert.Equal(t, 2, doc.Total())
}

func TestParseFlat_UnknownKey(t *testing.T) {
	_, err := ParseFlat([]byte(`{"diaries": [], "gossip": [{"x": 1}]}`))
	assert.ErrorIs(t, err, common.ErrUnknownCategoryKind)
}

func TestParseFlat_Malformed(t *testing.T) {
	_, err := ParseFlat([]byte(`{"diaries": {}}`))
	assert.ErrorIs(t, err, common.ErrSerializationFailure)

	_, err = ParseFlat([]byte(`not json`))
	assert.ErrorIs(t, err, common.ErrSerializationFailure)
}

func TestParseFlat_MissingExportDate(t *testing.T) {
	doc, err := ParseFlat([]byte(`{"wishes": [{"content": "去冰岛"}]}`))
	require.NoError(t, err)
	assert.True(t, doc.ExportDate.Equal(time.Time{}))
	assert.Len(t, doc.Records[journal.KindWish], 1)
}
