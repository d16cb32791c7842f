package journal

import (
	"fmt"

	"github.com/dmitrijs2005/couplespace/internal/common"
)

// Kind names a record type.
type Kind string

const (
	KindDiary         Kind = "diary"
	KindPhoto         Kind = "photo"
	KindMessage       Kind = "message"
	KindTask          Kind = "task"
	KindWish          Kind = "wish"
	KindFootprint     Kind = "footprint"
	KindMood          Kind = "mood"
	KindTimeCapsule   Kind = "timeCapsule"
	KindPromise       Kind = "promise"
	KindAchievement   Kind = "achievement"
	KindLedger        Kind = "ledger"
	KindCountdown     Kind = "countdown"
	KindHundredThings Kind = "hundredThings"
	KindTodoList      Kind = "todoList"
	KindAnniversary   Kind = "anniversary"
)

// Category is the stable folder/section identity of a record kind.
// Ordinal fixes the position of the category in every export.
type Category struct {
	Kind        Kind
	Ordinal     int
	DisplayName string
	// FieldKey is the key of the category in the flat JSON export.
	FieldKey string
}

// Folder returns the "<NN>-<name>" label used for archive folders and files.
func (c Category) Folder() string {
	return fmt.Sprintf("%02d-%s", c.Ordinal, c.DisplayName)
}

var categories = [...]Category{
	{Kind: KindDiary, Ordinal: 1, DisplayName: "日记", FieldKey: "diaries"},
	{Kind: KindPhoto, Ordinal: 2, DisplayName: "照片", FieldKey: "photos"},
	{Kind: KindMessage, Ordinal: 3, DisplayName: "留言", FieldKey: "messages"},
	{Kind: KindTask, Ordinal: 4, DisplayName: "任务", FieldKey: "tasks"},
	{Kind: KindWish, Ordinal: 5, DisplayName: "心愿", FieldKey: "wishes"},
	{Kind: KindFootprint, Ordinal: 6, DisplayName: "足迹", FieldKey: "footprints"},
	{Kind: KindMood, Ordinal: 7, DisplayName: "心情", FieldKey: "moodRecords"},
	{Kind: KindTimeCapsule, Ordinal: 8, DisplayName: "时光胶囊", FieldKey: "timeCapsules"},
	{Kind: KindPromise, Ordinal: 9, DisplayName: "承诺", FieldKey: "promises"},
	{Kind: KindAchievement, Ordinal: 10, DisplayName: "成就", FieldKey: "achievements"},
	{Kind: KindLedger, Ordinal: 11, DisplayName: "账本", FieldKey: "ledgerRecords"},
	{Kind: KindCountdown, Ordinal: 12, DisplayName: "倒计时", FieldKey: "countdowns"},
	{Kind: KindHundredThings, Ordinal: 13, DisplayName: "一百件事", FieldKey: "hundredThings"},
	{Kind: KindTodoList, Ordinal: 14, DisplayName: "待办清单", FieldKey: "todoLists"},
	{Kind: KindAnniversary, Ordinal: 15, DisplayName: "纪念日", FieldKey: "anniversaries"},
}

// Categories returns all categories in ordinal order. The slice is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories[:])
	return out
}

// Kinds returns every known kind in ordinal order.
func Kinds() []Kind {
	out := make([]Kind, len(categories))
	for i, c := range categories {
		out[i] = c.Kind
	}
	return out
}

// Classify maps a kind to its category. Kinds outside the fixed table are
// rejected with common.ErrUnknownCategoryKind.
func Classify(kind string) (Category, error) {
	for _, c := range categories {
		if string(c.Kind) == kind {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("classify %q: %w", kind, common.ErrUnknownCategoryKind)
}

// CategoryByFieldKey looks a category up by its flat JSON key, e.g. "diaries".
func CategoryByFieldKey(key string) (Category, bool) {
	for _, c := range categories {
		if c.FieldKey == key {
			return c, true
		}
	}
	return Category{}, false
}
