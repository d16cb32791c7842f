package cli

import (
	"time"

	"github.com/dmitrijs2005/couplespace/internal/journal"
	"github.com/dmitrijs2005/couplespace/internal/source"
)

// DemoOwner is the couple space of the built-in sample journal.
const DemoOwner = "demo-space"

// demoSource returns a small journal whose records fall into the month
// before now, so the default monthly backup is never empty.
func demoSource(now time.Time) *source.MemorySource {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	day := func(d, h int) string {
		return first.AddDate(0, 0, d-1).Add(time.Duration(h) * time.Hour).Format("2006-01-02 15:04:05")
	}

	src := source.NewMemorySource()
	src.Put(DemoOwner, string(journal.KindDiary), []journal.Record{
		{"id": "demo-d1", "title": "海边", "content": "第一次一起看日出。", "mood": "happy", "createdAt": day(3, 6)},
		{"id": "demo-d2", "title": "雨天", "content": "在家煮火锅。", "createdAt": day(17, 19)},
	})
	src.Put(DemoOwner, string(journal.KindLedger), []journal.Record{
		{"id": "demo-l1", "type": "income", "amount": 500, "category": "红包", "createdAt": day(5, 10)},
		{"id": "demo-l2", "type": "expense", "amount": 128.5, "category": "晚餐", "createdAt": day(17, 20)},
	})
	src.Put(DemoOwner, string(journal.KindFootprint), []journal.Record{
		{"id": "demo-f1", "name": "鼓浪屿", "address": "厦门", "createdAt": day(4, 14)},
	})
	src.Put(DemoOwner, string(journal.KindWish), []journal.Record{
		{"id": "demo-w1", "title": "去看极光", "completed": false, "createdAt": day(9, 22)},
	})
	return src
}
