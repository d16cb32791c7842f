package export

// Locale selects the label set of the narrative form.
type Locale string

const (
	LocaleZH Locale = "zh"
	LocaleEN Locale = "en"
)

type labels struct {
	count       string // fmt pattern with one %d
	untitled    string
	description string
	amount      string
	location    string
	mood        string
	priority    string
	status      string
	time        string
	done        string
	notDone     string

	flatTitle   string
	exportedAt  string
	reportTitle string // fmt pattern with one %d
	overview    string
	category    string
	items       string
	total       string
	ledger      string
	income      string
	expense     string
	balance     string

	values map[string]string
}

var labelSets = map[Locale]labels{
	LocaleZH: {
		count:       "共 %d 条记录",
		untitled:    "无标题",
		description: "描述",
		amount:      "金额",
		location:    "地点",
		mood:        "心情",
		priority:    "优先级",
		status:      "状态",
		time:        "时间",
		done:        "已完成",
		notDone:     "未完成",
		flatTitle:   "情侣空间数据导出",
		exportedAt:  "导出时间",
		reportTitle: "%d 年度报告",
		overview:    "概览",
		category:    "类别",
		items:       "数量",
		total:       "合计",
		ledger:      "账本收支",
		income:      "收入",
		expense:     "支出",
		balance:     "结余",
		values: map[string]string{
			"high":        "高",
			"medium":      "中",
			"low":         "低",
			"pending":     "待开始",
			"in_progress": "进行中",
			"completed":   "已完成",
			"done":        "已完成",
			"cancelled":   "已取消",
		},
	},
	LocaleEN: {
		count:       "%d items",
		untitled:    "untitled",
		description: "Description",
		amount:      "Amount",
		location:    "Location",
		mood:        "Mood",
		priority:    "Priority",
		status:      "Status",
		time:        "Time",
		done:        "done",
		notDone:     "not done",
		flatTitle:   "Couple Space Data Export",
		exportedAt:  "Exported at",
		reportTitle: "%d Annual Report",
		overview:    "Overview",
		category:    "Category",
		items:       "Items",
		total:       "Total",
		ledger:      "Ledger",
		income:      "Income",
		expense:     "Expense",
		balance:     "Balance",
		values:      map[string]string{},
	},
}

func labelsFor(l Locale) labels {
	if set, ok := labelSets[l]; ok {
		return set
	}
	return labelSets[LocaleZH]
}

// ParseLocale accepts "zh", "zh-CN", "en", "en-US"; anything else is zh.
func ParseLocale(s string) Locale {
	if len(s) >= 2 && (s[:2] == "en" || s[:2] == "EN") {
		return LocaleEN
	}
	return LocaleZH
}

// translate maps well-known enum values (priority, status) to labels.
func (l labels) translate(v string) string {
	if t, ok := l.values[v]; ok {
		return t
	}
	return v
}
