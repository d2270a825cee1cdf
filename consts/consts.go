package consts

import "time"

// Server configuration
const (
	DefaultPort       = "8080"
	ReadHeaderTimeout = 3 * time.Second
	RateLimitRequests = 60
	RateLimitWindow   = time.Minute
	MaxFragmentBytes  = 8 << 20
)

// Cron schedules
const (
	CronSnapshot      = "*/15 * * * *" // Every 15 minutes
	CronGenerateChart = "5 0 * * *"    // Daily at 00:05 UTC
	CronCleanup       = "30 0 * * *"   // Daily at 00:30 UTC
)

// Data retention
const (
	PurgeRetentionDays = 60
)

// File paths and directories
const (
	DatabaseFile   = "insights.db"
	ContactsDir    = "contacts"
	ContactsFile   = "contacts.json"
	ChartDataDir   = "web/chartdata"
	ChartsJSONFile = "charts-%s.json"
)

// Payload fragment kinds, in merge order
const (
	KindBasic       = "basic"
	KindInteractive = "interactive"
	KindSemantic    = "semantic"
)

var FragmentKinds = []string{KindBasic, KindInteractive, KindSemantic}

// File permissions
const (
	DirPermissions  = 0750
	FilePermissions = 0600
)

// Date formats
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)

// Chart configuration
const (
	ChartWidth        = "1200px"
	ChartHeight       = "500px"
	HeatmapHeight     = "260px"
	KeywordWeightBase = 10000
)

// Chart colors and styling
const (
	ChartBackgroundColor = "#ffffff"
	ChartTextColor       = "#000000"
	SenderColor          = "#4154f1"
	ReceiverColor        = "#2eca6a"
	DefaultTagColor      = "#999999"
)

var (
	ConversationGapColors = []string{
		"#75ace6", "#69eca2", "#ec9069", "#c03131", "rgba(111,66,193,0.63)",
		"#fd7e14", "#07ce82", "rgba(232,62,140,0.69)", "#eace5f",
	}
	WeekdayColors   = []string{"#4154f1", "#2eca6a", "#ff771d", "#dc3545", "#6f42c1", "#0dcaf0", "#ffc107"}
	SentimentColors = []string{"#91cc75", "#fac858", "#ee6666"}
)

// WeekdayNames are the display names of the weekday domain.
var WeekdayNames = map[string]string{
	"Monday":    "周一",
	"Tuesday":   "周二",
	"Wednesday": "周三",
	"Thursday":  "周四",
	"Friday":    "周五",
	"Saturday":  "周六",
	"Sunday":    "周日",
}

type TagColor struct {
	Tag   string
	Color string
}

// Known tags of the tag timeline, in axis order.
var (
	TopicTagColors = []TagColor{
		{"工作", "#5470c6"},
		{"学习", "#91cc75"},
		{"生活", "#fac858"},
		{"娱乐", "#ee6666"},
		{"旅行", "#73c0de"},
		{"购物", "#3ba272"},
		{"健康", "#fc8452"},
		{"家庭", "#9a60b4"},
		{"朋友", "#ea7ccc"},
		{"财务", "#5470c6"},
	}
	EmotionTagColors = []TagColor{
		{"开心", "#91cc75"},
		{"难过", "#ee6666"},
		{"生气", "#fc8452"},
		{"惊讶", "#fac858"},
		{"期待", "#73c0de"},
		{"支持", "#3ba272"},
		{"反对", "#ea7ccc"},
		{"建议", "#9a60b4"},
		{"抱怨", "#5470c6"},
		{"鼓励", "#91cc75"},
	}
)

// API configuration
const (
	AuthHeaderPrefix = "Bearer "
	APIKeyQueryParam = "api_key"
	YearQueryParam   = "year"
)

// Fragment watching
const (
	WatchDebounce = 2 * time.Second
)
