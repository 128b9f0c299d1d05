package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName             = "habitflow"
	DefaultKeyringUser  = "gemini-api-key"
	PostgresKeyringUser = "database-connection"
	DefaultConfigPath   = "~/.config/habitflow/habitflow.db"
	Version             = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Record keys of the persistence facade
	UsersKey       = "habitflow_users"
	HabitsKey      = "habitflow_habits"
	CurrentUserKey = "habitflow_current_user"

	// Store kinds
	StoreSQLite   = "sqlite"
	StoreJSON     = "json"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitflow-"
	BackupFileSuffix = ".db"

	// Reminder daemon constants
	ReminderSchedule     = "* * * * *"
	ReminderLockfileName = "habitflow-remind.lock"

	// Habit defaults
	DefaultColor              = "blue"
	DefaultCategory           = "Health"
	DefaultFrequency          = "Daily"
	DefaultDescription        = "Personal goal"
	SuggestedCategory         = "Growth"
	SuggestedColor            = "purple"
	SuggestedDescription      = "Suggested by AI"
	RecentWindowDays          = 7
	SuggestionCount           = 3
	InsightWordBudget         = 50
	WeeklyStripMaxBarWidth    = 30
	AvatarURLTemplate         = "https://picsum.photos/100/100?random=%d"
	DefaultInsightFallback    = "Great job tracking your habits! Keep it up."
	EmptyInsightFallback      = "Keep pushing forward! Consistency is key."
	DefaultGeminiModel        = "gemini-3-flash-preview"
	DefaultGeminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiTimeout      = 20 * time.Second
	DefaultAIRequestsPerMin   = 12
	DefaultAIBurst            = 3
	EnvConfig                 = "HABITFLOW_CONFIG"
	EnvStore                  = "HABITFLOW_STORE"
	EnvGeminiAPIKey           = "GEMINI_API_KEY"
	EnvGeminiModel            = "GEMINI_MODEL"
	EnvGeminiBaseURL          = "GEMINI_BASE_URL"
	EnvAIRequestsPerMin       = "HABITFLOW_AI_RATE"
	EnvPostgresConnection     = "HABITFLOW_DB_CONNECTION"
	PostgresConnPrefix        = "postgres://"
	PostgresConnAltPrefix     = "postgresql://"
	JSONStoreRecordFileSuffix = ".json"
)

// Session states. The first four are the dashboard tabs, in display order.
const (
	StateHabits SessionState = iota
	StateWeek
	StateNutrition
	StateAdmin
	StateLogin
	StateAddHabit
	StateSuggest
	StateMealInput
	StateConfirmDelete
)

// Palette is the closed set of habit color tags. The first entry is the default.
var Palette = []string{"blue", "green", "purple", "rose", "amber", "cyan"}
