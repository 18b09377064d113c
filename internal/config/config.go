package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Assets  AssetsConfig  `mapstructure:"assets"  validate:"required"`
	UI      UIConfig      `mapstructure:"ui"      validate:"required"`
	Session SessionConfig `mapstructure:"session" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// AssetsConfig describes where flashcard images come from and how their
// thumbnails are addressed.
type AssetsConfig struct {
	// Source selects the asset backend: a Google Drive folder or a local directory.
	Source string `mapstructure:"source" validate:"required,oneof=drive dir"`

	// FolderID is the Drive folder holding the flashcard images.
	FolderID string `mapstructure:"folder_id" validate:"required_if=Source drive"`

	// CredentialsFile is a service account JSON key with read access to the folder.
	// When empty, application default credentials are used.
	CredentialsFile string `mapstructure:"credentials_file"`

	// Dir is the local directory used when Source is "dir".
	Dir string `mapstructure:"dir" validate:"required_if=Source dir"`

	// ThumbnailTemplate is a fmt template taking the asset ID and a pixel width.
	ThumbnailTemplate string `mapstructure:"thumbnail_template" validate:"required"`
	ThumbnailWidth    int    `mapstructure:"thumbnail_width"    validate:"gt=0"`

	// CacheTTLSeconds bounds how long a folder listing is reused.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"gte=1"`

	// PageSize is the number of files requested per listing page.
	PageSize int `mapstructure:"page_size" validate:"gte=1,lte=1000"`
}

// UIConfig carries layout constants handed to the rendering layer.
type UIConfig struct {
	GalleryColumns         int `mapstructure:"gallery_columns"          validate:"gte=1"`
	PageSize               int `mapstructure:"page_size"                validate:"gte=1"`
	MemoryColumns          int `mapstructure:"memory_columns"           validate:"gte=1"`
	DefaultIntervalSeconds int `mapstructure:"default_interval_seconds" validate:"gte=1,lte=20"`
	DefaultPairs           int `mapstructure:"default_pairs"            validate:"gte=1,ltefield=MaxPairs"`
	MaxPairs               int `mapstructure:"max_pairs"                validate:"gte=1"`
}

// SessionConfig bounds the in-memory session registry.
type SessionConfig struct {
	IdleTTLMinutes int `mapstructure:"idle_ttl_minutes" validate:"gte=1"`
	MaxSessions    int `mapstructure:"max_sessions"     validate:"gte=1"`
	QueueSize      int `mapstructure:"queue_size"       validate:"gte=1"`
}
