package store

import (
	"encoding/json"
	"time"
)

// User maps craft.users.
type User struct {
	UserID       int64      `gorm:"column:user_id;primaryKey;autoIncrement"`
	UserUUID     string     `gorm:"column:user_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	Username     string     `gorm:"column:username;type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;type:text;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at;type:timestamptz"`
}

func (User) TableName() string { return "craft.users" }

// Session maps craft.sessions. SessionID is the opaque token handed to the client.
type Session struct {
	SessionID  string    `gorm:"column:session_id;type:text;primaryKey"`
	UserID     int64     `gorm:"column:user_id;type:bigint;not null;index"`
	ExpiresAt  time.Time `gorm:"column:expires_at;type:timestamptz;not null"`
	LastSeenAt time.Time `gorm:"column:last_seen_at;type:timestamptz;not null;default:now()"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (Session) TableName() string { return "craft.sessions" }

// ContentItem maps craft.content_items: one saved generation result.
type ContentItem struct {
	ContentID    int64           `gorm:"column:content_id;primaryKey;autoIncrement"`
	ContentUUID  string          `gorm:"column:content_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	UserID       int64           `gorm:"column:user_id;type:bigint;not null;index"`
	Platform     string          `gorm:"column:platform;type:text;not null"`
	Language     string          `gorm:"column:language;type:text;not null"`
	ContentType  string          `gorm:"column:content_type;type:text;not null"`
	Body         string          `gorm:"column:body;type:text;not null"`
	Hashtags     json.RawMessage `gorm:"column:hashtags;type:jsonb"`
	Confidence   float64         `gorm:"column:confidence;type:double precision;not null;default:0"`
	Fallback     bool            `gorm:"column:fallback;type:boolean;not null;default:false"`
	ProviderName string          `gorm:"column:provider_name;type:text;not null;default:''"`
	ModelName    *string         `gorm:"column:model_name;type:text"`
	CreatedAt    time.Time       `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (ContentItem) TableName() string { return "craft.content_items" }

// ContentMetric maps craft.content_metrics: aggregated counters per content row.
type ContentMetric struct {
	ContentID    int64      `gorm:"column:content_id;type:bigint;primaryKey"`
	Views        int64      `gorm:"column:views;type:bigint;not null;default:0"`
	Engagements  int64      `gorm:"column:engagements;type:bigint;not null;default:0"`
	LastViewedAt *time.Time `gorm:"column:last_viewed_at;type:timestamptz"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (ContentMetric) TableName() string { return "craft.content_metrics" }

func autoMigrateModels() []any {
	return []any{
		&User{},
		&Session{},
		&ContentItem{},
		&ContentMetric{},
	}
}
