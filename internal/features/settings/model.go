package settings

import "time"

type SettingsType string

const (
	SettingsTypeEmail   SettingsType = "email"
	SettingsTypeGeneral SettingsType = "general"
)

type EmailConfig struct {
	SMTPHost     string `bson:"smtp_host" json:"smtp_host"`
	SMTPPort     int    `bson:"smtp_port" json:"smtp_port"`
	SMTPUser     string `bson:"smtp_user" json:"smtp_user"`
	SMTPPassword string `bson:"smtp_password" json:"-"`
	FromEmail    string `bson:"from_email" json:"from_email"`
}

// GeneralConfig overrides the env defaults for branding and link building.
type GeneralConfig struct {
	AppName     string `bson:"app_name" json:"app_name"`
	CompanyName string `bson:"company_name" json:"company_name"`
	BaseURL     string `bson:"base_url" json:"base_url"`
}

type Settings struct {
	Type      SettingsType   `bson:"type" json:"type"`
	Email     *EmailConfig   `bson:"email,omitempty" json:"email,omitempty"`
	General   *GeneralConfig `bson:"general,omitempty" json:"general,omitempty"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updated_at"`
}
