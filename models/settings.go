package models

import "time"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Settings holds the site toggles. Like Profile it is a single row.
type Settings struct {
	ID                 string    `json:"-" db:"id" gorm:"type:varchar(16);primaryKey;check:chk_settings_singleton,id = 'settings'"`
	MaintenanceMode    bool      `json:"maintenanceMode" db:"maintenance_mode" gorm:"not null"`
	AnalyticsEnabled   bool      `json:"analyticsEnabled" db:"analytics_enabled" gorm:"not null"`
	EmailNotifications bool      `json:"emailNotifications" db:"email_notifications" gorm:"not null"`
	Theme              string    `json:"theme" db:"theme" gorm:"type:varchar(10);not null"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:                 SettingsID,
		MaintenanceMode:    false,
		AnalyticsEnabled:   true,
		EmailNotifications: true,
		Theme:              ThemeDark,
	}
}
