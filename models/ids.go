package models

import "github.com/google/uuid"

const (
	ProfileID  = "profile"
	SettingsID = "settings"
)

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
