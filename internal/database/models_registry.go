package database

import "github.com/wan8ting/mystery-meet/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Post{},
		&models.Moderator{},
		&models.ModerationAction{},
	}
}
