package scope

import "gorm.io/gorm"

// OrderByCreatedDesc puts the newest rows first.
func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
