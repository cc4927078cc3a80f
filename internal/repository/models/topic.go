package models

import (
	"gorm.io/gorm"
)

// Topic 是題庫中的一個辯論主題
type Topic struct {
	gorm.Model
	Title string `gorm:"uniqueIndex;not null"`
}
