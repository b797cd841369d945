package models

// Favorite marks a shop as saved by a user. Existence is the whole payload.
type Favorite struct {
	UserID string `gorm:"primaryKey;type:varchar(36)"`
	ShopID string `gorm:"primaryKey"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
