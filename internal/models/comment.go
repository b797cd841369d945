package models

import "time"

// Comment is a visitor's note on a shop.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ShopID    string    `json:"shop_id" gorm:"not null;index:comments_shop_id_idx"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a comment joined with its author's username.
type CommentView struct {
	ID        uint      `json:"id"`
	ShopID    string    `json:"shop_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
