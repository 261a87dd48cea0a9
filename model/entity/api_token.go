package entity

import "time"

// ApiToken is a long-lived API access token bound to a user.
type ApiToken struct {
	TokenID   uint      `gorm:"column:token_id;primaryKey;autoIncrement"`
	UserID    *uint     `gorm:"column:user_id"`
	Token     string    `gorm:"column:token;type:varchar(64);not null;uniqueIndex"`
	Revoked   uint16    `gorm:"column:revoked;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ApiToken) TableName() string {
	return "api_tokens"
}
