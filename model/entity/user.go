package entity

import "time"

// User is a salesperson (or back-office user) owning van inventory documents.
type User struct {
	UserID   uint      `gorm:"column:user_id;primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Username *string   `gorm:"column:username;type:varchar(40);uniqueIndex" json:"username"`
	Email    *string   `gorm:"column:email;type:varchar(128)" json:"email"`
	RoleID   *uint     `gorm:"column:role_id" json:"role_id"`
	DepotID  *uint     `gorm:"column:depot_id" json:"depot_id"`
	ZoneID   *uint     `gorm:"column:zone_id" json:"zone_id"`
	IsActive int16     `gorm:"column:is_active;not null;default:1" json:"is_active"`
	Created  time.Time `gorm:"column:created;autoCreateTime" json:"created"`
	Modified time.Time `gorm:"column:modified;autoUpdateTime" json:"modified"`
}

func (User) TableName() string {
	return "users"
}
