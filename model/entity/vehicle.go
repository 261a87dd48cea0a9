package entity

import "time"

// Vehicle is a sales van that stock gets loaded onto.
type Vehicle struct {
	VehicleID   uint      `gorm:"column:vehicle_id;primaryKey;autoIncrement" json:"id"`
	Code        string    `gorm:"column:code;type:varchar(32);uniqueIndex;not null" json:"code"`
	PlateNumber string    `gorm:"column:plate_number;type:varchar(32)" json:"plate_number"`
	DepotID     *uint     `gorm:"column:depot_id" json:"depot_id"`
	IsActive    int16     `gorm:"column:is_active;not null;default:1" json:"is_active"`
	Created     time.Time `gorm:"column:created;autoCreateTime" json:"created"`
	Modified    time.Time `gorm:"column:modified;autoUpdateTime" json:"modified"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
