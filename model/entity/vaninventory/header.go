package vaninventory

import (
	"fmt"
	"strings"
	"time"

	entity "vansales.GO/model/entity"
)

// LoadingType is the direction of a van inventory document.
type LoadingType string

const (
	LoadingTypeLoad   LoadingType = "L"
	LoadingTypeUnload LoadingType = "U"
)

// ParseLoadingType accepts "L"/"LOAD" and "U"/"UNLOAD" case-insensitively.
// Empty input defaults to load.
func ParseLoadingType(s string) (LoadingType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "L", "LOAD":
		return LoadingTypeLoad, nil
	case "U", "UNLOAD":
		return LoadingTypeUnload, nil
	default:
		return "", fmt.Errorf("invalid loading_type %q", s)
	}
}

func (lt LoadingType) IsLoad() bool {
	return lt == LoadingTypeLoad
}

// Header is one van load/unload document.
type Header struct {
	HeaderID     uint      `gorm:"column:header_id;primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	VehicleID    *uint     `gorm:"column:vehicle_id" json:"vehicle_id"`
	Status       string    `gorm:"column:status;type:varchar(1);not null;default:'O'" json:"status"`
	LoadingType  string    `gorm:"column:loading_type;type:varchar(1);not null;default:'L'" json:"loading_type"`
	DocumentDate time.Time `gorm:"column:document_date;not null" json:"document_date"`
	LocationID   *uint     `gorm:"column:location_id" json:"location_id"`
	LocationType string    `gorm:"column:location_type;type:varchar(16)" json:"location_type"`
	IsActive     int16     `gorm:"column:is_active;not null;default:1" json:"is_active"`
	CreatedBy    uint      `gorm:"column:created_by" json:"created_by"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedBy    uint      `gorm:"column:updated_by" json:"updated_by"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	// LogInst is an advisory version counter, incremented in the UPDATE
	// statement itself on every header update.
	LogInst uint `gorm:"column:log_inst;not null;default:1" json:"log_inst"`

	User    *entity.User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Vehicle *entity.Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Items   []Item          `gorm:"foreignKey:HeaderID;constraint:OnDelete:CASCADE" json:"van_inventory_items"`
}

func (Header) TableName() string {
	return "van_inventory_headers"
}
