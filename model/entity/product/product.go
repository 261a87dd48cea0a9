package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TrackingType is the per-product stock tracking regime.
type TrackingType int

const (
	TrackingNone TrackingType = iota
	TrackingBatch
	TrackingSerial
)

// ParseTrackingType maps the stored tracking_type column to the closed enum.
// Matching is case-insensitive; anything unknown is bulk (NONE) tracking.
func ParseTrackingType(s string) TrackingType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BATCH":
		return TrackingBatch
	case "SERIAL":
		return TrackingSerial
	default:
		return TrackingNone
	}
}

func (t TrackingType) String() string {
	switch t {
	case TrackingBatch:
		return "BATCH"
	case TrackingSerial:
		return "SERIAL"
	default:
		return "NONE"
	}
}

type Product struct {
	ProductID    uint            `gorm:"column:product_id;primaryKey;autoIncrement" json:"id"`
	Code         string          `gorm:"column:code;type:varchar(64);uniqueIndex;not null" json:"code"`
	Name         string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Unit         string          `gorm:"column:unit;type:varchar(16)" json:"unit"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:decimal(20,4);not null;default:0" json:"unit_price"`
	TrackingType string          `gorm:"column:tracking_type;type:varchar(16);not null;default:'NONE'" json:"tracking_type"`
	IsActive     int16           `gorm:"column:is_active;not null;default:1" json:"is_active"`
	Created      time.Time       `gorm:"column:created;autoCreateTime" json:"created"`
	Modified     time.Time       `gorm:"column:modified;autoUpdateTime" json:"modified"`
}

func (Product) TableName() string {
	return "products"
}

// Tracking returns the parsed tracking regime for dispatch.
func (p *Product) Tracking() TrackingType {
	return ParseTrackingType(p.TrackingType)
}
