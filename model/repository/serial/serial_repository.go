package serial

import (
	"errors"

	"gorm.io/gorm"

	serialEntity "vansales.GO/model/entity/serial"
)

// SerialRepository owns the per-unit serial number lifecycle.
type SerialRepository struct {
	db *gorm.DB
}

func NewSerialRepository(db *gorm.DB) *SerialRepository {
	return &SerialRepository{db: db}
}

// FindBySerial returns the record for a serial number string, or (nil, nil)
// when no such serial exists anywhere in the system.
func (r *SerialRepository) FindBySerial(serialNo string) (*serialEntity.SerialNumber, error) {
	var sn serialEntity.SerialNumber
	err := r.db.Where("serial_no = ?", serialNo).First(&sn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sn, nil
}

func (r *SerialRepository) Create(sn *serialEntity.SerialNumber) error {
	return r.db.Create(sn).Error
}

// MarkAvailable flips a serial back to available and moves it to the given
// location. Used when the unit leaves the van.
func (r *SerialRepository) MarkAvailable(serialNumberID uint, locationID *uint) error {
	return r.db.Model(&serialEntity.SerialNumber{}).
		Where("serial_number_id = ?", serialNumberID).
		Updates(map[string]interface{}{
			"status":      serialEntity.StatusAvailable,
			"location_id": locationID,
		}).Error
}

// CountByStatus returns how many serials of a product are in the given
// lifecycle state.
func (r *SerialRepository) CountByStatus(productID uint, status string) (int64, error) {
	var n int64
	err := r.db.Model(&serialEntity.SerialNumber{}).
		Where("product_id = ? AND status = ?", productID, status).
		Count(&n).Error
	return n, err
}
