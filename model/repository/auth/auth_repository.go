package auth

import (
	"gorm.io/gorm"

	entity "vansales.GO/model/entity"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

// FindActiveToken returns a non-revoked API token by its token string.
func (r *AuthRepository) FindActiveToken(token string) (*entity.ApiToken, error) {
	var t entity.ApiToken
	err := r.db.Where("token = ? AND revoked = 0", token).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindUser returns a user by id.
func (r *AuthRepository) FindUser(userID uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.First(&u, userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindRole returns a role by id.
func (r *AuthRepository) FindRole(roleID uint) (*entity.Role, error) {
	var role entity.Role
	if err := r.db.First(&role, roleID).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindPermissions returns all allowed permission resources for a role.
func (r *AuthRepository) FindPermissions(roleID uint) ([]string, error) {
	var rules []entity.RolePermission
	if err := r.db.Where("role_id = ? AND permission = 'allow'", roleID).Find(&rules).Error; err != nil {
		return nil, err
	}
	resources := make([]string, 0, len(rules))
	for _, rule := range rules {
		if rule.Resource != nil {
			resources = append(resources, *rule.Resource)
		}
	}
	return resources, nil
}
