package entity

type Role struct {
	RoleID   uint   `gorm:"column:role_id;primaryKey;autoIncrement"`
	RoleName string `gorm:"column:role_name;type:varchar(50);not null"`
}

func (Role) TableName() string {
	return "roles"
}

type RolePermission struct {
	PermissionID uint    `gorm:"column:permission_id;primaryKey;autoIncrement"`
	RoleID       uint    `gorm:"column:role_id;index;not null"`
	Resource     *string `gorm:"column:resource;type:varchar(255)"`
	Permission   *string `gorm:"column:permission;type:varchar(10)"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}
