package rbac

type RolePermission struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Role     string `gorm:"type:varchar(20);not null;uniqueIndex:uq_role_permission"`
	Resource string `gorm:"type:varchar(50);not null;uniqueIndex:uq_role_permission"`
	Action   string `gorm:"type:varchar(50);not null;uniqueIndex:uq_role_permission"`
}

// RoleInheritance grants Role every permission of Parent.
type RoleInheritance struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	Role   string `gorm:"type:varchar(20);not null;uniqueIndex:uq_role_inheritance"`
	Parent string `gorm:"type:varchar(20);not null;uniqueIndex:uq_role_inheritance"`
}
