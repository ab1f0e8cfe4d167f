package rbac

import "gorm.io/gorm"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetRolePermissions() ([]RolePermission, error)
	GetRoleInheritances() ([]RoleInheritance, error)
	// SeedIfEmpty writes the given rows when no permission exists yet.
	SeedIfEmpty(perms []RolePermission, inherits []RoleInheritance) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetRolePermissions() ([]RolePermission, error) {
	var result []RolePermission
	err := r.db.Order("role, resource, action").Find(&result).Error
	return result, err
}

func (r *repository) GetRoleInheritances() ([]RoleInheritance, error) {
	var result []RoleInheritance
	err := r.db.Order("role, parent").Find(&result).Error
	return result, err
}

func (r *repository) SeedIfEmpty(perms []RolePermission, inherits []RoleInheritance) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&RolePermission{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if len(perms) > 0 {
			if err := tx.Create(&perms).Error; err != nil {
				return err
			}
		}
		if len(inherits) > 0 {
			if err := tx.Create(&inherits).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
