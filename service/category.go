package service

import (
	"teamspend/models"

	"gorm.io/gorm"
)

// CategoryService is the category catalog. The "default" category is
// permanent: never renamed, never deleted.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates the catalog service.
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CategoryInfo is the admin listing row.
type CategoryInfo struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ExpenseCount int64  `json:"expense_count"`
}

// List returns all categories for any approved account.
func (s *CategoryService) List(u *models.User) ([]models.Category, error) {
	if err := RequireApproved(u); err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// AdminList returns categories with expense counts, filtered by name and
// sorted by count.
func (s *CategoryService) AdminList(u *models.User, ascending bool, name string) ([]CategoryInfo, error) {
	if err := RequireAdmin(u); err != nil {
		return nil, err
	}

	query := s.db.Model(&models.Category{}).
		Select("categories.id, categories.name, COUNT(expenses.id) AS expense_count").
		Joins("LEFT JOIN expenses ON expenses.category_id = categories.id").
		Group("categories.id, categories.name")
	if name != "" {
		query = query.Where("categories.name LIKE ?", "%"+name+"%")
	}
	if ascending {
		query = query.Order("expense_count ASC")
	} else {
		query = query.Order("expense_count DESC")
	}

	var info []CategoryInfo
	if err := query.Scan(&info).Error; err != nil {
		return nil, err
	}
	return info, nil
}

// Create adds a category with a unique name.
func (s *CategoryService) Create(u *models.User, name string) error {
	if err := RequireAdmin(u); err != nil {
		return err
	}

	var existing models.Category
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return Conflict("Category already exists")
	}
	return s.db.Create(&models.Category{Name: name}).Error
}

// Update renames a category. The default category is immutable.
func (s *CategoryService) Update(u *models.User, categoryID uint, name string) error {
	if err := RequireAdmin(u); err != nil {
		return err
	}

	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return NotFound("Category not found")
	}
	if category.Name == models.DefaultCategoryName {
		return Invalid("Cannot update default category")
	}

	var existing models.Category
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return Conflict("Category already exists")
	}

	return s.db.Model(&category).Update("name", name).Error
}

// Delete removes a category, first reassigning its expenses to the default
// category, in one transaction. The default category is undeletable.
func (s *CategoryService) Delete(u *models.User, categoryID uint) error {
	if err := RequireAdmin(u); err != nil {
		return err
	}

	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return NotFound("Category not found")
	}
	if category.Name == models.DefaultCategoryName {
		return Invalid("Cannot delete default category")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Expense{}).
			Where("category_id = ?", category.ID).
			Update("category_id", models.DefaultCategoryID).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}
