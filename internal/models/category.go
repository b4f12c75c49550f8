package models

import (
	"fmt"
	"strings"

	"github.com/finsight/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultCategoryIcon  = "📁"
	DefaultCategoryColor = "#6366f1"
)

// Category is a label for transactions of one kind.
//
// Transactions and recurring transactions reference categories by name.
type Category struct {
	DefaultModel
	OwnerID   uuid.UUID  `gorm:"uniqueIndex:category_owner_name_kind"`
	Name      string     `gorm:"uniqueIndex:category_owner_name_kind"`
	Kind      types.Kind `gorm:"uniqueIndex:category_owner_name_kind"`
	Icon      string
	Color     string
	IsDefault bool // Created from the default category set
}

func (c Category) Self() string {
	return "Category"
}

// BeforeSave trims whitespace, sets defaults for icon and color
// and validates the category.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Icon = strings.TrimSpace(c.Icon)
	c.Color = strings.TrimSpace(c.Color)

	if c.Icon == "" {
		c.Icon = DefaultCategoryIcon
	}

	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}

	if c.OwnerID == uuid.Nil {
		return ErrOwnerMissing
	}

	if c.Name == "" {
		return ErrNameEmpty
	}

	if !c.Kind.Valid() {
		return fmt.Errorf("%w, got '%s'", types.ErrInvalidKind, c.Kind)
	}

	return nil
}

// InUse reports if any transaction of the owner uses the category.
func (c Category) InUse(db *gorm.DB) (bool, error) {
	var count int64
	err := db.Model(&Transaction{}).Where(&Transaction{
		OwnerID:  c.OwnerID,
		Category: c.Name,
		Kind:     c.Kind,
	}).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// DefaultCategories returns the categories every owner starts with.
func DefaultCategories(ownerID uuid.UUID) []Category {
	defaults := []struct {
		name  string
		kind  types.Kind
		icon  string
		color string
	}{
		{"Salary", types.Income, "💰", "#10b981"},
		{"Freelance", types.Income, "💼", "#3b82f6"},
		{"Business", types.Income, "🏢", "#8b5cf6"},
		{"Investment Returns", types.Income, "📈", "#06b6d4"},
		{"Rental Income", types.Income, "🏠", "#84cc16"},
		{"Side Hustle", types.Income, "🚀", "#14b8a6"},
		{"Gift/Bonus", types.Income, "🎁", "#ec4899"},
		{"Refunds", types.Income, "↩️", "#f59e0b"},

		{"Food & Dining", types.Expense, "🍔", "#ef4444"},
		{"Transport", types.Expense, "🚗", "#f59e0b"},
		{"Shopping", types.Expense, "🛍️", "#ec4899"},
		{"Bills & Utilities", types.Expense, "📱", "#6366f1"},
		{"Entertainment", types.Expense, "🎬", "#8b5cf6"},
		{"Healthcare", types.Expense, "🏥", "#14b8a6"},
		{"Education", types.Expense, "📚", "#0ea5e9"},
		{"Rent/EMI", types.Expense, "🏠", "#f97316"},
		{"Other", types.Expense, "💸", "#64748b"},
	}

	categories := make([]Category, 0, len(defaults))
	for _, d := range defaults {
		categories = append(categories, Category{
			OwnerID:   ownerID,
			Name:      d.name,
			Kind:      d.kind,
			Icon:      d.icon,
			Color:     d.color,
			IsDefault: true,
		})
	}

	return categories
}

// SeedDefaultCategories creates all default categories the owner does not have yet.
// It returns the number of created categories.
func SeedDefaultCategories(db *gorm.DB, ownerID uuid.UUID) (int, error) {
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, category := range DefaultCategories(ownerID) {
			var count int64
			err := tx.Model(&Category{}).Where(&Category{
				OwnerID: ownerID,
				Name:    category.Name,
				Kind:    category.Kind,
			}).Count(&count).Error
			if err != nil {
				return err
			}

			if count > 0 {
				continue
			}

			err = tx.Create(&category).Error
			if err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, GeneralError(err)
	}

	return created, nil
}
