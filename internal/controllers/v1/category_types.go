package v1

import (
	"fmt"
	neturl "net/url"

	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// CategoryEditable represents all user configurable parameters
type CategoryEditable struct {
	Name  string     `json:"name" example:"Food & Dining"` // Name of the category, unique per kind
	Kind  types.Kind `json:"kind" example:"expense"`       // income or expense
	Icon  string     `json:"icon" example:"🍔" default:"📁"` // Icon of the category
	Color string     `json:"color" example:"#ef4444" default:"#6366f1"`
}

func (editable CategoryEditable) model() models.Category {
	return models.Category{
		Name:  editable.Name,
		Kind:  editable.Kind,
		Icon:  editable.Icon,
		Color: editable.Color,
	}
}

type CategoryLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"`                // The category itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?category=Food%20%26%20Dining&kind=expense"` // Transactions in this category
}

type Category struct {
	models.DefaultModel
	CategoryEditable
	IsDefault bool          `json:"isDefault" example:"true"` // Is this one of the default categories?
	Links     CategoryLinks `json:"links"`
}

func newCategory(c *gin.Context, model models.Category) Category {
	url := c.GetString(string(models.DBContextURL))

	return Category{
		DefaultModel: model.DefaultModel,
		CategoryEditable: CategoryEditable{
			Name:  model.Name,
			Kind:  model.Kind,
			Icon:  model.Icon,
			Color: model.Color,
		},
		IsDefault: model.IsDefault,
		Links: CategoryLinks{
			Self:         fmt.Sprintf("%s/v1/categories/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?%s", url, neturl.Values{"category": {model.Name}, "kind": {string(model.Kind)}}.Encode()),
		},
	}
}

type CategoryListResponse struct {
	Data  []Category `json:"data"`                                                          // List of categories
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryResponse struct {
	Data  *Category `json:"data"`                                                          // Data for the category
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryQueryFilter struct {
	Kind string `form:"kind"` // By kind
}

// CategoryDefaultsResponse is the result of seeding the default categories.
type CategoryDefaultsResponse struct {
	Data  *CategoryDefaults `json:"data"`                                                                // Result of the seeding
	Error *string           `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}

type CategoryDefaults struct {
	Created    int        `json:"created" example:"17"` // Number of created categories
	Categories []Category `json:"categories"`           // All categories of the user after seeding
}
