package v1

import (
	"net/http"

	"github.com/finsight/backend/internal/httputil"
	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCategoryList)
		r.GET("", GetCategories)
		r.POST("", CreateCategory)
		r.OPTIONS("/defaults", OptionsCategoryDefaults)
		r.POST("/defaults", CreateDefaultCategories)
	}

	// Category with ID
	{
		r.OPTIONS("/:id", OptionsCategoryDetail)
		r.GET("/:id", GetCategory)
		r.PATCH("/:id", UpdateCategory)
		r.DELETE("/:id", DeleteCategory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories [options]
func OptionsCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories/defaults [options]
func OptionsCategoryDefaults(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id} [options]
func OptionsCategoryDetail(c *gin.Context) {
	resourceOptionsDetail[models.Category](c)
}

// @Summary		Create category
// @Description	Creates a new category. Category names are unique per kind.
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Success		201			{object}	CategoryResponse
// @Failure		400			{object}	CategoryResponse
// @Failure		401			{object}	httpError
// @Failure		500			{object}	CategoryResponse
// @Param			category	body		CategoryEditable	true	"Category"
// @Router			/v1/categories [post]
func CreateCategory(c *gin.Context) {
	var editable CategoryEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryResponse{
			Error: &s,
		})
		return
	}

	category := editable.model()
	category.OwnerID = owner(c)

	err = models.DB.Create(&category).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryResponse{
			Error: &s,
		})
		return
	}

	data := newCategory(c, category)
	c.JSON(http.StatusCreated, CategoryResponse{Data: &data})
}

// @Summary		Create default categories
// @Description	Creates all default categories the user does not have yet
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryDefaultsResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	CategoryDefaultsResponse
// @Router			/v1/categories/defaults [post]
func CreateDefaultCategories(c *gin.Context) {
	created, err := models.SeedDefaultCategories(models.DB, owner(c))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryDefaultsResponse{
			Error: &s,
		})
		return
	}

	categories, err := ownerCategories(c, owner(c), "")
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryDefaultsResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CategoryDefaultsResponse{Data: &CategoryDefaults{
		Created:    created,
		Categories: categories,
	}})
}

// @Summary		Get categories
// @Description	Returns the categories of the user ordered by kind and name
// @Tags			Categories
// @Produce		json
// @Success		200		{object}	CategoryListResponse
// @Failure		400		{object}	CategoryListResponse
// @Failure		401		{object}	httpError
// @Failure		500		{object}	CategoryListResponse
// @Param			kind	query		string	false	"Filter by kind"
// @Router			/v1/categories [get]
func GetCategories(c *gin.Context) {
	var filter CategoryQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.ShouldBindQuery(&filter)

	var kind types.Kind
	if filter.Kind != "" {
		k, err := types.ParseKind(filter.Kind)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), CategoryListResponse{
				Error: &s,
			})
			return
		}
		kind = k
	}

	data, err := ownerCategories(c, owner(c), kind)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryListResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CategoryListResponse{Data: data})
}

// ownerCategories returns all categories of the owner. If kind is set,
// only categories of this kind are returned.
func ownerCategories(c *gin.Context, ownerID uuid.UUID, kind types.Kind) ([]Category, error) {
	var categories []models.Category
	err := models.DB.
		Where(&models.Category{OwnerID: ownerID, Kind: kind}).
		Order("kind ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	data := make([]Category, 0, len(categories))
	for _, category := range categories {
		data = append(data, newCategory(c, category))
	}

	return data, nil
}

// @Summary		Get category
// @Description	Returns a specific category
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryResponse
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id} [get]
func GetCategory(c *gin.Context) {
	category, ok := getOwnedResource[models.Category](c)
	if !ok {
		return
	}

	data := newCategory(c, category)
	c.JSON(http.StatusOK, CategoryResponse{Data: &data})
}

// @Summary		Update category
// @Description	Updates the name, icon and color of an existing category. Only values to be updated need to be specified.
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Success		200			{object}	CategoryResponse
// @Failure		400			{object}	CategoryResponse
// @Failure		404			{object}	httpError
// @Failure		500			{object}	CategoryResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			category	body		CategoryEditable	true	"Category"
// @Router			/v1/categories/{id} [patch]
func UpdateCategory(c *gin.Context) {
	category, ok := getOwnedResource[models.Category](c)
	if !ok {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CategoryEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryResponse{
			Error: &s,
		})
		return
	}

	var data CategoryEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryResponse{
			Error: &s,
		})
		return
	}

	// The kind is fixed, transactions reference categories by name and kind
	for _, field := range updateFields {
		switch field {
		case "Name":
			category.Name = data.Name
		case "Icon":
			category.Icon = data.Icon
		case "Color":
			category.Color = data.Color
		}
	}

	err = models.DB.Save(&category).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryResponse{
			Error: &s,
		})
		return
	}

	r := newCategory(c, category)
	c.JSON(http.StatusOK, CategoryResponse{Data: &r})
}

// @Summary		Delete category
// @Description	Deletes a category. Categories that are used by transactions cannot be deleted.
// @Tags			Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id} [delete]
func DeleteCategory(c *gin.Context) {
	category, ok := getOwnedResource[models.Category](c)
	if !ok {
		return
	}

	inUse, err := category.InUse(models.DB)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if inUse {
		c.JSON(http.StatusBadRequest, httpError{
			Error: models.ErrCategoryInUse.Error(),
		})
		return
	}

	// Deleted permanently so that the name can be used again
	err = models.DB.Unscoped().Delete(&category).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
