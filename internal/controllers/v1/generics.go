package v1

import (
	"github.com/finsight/backend/internal/httputil"
	"github.com/finsight/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type ownedResource interface {
	models.RecurringTransaction | models.Transaction | models.Category | models.Budget
}

// getOwnedResource binds the ID from the URI and loads the resource of the
// authenticated owner. Resources of other owners are reported as not found.
//
// If an error occurs, the response is written and ok is false.
func getOwnedResource[R ownedResource](c *gin.Context) (resource R, ok bool) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return resource, false
	}

	err = models.DB.Where("owner_id = ?", owner(c)).First(&resource, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return resource, false
	}

	return resource, true
}

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
func resourceOptionsDetail[R ownedResource](c *gin.Context) {
	if _, ok := getOwnedResource[R](c); !ok {
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// paginate returns the page of resources starting at offset with at most limit entries.
// A negative limit returns all resources after the offset.
func paginate[T any](resources []T, offset uint, limit int) []T {
	if int(offset) >= len(resources) {
		return []T{}
	}

	resources = resources[offset:]
	if limit >= 0 && limit < len(resources) {
		resources = resources[:limit]
	}

	return resources
}
