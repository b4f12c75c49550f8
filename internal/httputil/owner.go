package httputil

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OwnerHeader is set by the authenticating proxy in front of the API.
const OwnerHeader = "X-User-ID"

// OwnerFromRequest parses the owner of the request from the OwnerHeader.
func OwnerFromRequest(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.GetHeader(OwnerHeader))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrOwnerRequired
	}

	return id, nil
}
