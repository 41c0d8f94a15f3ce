package v1

import (
	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
func resourceOptionsDetail[R models.Project | models.Unit | models.Resident | models.Staff | models.Technician | models.Ticket | models.Invoice | models.Payment | models.PayrollEntry | models.PMAdvance | models.AccountingNote | models.User](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&resource, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// fetchResource loads a resource by the ID in the URI and writes the
// error response when it cannot be found.
func fetchResource[R any](c *gin.Context, resource *R) bool {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return false
	}

	err = models.DB.First(resource, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return false
	}

	return true
}
