package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"readle/internal/models"
	"readle/internal/progress"
)

// currentUser pulls the user the loader middleware put on the context.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

func uintQuery(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

// criteriaFromQuery maps the dashboard's query parameters onto filter
// criteria. Absent parameters leave the zero value, which filters nothing.
func criteriaFromQuery(c *gin.Context) progress.Criteria {
	return progress.Criteria{
		Search:      c.Query("search"),
		Performance: progress.PerformanceBand(c.DefaultQuery("performance", string(progress.PerformanceAll))),
		Activity:    progress.ActivityBand(c.DefaultQuery("activity", string(progress.ActivityAll))),
		Sort:        progress.SortKey(c.DefaultQuery("sort", string(progress.SortNone))),
		Order:       progress.SortOrder(c.DefaultQuery("order", string(progress.OrderAsc))),
	}
}
