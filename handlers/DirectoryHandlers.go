package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"buildquote/models"
	"buildquote/storage"

	"github.com/gin-gonic/gin"
)

// ListSuppliers godoc
// @Summary List supplier directory entries
// @Description Returns one page of the Southwest WA supplier directory, filterable by region, trade type and free-text search.
// @Tags directory
// @Produce json
// @Param region query string false "Region filter"
// @Param trade_type query string false "Trade type filter"
// @Param search query string false "Search in name, description and category"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} models.PaginatedResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/directory [get]
func ListSuppliers(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
		if err != nil || pageSize < 1 {
			pageSize = 20
		}
		if pageSize > 100 {
			pageSize = 100
		}

		suppliers, total, err := storage.QuerySuppliers(db,
			c.Query("region"), c.Query("trade_type"), c.Query("search"), page, pageSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suppliers: " + err.Error()})
			return
		}
		if suppliers == nil {
			suppliers = []models.Supplier{}
		}

		totalPages := (total + pageSize - 1) / pageSize
		c.JSON(http.StatusOK, models.PaginatedResponse{
			Data: suppliers,
			Pagination: models.Pagination{
				CurrentPage:  page,
				PageSize:     pageSize,
				TotalRecords: total,
				TotalPages:   totalPages,
				HasNext:      page < totalPages,
				HasPrev:      page > 1,
			},
		})
	}
}

// ListSupplierRegions godoc
// @Summary List directory regions with supplier counts
// @Tags directory
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 500 {object} models.ErrorResponse
// @Router /api/directory/regions [get]
func ListSupplierRegions(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		regions, err := storage.QuerySupplierRegions(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch regions: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, regions)
	}
}
