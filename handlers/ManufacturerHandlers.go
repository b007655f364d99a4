package handlers

import (
	"net/http"
	"time"

	"buildquote/models"
	"buildquote/repository"
	"buildquote/storage"
	"buildquote/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListManufacturers godoc
// @Summary List the manufacturer catalogue
// @Tags manufacturers
// @Produce json
// @Success 200 {array} models.Manufacturer
// @Router /api/manufacturers [get]
func ListManufacturers(manufacturers []models.Manufacturer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, manufacturers)
	}
}

// GetManufacturer godoc
// @Summary Fetch one manufacturer with its systems
// @Description Returns the catalogue entry plus any community-submitted systems for that manufacturer, flagged communityAdded.
// @Tags manufacturers
// @Produce json
// @Param slug path string true "Manufacturer slug"
// @Success 200 {object} models.Manufacturer
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/manufacturers/{slug} [get]
func GetManufacturer(manufacturers []models.Manufacturer, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		for _, m := range manufacturers {
			if m.Slug != slug {
				continue
			}

			community, err := storage.LoadCommunitySystems(gdb)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load community systems: " + err.Error()})
				return
			}

			// Copy the entry so community systems never leak into the
			// shared catalogue slice.
			out := m
			out.Systems = append([]models.ProductSystem{}, m.Systems...)
			for _, s := range community {
				if s.ManufacturerSlug == slug {
					out.Systems = append(out.Systems, s)
				}
			}

			c.JSON(http.StatusOK, out)
			return
		}

		utils.ErrorResponse(c, "Manufacturer not found", http.StatusNotFound)
	}
}

// GetSystem godoc
// @Summary Fetch one product system by manufacturer and system slug
// @Tags manufacturers
// @Produce json
// @Param slug path string true "Manufacturer slug"
// @Param systemSlug path string true "System slug"
// @Success 200 {object} models.ProductSystem
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/manufacturers/{slug}/systems/{systemSlug} [get]
func GetSystem(manufacturers []models.Manufacturer, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		systemSlug := c.Param("systemSlug")

		for _, m := range manufacturers {
			if m.Slug != slug {
				continue
			}
			for _, s := range m.Systems {
				if s.Slug == systemSlug {
					c.JSON(http.StatusOK, s)
					return
				}
			}
		}

		// Community submissions are searched after the static catalogue.
		community, err := storage.LoadCommunitySystems(gdb)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load community systems: " + err.Error()})
			return
		}
		for _, s := range community {
			if s.ManufacturerSlug == slug && s.Slug == systemSlug {
				c.JSON(http.StatusOK, s)
				return
			}
		}

		utils.ErrorResponse(c, "System not found", http.StatusNotFound)
	}
}

// ListCommunitySystems godoc
// @Summary List all community-submitted systems
// @Tags manufacturers
// @Produce json
// @Success 200 {array} models.ProductSystem
// @Failure 500 {object} models.ErrorResponse
// @Router /api/systems [get]
func ListCommunitySystems(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		systems, err := storage.LoadCommunitySystems(gdb)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load community systems: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, systems)
	}
}

// SaveCommunitySystem godoc
// @Summary Save a community-submitted product system
// @Description Appends one system to the community collection. Submissions are append-only; nothing is deduplicated or overwritten.
// @Tags manufacturers
// @Accept json
// @Produce json
// @Param request body models.SaveSystemRequest true "Manufacturer slug and system"
// @Success 201 {object} models.ProductSystem
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/systems [post]
func SaveCommunitySystem(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SaveSystemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		if req.System.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "System name is required"})
			return
		}

		system := req.System
		if system.Slug == "" {
			system.Slug = repository.Slugify(system.Name)
		}
		system.ManufacturerSlug = req.ManufacturerSlug
		system.CommunityAdded = true
		system.AddedAt = time.Now().Format(time.RFC3339)
		if system.Panels == nil {
			system.Panels = []models.SystemProduct{}
		}
		if system.Accessories == nil {
			system.Accessories = []models.SystemProduct{}
		}

		if err := storage.AppendCommunitySystem(gdb, system); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save system: " + err.Error()})
			return
		}

		c.JSON(http.StatusCreated, system)
	}
}
