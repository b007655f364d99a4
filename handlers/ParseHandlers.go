package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"buildquote/models"
	"buildquote/services"

	"github.com/gin-gonic/gin"
)

// extensionMediaTypes covers uploads whose multipart part arrives without
// a usable Content-Type header.
var extensionMediaTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".csv":  "text/csv",
	".txt":  "text/plain",
}

func uploadMediaType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if mt, ok := extensionMediaTypes[strings.ToLower(filepath.Ext(header.Filename))]; ok {
		return mt
	}
	return "text/plain"
}

// ParseFiles godoc
// @Summary Extract line items from uploaded documents
// @Description Accepts up to 5 files (PDF, image or text) and returns extracted line items per file plus a combined list in submission order. One file failing does not abort the batch.
// @Tags parse
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Documents to extract from (max 5, 5MB each)"
// @Success 200 {object} models.ParseResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/parse [post]
func ParseFiles(extract *services.ExtractService) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload: " + err.Error()})
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
			return
		}
		if len(files) > services.MaxFilesPerUpload {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Too many files, maximum is 5 per upload"})
			return
		}

		response := models.ParseResponse{Items: []models.LineItem{}}
		for _, header := range files {
			result := models.ParseFileResult{Filename: header.Filename, Items: []models.LineItem{}}

			// The size gate runs before the file is even read.
			if header.Size > services.MaxUploadBytes {
				result.Error = services.ErrPayloadTooLarge.Error()
				response.Results = append(response.Results, result)
				continue
			}

			items, err := extractOne(c, extract, header)
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Items = items
				response.Items = append(response.Items, items...)
			}
			response.Results = append(response.Results, result)
		}

		c.JSON(http.StatusOK, response)
	}
}

func extractOne(c *gin.Context, extract *services.ExtractService, header *multipart.FileHeader) ([]models.LineItem, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return extract.ExtractLineItems(c.Request.Context(), content, uploadMediaType(header))
}

// ParseManufacturerPage godoc
// @Summary Extract a product system from a manufacturer page
// @Description Reads one manufacturer product page URL and returns a structured product system with panels and accessories.
// @Tags parse
// @Accept json
// @Produce json
// @Param request body models.ParseManufacturerRequest true "Page URL and manufacturer name"
// @Success 200 {object} models.ProductSystem
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /api/parse/manufacturer [post]
func ParseManufacturerPage(extract *services.ExtractService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ParseManufacturerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		system, err := extract.ExtractProductSystem(c.Request.Context(), req.URL, req.ManufacturerName)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidInput):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrUpstreamTimeout):
				c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, system)
	}
}
