package handlers

import (
	"errors"
	"io"
	"net/http"

	"buildquote/models"
	"buildquote/services"

	"github.com/gin-gonic/gin"
)

// draftError maps wizard service errors onto HTTP statuses. Step
// violations are conflicts, not bad requests: the client's view of the
// draft is stale, not malformed.
func draftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDraftNotFound), errors.Is(err, services.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrWrongStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidationBlocked):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGenerationFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailRejected), errors.Is(err, services.ErrEmailTransport):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateDraft godoc
// @Summary Start a new RFQ wizard session
// @Tags wizard
// @Produce json
// @Success 201 {object} models.RFQDraft
// @Router /api/wizard [post]
func CreateDraft(wizard *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusCreated, wizard.CreateDraft())
	}
}

// GetDraft godoc
// @Summary Fetch the current state of a wizard draft
// @Tags wizard
// @Produce json
// @Param draftId path string true "Draft ID"
// @Success 200 {object} models.RFQDraft
// @Failure 404 {object} models.ErrorResponse
// @Router /api/wizard/{draftId} [get]
func GetDraft(wizard *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := wizard.GetDraft(c.Param("draftId"))
		if err != nil {
			draftError(c, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

// UploadToDraft godoc
// @Summary Upload documents and attach extracted items to a draft
// @Description Runs extraction on each uploaded file and appends the results to the draft, advancing it to the review step. Per-file failures are reported alongside the updated draft.
// @Tags wizard
// @Accept multipart/form-data
// @Produce json
// @Param draftId path string true "Draft ID"
// @Param files formData file true "Documents to extract from (max 5, 5MB each)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/wizard/{draftId}/upload [post]
func UploadToDraft(wizard *services.WizardService, extract *services.ExtractService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Reject a dead draft before doing any extraction work.
		if _, err := wizard.GetDraft(c.Param("draftId")); err != nil {
			draftError(c, err)
			return
		}

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

		var extracted []models.LineItem
		var results []models.ParseFileResult
		for _, header := range files {
			result := models.ParseFileResult{Filename: header.Filename, Items: []models.LineItem{}}
			if header.Size > services.MaxUploadBytes {
				result.Error = services.ErrPayloadTooLarge.Error()
				results = append(results, result)
				continue
			}

			file, err := header.Open()
			if err != nil {
				result.Error = err.Error()
				results = append(results, result)
				continue
			}
			content, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				result.Error = err.Error()
				results = append(results, result)
				continue
			}

			items, err := extract.ExtractLineItems(c.Request.Context(), content, uploadMediaType(header))
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Items = items
				extracted = append(extracted, items...)
			}
			results = append(results, result)
		}

		draft, err := wizard.AttachItems(c.Param("draftId"), extracted)
		if err != nil {
			draftError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"draft": draft, "results": results})
	}
}

// SkipUpload godoc
// @Summary Skip the upload step and enter items manually
// @Tags wizard
// @Produce json
// @Param draftId path string true "Draft ID"
// @Success 200 {object} models.RFQDraft
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/wizard/{draftId}/skip-upload [post]
func SkipUpload(wizard *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := wizard.SkipUpload(c.Param("draftId"))
		if err != nil {
			draftError(c, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

// AddItem godoc
// @Summary Add a blank line item to a draft
// @Tags wizard
// @Produce json
// @Param draftId path string true "Draft ID"
// @Success 200 {object} models.RFQDraft
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/wizard/{draftId}/items [post]
func AddItem(wizard *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := wizard.AddItem(c.Param("draftId"))
		if err != nil {
			draftError(c, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

// UpdateItemField godoc
// @Summary Update one field of one line item
// @Tags wizard
// @Accept json
// @Produce json
// @Param draftId path string true "Draft ID"
// @Param itemId path string true "Item ID"
// @Param request body models.ItemFieldUpdateRequest true "Field name and new value"
// @Success 200 {object} models.RFQDraft
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/wizard/{draftId}/items/{itemId} [patch]
func UpdateItemField(wizard *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ItemFieldUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		draft, err := wizard.UpdateItemField(c.Param("draftId"), c.Param("itemId"), req.Field, req.Value)
		if err != nil {
			draftError(c, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

// RemoveItem godoc
// @Summary Remove one line item from a draft
// @Tags wizard
// @Produce json
// @Param draftId path string true "Draft ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} models.RFQDraft
// @Failure 404 {object} models.ErrorResponse
// @Router /api/wizard/{draftId}/items/{itemId} [delete]
func RemoveItem(wizard *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := wizard.RemoveItem(c.Param("draftId"), c.Param("itemId"))
		if err != nil {
			draftError(c, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

// StepBack godoc
// @Summary Move the wizard one step back without losing data
// @Tags wizard
// @Produce json
// @Param draftId path string true "Draft ID"
// @Success 200 {object} models.RFQDraft
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/wizard/{draftId}/back [post]
func StepBack(wizard *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := wizard.Back(c.Param("draftId"))
		if err != nil {
			draftError(c, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

// ContinueToSend godoc
// @Summary Advance a reviewed draft to the send step
// @Tags wizard
// @Produce json
// @Param draftId path string true "Draft ID"
// @Success 200 {object} models.RFQDraft
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/wizard/{draftId}/continue [post]
func ContinueToSend(wizard *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := wizard.ToSend(c.Param("draftId"))
		if err != nil {
			draftError(c, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

// UpdateDetails godoc
// @Summary Update builder, supplier and delivery details on a draft
// @Tags wizard
// @Accept json
// @Produce json
// @Param draftId path string true "Draft ID"
// @Param request body models.DetailsUpdateRequest true "Fields to update; absent fields are untouched"
// @Success 200 {object} models.RFQDraft
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/wizard/{draftId}/details [patch]
func UpdateDetails(wizard *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DetailsUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		draft, err := wizard.UpdateDetails(c.Param("draftId"), req)
		if err != nil {
			draftError(c, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

// SubmitDraft godoc
// @Summary Send the RFQ email with its PDF and CSV attachments
// @Description Runs the transactional send. On failure the draft stays at the send step with everything intact and can be resubmitted; a resubmit gets a fresh RFQ reference.
// @Tags wizard
// @Produce json
// @Param draftId path string true "Draft ID"
// @Success 200 {object} models.SendRFQResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/wizard/{draftId}/send [post]
func SubmitDraft(wizard *services.WizardService, sender *services.SendService) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := wizard.Submit(c.Param("draftId"), sender)
		if err != nil {
			draftError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SendRFQResponse{Success: true, RFQID: draft.RFQID})
	}
}

// ResetDraft godoc
// @Summary Reset a draft to a fresh upload step
// @Tags wizard
// @Produce json
// @Param draftId path string true "Draft ID"
// @Success 200 {object} models.RFQDraft
// @Failure 404 {object} models.ErrorResponse
// @Router /api/wizard/{draftId}/reset [post]
func ResetDraft(wizard *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := wizard.Reset(c.Param("draftId"))
		if err != nil {
			draftError(c, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}
