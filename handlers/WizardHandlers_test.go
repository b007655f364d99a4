package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"buildquote/models"
	"buildquote/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wizardRouter() (*gin.Engine, *services.WizardService) {
	gin.SetMode(gin.TestMode)
	wizard := services.NewWizardService()

	r := gin.New()
	r.POST("/api/wizard", CreateDraft(wizard))
	r.GET("/api/wizard/:draftId", GetDraft(wizard))
	r.POST("/api/wizard/:draftId/skip-upload", SkipUpload(wizard))
	r.POST("/api/wizard/:draftId/items", AddItem(wizard))
	r.PATCH("/api/wizard/:draftId/items/:itemId", UpdateItemField(wizard))
	r.DELETE("/api/wizard/:draftId/items/:itemId", RemoveItem(wizard))
	r.POST("/api/wizard/:draftId/back", StepBack(wizard))
	r.POST("/api/wizard/:draftId/continue", ContinueToSend(wizard))
	r.PATCH("/api/wizard/:draftId/details", UpdateDetails(wizard))
	return r, wizard
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, models.RFQDraft) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var draft models.RFQDraft
	if w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
	}
	return w, draft
}

func TestWizardHTTPFlow(t *testing.T) {
	r, _ := wizardRouter()

	w, draft := doJSON(t, r, http.MethodPost, "/api/wizard", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, draft.DraftID)
	assert.Equal(t, models.StepUpload, draft.Step)

	base := "/api/wizard/" + draft.DraftID

	w, draft = doJSON(t, r, http.MethodPost, base+"/skip-upload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StepReview, draft.Step)

	// Continue with no items is blocked.
	w, _ = doJSON(t, r, http.MethodPost, base+"/continue", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, draft = doJSON(t, r, http.MethodPost, base+"/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, draft.Items, 1)
	itemID := draft.Items[0].ID

	w, draft = doJSON(t, r, http.MethodPatch, base+"/items/"+itemID,
		models.ItemFieldUpdateRequest{Field: "qty", Value: "2 @ 3.6"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2 @ 3.6", draft.Items[0].Qty)

	w, draft = doJSON(t, r, http.MethodPost, base+"/continue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StepSend, draft.Step)

	mode := models.DeliveryModePickup
	w, draft = doJSON(t, r, http.MethodPatch, base+"/details",
		models.DetailsUpdateRequest{Delivery: &mode})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DeliveryModePickup, draft.Delivery)

	w, draft = doJSON(t, r, http.MethodPost, base+"/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StepReview, draft.Step)
	assert.Len(t, draft.Items, 1)

	w, _ = doJSON(t, r, http.MethodDelete, base+"/items/"+itemID, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWizardHTTPErrors(t *testing.T) {
	r, _ := wizardRouter()

	w, _ := doJSON(t, r, http.MethodGet, "/api/wizard/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A step violation is a conflict, not a bad request.
	_, draft := doJSON(t, r, http.MethodPost, "/api/wizard", nil)
	w, _ = doJSON(t, r, http.MethodPost, "/api/wizard/"+draft.DraftID+"/back", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
