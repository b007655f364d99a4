package handlers

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"
	"time"

	"buildquote/models"
	"buildquote/repository"
	"buildquote/services"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func bindPayload(c *gin.Context) (models.RFQPayload, bool) {
	var payload models.RFQPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return payload, false
	}
	if payload.RFQID == "" {
		payload.RFQID = repository.GenerateRFQID()
	}
	return payload, true
}

// DownloadRFQPDF godoc
// @Summary Render an RFQ payload as a PDF download
// @Tags rfq
// @Accept json
// @Produce application/pdf
// @Param payload body models.RFQPayload true "RFQ payload"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/rfq/pdf [post]
func DownloadRFQPDF() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := bindPayload(c)
		if !ok {
			return
		}
		pdfBytes, err := services.GenerateRFQPDF(payload, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF: " + err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.RFQID+".pdf"))
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	}
}

// DownloadRFQCSV godoc
// @Summary Render an RFQ payload as a CSV download
// @Description The CSV is the lossless export: every field verbatim, no truncation, no row limit.
// @Tags rfq
// @Accept json
// @Produce text/csv
// @Param payload body models.RFQPayload true "RFQ payload"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Router /api/rfq/csv [post]
func DownloadRFQCSV() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := bindPayload(c)
		if !ok {
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.RFQID+".csv"))
		c.Data(http.StatusOK, "text/csv", services.GenerateRFQCSV(payload))
	}
}

// DownloadRFQXLSX godoc
// @Summary Render an RFQ payload as a spreadsheet download
// @Tags rfq
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param payload body models.RFQPayload true "RFQ payload"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/rfq/xlsx [post]
func DownloadRFQXLSX() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := bindPayload(c)
		if !ok {
			return
		}
		xlsxBytes, err := services.GenerateRFQXLSX(payload, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate spreadsheet: " + err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.RFQID+".xlsx"))
		c.Data(http.StatusOK, xlsxContentType, xlsxBytes)
	}
}

// RFQLabel godoc
// @Summary Render a printable QR label for a sent RFQ
// @Description Returns a JPEG label carrying the RFQ reference as a QR code with the builder and supplier names underneath, for stapling to the site copy.
// @Tags rfq
// @Produce image/jpeg
// @Param rfqId query string true "RFQ reference"
// @Param builder query string false "Builder name"
// @Param supplier query string false "Supplier name"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/rfq/label [get]
func RFQLabel() gin.HandlerFunc {
	return func(c *gin.Context) {
		rfqID := c.Query("rfqId")
		if !repository.IsRFQID(rfqID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid RFQ reference"})
			return
		}

		qr, err := qrcode.New(rfqID, qrcode.Medium)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code: " + err.Error()})
			return
		}

		qrImg := qr.Image(512)
		canvas := image.NewRGBA(image.Rect(0, 0, 512, 640))
		draw.Draw(canvas, canvas.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
		draw.Draw(canvas, image.Rect(0, 0, 512, 512), qrImg, image.Point{}, draw.Over)

		addLabelBold(canvas, 20, 530, rfqID)
		y := 550
		if builder := c.Query("builder"); builder != "" {
			addLabel(canvas, 20, y, "From: "+builder)
			y += 18
		}
		if supplier := c.Query("supplier"); supplier != "" {
			addLabel(canvas, 20, y, "To: "+supplier)
			y += 18
		}
		if items := c.Query("items"); items != "" {
			addLabel(canvas, 20, y, "Items: "+items)
			y += 18
		}
		addLabel(canvas, 20, y, "Sent: "+time.Now().Format("02/01/2006"))

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: 90}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode label: " + err.Error()})
			return
		}
		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}

func addLabel(img *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: inconsolata.Regular8x16,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}

func addLabelBold(img *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: inconsolata.Bold8x16,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}
