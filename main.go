package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	_ "buildquote/docs"
	"buildquote/handlers"
	"buildquote/services"
	"buildquote/storage"
	"buildquote/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// sweepRunning guards the draft sweep so overlapping cron fires never
// run it twice.
var sweepRunning int32

// draftMaxIdle is how long an untouched wizard draft survives before the
// sweep removes it.
const draftMaxIdle = 24 * time.Hour

// @title BuildQuote API
// @version 1.0
// @description RFQ wizard, line item extraction, supplier directory and manufacturer catalogue for Southwest WA builders.
// @BasePath /
func main() {
	db := storage.InitDB()
	defer db.Close()

	gormDB := storage.InitGormDB()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	if err := storage.EnsureDirectorySchema(db); err != nil {
		log.Fatal("Failed to ensure directory schema:", err)
	}
	if err := storage.SeedSuppliers(db, dataDir); err != nil {
		log.Fatal("Failed to seed supplier directory:", err)
	}

	manufacturers, err := storage.LoadManufacturers(dataDir)
	if err != nil {
		log.Fatal("Failed to load manufacturer catalogue:", err)
	}

	extract := services.NewExtractService(
		os.Getenv("ANTHROPIC_API_KEY"),
		os.Getenv("ANTHROPIC_MODEL"),
		os.Getenv("ANTHROPIC_BASE_URL"),
	)
	wizard := services.NewWizardService()
	sender := services.NewSendService(services.NewEmailService())

	// Daily sweep of abandoned wizard drafts
	c := cron.New()
	_, err = c.AddFunc("0 3 * * *", func() {
		if !atomic.CompareAndSwapInt32(&sweepRunning, 0, 1) {
			log.Println("Draft sweep already running, skipping this cycle")
			return
		}
		defer atomic.StoreInt32(&sweepRunning, 0)

		if removed := wizard.Cleanup(draftMaxIdle); removed > 0 {
			log.Printf("Draft sweep removed %d abandoned drafts", removed)
		}
	})
	if err != nil {
		log.Fatal("Failed to schedule draft sweep:", err)
	}
	c.Start()
	defer c.Stop()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Disposition"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, "ok", http.StatusOK)
	})

	// ==================== 1. ACCESS GATE ====================
	r.GET("/api/access/status", handlers.AccessStatus())
	r.POST("/api/access/verify", handlers.VerifyAccess())

	// ==================== 2. EXTRACTION ====================
	r.POST("/api/parse", handlers.ParseFiles(extract))
	r.POST("/api/parse/manufacturer", handlers.ParseManufacturerPage(extract))

	// ==================== 3. RFQ WIZARD ====================
	r.POST("/api/wizard", handlers.CreateDraft(wizard))
	r.GET("/api/wizard/:draftId", handlers.GetDraft(wizard))
	r.POST("/api/wizard/:draftId/upload", handlers.UploadToDraft(wizard, extract))
	r.POST("/api/wizard/:draftId/skip-upload", handlers.SkipUpload(wizard))
	r.POST("/api/wizard/:draftId/items", handlers.AddItem(wizard))
	r.PATCH("/api/wizard/:draftId/items/:itemId", handlers.UpdateItemField(wizard))
	r.DELETE("/api/wizard/:draftId/items/:itemId", handlers.RemoveItem(wizard))
	r.POST("/api/wizard/:draftId/back", handlers.StepBack(wizard))
	r.POST("/api/wizard/:draftId/continue", handlers.ContinueToSend(wizard))
	r.PATCH("/api/wizard/:draftId/details", handlers.UpdateDetails(wizard))
	r.POST("/api/wizard/:draftId/send", handlers.SubmitDraft(wizard, sender))
	r.POST("/api/wizard/:draftId/reset", handlers.ResetDraft(wizard))

	// ==================== 4. RFQ ARTIFACTS ====================
	r.POST("/api/rfq/pdf", handlers.DownloadRFQPDF())
	r.POST("/api/rfq/csv", handlers.DownloadRFQCSV())
	r.POST("/api/rfq/xlsx", handlers.DownloadRFQXLSX())
	r.GET("/api/rfq/label", handlers.RFQLabel())

	// ==================== 5. SUPPLIER DIRECTORY ====================
	r.GET("/api/directory", handlers.ListSuppliers(db))
	r.GET("/api/directory/regions", handlers.ListSupplierRegions(db))

	// ==================== 6. MANUFACTURER CATALOGUE ====================
	r.GET("/api/manufacturers", handlers.ListManufacturers(manufacturers))
	r.GET("/api/manufacturers/:slug", handlers.GetManufacturer(manufacturers, gormDB))
	r.GET("/api/manufacturers/:slug/systems/:systemSlug", handlers.GetSystem(manufacturers, gormDB))
	r.GET("/api/systems", handlers.ListCommunitySystems(gormDB))
	r.POST("/api/systems", handlers.SaveCommunitySystem(gormDB))

	// ==================== 7. DOCS ====================
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if _, err := strconv.Atoi(port); err != nil {
		log.Fatalf("Invalid PORT %q: %v", port, err)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("BuildQuote listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown:", err)
	}

	log.Println("Server exited")
}
