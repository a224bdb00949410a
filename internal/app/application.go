package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"linkpage-backend/internal/card"
	"linkpage-backend/internal/config"
	"linkpage-backend/internal/crawler"
	"linkpage-backend/internal/handlers"
	"linkpage-backend/internal/middleware"
	"linkpage-backend/internal/models"
	"linkpage-backend/internal/repository"
	"linkpage-backend/internal/service"
	"linkpage-backend/pkg/cache"
	"linkpage-backend/pkg/logger"
)

type Application struct {
	cfg *config.Config

	db    *gorm.DB
	cache *cache.Cache

	pages  repository.PageRepository
	items  repository.ItemRepository
	drafts *service.DraftManager

	pageService   *service.PageService
	linkService   *service.LinkService
	uploadService *service.UploadService

	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config) (*Application, error) {
	app := &Application{cfg: cfg}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initCache()
	app.initServices()
	app.initRouter()

	app.server = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server listening", map[string]interface{}{
		"port": a.cfg.Port,
	})
	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	// Flush debounced drafts before the listener goes away; otherwise the
	// last quiet-period edits are lost.
	a.drafts.Flush(ctx)

	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	return a.cache.Close()
}

// Router exposes the gin engine for tests.
func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Page{},
		&models.PageItem{},
	); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	a.db = db
	return nil
}

func (a *Application) initCache() {
	c, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableCache)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
			"addr": a.cfg.RedisURL,
		})
		c, _ = cache.NewCache("", false)
	}
	a.cache = c
}

func (a *Application) initServices() {
	a.pages = repository.NewPageRepository(a.db)
	a.items = repository.NewItemRepository(a.db)

	cards := card.NewRegistry(card.DefaultRenderer{})
	a.pageService = service.NewPageService(a.pages, a.items, a.cache, cards)

	crawlClient := crawler.NewClient(a.cfg.CrawlerEndpoint, a.cfg.CrawlerTimeout)
	a.linkService = service.NewLinkService(crawlClient, a.pageService)

	a.uploadService = service.NewUploadService(a.cfg.UploadDir, a.cfg.MaxMediaSize, a.cfg.MaxAvatarSize)
	a.drafts = service.NewDraftManager(a.pageService, a.cfg.AutoSaveDebounce)
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger())

	pageHandler := handlers.NewPageHandler(a.pageService, a.drafts)
	itemHandler := handlers.NewItemHandler(a.pageService, a.linkService)
	uploadHandler := handlers.NewUploadHandler(a.uploadService)

	router.GET("/p/:slug", pageHandler.GetPublicPage)
	router.Static("/uploads", a.cfg.UploadDir)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
	{
		api.POST("/pages", pageHandler.CreatePage)
		api.GET("/me/page", pageHandler.GetMyPage)
		api.PATCH("/pages/:id/draft", pageHandler.SaveDraft)
		api.GET("/pages/:id/draft/status", pageHandler.DraftStatus)

		api.GET("/pages/:id/items", itemHandler.ListItems)
		api.POST("/pages/:id/items", itemHandler.AddItem)
		api.PATCH("/pages/:id/items/:itemID", itemHandler.UpdateItem)
		api.DELETE("/pages/:id/items/:itemID", itemHandler.DeleteItem)
		api.PATCH("/pages/:id/items/:itemID/active", itemHandler.ToggleItem)
		api.PUT("/pages/:id/items/order", itemHandler.ReorderItems)

		api.POST("/uploads", uploadHandler.Upload)
		api.DELETE("/uploads", uploadHandler.DeleteUpload)
	}

	a.router = router
}
