package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/dominest-api/internal/handler"
	"github.com/noah-isme/dominest-api/internal/middleware"
	"github.com/noah-isme/dominest-api/internal/models"
	"github.com/noah-isme/dominest-api/internal/service"
	"github.com/noah-isme/dominest-api/pkg/config"
	"github.com/noah-isme/dominest-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/dominest-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/dominest-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by New.
type Handlers struct {
	Auth            *handler.AuthHandler
	Residents       *handler.ResidentHandler
	Documents       *handler.ResidentDocumentHandler
	Exports         *handler.ExportHandler
	RepeatSchedules *handler.RepeatScheduleHandler
	DayNotices      *handler.DayNoticeHandler
	Calendar        *handler.CalendarHandler
	Favorites       *handler.FavoriteHandler
	Parcels         *handler.ParcelHandler
	Todos           *handler.TodoHandler
	Metrics         *handler.MetricsHandler
}

// Options carries the cross-cutting dependencies of the engine.
type Options struct {
	Env                string
	APIPrefix          string
	AllowedOrigins     []string
	MaxMultipartMemory int64
	Logger             *zap.Logger
	Metrics            *service.MetricsService
	Tokens             middleware.TokenValidator
}

// New builds the gin engine with the global middleware chain and every route.
func New(opts Options, h Handlers) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}

	r := gin.New()
	if opts.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = opts.MaxMultipartMemory
	}
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	api.POST("/auth/login", h.Auth.Login)
	// Signed tokens authorise export downloads on their own.
	api.GET("/exports/download", h.Exports.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(opts.Tokens))
	secured.GET("/auth/me", h.Auth.Me)

	managers := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	residents := secured.Group("/residents")
	{
		residents.GET("", h.Residents.List)
		residents.POST("", managers, h.Residents.Create)
		residents.DELETE("", adminOnly, h.Residents.DeleteAll)
		residents.POST("/upload-excel", managers, h.Residents.UploadExcel)
		residents.POST("/export", managers, h.Exports.Export)
		residents.GET("/pdf", h.Documents.ListStatus)
		residents.POST("/pdf", managers, h.Documents.UploadBulk)
		residents.PATCH("/:id", managers, h.Residents.Update)
		residents.DELETE("/:id", managers, h.Residents.Delete)
		residents.GET("/:id/pdf", h.Documents.Read)
		residents.POST("/:id/pdf", managers, h.Documents.UploadOne)
	}

	secured.POST("/repeat-schedule", h.RepeatSchedules.Create)
	secured.POST("/repeat-schedule/:id/regenerate", h.RepeatSchedules.Regenerate)
	secured.GET("/all-repeat-schedule", h.RepeatSchedules.List)
	secured.GET("/detail/:repeatScheduleId", h.RepeatSchedules.Detail)

	secured.POST("/day-notices", h.DayNotices.Create)
	secured.GET("/day-notices", h.DayNotices.ListByDate)
	secured.DELETE("/day-notices/:id", h.DayNotices.Delete)

	secured.GET("/calendar/month", h.Calendar.Month)

	secured.GET("/favorites", h.Favorites.List)
	secured.POST("/favorites/:categoryId", h.Favorites.Toggle)

	parcels := secured.Group("/undelivered-parcel-posts")
	{
		parcels.POST("", h.Parcels.CreatePost)
		parcels.GET("/:postId", h.Parcels.GetPost)
		parcels.POST("/:postId/parcels", h.Parcels.AddParcel)
		parcels.PATCH("/:postId/parcels/:id", h.Parcels.UpdateParcel)
		parcels.DELETE("/:postId/parcels/:id", h.Parcels.DeleteParcel)
	}

	todo := secured.Group("/todo")
	{
		todo.POST("/save", h.Todos.Save)
		todo.PUT("/:todoId/check", h.Todos.Check)
		todo.GET("/list", h.Todos.List)
		todo.DELETE("/delete/:todoId", h.Todos.Delete)
		todo.GET("/user-name", h.Todos.UserNames)
	}

	return r
}
