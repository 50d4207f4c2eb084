package router

import (
	"time"

	"teamspend/api"
	"teamspend/config"
	_ "teamspend/docs"
	"teamspend/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter wires the HTTP routes.
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	r.Use(CORSMiddleware())

	authHandler := api.NewAuthHandler(db, cfg)
	expenseHandler := api.NewExpenseHandler(db)
	statisticsHandler := api.NewStatisticsHandler(db)
	categoryHandler := api.NewCategoryHandler(db)
	teamHandler := api.NewTeamHandler(db)
	userHandler := api.NewUserHandler(db)
	exportHandler := api.NewExportHandler(db)

	// Credential endpoints get a per-IP rate limit.
	loginLimit := middleware.LoginRateLimit(10, time.Minute)
	r.POST("/register", loginLimit, authHandler.Register)
	r.POST("/token", loginLimit, authHandler.Token)
	r.POST("/reset-password", authHandler.ResetPassword)
	r.POST("/check-token", authHandler.CheckToken)
	r.POST("/refresh-token", authHandler.RefreshToken)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	authorized := r.Group("/api")
	authorized.Use(middleware.JWTAuth(db))
	{
		categories := authorized.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}
		authorized.GET("/admin/categories", categoryHandler.AdminList)

		expenses := authorized.Group("/expenses")
		{
			expenses.GET("", expenseHandler.List)
			expenses.POST("", expenseHandler.Create)

			statistics := expenses.Group("/statistics")
			{
				statistics.GET("/total-spendings", statisticsHandler.TotalSpendings)
				statistics.GET("/category/:id", statisticsHandler.CategoryPeriod)
				statistics.GET("/monthly-comparison", statisticsHandler.MonthlyComparison)
				statistics.GET("/yearly-comparison", statisticsHandler.YearlyComparison)
				statistics.GET("/category-spendings", statisticsHandler.CategorySpendings)
			}

			expenses.GET("/:id", expenseHandler.Get)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		team := authorized.Group("/team")
		{
			team.GET("", teamHandler.MyTeam)
			team.GET("/all", teamHandler.All)
			team.GET("/users", teamHandler.UsersWithoutTeam)
			team.POST("/create", teamHandler.Create)
			team.DELETE("/delete", teamHandler.Delete)
			team.POST("", teamHandler.AddMember)
			team.DELETE("", teamHandler.RemoveMember)
			team.GET("/expenses", teamHandler.Expenses)
			team.GET("/expenses/by-category", teamHandler.ExpensesByCategory)
		}

		users := authorized.Group("/users")
		{
			users.GET("", userHandler.List)
			users.PUT("/approve/:id", userHandler.Approve)
			users.PUT("/change-role/:id", userHandler.ChangeRole)
			users.DELETE("/:id", userHandler.Delete)
		}

		export := authorized.Group("/export")
		{
			export.GET("/csv", exportHandler.CSV)
			export.GET("/json", exportHandler.JSON)
		}
		authorized.GET("/admin/export/excel", exportHandler.Excel)
	}

	return r
}

// CORSMiddleware allows cross-origin requests from any origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
