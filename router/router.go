package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/controllers"
	"github.com/AndroIssaq/kian-table-touch-main-sub000/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	menuCtrl := controllers.NewMenuController(db)
	requestCtrl := controllers.NewRequestController(db)
	loyaltyCtrl := controllers.NewLoyaltyController(db)
	accessCtrl := controllers.NewAccessController(db)
	reportCtrl := controllers.NewReportController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter for login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (no auth) --
	r.POST("/access/verify", accessCtrl.VerifyCode)

	r.GET("/tables", tableCtrl.GetAllTables)
	r.POST("/tables/:table_number/pick", tableCtrl.PickTable)

	r.GET("/menu", menuCtrl.GetAllMenuItems)
	r.GET("/menu/:item_id", menuCtrl.GetMenuItemByID)

	// Orders and waiter calls
	r.POST("/requests", requestCtrl.SubmitRequest)
	r.GET("/requests/:request_id", requestCtrl.GetRequestByID)

	// Loyalty
	r.POST("/loyalty/visit", loyaltyCtrl.RegisterVisit)
	r.GET("/loyalty/:user_id", loyaltyCtrl.GetAccount)
	r.POST("/loyalty/redeem", loyaltyCtrl.Redeem)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.EnhancedAuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)
	auth.POST("/logout", userCtrl.Logout)

	// KANBAN BOARD (staff/admin)
	auth.GET("/board", requestCtrl.GetBoard)
	auth.GET("/requests", requestCtrl.GetAllRequests)
	auth.PATCH("/requests/:request_id/status", requestCtrl.TransitionRequest)
	auth.DELETE("/requests/:request_id", requestCtrl.DeleteRequest)

	// LOYALTY (staff/admin)
	auth.GET("/loyalty", loyaltyCtrl.GetAllAccounts)
	auth.PATCH("/loyalty/:user_id/approval", loyaltyCtrl.SetApprovalStatus)
	auth.POST("/loyalty/reconcile-gifts", middlewares.RequireRole("admin"), loyaltyCtrl.ReconcileGifts)

	// MENU (staff/admin)
	auth.POST("/menu", menuCtrl.CreateMenuItem)
	auth.PATCH("/menu/:item_id", menuCtrl.UpdateMenuItem)
	auth.DELETE("/menu/:item_id", menuCtrl.DeleteMenuItem)

	// TABLES (staff/admin)
	auth.POST("/tables", middlewares.RequireRole("admin"), tableCtrl.CreateTable)
	auth.PATCH("/tables/:table_number/release", tableCtrl.ReleaseTable)

	// DAILY ACCESS CODE (staff/admin)
	auth.GET("/access/code", accessCtrl.GetTodayCode)
	auth.POST("/access/rotate", accessCtrl.RotateCode)

	// REPORTS (staff/admin)
	auth.GET("/reports/requests", reportCtrl.GetRequestStats)
	auth.GET("/reports/loyalty", reportCtrl.GetLoyaltyStats)
	auth.GET("/reports/catalog", reportCtrl.GetCatalogStats)

	// WebSocket endpoint for the board
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/board", controllers.BoardWSHandler)
	}

	return r
}
