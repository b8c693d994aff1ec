package routes

import (
	"backend/configs"
	"backend/controllers"
	"backend/middlewares"
	"backend/repository"
	"backend/services"
	"backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *configs.Config, hub *ws.ReviewHub) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	userRepo := repository.NewUserRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	categoryRepo := repository.NewMenuCategoryRepository(db)
	itemRepo := repository.NewMenuItemRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Services
	ratingSvc := services.NewRatingService(reviewRepo, itemRepo, restaurantRepo)
	authSvc := services.NewAuthService(userRepo)
	restaurantSvc := services.NewRestaurantService(restaurantRepo, itemRepo, rdb)
	menuSvc := services.NewMenuService(categoryRepo, itemRepo, restaurantRepo, ratingSvc)
	reviewSvc := services.NewReviewService(reviewRepo, itemRepo, restaurantRepo, ratingSvc, hub, rdb)
	adminSvc := services.NewAdminService(userRepo, restaurantRepo, itemRepo, reviewRepo)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc, cfg)
	restCtrl := controllers.NewRestaurantController(restaurantSvc)
	menuCtrl := controllers.NewMenuController(menuSvc)
	reviewCtrl := controllers.NewReviewController(reviewSvc)
	userCtrl := controllers.NewUserController(userRepo, reviewRepo)
	adminCtrl := controllers.NewAdminController(adminSvc, reviewSvc)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}

	// Auth (protected)
	aAuth := a.Group("", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		aAuth.GET("/me", authCtrl.Me)
		aAuth.PATCH("/me", authCtrl.UpdateMe)
	}

	// Public browse
	r.GET("/restaurants", restCtrl.List)
	r.GET("/restaurants/:id", restCtrl.Detail)
	r.GET("/menu-items", menuCtrl.SearchItems)
	r.GET("/menu-items/:id", menuCtrl.ItemDetail)
	r.GET("/menu-items/:id/reviews", middlewares.OptionalAuth(cfg.JWTSecret), reviewCtrl.ListForMenuItem)
	r.GET("/users/:id", userCtrl.Profile)

	// Reviews (user)
	u := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		u.POST("/reviews", reviewCtrl.Create)
		u.PATCH("/reviews/:id", reviewCtrl.Update)
		u.DELETE("/reviews/:id", reviewCtrl.Delete)
		u.POST("/reviews/:id/helpful", reviewCtrl.VoteHelpful)
		u.POST("/reviews/:id/flag", reviewCtrl.Flag)
		u.POST("/reviews/:id/respond", reviewCtrl.Respond)
	}

	// Profile
	profile := r.Group("/profile", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		profile.GET("/reviews", userCtrl.MyReviews)
	}

	// Partner (owner/admin)
	partner := r.Group("/partner", middlewares.AuthMiddleware(cfg.JWTSecret, "owner", "admin"))
	{
		partner.GET("/restaurants", restCtrl.ListForMe)
		partner.POST("/restaurants", restCtrl.Create)
		partner.PATCH("/restaurants/:id", restCtrl.Update)
		partner.GET("/restaurants/:id/dashboard", restCtrl.Dashboard)

		partner.POST("/categories", menuCtrl.CreateCategory)
		partner.PATCH("/categories/:id", menuCtrl.UpdateCategory)
		partner.DELETE("/categories/:id", menuCtrl.DeleteCategory)

		partner.POST("/menu-items", menuCtrl.CreateItem)
		partner.PATCH("/menu-items/:id", menuCtrl.UpdateItem)
		partner.DELETE("/menu-items/:id", menuCtrl.DeleteItem)
	}

	// Admin (admin only)
	admin := r.Group("/admin", middlewares.AuthMiddleware(cfg.JWTSecret, "admin"))
	{
		admin.GET("/dashboard", adminCtrl.Dashboard)
		admin.GET("/users", adminCtrl.Users)
		admin.PATCH("/users/:id/role", adminCtrl.SetUserRole)
		admin.PATCH("/restaurants/:id", adminCtrl.ModerateRestaurant)
		admin.GET("/reviews", adminCtrl.ReviewQueue)
		admin.PATCH("/reviews/:id", adminCtrl.ModerateReview)
		admin.DELETE("/reviews/:id", adminCtrl.DeleteReview)
	}

	// Realtime
	r.GET("/ws/reviews", middlewares.WSAuthMiddleware(cfg.JWTSecret), hub.HandleWebSocket)
}
