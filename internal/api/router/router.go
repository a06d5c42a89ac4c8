package router

import (
	"net/http"
	"time"

	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "job-recommender-api",
		})
	})

	userHandler := handler.NewUserHandler(deps)
	recommenderHandler := handler.NewRecommenderHandler(deps)

	authRequired := AuthMiddleware(deps.Logger, deps.Tokens, deps.Storage)

	api := r.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("/signup", userHandler.SignUp)
			user.POST("/signin", userHandler.SignIn)
			user.GET("/signout", userHandler.SignOut)
			user.GET("/user_detail", authRequired, userHandler.GetUser)
			user.GET("/skills", authRequired, userHandler.GetSkills)
		}

		recommender := api.Group("/recommender", authRequired)
		{
			recommender.POST("/analyze", recommenderHandler.Analyze)
			recommender.GET("/matches", recommenderHandler.GetMatches)
		}
	}

	return r
}
