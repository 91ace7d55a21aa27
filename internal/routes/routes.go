package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SynilogicTeam/kundliGen/internal/auth"
	"github.com/SynilogicTeam/kundliGen/internal/config"
	"github.com/SynilogicTeam/kundliGen/internal/email"
	"github.com/SynilogicTeam/kundliGen/internal/handlers"
	"github.com/SynilogicTeam/kundliGen/internal/middleware"
	"github.com/SynilogicTeam/kundliGen/internal/store"
	"github.com/SynilogicTeam/kundliGen/internal/throttle"
)

func Register(router *gin.Engine, db *gorm.DB, cfg config.Config, cooldown throttle.Cooldown) {
	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "kundligen-backend"})
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := store.NewUsers(db)
	admins := store.NewAdmins(db)
	configs := store.NewConfigs(db)
	reports := store.NewReports(db)

	mailer := email.NewSMTPMailer(email.Settings{
		Host:     cfg.SmtpHost,
		Port:     cfg.SmtpPort,
		Username: cfg.SmtpUser,
		Password: cfg.SmtpPass,
		From:     cfg.SmtpFrom,
	}, configs)

	svc := auth.New(auth.Deps{
		Users:    users,
		Admins:   admins,
		Mailer:   mailer,
		Config:   configs,
		Cooldown: cooldown,
		Secret:   cfg.JwtSecret,
		OTPTTL:   time.Duration(cfg.OtpMinutes) * time.Minute,
		TokenTTL: time.Duration(cfg.TokenDays) * 24 * time.Hour,
	})

	authHandler := handlers.NewAuthHandler(svc, users)
	adminHandler := handlers.NewAdminHandler(svc, admins)
	usersHandler := handlers.NewUsersHandler(users)
	configHandler := handlers.NewConfigHandler(configs)
	reportHandler := handlers.NewReportHandler(reports)

	userAuth := middleware.AuthRequired(cfg.JwtSecret, users)
	adminAuth := middleware.AdminRequired(cfg.JwtSecret, admins)

	api := router.Group("/api")

	userAPI := api.Group("/users")
	{
		userAPI.POST("/register", authHandler.Register)
		userAPI.POST("/login", authHandler.Login)
		userAPI.POST("/verify-registration-otp", authHandler.VerifyRegistrationOTP)
		userAPI.POST("/resend-registration-otp", authHandler.ResendRegistrationOTP)
		userAPI.POST("/forgot-password", authHandler.ForgotPassword)
		userAPI.POST("/verify-reset-otp", authHandler.VerifyResetOTP)
		userAPI.POST("/reset-password", authHandler.ResetPassword)
		userAPI.POST("/resend-reset-otp", authHandler.ResendResetOTP)

		userAPI.POST("/change-password", userAuth, authHandler.ChangePassword)
		userAPI.GET("/profile", userAuth, authHandler.GetProfile)
		userAPI.PUT("/profile", userAuth, authHandler.UpdateProfile)

		userAPI.GET("/", adminAuth, usersHandler.List)
		userAPI.GET("/:id", adminAuth, usersHandler.Get)
		userAPI.PUT("/:id", adminAuth, usersHandler.Update)
		userAPI.DELETE("/:id", adminAuth, usersHandler.Delete)
	}

	adminAPI := api.Group("/auth/admin")
	{
		adminAPI.POST("/login", adminHandler.Login)
		adminAPI.POST("/logout", adminAuth, adminHandler.Logout)
		adminAPI.POST("/", adminAuth, adminHandler.Create)
		adminAPI.GET("/", adminAuth, adminHandler.GetSelf)
		adminAPI.GET("/all", adminAuth, adminHandler.List)
		adminAPI.PUT("/:id", adminAuth, adminHandler.Update)
		adminAPI.DELETE("/:id", adminAuth, adminHandler.Delete)
	}

	configAPI := api.Group("/config")
	{
		configAPI.GET("/", adminAuth, configHandler.Get)
		configAPI.PUT("/", adminAuth, configHandler.Update)
	}

	reportAPI := api.Group("/reports")
	{
		reportAPI.GET("/", reportHandler.ListActive)
		reportAPI.GET("/all", adminAuth, reportHandler.List)
		reportAPI.GET("/:id", reportHandler.Get)
		reportAPI.POST("/", adminAuth, reportHandler.Create)
		reportAPI.PUT("/:id", adminAuth, reportHandler.Update)
		reportAPI.DELETE("/:id", adminAuth, reportHandler.Delete)
	}
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
