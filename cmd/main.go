package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/app"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/authctx"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/config"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/controllers"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/repositories"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/services"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/tokens"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	codec, err := tokens.NewCodec(cfg.AudienceConfigs())
	if err != nil {
		utils.Logger.Fatal("Failed to build token codec:", err)
	}

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	userRepo := repositories.NewUserRepository(application.DB)
	familyRepo := repositories.NewFamilyRepository(application.DB)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	notifier := services.NewNotificationService(cfg)
	authService := services.NewAuthService(userRepo, codec, application.Revocations, notifier)

	enhancer := authctx.NewEnhancer(codec, application.Revocations, userRepo, familyRepo)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	authController := controllers.NewAuthController(authService)
	familyController := controllers.NewFamilyController(authService, userRepo, familyRepo)
	healthController := controllers.NewHealthController(application)

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()

	// Health
	router.HandleFunc("/health", healthController.HealthCheckHandler).Methods("GET")
	router.HandleFunc("/health/revocations", healthController.RevocationStatsHandler).Methods("GET")

	// /auth/v1 — every endpoint goes through the enhancer exactly once; the
	// guard functions inside each handler decide what it requires.
	authRouter := router.PathPrefix("/auth").Subrouter()
	v1Router := authRouter.PathPrefix("/v1").Subrouter()
	v1Router.Use(authctx.Middleware(enhancer))

	v1Router.HandleFunc("/login", authController.Login).Methods("POST")
	v1Router.HandleFunc("/refresh_token", authController.RefreshToken).Methods("POST")
	v1Router.HandleFunc("/logout", authController.Logout).Methods("POST")
	v1Router.HandleFunc("/password_reset/request", authController.RequestPasswordReset).Methods("POST")
	v1Router.HandleFunc("/email_verification/request", authController.RequestEmailVerification).Methods("POST")

	v1Router.HandleFunc("/family", familyController.GetFamily).Methods("GET")
	v1Router.HandleFunc("/family", familyController.DeleteFamily).Methods("DELETE")
	v1Router.HandleFunc("/family/invite", familyController.InviteMember).Methods("POST")
	v1Router.HandleFunc("/family/members/{userID}", familyController.RemoveMember).Methods("DELETE")

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
