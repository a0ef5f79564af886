package main

import (
	"context"
	"fmt"
	"log"

	"rentora-server/config"
	"rentora-server/models"
	"rentora-server/routes"
	"rentora-server/services"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	cfg := config.Get()

	storage.InitializeDB()
	storage.InitializeRedis()
	routes.InitServices()

	if err := routes.Search().EnsureCollections(context.Background()); err != nil {
		log.Println("search: collection bootstrap failed:", err)
	}

	// Background queue worker shares the process with the HTTP server.
	worker := services.NewWorkerServer()
	mux := services.NewWorkerMux(services.NewMailer(), routes.Search())
	go func() {
		if err := worker.Run(mux); err != nil {
			log.Println("worker:", err)
		}
	}()

	scheduler := services.StartScheduler(storage.DB, services.NewNotificationService(routes.Jobs()))
	defer scheduler.Stop()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		origin := ctx.GetHeader("Origin")
		if cfg.CORSOrigin != "" {
			origin = cfg.CORSOrigin
		}
		ctx.Header("Access-Control-Allow-Origin", origin)
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)
	app.Use(utils.MetricsMiddleware)

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(cfg.EmailTokenSecret))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(cfg.AccessTokenSecret))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(cfg.RefreshTokenSecret))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	authed := []iris.Handler{accessTokenVerifierMiddleware, utils.BlocklistMiddleware}

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})
	app.Get("/metrics", utils.MetricsHandler())

	auth := app.Party("/api/v1/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/login", routes.Login)
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		auth.Post("/logout", accessTokenVerifierMiddleware, routes.Logout)
		auth.Post("/forgot-password", routes.ForgotPassword)
		auth.Post("/reset-password", resetTokenVerifierMiddleware, routes.ResetPassword)
	}

	users := app.Party("/api/v1/users", authed...)
	{
		users.Get("/me", routes.GetProfile)
		users.Patch("/me", routes.UpdateProfile)
		users.Post("/me/password", routes.ChangePassword)
		users.Get("/me/favorites", routes.ListFavorites)
		users.Post("/me/favorites/{id:uint}", routes.AddFavorite)
		users.Delete("/me/favorites/{id:uint}", routes.RemoveFavorite)
		users.Get("/me/dashboard", routes.UserDashboard)
		users.Get("/me/host-dashboard", utils.RequireRoles(models.RoleHost, models.RoleAdmin, models.RoleSuperAdmin), routes.HostDashboard)
	}

	properties := app.Party("/api/v1/properties")
	{
		properties.Get("/", routes.ListProperties)
		properties.Get("/featured", routes.FeaturedProperties)
		properties.Get("/meta", routes.PropertyMeta)
		properties.Get("/mine", append(authed, utils.RequireRoles(models.RoleHost, models.RoleAdmin, models.RoleSuperAdmin), routes.MyProperties)...)
		properties.Get("/{id:uint}", routes.GetProperty)
		properties.Get("/{id:uint}/reviews", routes.PropertyReviews)
		properties.Post("/", append(authed, utils.RequireRoles(models.RoleHost, models.RoleAdmin, models.RoleSuperAdmin), routes.CreateProperty)...)
		properties.Patch("/{id:uint}", append(authed, routes.UpdateProperty)...)
		properties.Delete("/{id:uint}", append(authed, routes.DeleteProperty)...)
	}

	bookings := app.Party("/api/v1/bookings", authed...)
	{
		bookings.Post("/", routes.CreateBooking)
		bookings.Get("/mine", routes.MyBookings)
		bookings.Get("/host", routes.HostBookings)
		bookings.Get("/{id:uint}", routes.GetBooking)
		bookings.Patch("/{id:uint}/confirm", routes.ConfirmBooking)
		bookings.Patch("/{id:uint}/cancel", routes.CancelBooking)
		bookings.Patch("/{id:uint}/check-in", routes.CheckInBooking)
		bookings.Patch("/{id:uint}/check-out", routes.CheckOutBooking)
		bookings.Patch("/{id:uint}/refund", utils.AdminOnlyMiddleware, routes.RefundBooking)
	}

	reviews := app.Party("/api/v1/reviews", authed...)
	{
		reviews.Post("/", routes.CreateReview)
		reviews.Patch("/{id:uint}", routes.UpdateReview)
		reviews.Delete("/{id:uint}", routes.DeleteReview)
	}

	homeServices := app.Party("/api/v1/services")
	{
		homeServices.Get("/categories", routes.ListServiceCategories)
		homeServices.Get("/categories/{id:uint}", routes.ServicesByCategory)
		homeServices.Get("/{id:uint}", routes.GetService)
		homeServices.Get("/{id:uint}/providers", routes.ListProviders)
		homeServices.Post("/bookings", append(authed, routes.CreateServiceBooking)...)
		homeServices.Get("/bookings/mine", append(authed, routes.MyServiceBookings)...)
		homeServices.Post("/bookings/{id:uint}/cancel", append(authed, routes.CancelServiceBooking)...)
	}

	marketplace := app.Party("/api/v1/marketplace")
	{
		marketplace.Get("/categories", routes.ListMarketplaceCategories)
		marketplace.Get("/items", routes.ListMarketplaceItems)
		marketplace.Get("/items/mine", append(authed, routes.MyMarketplaceItems)...)
		marketplace.Get("/items/{id:uint}", routes.GetMarketplaceItem)
		marketplace.Get("/meta", routes.MarketplaceMeta)
		marketplace.Post("/items", append(authed, routes.CreateMarketplaceItem)...)
		marketplace.Patch("/items/{id:uint}", append(authed, routes.UpdateMarketplaceItem)...)
		marketplace.Delete("/items/{id:uint}", append(authed, routes.DeleteMarketplaceItem)...)
		marketplace.Post("/items/{id:uint}/sold", append(authed, routes.MarkItemSold)...)
	}

	app.Get("/api/v1/search/properties", routes.SearchProperties)
	app.Get("/api/v1/search/marketplace", routes.SearchMarketplace)

	messages := app.Party("/api/v1/conversations", authed...)
	{
		messages.Post("/", routes.GetOrCreateConversation)
		messages.Get("/", routes.ListConversations)
		messages.Get("/{id:uint}/messages", routes.ListMessages)
		messages.Post("/{id:uint}/messages", routes.SendMessage)
	}

	notifications := app.Party("/api/v1/notifications", authed...)
	{
		notifications.Get("/", routes.ListNotifications)
		notifications.Post("/{id:uint}/read", routes.MarkNotificationRead)
		notifications.Post("/read-all", routes.MarkAllNotificationsRead)
		notifications.Delete("/{id:uint}", routes.DeleteNotification)
	}

	app.Get("/api/v1/pages", routes.ListPages)
	app.Get("/api/v1/pages/{slug:string}", routes.GetPageBySlug)
	app.Post("/api/v1/contact", routes.SubmitContact)

	admin := app.Party("/api/v1/admin", append(authed, utils.AdminOnlyMiddleware)...)
	{
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
		admin.Get("/properties/pending", routes.AdminPendingProperties)
		admin.Post("/properties/{id:uint}/verify", routes.AdminVerifyProperty)
		admin.Post("/properties/{id:uint}/reject", routes.AdminRejectProperty)
		admin.Get("/bookings", routes.AdminBookings)
		admin.Post("/service-bookings/{id:uint}/complete", routes.CompleteServiceBooking)
		admin.Post("/services", routes.AdminCreateService)
		admin.Post("/providers", routes.AdminCreateProvider)
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, routes.AdminChangeUserRole)
		admin.Patch("/users/{id:uint}/active", routes.AdminDeactivateUser)
		admin.Get("/contact-submissions", routes.AdminContactSubmissions)
		admin.Post("/contact-submissions/{id:uint}/resolve", routes.AdminResolveContact)
		admin.Post("/pages", routes.AdminUpsertPage)
		admin.Post("/export", routes.AdminCreateExport)
		admin.Get("/export/{id:string}", routes.AdminGetExport)
	}

	app.Listen(fmt.Sprintf(":%d", cfg.Port))
}
