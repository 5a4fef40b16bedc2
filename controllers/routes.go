package controllers

import (
	"net/http"

	"github.com/SpicyTech2823/Car-rental/applications/admin"
	"github.com/SpicyTech2823/Car-rental/applications/auth"
	"github.com/SpicyTech2823/Car-rental/logger"

	"github.com/labstack/echo/v4"
)

// Router holds every controller the HTTP API is built from.
type Router struct {
	Sessions auth.SessionReader
	Gate     *admin.Gate

	Auth     *AuthController
	Admin    *AdminController
	Cars     *CarController
	Bookings *BookingController
	Feedback *FeedbackController
	Wizard   *WizardController
	Contact  *ContactController
}

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Router) Register(e *echo.Echo) {
	// --- 1. PUBLIC ROUTES (No Auth Required) ---
	logger.Log.Info("[router] Registering public authentication and read-only routes.")
	e.GET("/health", Health)

	e.POST("/auth/signup", r.Auth.SignUp)
	e.POST("/auth/login", r.Auth.Login)
	e.POST("/auth/refresh", r.Auth.Refresh)
	e.POST("/auth/password/forgot", r.Auth.ForgotPassword)
	e.POST("/auth/password/reset", r.Auth.ResetPassword)
	e.POST("/admin/login", r.Auth.AdminLogin)
	e.POST("/admin/verify", r.Auth.AdminVerify)
	e.POST("/contact", r.Contact.Submit)

	api := e.Group("/api/v1")
	api.GET("/cars", r.Cars.List)
	api.GET("/cars/:carID", r.Cars.Get)
	api.GET("/feedback", r.Feedback.Featured)

	// --- 2. PROTECTED ROUTES (Requires Valid JWT Token) ---
	logger.Log.Info("[router] Configuring '/api/v1' protected routes (JWT Required).")
	jwt := auth.JWTAuthMiddleware(r.Sessions)

	api.GET("/session", r.Auth.Session, jwt)
	api.POST("/logout", r.Auth.Logout, jwt)
	api.POST("/feedback", r.Feedback.Submit, jwt)

	wz := api.Group("/wizard", jwt)
	wz.POST("", r.Wizard.Start)
	wz.GET("/:wizardID", r.Wizard.Get)
	wz.PUT("/:wizardID/category", r.Wizard.SelectCategory)
	wz.POST("/:wizardID/car", r.Wizard.ChooseCar)
	wz.PATCH("/:wizardID/details", r.Wizard.EditDetails)
	wz.POST("/:wizardID/details", r.Wizard.SubmitDetails)
	wz.PUT("/:wizardID/payment", r.Wizard.ChoosePayment)
	wz.POST("/:wizardID/confirm", r.Wizard.Confirm)
	wz.POST("/:wizardID/back", r.Wizard.Back)
	wz.GET("/:wizardID/invoice.pdf", r.Wizard.InvoicePDF)

	// --- 3. ADMIN ROUTES (gate re-run on every request) ---
	logger.Log.Warn("[router] Configuring '/api/v1/admin' routes (admin membership required).")
	adm := api.Group("/admin")
	adm.GET("", r.Admin.Redirect)
	adm.GET("/dashboard", r.Admin.Dashboard)

	gate := admin.GateMiddleware(r.Gate)
	adm.POST("/cars", r.Cars.Create, gate)
	adm.PUT("/cars/:carID", r.Cars.Update, gate)
	adm.DELETE("/cars/:carID", r.Cars.Delete, gate)

	adm.GET("/bookings", r.Bookings.List, gate)
	adm.PATCH("/bookings/:bookingID/paid", r.Bookings.SetPaid, gate)
	adm.DELETE("/bookings/:bookingID", r.Bookings.Delete, gate)

	adm.GET("/feedback", r.Feedback.List, gate)
	adm.PATCH("/feedback/:feedbackID/featured", r.Feedback.SetFeatured, gate)
	adm.DELETE("/feedback/:feedbackID", r.Feedback.Delete, gate)
	logger.Log.Info("[router] Admin: cars, bookings and feedback panels configured.")
}
