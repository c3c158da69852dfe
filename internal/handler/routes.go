package handler

import (
	"donation-service/internal/middleware"
	"donation-service/internal/model"
	"donation-service/internal/repository"
	"donation-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts every endpoint on e
func (h *Handler) RegisterRoutes(e *echo.Echo, jwt *jwtutil.JWTUtil, members repository.MembershipRepository, limiter *middleware.RateLimiter) {
	authn := middleware.AuthMiddleware(jwt)
	platformAdmin := middleware.RequireRole(model.RolePlatformAdmin)
	orgAdmin := middleware.OrgMember(members, model.MemberRoleAdmin)
	orgManager := middleware.OrgMember(members, model.MemberRoleAdmin, model.MemberRoleManager)

	// Public routes - no authentication required
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", MetricsHandler)

	// Authentication routes are rate limited per client IP
	auth := e.Group("/auth")
	if limiter != nil {
		auth.Use(limiter.Middleware())
	}
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/logout", h.Logout, authn)

	// Organization onboarding
	apps := e.Group("/org-applications", authn)
	apps.POST("", h.SubmitApplication)
	apps.GET("/my", h.MyApplications)
	apps.GET("/:id", h.GetApplication)

	// Platform administration
	admin := e.Group("/admin", authn, platformAdmin)
	admin.GET("/applications", h.AdminListApplications)
	admin.GET("/applications/:id", h.AdminGetApplication)
	admin.PATCH("/applications/:id/approve", h.ApproveApplication)
	admin.PATCH("/applications/:id/reject", h.RejectApplication)
	admin.GET("/organizations", h.ListOrganizations)
	admin.PATCH("/organizations/:id/approve", h.AdminApproveOrganization)
	admin.PATCH("/organizations/:id/suspend", h.AdminSuspendOrganization)
	admin.GET("/donations", h.ListDonations)

	orgs := e.Group("/organizations")
	orgs.GET("", h.ListOrganizations)
	orgs.GET("/:id", h.GetOrganization)
	orgs.POST("", h.CreateOrganization, authn, platformAdmin)
	orgs.PATCH("/:id", h.UpdateOrganization, authn)
	orgs.PATCH("/:id/wallet", h.UpdateOrganizationWallet, authn)

	// The caller's own organization, resolved from their membership
	org := e.Group("/org", authn)
	org.GET("/dashboard", h.OrgDashboard, orgManager)
	org.GET("/donations", h.OrgDonations, orgManager)
	org.GET("/donations/:id", h.OrgDonation, middleware.OrgMember(members))
	org.GET("/plan", h.OrgPlan, orgAdmin)
	org.POST("/plan/upgrade", h.UpgradePlan, orgAdmin)
	org.POST("/plan/cancel", h.CancelPlan, orgAdmin)
	org.GET("/reports", h.OrgReports, orgAdmin)
	org.POST("/projects", h.CreateOrgProject, orgManager)
	org.PATCH("/projects/:id", h.UpdateOrgProject, orgManager)

	projects := e.Group("/projects")
	projects.GET("", h.ListProjects)
	projects.GET("/:id", h.GetProject)

	donations := e.Group("/donations")
	donations.GET("", h.ListDonations)
	donations.GET("/project/:projectId", h.ProjectDonations)
	donations.GET("/:id", h.GetDonation)
	donations.POST("", h.CreateDonation, authn)
	donations.GET("/user/:userId", h.UserDonations, authn)
	donations.GET("/:id/certificate", h.DonationCertificate, authn)

	e.POST("/webhooks/payments", h.PaymentWebhook)

	me := e.Group("/me", authn)
	me.GET("/profile", h.GetProfile)
	me.PATCH("/profile", h.UpdateProfile)
	me.GET("/wallet", h.GetWallet)
	me.PATCH("/wallet", h.UpdateWallet)
	me.GET("/donations", h.MyDonations)
	me.GET("/favorites", h.ListFavorites)
	me.POST("/favorites/:projectId", h.AddFavorite)
	me.DELETE("/favorites/:projectId", h.RemoveFavorite)
}
