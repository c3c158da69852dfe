package handler

import (
	"donation-service/internal/service"
)

// Handler holds the services behind the HTTP API
type Handler struct {
	Applications  *service.ApplicationService
	Organizations *service.OrganizationService
	Projects      *service.ProjectService
	Donations     *service.DonationService
	Favorites     *service.FavoriteService
	Users         *service.UserService
	Auth          *service.AuthService

	// Ping reports database health
	Ping func() error
}
