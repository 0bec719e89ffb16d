package client

import (
	"strings"

	"github.com/yukikurage/okr-dashboard/internal/dto"
)

// Client routes. Each CLI command is tagged with the route it stands for.
const (
	RouteLogin      = "/"
	RouteTask       = "/task"
	RouteGoal       = "/goal"
	RouteProfile    = "/profile"
	RouteSettings   = "/settings"
	RouteDashboard  = "/dashboard"
	RouteUsers      = "/users"
	RouteManageTask = "/users/managent-task/:id"
	RoutePosition   = "/position"
)

var adminRoutes = []string{RouteDashboard, RouteUsers, RoutePosition}

// IsAdmin reports whether the user's position grants administrator access.
func IsAdmin(user *dto.UserDTO) bool {
	return user != nil && user.Position != nil && user.Position.IsAdmin
}

// IsAdminRoute reports whether route is reserved for administrators.
func IsAdminRoute(route string) bool {
	if strings.HasPrefix(route, "/users/managent-task/") {
		return true
	}
	for _, r := range adminRoutes {
		if route == r {
			return true
		}
	}
	return false
}

// Guard returns where a user asking for route ends up: the login route
// when unauthenticated, the task route when a non-admin asks for an admin
// route, and route itself otherwise.
func Guard(route string, user *dto.UserDTO) string {
	if user == nil {
		return RouteLogin
	}
	if IsAdminRoute(route) && !IsAdmin(user) {
		return RouteTask
	}
	return route
}

// LandingRoute is where a user goes right after logging in.
func LandingRoute(user *dto.UserDTO) string {
	return Guard(RouteDashboard, user)
}
