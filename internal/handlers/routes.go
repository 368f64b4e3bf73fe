package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the user lookup and removal routes.
func RegisterRoutes(api huma.API, h *UserHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-user-info",
		Method:      http.MethodGet,
		Path:        "/users/{id}/info",
		Summary:     "Get user info",
		Description: "Returns the id, phone number and creation date of a user. Counts against the global and per-caller daily quotas.",
		Tags:        []string{"Users"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusTooManyRequests, http.StatusServiceUnavailable},
	}, h.GetUserInfo)

	huma.Register(api, huma.Operation{
		OperationID: "get-user-videos",
		Method:      http.MethodGet,
		Path:        "/users/phone/{phone}/videos",
		Summary:     "Get user profile videos",
		Description: "Returns the profile video URLs and thumbnails of the user owning the phone number.",
		Tags:        []string{"Users"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusTooManyRequests, http.StatusServiceUnavailable},
	}, h.GetUserVideos)

	huma.Register(api, huma.Operation{
		OperationID:   "remove-user",
		Method:        http.MethodDelete,
		Path:          "/users/phone/{phone}",
		Summary:       "Remove user",
		Description:   "Schedules removal of the user owning a whitelisted phone number.",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusServiceUnavailable},
	}, h.RemoveUser)
}
