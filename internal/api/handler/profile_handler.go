package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// updateProfileRequest leaves absent fields untouched. Username, role and
// password are not accepted here.
type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Get handles GET /user/profile.
//
// @Summary      Current profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicUser
// @Router       /user/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	user, err := h.service.Profile(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /user/profile.
//
// @Summary      Update name and email
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.PublicUser
// @Failure      400   {object}  map[string]string
// @Router       /user/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), username, domain.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword handles POST /user/change-password.
//
// @Summary      Change password
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /user/change-password [post]
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.ChangePassword(c.Request().Context(), username, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password changed successfully"})
}
