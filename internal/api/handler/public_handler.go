package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
)

// PublicHandler serves the unauthenticated diagnostic endpoints and the
// category catalog.
type PublicHandler struct {
	tokens   ports.TokenService
	basePath string
}

func NewPublicHandler(tokens ports.TokenService, basePath string) *PublicHandler {
	return &PublicHandler{tokens: tokens, basePath: basePath}
}

type tokenInfoRequest struct {
	Token string `json:"token"`
}

type tokenInfoResponse struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username,omitempty"`
	Expired  *bool  `json:"expired,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Health handles GET /public/health.
//
// @Summary      API liveness in the client's format
// @Tags         public
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /public/health [get]
func (h *PublicHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "UP",
		"message": "API is running",
	})
}

// AuthCheck handles GET /public/auth-check. It describes how to log in.
//
// @Summary      Login instructions
// @Tags         public
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /public/auth-check [get]
func (h *PublicHandler) AuthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"authEndpoint": h.basePath + "/auth/login",
		"method":       http.MethodPost,
		"expectedBody": map[string]string{
			"username": "yourUsername",
			"password": "yourPassword",
		},
		"expectedResponse": map[string]string{
			"token":    "jwt-token-value",
			"type":     "Bearer",
			"id":       "userId",
			"username": "username",
			"email":    "email@example.com",
			"role":     domain.RoleUser,
		},
	})
}

// TokenInfo handles POST /public/token-info. It never fails; problems with
// the token are reported in the body.
//
// @Summary      Inspect a token
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        body  body      tokenInfoRequest  true  "Token"
// @Success      200   {object}  tokenInfoResponse
// @Router       /public/token-info [post]
func (h *PublicHandler) TokenInfo(c echo.Context) error {
	var req tokenInfoRequest
	_ = c.Bind(&req)

	info := h.tokens.Inspect(req.Token)
	resp := tokenInfoResponse{Valid: info.Valid}
	switch {
	case info.Valid:
		resp.Username = info.Username
		resp.Expired = boolPtr(false)
	case info.Expired:
		resp.Username = info.Username
		resp.Expired = boolPtr(true)
	default:
		resp.Error = info.Error
	}
	return c.JSON(http.StatusOK, resp)
}

// Categories handles GET /utils/categories.
//
// @Summary      Predefined categories
// @Tags         utils
// @Produce      json
// @Success      200  {object}  domain.CategoryCatalog
// @Router       /utils/categories [get]
func (h *PublicHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.DefaultCategories())
}

func boolPtr(b bool) *bool { return &b }
