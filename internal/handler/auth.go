package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/libmanage/internal/validation"
)

type AuthHandler struct {
	accounts AccountService
}

func NewAuthHandler(accounts AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login/", h.Login)
	r.POST("/register/", h.Register)
	r.POST("/logout/", h.Logout)
	r.POST("/user/update_profile/", h.UpdateProfile)
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      CredentialsRequest  true  "Credentials"
// @Success      200      {object}  AuthResponse
// @Failure      400      {object}  validation.ErrorResponse   "Missing username or password"
// @Failure      401      {object}  validation.ErrorResponse   "Invalid credentials"
// @Router       /login/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Message:  "login successful",
		UserID:   user.ID,
		Username: user.Username,
	})
}

// Register godoc
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      CredentialsRequest  true  "Credentials"
// @Success      201      {object}  AuthResponse
// @Failure      400      {object}  validation.ErrorResponse   "Missing username or password"
// @Failure      409      {object}  validation.ErrorResponse   "Username already exists"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /register/ [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Message:  "registration successful",
		UserID:   user.ID,
		Username: user.Username,
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Sessions are kept by the client; this only acknowledges the request
// @Tags         auth
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Router       /logout/ [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// UpdateProfile godoc
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      UpdateProfileRequest  true  "User and new password"
// @Success      200      {object}  MessageResponse
// @Failure      400      {object}  validation.ErrorResponse   "Missing new password"
// @Failure      401      {object}  validation.ErrorResponse   "Missing user_id"
// @Failure      404      {object}  validation.ErrorResponse   "User not found"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /user/update_profile/ [post]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}
	if req.UserID == 0 {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", msgUserIDRequired)
		return
	}
	if req.NewPassword == "" {
		writeError(c, http.StatusBadRequest, "INVALID_INPUT", "new_password must not be empty")
		return
	}

	if err := h.accounts.UpdatePassword(c.Request.Context(), uint(req.UserID), req.NewPassword); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}
