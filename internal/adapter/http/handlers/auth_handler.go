package handlers

import (
	request "gestao_oficina/internal/adapter/http/dto/request"
	response "gestao_oficina/internal/adapter/http/dto/response"
	"gestao_oficina/internal/adapter/http/middleware"
	"gestao_oficina/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login and staff user administration.
type AuthHandler struct {
	usecase usecase.IAuthUseCase
}

func NewAuthHandler(uc usecase.IAuthUseCase) *AuthHandler {
	return &AuthHandler{usecase: uc}
}

// Login godoc
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      request.LoginRequest  true  "Credentials"
// @Success      200   {object}  response.LoginResponse
// @Failure      401   {object}  pkg.HTTPError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var payload request.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}

	res, err := h.usecase.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromLoginResult(res))
}

// Me godoc
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.UserResponse
// @Failure      401  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		respondAppError(c, errUnauthorized)
		return
	}

	user, err := h.usecase.Me(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromUser(user))
}

// UpdateMe godoc
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      request.ProfileUpdateRequest  true  "Profile"
// @Success      200   {object}  response.UserResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      401   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /auth/me [patch]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		respondAppError(c, errUnauthorized)
		return
	}
	var payload request.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}

	user, err := h.usecase.UpdateProfile(c.Request.Context(), session, payload.FullName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromUser(user))
}

// CreateUser godoc
// @Summary      Create staff user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      request.UserCreateRequest  true  "User"
// @Success      201   {object}  response.UserResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      409   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /users [post]
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var payload request.UserCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}

	user, err := h.usecase.CreateUser(c.Request.Context(), payload.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromUser(user))
}

// ListUsers godoc
// @Summary      List staff users
// @Tags         users
// @Produce      json
// @Success      200  {array}  response.UserResponse
// @Security     Bearer
// @Router       /users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.usecase.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromUsers(users))
}

// DeleteUser godoc
// @Summary      Delete staff user
// @Tags         users
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      400  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /users/{id} [delete]
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		respondAppError(c, errUnauthorized)
		return
	}
	if err := h.usecase.DeleteUser(c.Request.Context(), session, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
