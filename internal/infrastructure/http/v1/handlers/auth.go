package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	appctx "stockroom/internal/core/context"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/auth"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// AuthHandler provides authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.FromUser(result.User),
	})
}

// Me handles GET /auth/me, returning the authenticated profile.
func (h *AuthHandler) Me(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), actorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUser(user))
}

// RegisterRoutes wires auth endpoints.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	protected.GET("/me", h.Me)
}

// UserHandler provides user management endpoints (admin only).
type UserHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(base *BaseHandler, service *auth.Service) *UserHandler {
	return &UserHandler{BaseHandler: base, service: service}
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user := &auth.User{
		ID:        id.New(),
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.service.CreateUser(c.Request.Context(), user, req.Password); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, user.ID.String())
}

// Update handles PUT /users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	user.Email = req.Email
	user.Name = req.Name
	user.Role = req.Role
	user.Active = req.Active

	if err := h.service.UpdateUser(c.Request.Context(), user, req.Password); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "user updated")
}

// Delete handles DELETE /users/:id. Self-deletion is refused.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if appctx.GetUserID(c.Request.Context()) == userID.String() {
		h.Error(c, apperror.NewForbidden("cannot delete your own account"))
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUser(user))
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if !h.BindQuery(c, &page) {
		return
	}
	page.Defaults()

	users, total, err := h.service.ListUsers(c.Request.Context(), page.PageSize, page.Offset())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.UserResponse, len(users))
	for i, u := range users {
		items[i] = dto.FromUser(u)
	}
	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.PageSize,
	})
}

// RegisterRoutes wires user management endpoints.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
