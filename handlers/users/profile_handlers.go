package users

import (
	"errors"
	"net/http"
	"strconv"

	"contesthub/services"
	"contesthub/utils/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RegisterUser stores the profile of a user signing in for the first time
// @Summary Register user
// @Description Creates the user with role "user". Registering an existing email is a no-op.
// @Tags Users
// @Accept json
// @Produce json
// @Param user body RegisterUserRequest true "User profile"
// @Success 200 {object} response.InsertResult
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /users [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, created, err := h.users.Register(c.Request.Context(), req.Email, req.Name, req.Photo)
	if err != nil {
		log.WithError(err).Error("Failed to register user")
		response.Error(c, http.StatusInternalServerError, ErrFailedToSaveUser)
		return
	}
	if !created {
		response.NotInserted(c, ErrUserExists)
		return
	}
	response.Inserted(c, http.StatusOK, user.ID)
}

// GetUsers lists users page by page
// @Summary List users
// @Description Case-insensitive search over name and email. Admin only.
// @Tags Users
// @Produce json
// @Param search query string false "Search text"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} services.UserList
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /users [get]
// @Security Bearer
func (h *Handler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.users.List(c.Request.Context(), c.Query("search"), services.NewPage(page, limit))
	if err != nil {
		log.WithError(err).Error("Failed to list users")
		response.Error(c, http.StatusInternalServerError, ErrFailedToGetUsers)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetUserRole returns the stored role of a user
// @Summary Get user role
// @Description Returns "user" when the email has no stored record
// @Tags Users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} RoleResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /users/{email}/role [get]
// @Security Bearer
func (h *Handler) GetUserRole(c *gin.Context) {
	role, err := h.users.GetRole(c.Request.Context(), c.Param("email"))
	if err != nil {
		log.WithError(err).Error("Failed to get user role")
		response.Error(c, http.StatusInternalServerError, ErrFailedToGetRole)
		return
	}
	c.JSON(http.StatusOK, RoleResponse{Role: string(role)})
}

// GetUserProfile returns a user's profile, or null when unknown
// @Summary Get user profile
// @Tags Users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /users/{email} [get]
// @Security Bearer
func (h *Handler) GetUserProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), c.Param("email"))
	if err != nil {
		log.WithError(err).Error("Failed to get user")
		response.Error(c, http.StatusInternalServerError, ErrFailedToGetUser)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserProfile patches the name and photo of a user
// @Summary Update user profile
// @Description Only name and photo can be changed through this route
// @Tags Users
// @Accept json
// @Produce json
// @Param user path string true "User email"
// @Param profile body services.ProfileUpdate true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{user} [patch]
// @Security Bearer
func (h *Handler) UpdateUserProfile(c *gin.Context) {
	var update services.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), c.Param("user"), update)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, ErrUserNotFound)
			return
		}
		log.WithError(err).Error("Failed to update user profile")
		response.Error(c, http.StatusInternalServerError, ErrFailedToUpdateUser)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserRole changes a user's role
// @Summary Set user role
// @Description Admin only. Role must be one of user, creator, admin.
// @Tags Users
// @Accept json
// @Produce json
// @Param user path string true "User ID"
// @Param role body SetRoleRequest true "New role"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{user}/role [patch]
// @Security Bearer
func (h *Handler) UpdateUserRole(c *gin.Context) {
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.SetRole(c.Request.Context(), c.Param("user"), req.Role)
	switch {
	case errors.Is(err, services.ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, ErrInvalidRole)
	case errors.Is(err, services.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, ErrUserNotFound)
	case err != nil:
		log.WithError(err).Error("Failed to update user role")
		response.Error(c, http.StatusInternalServerError, ErrFailedToUpdateUser)
	default:
		c.JSON(http.StatusOK, user)
	}
}
