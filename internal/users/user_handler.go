package users

import (
	"net/http"
	"strconv"

	"armory/internal/httperr"
	"armory/pkg/apperrors"
	"armory/pkg/auditlog"
	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// UserChanges is the resolved update set handed to the repository. SetBase
// distinguishes "clear the base" from "leave the base alone".
type UserChanges struct {
	Email        *string
	PasswordHash *string
	Role         *string
	BaseID       *int
	SetBase      bool
}

type UserHandler struct {
	Repository UserRepository
	Recorder   *auditlog.Recorder
}

func NewHandler(r UserRepository, recorder *auditlog.Recorder) *UserHandler {
	return &UserHandler{
		Repository: r,
		Recorder:   recorder,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users", security.Authorize(roles.Admin), h.GetUsers)
	router.GET("/users/:id", h.GetUser)
	router.POST("/users", security.Authorize(roles.Admin), h.CreateUser)
	router.PATCH("/users/:id", security.Authorize(roles.Admin), h.UpdateUser)
	router.DELETE("/users/:id", security.Authorize(roles.Admin), h.DeleteUser)
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.Repository.GetUsers()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("user"))
		return
	}

	// Non-admins may only look at their own account.
	if !actor.IsAdmin() && actor.UserID != userID {
		httperr.Respond(c, apperrors.NewAccessDenied("cannot view another user's account"))
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	role := roles.Role(req.Role)
	if !role.IsValid() {
		httperr.Respond(c, apperrors.NewValidation("unknown role %q", req.Role))
		return
	}

	baseID := req.BaseID
	if role == roles.Admin {
		// Admins are not pinned to a base.
		baseID = nil
	} else if baseID == nil {
		httperr.Respond(c, apperrors.NewValidation("role %s requires a base assignment", role))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	userID, err := h.Repository.PersistUser(req, hashed, baseID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionInsert, security.AuditActorFromContext(c, actor), user, nil, user)

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("user"))
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	before, err := h.Repository.GetUser(userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	changes := UserChanges{Email: req.Email}

	if req.Role != nil {
		if !roles.Role(*req.Role).IsValid() {
			httperr.Respond(c, apperrors.NewValidation("unknown role %q", *req.Role))
			return
		}
		changes.Role = req.Role
	}

	if req.Password != nil {
		if len(*req.Password) < 6 {
			httperr.Respond(c, apperrors.NewValidation("password must be at least 6 characters"))
			return
		}
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			httperr.Respond(c, hashErr)
			return
		}
		hashedString := string(hashed)
		changes.PasswordHash = &hashedString
	}

	targetRole := before.Role
	if changes.Role != nil {
		targetRole = roles.Role(*changes.Role)
	}
	if targetRole == roles.Admin {
		changes.BaseID = nil
		changes.SetBase = true
	} else if req.BaseID != nil {
		changes.BaseID = req.BaseID
		changes.SetBase = true
	}

	if err := h.Repository.UpdateUser(userID, &changes); err != nil {
		httperr.Respond(c, err)
		return
	}

	after, err := h.Repository.GetUser(userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionUpdate, security.AuditActorFromContext(c, actor), after, before, after)

	c.JSON(http.StatusOK, after)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("user"))
		return
	}

	if actor.UserID == userID {
		httperr.Respond(c, apperrors.NewValidation("cannot delete your own account"))
		return
	}

	before, err := h.Repository.GetUser(userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.Repository.DeleteUser(userID); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionDelete, security.AuditActorFromContext(c, actor), before, before, nil)

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
