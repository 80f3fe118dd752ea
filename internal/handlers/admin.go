package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/dto"
	apierrors "github.com/yukikurage/progress-bot/internal/errors"
	"github.com/yukikurage/progress-bot/internal/middleware"
	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/services"
	"github.com/yukikurage/progress-bot/internal/utils"
)

// AdminHandler serves the admin HTTP API.
type AdminHandler struct {
	admins   *services.AdminService
	entities *services.EntityService
	reports  *services.ReportService
	now      func() time.Time
}

func NewAdminHandler(admins *services.AdminService, entities *services.EntityService, reports *services.ReportService) *AdminHandler {
	return &AdminHandler{
		admins:   admins,
		entities: entities,
		reports:  reports,
		now:      time.Now,
	}
}

// Login checks the admin credentials and initializes the session.
func (h *AdminHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		UserID   string `json:"user_id" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, err := h.admins.Login(c.Request.Context(), services.LoginInput{
		UserID:   req.UserID,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			apierrors.InvalidCredentials(c)
		case errors.Is(err, services.ErrAdminLoginDisabled):
			apierrors.ServiceUnavailable(c, err.Error())
		default:
			log.Printf("Admin login failed: %v", err)
			apierrors.InternalError(c, "")
		}
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, userID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}

// Logout removes the admin session.
func (h *AdminHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// ListProjects returns a page of projects, optionally filtered by ?status=.
func (h *AdminHandler) ListProjects(c *gin.Context) {
	h.list(c, models.KindProject)
}

// ListTasks returns a page of tasks, optionally filtered by ?status= and ?project_id=.
func (h *AdminHandler) ListTasks(c *gin.Context) {
	h.list(c, models.KindTask)
}

func (h *AdminHandler) list(c *gin.Context, kind models.EntityKind) {
	status := models.EntityStatus(c.Query("status"))
	if status != "" && status != models.StatusActive && status != models.StatusCompleted {
		apierrors.BadRequest(c, "Invalid status")
		return
	}
	projectID := c.Query("project_id")

	entities, err := h.entities.List(c.Request.Context(), kind)
	if err != nil {
		log.Printf("Failed to list %ss: %v", kind, err)
		apierrors.InternalError(c, "Failed to fetch "+string(kind)+"s")
		return
	}

	filtered := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if status != "" && e.Status != status {
			continue
		}
		if projectID != "" && (e.ProjectID == nil || *e.ProjectID != projectID) {
			continue
		}
		filtered = append(filtered, e)
	}

	params := utils.GetPaginationParams(c)
	page := utils.Paginate(filtered, params)
	c.JSON(http.StatusOK, dto.ToEntityListResponse(page, params.Page, params.Limit, int64(len(filtered))))
}

// SendDailyReport delivers the daily report now. With ?dry_run=true it only returns the messages.
func (h *AdminHandler) SendDailyReport(c *gin.Context) {
	adminID, _ := middleware.GetUserID(c)
	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))

	if dryRun {
		messages, err := h.reports.Daily(c.Request.Context(), h.now())
		if err != nil {
			log.Printf("Failed to build daily report: %v", err)
			apierrors.InternalError(c, "Failed to build daily report")
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages, "sent": 0})
		return
	}

	sent, err := h.reports.SendDaily(c.Request.Context(), h.now())
	if err != nil {
		log.Printf("Failed to send daily report: %v", err)
		apierrors.InternalError(c, "Failed to send daily report")
		return
	}
	log.Printf("Admin %s triggered the daily report, %d sent", adminID, sent)
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}
