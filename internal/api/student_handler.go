package api

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/schedule"
	"alcyxob/kinevo/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StudentHandler struct {
	studentService service.StudentService
	location       *time.Location
}

// NewStudentHandler creates a StudentHandler. Date keys in queries are
// read in loc.
func NewStudentHandler(studentService service.StudentService, loc *time.Location) *StudentHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &StudentHandler{
		studentService: studentService,
		location:       loc,
	}
}

// --- DTOs ---

type StartSessionRequest struct {
	WorkoutID string `json:"workoutId" binding:"required"`
}

type CompleteSessionRequest struct {
	RPE   *int   `json:"rpe"`
	Notes string `json:"notes"`
}

// GetMyPrograms godoc
// @Summary List the student's active and past programs
// @Tags Student
// @Security BearerAuth
// @Success 200 {array} domain.Program
// @Router /student/programs [get]
func (h *StudentHandler) GetMyPrograms(c *gin.Context) {
	studentID, ok := mustUserID(c)
	if !ok {
		return
	}
	programs, err := h.studentService.GetMyPrograms(c.Request.Context(), studentID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

// GetMyProgramWorkouts godoc
// @Summary List the workouts of one of the student's programs
// @Tags Student
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Success 200 {array} domain.Workout
// @Router /student/programs/{programId}/workouts [get]
func (h *StudentHandler) GetMyProgramWorkouts(c *gin.Context) {
	studentID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	workouts, err := h.studentService.GetMyProgramWorkouts(c.Request.Context(), studentID, programID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// StartSession godoc
// @Summary Start a session of a program workout
// @Tags Student
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Param request body StartSessionRequest true "Workout to perform"
// @Success 201 {object} domain.Session
// @Router /student/programs/{programId}/sessions [post]
func (h *StudentHandler) StartSession(c *gin.Context) {
	studentID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workoutId format")
		return
	}

	session, err := h.studentService.StartSession(c.Request.Context(), studentID, programID, workoutID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// CompleteSession godoc
// @Summary Complete a session
// @Description Completing an already completed session returns it unchanged.
// @Tags Student
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param request body CompleteSessionRequest false "Effort and notes"
// @Success 200 {object} domain.Session
// @Router /student/sessions/{sessionId}/complete [post]
func (h *StudentHandler) CompleteSession(c *gin.Context) {
	studentID, ok := mustUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}
	var req CompleteSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}

	session, err := h.studentService.CompleteSession(c.Request.Context(), studentID, sessionID, req.RPE, req.Notes)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListSessions godoc
// @Summary List sessions started between two days, inclusive
// @Tags Student
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Param from query string true "First day, YYYY-MM-DD"
// @Param to query string true "Last day, YYYY-MM-DD"
// @Success 200 {array} domain.Session
// @Router /student/programs/{programId}/sessions [get]
func (h *StudentHandler) ListSessions(c *gin.Context) {
	studentID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	from, err := schedule.ParseDateKey(c.Query("from"), h.location)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "from must be a date in YYYY-MM-DD format")
		return
	}
	to, err := schedule.ParseDateKey(c.Query("to"), h.location)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "to must be a date in YYYY-MM-DD format")
		return
	}

	sessions, err := h.studentService.ListSessions(c.Request.Context(), studentID, programID, from, schedule.AddDays(to, 1))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	c.JSON(http.StatusOK, sessions)
}
