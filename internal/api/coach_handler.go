package api

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type CoachHandler struct {
	coachService  service.CoachService
	exportService service.ExportService
}

func NewCoachHandler(coachService service.CoachService, exportService service.ExportService) *CoachHandler {
	return &CoachHandler{
		coachService:  coachService,
		exportService: exportService,
	}
}

// --- DTOs ---

type AddStudentRequest struct {
	StudentEmail string `json:"studentEmail" binding:"required,email"`
}

type CreateProgramRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	DurationWeeks *int   `json:"durationWeeks"`
}

type ActivateProgramRequest struct {
	// StartedAt defaults to now when omitted.
	StartedAt *time.Time `json:"startedAt"`
}

type WorkoutRequest struct {
	Name          string `json:"name" binding:"required"`
	Notes         string `json:"notes"`
	ScheduledDays []int  `json:"scheduledDays"`
}

type ExportRequest struct {
	Format domain.ReportFormat `json:"format" binding:"required"`
}

// --- Student Management ---

// AddStudentByEmail godoc
// @Summary Add a student to the coach's roster by email
// @Tags Coach
// @Security BearerAuth
// @Param request body AddStudentRequest true "Student's email"
// @Success 200 {object} UserResponse
// @Router /coach/students [post]
func (h *CoachHandler) AddStudentByEmail(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	student, err := h.coachService.AddStudentByEmail(c.Request.Context(), coachID, req.StudentEmail)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(student))
}

// GetManagedStudents godoc
// @Summary List the coach's students
// @Tags Coach
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /coach/students [get]
func (h *CoachHandler) GetManagedStudents(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	students, err := h.coachService.GetManagedStudents(c.Request.Context(), coachID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(students))
	for i := range students {
		resp = append(resp, MapUserToResponse(&students[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// --- Program Management ---

// CreateProgram godoc
// @Summary Create a draft program for a student
// @Tags Coach
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param program body CreateProgramRequest true "Program details"
// @Success 201 {object} domain.Program
// @Router /coach/students/{studentId}/programs [post]
func (h *CoachHandler) CreateProgram(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	studentID, ok := pathObjectID(c, "studentId")
	if !ok {
		return
	}
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	program, err := h.coachService.CreateProgram(c.Request.Context(), coachID, studentID, req.Name, req.Description, req.DurationWeeks)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// GetProgramsForStudent godoc
// @Summary List a student's programs
// @Tags Coach
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {array} domain.Program
// @Router /coach/students/{studentId}/programs [get]
func (h *CoachHandler) GetProgramsForStudent(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	studentID, ok := pathObjectID(c, "studentId")
	if !ok {
		return
	}

	programs, err := h.coachService.GetProgramsForStudent(c.Request.Context(), coachID, studentID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if programs == nil {
		programs = []domain.Program{}
	}
	c.JSON(http.StatusOK, programs)
}

// ActivateProgram godoc
// @Summary Start a program
// @Tags Coach
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Param request body ActivateProgramRequest false "Optional start instant"
// @Success 200 {object} domain.Program
// @Failure 409 {object} gin.H "Program already started"
// @Router /coach/programs/{programId}/activate [post]
func (h *CoachHandler) ActivateProgram(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	var req ActivateProgramRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	var startedAt time.Time
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}

	program, err := h.coachService.ActivateProgram(c.Request.Context(), coachID, programID, startedAt)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// FinishProgram godoc
// @Summary Mark a program completed
// @Tags Coach
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Success 200 {object} domain.Program
// @Router /coach/programs/{programId}/finish [post]
func (h *CoachHandler) FinishProgram(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	program, err := h.coachService.FinishProgram(c.Request.Context(), coachID, programID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// --- Workout Management ---

// AddWorkout godoc
// @Summary Add a recurring workout to a program
// @Tags Coach
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Param workout body WorkoutRequest true "Workout details"
// @Success 201 {object} domain.Workout
// @Router /coach/programs/{programId}/workouts [post]
func (h *CoachHandler) AddWorkout(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.coachService.AddWorkout(c.Request.Context(), coachID, programID, req.Name, req.Notes, req.ScheduledDays)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// GetProgramWorkouts godoc
// @Summary List a program's workouts
// @Tags Coach
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Success 200 {array} domain.Workout
// @Router /coach/programs/{programId}/workouts [get]
func (h *CoachHandler) GetProgramWorkouts(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	workouts, err := h.coachService.GetProgramWorkouts(c.Request.Context(), coachID, programID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// UpdateWorkout godoc
// @Summary Replace a workout's name, notes and weekdays
// @Tags Coach
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param workout body WorkoutRequest true "Workout details"
// @Success 200 {object} domain.Workout
// @Router /coach/workouts/{workoutId} [put]
func (h *CoachHandler) UpdateWorkout(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.coachService.UpdateWorkout(c.Request.Context(), coachID, workoutID, req.Name, req.Notes, req.ScheduledDays)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Tags Coach
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 204
// @Router /coach/workouts/{workoutId} [delete]
func (h *CoachHandler) DeleteWorkout(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}

	if err := h.coachService.DeleteWorkout(c.Request.Context(), coachID, workoutID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Reports ---

// ExportProgress godoc
// @Summary Export a program's adherence report to object storage
// @Tags Coach
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Param request body ExportRequest true "csv or json"
// @Success 201 {object} service.ExportResult
// @Router /coach/programs/{programId}/reports [post]
func (h *CoachHandler) ExportProgress(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.exportService.ExportProgress(c.Request.Context(), coachID, programID, req.Format)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListExports godoc
// @Summary List a program's exported reports
// @Tags Coach
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Success 200 {array} domain.ReportExport
// @Router /coach/programs/{programId}/reports [get]
func (h *CoachHandler) ListExports(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	exports, err := h.exportService.ListExports(c.Request.Context(), coachID, programID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exports)
}

// GetReportDownloadURL godoc
// @Summary Presign a download link for a stored report
// @Tags Coach
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Success 200 {object} gin.H
// @Router /coach/reports/{reportId}/download [get]
func (h *CoachHandler) GetReportDownloadURL(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	reportID, ok := pathObjectID(c, "reportId")
	if !ok {
		return
	}

	url, err := h.exportService.GetDownloadURL(c.Request.Context(), coachID, reportID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
