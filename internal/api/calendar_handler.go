package api

import (
	"alcyxob/kinevo/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CalendarHandler serves projected calendars to both the program's coach
// and its student. Ownership is checked by the service.
type CalendarHandler struct {
	calendarService service.CalendarService
}

func NewCalendarHandler(calendarService service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// GetWeekStrip godoc
// @Summary Week strip around an anchor day
// @Description Previous, current and next Sunday-to-Saturday weeks, each day classified as done, missed, scheduled, rest or out_of_program.
// @Tags Calendar
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Param anchor query string false "Anchor day, YYYY-MM-DD; defaults to today"
// @Success 200 {object} service.WeekStrip
// @Router /student/programs/{programId}/calendar/week [get]
func (h *CalendarHandler) GetWeekStrip(c *gin.Context) {
	viewerID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	strip, err := h.calendarService.WeekStrip(c.Request.Context(), viewerID, programID, c.Query("anchor"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, strip)
}

// GetMonthGrid godoc
// @Summary Month grid padded to whole weeks
// @Tags Calendar
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Param anchor query string false "Any day of the month, YYYY-MM-DD; defaults to today"
// @Success 200 {object} service.MonthGrid
// @Router /student/programs/{programId}/calendar/month [get]
func (h *CalendarHandler) GetMonthGrid(c *gin.Context) {
	viewerID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	grid, err := h.calendarService.MonthGrid(c.Request.Context(), viewerID, programID, c.Query("anchor"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, grid)
}

// GetProgress godoc
// @Summary Streaks and adherence as of today
// @Tags Calendar
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Success 200 {object} service.Progress
// @Router /student/programs/{programId}/progress [get]
func (h *CalendarHandler) GetProgress(c *gin.Context) {
	viewerID, ok := mustUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	progress, err := h.calendarService.Progress(c.Request.Context(), viewerID, programID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
