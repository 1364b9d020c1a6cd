package handlers

import (
	"net/http"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/middleware"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/services"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetDashboard returns the student's dashboard view model. The route sits
// behind the session guard, so a missing session here is a wiring bug, not
// a user error.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	state, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	dashboard := h.service.Load(c.Request.Context(), state.Token)
	c.JSON(http.StatusOK, dashboard)
}
