package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/campusevents/internal/server/models"
	"github.com/dmitrijs2005/campusevents/internal/server/services"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) root(c *gin.Context) {
	c.JSON(http.StatusOK, successBody(gin.H{"message": "Event Kampus API"}))
}

func (s *HTTPServer) health(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		s.logger.Warn(c.Request.Context(), "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, errorBody("Database unavailable"))
		return
	}
	c.JSON(http.StatusOK, successBody(gin.H{"database": "ok"}))
}

// --- auth ---

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errBadJSON)
		return
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		_ = c.Error(toValidationError("Validation failed", err))
		return
	}

	user, err := s.users.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, successBody(user))
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errBadJSON)
		return
	}
	if err := req.Validate(); err != nil {
		_ = c.Error(toValidationError("Validation failed", err))
		return
	}

	result, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, successBody(result))
}

// --- events ---

func (s *HTTPServer) listEvents(c *gin.Context) {
	filter := models.EventFilter{
		Location: c.Query("location"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     queryInt(c.Query("page")),
		Limit:    queryInt(c.Query("limit")),
	}

	if err := validation.Validate(filter.Category, categoryRule); err != nil {
		_ = c.Error(&validationError{
			message: "Invalid category",
			fields:  map[string]string{"category": err.Error()},
		})
		return
	}

	page, err := s.events.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, successBody(page))
}

func (s *HTTPServer) searchEvents(c *gin.Context) {
	page, err := s.events.Search(c.Request.Context(), c.Query("q"),
		queryInt(c.Query("page")), queryInt(c.Query("limit")))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, successBody(page))
}

func (s *HTTPServer) getEvent(c *gin.Context) {
	e, err := s.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, successBody(e))
}

func bindEvent(c *gin.Context, create bool) (*eventRequest, bool) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errBadJSON)
		return nil, false
	}
	req.normalize()
	if err := req.validate(create); err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return &req, true
}

func (s *HTTPServer) createEvent(c *gin.Context) {
	req, ok := bindEvent(c, true)
	if !ok {
		return
	}

	e, err := s.events.Create(c.Request.Context(), req.input())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, successBody(e))
}

func (s *HTTPServer) updateEvent(c *gin.Context) {
	req, ok := bindEvent(c, false)
	if !ok {
		return
	}

	e, err := s.events.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, successBody(e))
}

func (s *HTTPServer) deleteEvent(c *gin.Context) {
	e, err := s.events.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, successBody(e))
}

// --- registrations ---

func (s *HTTPServer) registerForEvent(c *gin.Context) {
	id, _ := identity(c)

	reg, created, err := s.registrations.Register(c.Request.Context(), c.Param("id"), id.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, successBody(reg))
}

func (s *HTTPServer) eventRegistrations(c *gin.Context) {
	list, err := s.registrations.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, successBody(list))
}

func (s *HTTPServer) cancelOwnRegistration(c *gin.Context) {
	id, _ := identity(c)

	reg, err := s.registrations.CancelForUser(c.Request.Context(), c.Param("id"), id.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, successBody(reg))
}

func (s *HTTPServer) cancelRegistrationByID(c *gin.Context) {
	id, _ := identity(c)

	reg, err := s.registrations.CancelByID(c.Request.Context(), c.Param("id"), c.Param("regId"), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, successBody(reg))
}

func (s *HTTPServer) myRegistrations(c *gin.Context) {
	id, _ := identity(c)

	list, err := s.registrations.ListByUser(c.Request.Context(), id.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, successBody(list))
}

func (s *HTTPServer) userRegistrations(c *gin.Context) {
	id, _ := identity(c)

	list, err := s.registrations.ListForUser(c.Request.Context(), id, c.Param("userId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, successBody(list))
}
