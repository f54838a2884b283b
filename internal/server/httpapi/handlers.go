package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmeladze/identity-service/internal/server/messages"
	"github.com/gmeladze/identity-service/internal/server/services"
	"github.com/gmeladze/identity-service/internal/server/validation"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleAuthRequest struct {
	Token    string `json:"token"`
	ClientID string `json:"clientId"`
}

type emailRequest struct {
	Email string `json:"email"`
}

func writeResult(c *gin.Context, res *services.Result) {
	c.JSON(res.StatusCode, res)
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, &services.Result{Message: messages.InvalidFormValues})
}

func (s *Server) register(c *gin.Context) {
	var form validation.RegisterForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c)
		return
	}

	writeResult(c, s.auth.Register(c.Request.Context(), form))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	writeResult(c, s.auth.Login(c.Request.Context(), req.Email, req.Password))
}

func (s *Server) googleAuth(c *gin.Context) {
	var req googleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" || req.ClientID == "" {
		badRequest(c)
		return
	}

	writeResult(c, s.auth.LoginWithGoogle(c.Request.Context(), req.Token, req.ClientID))
}

func (s *Server) emailAvailable(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		badRequest(c)
		return
	}

	writeResult(c, s.auth.EmailAvailable(c.Request.Context(), req.Email))
}

func (s *Server) me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		// requireAuth guarantees claims; this is a wiring bug, not a user error.
		c.JSON(http.StatusInternalServerError, &services.Result{Message: messages.Unexpected})
		return
	}

	writeResult(c, s.auth.WhoAmI(c.Request.Context(), claims.Email))
}
