package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/tigfin/tigfin/internal/auth/domain"
	"github.com/tigfin/tigfin/internal/usercontext"
	"go.uber.org/zap"
)

const sessionCookie = "tigfin_session"

// SessionRequired resolves the session cookie into the request's user
// context. Missing or expired sessions abort with 401.
func (s *Server) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || strings.TrimSpace(token) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authSvc.Resolve(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := usercontext.WithUserID(c.Request.Context(), user.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Set("user", user)
		c.Next()
	}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// @Summary      Sign Up
// @Description  Register a new account and start a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body signUpRequest true "Sign Up Request"
// @Success      200  {object}  authdomain.User
// @Router       /auth/sign-up [post]
func (s *Server) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.authSvc.SignUp(c.Request.Context(), authdomain.SignUpRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		FullName: strings.TrimSpace(req.FullName),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.setSessionCookie(c, resp.Token)
	c.JSON(http.StatusOK, gin.H{"data": resp.User})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary      Sign In
// @Description  Authenticate and start a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body signInRequest true "Sign In Request"
// @Success      200  {object}  authdomain.User
// @Router       /auth/sign-in [post]
func (s *Server) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	key := c.ClientIP() + ":" + strings.ToLower(strings.TrimSpace(req.Email))
	if !s.signInLimiter.Allow(key) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	resp, err := s.authSvc.SignIn(c.Request.Context(), authdomain.SignInRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.setSessionCookie(c, resp.Token)
	c.JSON(http.StatusOK, gin.H{"data": resp.User})
}

// @Summary      Sign Out
// @Description  Terminate the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/sign-out [post]
func (s *Server) SignOut(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err == nil && strings.TrimSpace(token) != "" {
		if err := s.authSvc.SignOut(c.Request.Context(), token); err != nil {
			s.log.Warn("sign out", zap.Error(err))
		}
	}
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Current User
// @Description  Return the authenticated user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authdomain.User
// @Router       /auth/me [get]
func (s *Server) Me(c *gin.Context) {
	value, ok := c.Get("user")
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	user, ok := value.(authdomain.User)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(s.cfg.SessionTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", s.cfg.IsProduction(), true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", s.cfg.IsProduction(), true)
}
