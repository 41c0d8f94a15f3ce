package v1

import (
	"net/http"
	"time"

	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers the login route with the RouterGroup
// that is passed.
func RegisterSessionRoutes(r *gin.RouterGroup, tokens *identity.TokenService) {
	r.OPTIONS("", OptionsSession)
	r.POST("", CreateSession(tokens))
}

type SessionRequest struct {
	Email    string `json:"email" binding:"required" example:"accounting@example.com"` // Email of the user
	Password string `json:"password" binding:"required" example:"secret"`              // Password of the user
}

type Session struct {
	Token     string          `json:"token"`     // The bearer token for subsequent requests
	ExpiresAt time.Time       `json:"expiresAt"` // When the token expires
	Role      models.UserRole `json:"role"`      // Role of the authenticated user
	UserID    string          `json:"userId"`    // ID of the authenticated user
}

type SessionResponse struct {
	Error *string  `json:"error"` // The error, if any occurred
	Data  *Session `json:"data"`  // The session, if login was successful
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Session
// @Success		204
// @Router			/v1/session [options]
func OptionsSession(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Log in
// @Description	Verifies the credentials and returns a bearer token
// @Tags			Session
// @Accept			json
// @Produce		json
// @Success		201		{object}	SessionResponse
// @Failure		400		{object}	SessionResponse
// @Failure		401		{object}	SessionResponse
// @Param			session	body		SessionRequest	true	"Credentials"
// @Router			/v1/session [post]
func CreateSession(tokens *identity.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request SessionRequest
		err := httputil.BindData(c, &request)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, SessionResponse{Error: &e})
			return
		}

		var user models.User
		err = models.DB.Where("email = ?", request.Email).First(&user).Error
		if err != nil {
			// Same response as a wrong password so that accounts
			// cannot be enumerated
			e := identity.ErrInvalidCredentials.Error()
			c.JSON(http.StatusUnauthorized, SessionResponse{Error: &e})
			return
		}

		err = identity.CheckPassword(user.PasswordHash, request.Password)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusUnauthorized, SessionResponse{Error: &e})
			return
		}

		token, expiresAt, err := tokens.Generate(user)
		if err != nil {
			e := models.ErrGeneral.Error()
			c.JSON(http.StatusInternalServerError, SessionResponse{Error: &e})
			return
		}

		c.JSON(http.StatusCreated, SessionResponse{
			Data: &Session{
				Token:     token,
				ExpiresAt: expiresAt,
				Role:      user.Role,
				UserID:    user.ID.String(),
			},
		})
	}
}
