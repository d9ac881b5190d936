package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hivedesk/internal/logger"
	"hivedesk/internal/middleware"
	"hivedesk/internal/models"
	"hivedesk/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
	log  *logger.Logger
}

func NewAuthHandler(auth services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

var authMessages = errMessages{
	notFound: "User not found. Please sign up first.",
	exists:   "User with this email already exists.",
}

// @Summary      Send OTP
// @Description  Issues a six-digit code for sign-up or sign-in and emails it
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.SendOTPRequest  true  "Email and purpose"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]interface{}
// @Router       /auth/send-otp [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req models.SendOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.auth.SendOTP(c.Request.Context(), req.Email, services.OTPPurpose(req.Purpose), req.Name)
	if err != nil {
		respondError(c, h.log, "[auth][send-otp]", err, authMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent successfully to your email."})
}

// @Summary      Verify OTP
// @Description  Checks a code without consuming it
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.VerifyOTPRequest  true  "Email and code"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		respondError(c, h.log, "[auth][verify-otp]", err, errMessages{notFound: "User not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP verified successfully."})
}

// @Summary      Sign up
// @Description  Finalizes an account. With a valid otp the account is verified immediately, otherwise a code is emailed
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.SignUpRequest  true  "Account details"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]interface{}
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.auth.SignUp(c.Request.Context(), services.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Birthday: req.Birthday,
		Password: req.Password,
		OTP:      req.OTP,
	})
	if err != nil {
		respondError(c, h.log, "[auth][signup]", err, authMessages)
		return
	}

	message := "Account created. Please verify your email with the OTP sent."
	if u.IsVerified {
		message = "Account created successfully!"
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"user": gin.H{
			"id":         u.ID,
			"name":       u.Name,
			"email":      u.Email,
			"isVerified": u.IsVerified,
		},
	})
}

// @Summary      Sign in
// @Description  Password or OTP sign-in. With neither, a code is emailed and no token is returned
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.SignInRequest  true  "Credentials"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if !bindJSON(c, &req) {
		return
	}
	cred := services.NewCredential(req.Password, req.OTP)
	res, err := h.auth.SignIn(c.Request.Context(), req.Email, cred, req.KeepLoggedIn)
	if err != nil {
		respondError(c, h.log, "[auth][signin]", err, authMessages)
		return
	}
	if res.OTPSent {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to your email. Please verify to sign in."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sign in successful!",
		"token":   res.Token,
		"user":    res.User.Profile(),
	})
}

// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	v, ok := c.Get(middleware.ContextUser)
	u, _ := v.(*models.User)
	if !ok || u == nil {
		fail(c, http.StatusUnauthorized, "Access denied.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u.FullProfile()})
}

// @Summary      Sign out
// @Description  Tokens are stateless; the client discards its copy
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.log.Info("[auth][signout]", "user_id", userIDFrom(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Sign out successful."})
}
