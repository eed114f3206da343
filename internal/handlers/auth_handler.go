package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"sync"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kestrel/internal/middleware"
	"kestrel/internal/models"
)

type loginAttempt struct {
	username  string
	ipAddress string
	timestamp time.Time
	success   bool
}

type AuthHandler struct {
	db               *gorm.DB
	authMiddleware   *middleware.AuthMiddleware
	loginAttempts    []loginAttempt
	rateLimitWindow  time.Duration
	maxLoginAttempts int
	blockDuration    time.Duration
	blockedIPs       map[string]time.Time
	blockedUsernames map[string]time.Time
	attemptsMutex    sync.Mutex
}

func NewAuthHandler(db *gorm.DB, authMiddleware *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		db:               db,
		authMiddleware:   authMiddleware,
		loginAttempts:    []loginAttempt{},
		rateLimitWindow:  10 * time.Minute,
		maxLoginAttempts: 3,
		blockDuration:    45 * time.Minute,
		blockedIPs:       make(map[string]time.Time),
		blockedUsernames: make(map[string]time.Time),
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "username and password are required", err.Error())
		return
	}

	ipAddress := c.ClientIP()

	if h.isIPBlocked(ipAddress) {
		respondError(c, http.StatusTooManyRequests, "too many failed login attempts, try again later")
		return
	}

	if h.isUsernameBlocked(input.Username) {
		respondError(c, http.StatusTooManyRequests, "too many failed login attempts for this username, try again later")
		return
	}

	var user models.User
	if err := h.db.Where("username = ?", input.Username).First(&user).Error; err != nil {
		h.recordLoginAttempt(input.Username, ipAddress, false)
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if !user.Active {
		h.recordLoginAttempt(input.Username, ipAddress, false)
		respondError(c, http.StatusUnauthorized, "account is inactive")
		return
	}

	if !user.CheckPassword(input.Password) {
		h.recordLoginAttempt(input.Username, ipAddress, false)
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := h.authMiddleware.GenerateToken(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	h.recordLoginAttempt(input.Username, ipAddress, true)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"isAdmin":  user.IsAdmin,
		},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		IsAdmin  bool   `json:"is_admin"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "username, password and email are required", err.Error())
		return
	}

	if err := validatePasswordStrength(input.Password); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user := models.User{
		Username: input.Username,
		Password: input.Password,
		Email:    input.Email,
		IsAdmin:  input.IsAdmin,
		Active:   true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to register user", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"message":  "user registered",
	})
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		respondError(c, http.StatusUnauthorized, "not logged in")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "old and new passwords are required", err.Error())
		return
	}

	if err := validatePasswordStrength(input.NewPassword); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userInterface, exists := c.Get("user")
	if !exists {
		respondError(c, http.StatusUnauthorized, "not logged in")
		return
	}

	user := userInterface.(models.User)

	if !user.CheckPassword(input.OldPassword) {
		respondError(c, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	user.Password = input.NewPassword

	if err := h.db.Save(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update password", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h *AuthHandler) recordLoginAttempt(username, ipAddress string, success bool) {
	h.attemptsMutex.Lock()
	defer h.attemptsMutex.Unlock()

	attempt := loginAttempt{
		username:  username,
		ipAddress: ipAddress,
		timestamp: time.Now(),
		success:   success,
	}
	h.loginAttempts = append(h.loginAttempts, attempt)

	if success {
		delete(h.blockedIPs, ipAddress)
		delete(h.blockedUsernames, username)
		return
	}

	cutoffTime := time.Now().Add(-h.rateLimitWindow)
	newAttempts := []loginAttempt{}
	for _, a := range h.loginAttempts {
		if a.timestamp.After(cutoffTime) {
			newAttempts = append(newAttempts, a)
		}
	}
	h.loginAttempts = newAttempts

	ipFailures := 0
	usernameFailures := 0
	for _, a := range h.loginAttempts {
		if a.ipAddress == ipAddress && !a.success {
			ipFailures++
		}
		if a.username == username && !a.success {
			usernameFailures++
		}
	}

	if ipFailures >= h.maxLoginAttempts {
		h.blockedIPs[ipAddress] = time.Now().Add(h.blockDuration)
	}

	if usernameFailures >= h.maxLoginAttempts {
		h.blockedUsernames[username] = time.Now().Add(h.blockDuration)
	}
}

func (h *AuthHandler) isIPBlocked(ipAddress string) bool {
	h.attemptsMutex.Lock()
	defer h.attemptsMutex.Unlock()

	blockUntil, exists := h.blockedIPs[ipAddress]
	if !exists {
		return false
	}

	if time.Now().After(blockUntil) {
		delete(h.blockedIPs, ipAddress)
		return false
	}

	return true
}

func (h *AuthHandler) isUsernameBlocked(username string) bool {
	h.attemptsMutex.Lock()
	defer h.attemptsMutex.Unlock()

	blockUntil, exists := h.blockedUsernames[username]
	if !exists {
		return false
	}

	if time.Now().After(blockUntil) {
		delete(h.blockedUsernames, username)
		return false
	}

	return true
}

func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return errors.New("password must contain at least one digit")
	}

	specialChar := regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
	if !specialChar.MatchString(password) {
		return errors.New("password must contain at least one special character")
	}

	return nil
}
