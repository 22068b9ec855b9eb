package handler

import (
	"log"
	"net/http"

	"github.com/daytrack/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 校验所有者账号并写入会话
func (a *API) Login(c *gin.Context) {
	if !a.loginEnabled {
		respondError(c, http.StatusBadRequest, msgLoginDisabled)
		return
	}

	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := db.VerifyOwner(a.db, req.Username, req.Password)
	if err != nil {
		respondError(c, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		log.Printf("[session] save: %v", err)
		respondError(c, http.StatusInternalServerError, msgServerError)
		return
	}

	respondMessage(c, http.StatusOK, msgLoggedIn, gin.H{"username": user.Username})
}

// Logout 清空会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("[session] clear: %v", err)
	}
	respondMessage(c, http.StatusOK, msgLoggedOut, nil)
}

// OwnerRequired 在配置了所有者账号时要求已登录
func (a *API) OwnerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.loginEnabled {
			c.Next()
			return
		}

		session := sessions.Default(c)
		if session.Get(sessionUserIDKey) == nil {
			respondError(c, http.StatusUnauthorized, msgUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
