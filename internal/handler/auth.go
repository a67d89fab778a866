package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MichaelDViau/Kunaay-Demo/internal/session"
	"github.com/MichaelDViau/Kunaay-Demo/internal/store"
	"github.com/MichaelDViau/Kunaay-Demo/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责登录/登出/会话查询接口
type AuthHandler struct {
	Users        *store.UserStore
	Sessions     *session.Manager
	CookieName   string
	SecureCookie bool
	FailureDelay time.Duration
}

// NewAuthHandler 构造函数
func NewAuthHandler(users *store.UserStore, sessions *session.Manager, cookieName string, secure bool, failureDelay time.Duration) *AuthHandler {
	if cookieName == "" {
		cookieName = "session_id"
	}
	return &AuthHandler{
		Users:        users,
		Sessions:     sessions,
		CookieName:   cookieName,
		SecureCookie: secure,
		FailureDelay: failureDelay,
	}
}

// ---------- 登录 ----------

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Username and password are required")
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			// same pause for unknown users and wrong passwords
			time.Sleep(h.FailureDelay)
		}
		util.Fail(c, err)
		return
	}

	token, err := h.Sessions.Create(user.ID, user.Username)
	if err != nil {
		util.Fail(c, err)
		return
	}

	h.setCookie(c, token, 0)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---------- 登出 ----------

func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.CookieName); err == nil && token != "" {
		h.Sessions.Revoke(token)
	}
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---------- 会话状态 ----------

// Session reports whether the caller holds a live session. A live session is refreshed.
func (h *AuthHandler) Session(c *gin.Context) {
	token, err := c.Cookie(h.CookieName)
	if err == nil && token != "" {
		if s, ok := h.Sessions.Validate(token); ok {
			c.JSON(http.StatusOK, gin.H{"authenticated": true, "username": s.Username})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

// setCookie writes the session cookie. maxAge 0 makes a browser-session
// cookie, a negative maxAge expires it immediately.
func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, value, maxAge, "/", "", h.SecureCookie, true)
}
