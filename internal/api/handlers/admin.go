package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"html/template"
	"net/http"
	"time"

	"ad-panel/internal/config"
	"ad-panel/internal/models"
	"ad-panel/internal/services"

	"github.com/gin-gonic/gin"
)

const adminSessionCookie = "adpanel_admin"

// AdminHandler serves the hidden admin entry page. The route only exists
// when an entry path is configured, and the page answers 404 on every
// other path so the entry cannot be discovered by scanning.
type AdminHandler struct {
	authService *services.AuthService
	opLog       *services.OperationLogService
	cfg         *config.Config
	loginTmpl   *template.Template
	panelTmpl   *template.Template
}

func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		authService: services.NewAuthService(cfg),
		opLog:       services.NewOperationLogService(cfg),
		cfg:         cfg,
		loginTmpl:   template.Must(template.New("login").Parse(adminLoginPage)),
		panelTmpl:   template.Must(template.New("panel").Parse(adminPanelPage)),
	}
}

// Entry handles GET and POST on the configured admin path.
func (h *AdminHandler) Entry(c *gin.Context) {
	entryPath := "/" + h.cfg.Admin.EntryPath

	if _, ok := c.GetQuery("logout"); ok {
		if token, err := c.Cookie(adminSessionCookie); err == nil {
			if sess, err := h.authService.GetSession(token); err == nil {
				h.opLog.LogLogout(sess.User.Username, c.ClientIP(), c.GetHeader("User-Agent"))
			}
			h.authService.DeleteSession(token)
		}
		c.SetCookie(adminSessionCookie, "", -1, entryPath, "", false, true)
		c.Redirect(http.StatusFound, entryPath)
		return
	}

	if c.Request.Method == http.MethodPost {
		h.login(c, entryPath)
		return
	}

	if user := h.sessionUser(c); user != nil {
		c.Header("Content-Type", "text/html; charset=utf-8")
		h.panelTmpl.Execute(c.Writer, gin.H{
			"Username":  user.Username,
			"EntryPath": entryPath,
			"APIPrefix": h.cfg.API.Prefix,
		})
		return
	}

	h.renderLogin(c, "")
}

func (h *AdminHandler) login(c *gin.Context, entryPath string) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.authService.Authenticate(username, password, c.ClientIP())
	if err != nil || user == nil || !models.HasPermission(user.Role, models.RoleAdmin) {
		h.opLog.LogLogin(username, c.ClientIP(), c.GetHeader("User-Agent"), models.OpStatusFailed, "admin entry login failed")
		h.renderLogin(c, "Invalid credentials")
		return
	}

	raw := make([]byte, 32)
	rand.Read(raw)
	token := hex.EncodeToString(raw)
	if err := h.authService.CreateSession(user.ID, token, time.Now().Add(12*time.Hour)); err != nil {
		h.renderLogin(c, "Login failed, try again")
		return
	}

	h.opLog.LogLogin(user.Username, c.ClientIP(), c.GetHeader("User-Agent"), models.OpStatusSuccess, "")
	c.SetCookie(adminSessionCookie, token, int(12*time.Hour/time.Second), entryPath, "", false, true)
	c.Redirect(http.StatusFound, entryPath)
}

func (h *AdminHandler) sessionUser(c *gin.Context) *models.User {
	token, err := c.Cookie(adminSessionCookie)
	if err != nil {
		return nil
	}
	sess, err := h.authService.GetSession(token)
	if err != nil {
		return nil
	}
	if !models.HasPermission(sess.User.Role, models.RoleAdmin) {
		return nil
	}
	return &sess.User
}

func (h *AdminHandler) renderLogin(c *gin.Context, errorMessage string) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	h.loginTmpl.Execute(c.Writer, gin.H{"Error": errorMessage})
}

const adminLoginPage = `<!DOCTYPE html>
<html>
<head>
<title>Admin Login</title>
<style>
body { font-family: Arial; background: #f5f5f5; }
.login-form { width: 300px; margin: 100px auto; padding: 20px; background: white; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
.error { color: red; margin-bottom: 15px; }
</style>
</head>
<body>
<div class="login-form">
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
<form method="POST">
<h2>Admin Login</h2>
<div><input type="text" name="username" placeholder="Username" required></div>
<div><input type="password" name="password" placeholder="Password" required></div>
<button type="submit">Login</button>
</form>
</div>
</body>
</html>
`

const adminPanelPage = `<!DOCTYPE html>
<html>
<head>
<title>Admin Panel</title>
<style>
body { font-family: Arial; margin: 0; }
header { background: #333; color: white; padding: 10px 20px; display: flex; justify-content: space-between; }
.container { padding: 20px; }
.ad-list { display: grid; grid-template-columns: repeat(3, 1fr); gap: 20px; }
.ad-item { border: 1px solid #ddd; padding: 15px; }
</style>
</head>
<body>
<header>
<h2>58奇迹广告管理系统</h2>
<span>{{.Username}} | <a href="{{.EntryPath}}?logout=1" style="color: white;">Logout</a></span>
</header>
<div class="container">
<h3>广告管理</h3>
<div class="ad-list" data-api="{{.APIPrefix}}/ads"></div>
</div>
</body>
</html>
`
