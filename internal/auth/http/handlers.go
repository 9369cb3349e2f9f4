package http

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sulaymani-library/go-library-backend/internal/auth/identitytoolkit"
)

// Handler proxies email/password sign-up and sign-in to the identity
// provider and classifies its failures into stable user-facing classes.
type Handler struct {
	idp *identitytoolkit.Client

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func New(idp *identitytoolkit.Client) *Handler {
	return &Handler{
		idp:      idp,
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiter hands out a per-IP token bucket: 1 attempt per 2 seconds,
// bursts of 5. Enough for humans, hostile to credential stuffing.
func (h *Handler) limiter(ip string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	lim, ok := h.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(0.5), 5)
		h.limiters[ip] = lim
	}
	return lim
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signUp(c *gin.Context) {
	h.authenticate(c, h.idp.SignUp)
}

func (h *Handler) signIn(c *gin.Context) {
	h.authenticate(c, h.idp.SignIn)
}

func (h *Handler) authenticate(c *gin.Context, call func(ctx context.Context, email, password string) (*identitytoolkit.Session, error)) {
	if !h.limiter(c.ClientIP()).Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error_class": identitytoolkit.ErrTooManyRequests})
		return
	}

	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "email and password are required"})
		return
	}

	session, err := call(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		class := identitytoolkit.ClassOf(err)
		status := http.StatusUnauthorized
		switch class {
		case identitytoolkit.ErrTooManyRequests:
			status = http.StatusTooManyRequests
		case identitytoolkit.ErrNetwork:
			status = http.StatusBadGateway
		case identitytoolkit.ErrEmailInUse, identitytoolkit.ErrWeakPassword:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"ok": false, "error_class": class})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "session": session})
}
