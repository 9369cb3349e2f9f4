package auth

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// RequireUser validates the Firebase ID token and stores the caller's uid
// and email on the context. Requests without a valid token are rejected.
func RequireUser(authClient *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token", "login_required": true})
			c.Abort()
			return
		}

		decoded, err := authClient.VerifyIDToken(context.Background(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token", "login_required": true})
			c.Abort()
			return
		}

		setIdentity(c, decoded)
		c.Next()
	}
}

// OptionalUser sets the identity when a valid token is present and lets
// the request through either way. Endpoints whose contract distinguishes
// "signed out" from "forbidden" (favorite toggle, history) use this and
// leave the decision to the service layer.
func OptionalUser(authClient *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if decoded, err := authClient.VerifyIDToken(context.Background(), token); err == nil {
				setIdentity(c, decoded)
			}
		}
		c.Next()
	}
}

// RequireAdmin gates the admin surface: the verified email must equal the
// configured admin address. This mirrors the Firestore security rules;
// the backend check is authoritative for this API, the client-side check
// is UX only.
func RequireAdmin(adminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := UserEmail(c)
		if email == "" || !strings.EqualFold(email, adminEmail) {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, decoded *auth.Token) {
	c.Set(CtxFirebaseUID, decoded.UID)
	if email, ok := decoded.Claims["email"].(string); ok {
		c.Set(CtxEmail, email)
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
