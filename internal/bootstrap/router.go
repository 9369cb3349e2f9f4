package bootstrap

import (
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/sulaymani-library/go-library-backend/internal/api/http"
	"github.com/sulaymani-library/go-library-backend/internal/api/http/middleware"
	"github.com/sulaymani-library/go-library-backend/internal/auth"
	authhttp "github.com/sulaymani-library/go-library-backend/internal/auth/http"
	"github.com/sulaymani-library/go-library-backend/internal/auth/identitytoolkit"
	"github.com/sulaymani-library/go-library-backend/internal/library/cache"
	libhttp "github.com/sulaymani-library/go-library-backend/internal/library/http"
	"github.com/sulaymani-library/go-library-backend/internal/library/store"
	"github.com/sulaymani-library/go-library-backend/internal/library/sync"
	profilehttp "github.com/sulaymani-library/go-library-backend/internal/profile/http"
	profilerepo "github.com/sulaymani-library/go-library-backend/internal/profile/repository"
	profileservice "github.com/sulaymani-library/go-library-backend/internal/profile/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	AdminEmail  string
	WebAPIKey   string

	AuthClient *fbauth.Client
	Mirror     *sync.Mirror
	Cache      *cache.FeedCache

	Content    *store.ContentStore
	Categories *store.CategoryStore
	Settings   *store.SettingsStore
	Profiles   *profilerepo.Repo
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Cache, dep.Mirror)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	libHandler := libhttp.New(dep.Mirror, dep.Content, dep.Categories, dep.Settings)
	libHandler.Register(api.Group("/library"))

	adminGroup := api.Group("/admin")
	adminGroup.Use(auth.RequireUser(dep.AuthClient), auth.RequireAdmin(dep.AdminEmail))
	libHandler.RegisterAdmin(adminGroup)

	profileHandler := profilehttp.New(profileservice.New(dep.Profiles), dep.Profiles)
	meGroup := api.Group("/me")
	meGroup.Use(auth.OptionalUser(dep.AuthClient))
	profileHandler.Register(meGroup)

	authHandler := authhttp.New(identitytoolkit.New(dep.WebAPIKey))
	authHandler.Register(api.Group("/auth"))

	return r
}
