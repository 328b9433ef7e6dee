// Package router assembles the HTTP surface and its middleware chain.
package router

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/handlers"
	"github.com/5w1tchy/library-api/internal/api/handlers/catalog"
	"github.com/5w1tchy/library-api/internal/api/handlers/collection"
	"github.com/5w1tchy/library-api/internal/api/handlers/search"
	mw "github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/auth"
	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/models"
	jwtutil "github.com/5w1tchy/library-api/internal/security/jwt"
	"github.com/5w1tchy/library-api/internal/security/password"
	catalogsvc "github.com/5w1tchy/library-api/internal/service/catalog"
	collectionsvc "github.com/5w1tchy/library-api/internal/service/collection"
	"github.com/5w1tchy/library-api/internal/store/users"
)

type Deps struct {
	Config   config.Config
	DB       *sql.DB
	Redis    redis.UniversalClient
	Provider search.Provider
	// Covers is nil when object storage is not configured.
	Covers catalog.CoverStore
	Log    *zap.Logger
}

func Router(d Deps) http.Handler {
	mux := http.NewServeMux()
	log := d.Log

	signer := jwtutil.NewSigner(d.Config.Auth)
	authn := mw.NewAuthenticator(signer, func(ctx context.Context, id int64) (models.User, error) {
		return users.GetByID(ctx, d.DB, id)
	})
	admin := func(h http.HandlerFunc) http.Handler {
		return authn.RequireAuth(authn.RequireRole(models.RoleAdmin, h))
	}
	user := func(h http.HandlerFunc) http.Handler { return authn.RequireAuth(h) }

	// Health
	checks := map[string]handlers.Check{
		"postgres": d.DB.PingContext,
		"redis":    nil,
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() }
	}
	mux.Handle("GET /health", handlers.Health(checks, log))

	// Auth
	sessions := auth.NewRedisSessions(d.Redis, d.Config.Auth.RefreshTTL)
	authSvc := auth.NewService(d.DB, password.NewHasher(d.Config.Argon2), signer, sessions, log)
	authH := auth.NewHandler(authSvc, log.Named("auth"))
	loginLimit := mw.LoginRateLimit(d.Redis, d.Config.RateLimit.LoginAttempts, d.Config.RateLimit.LoginWindow, log)

	mux.HandleFunc("POST /auth/register", authH.Register)
	mux.Handle("POST /auth/login", loginLimit(http.HandlerFunc(authH.Login)))
	mux.HandleFunc("POST /auth/refresh", authH.Refresh)
	mux.HandleFunc("POST /auth/logout", authH.Logout)
	mux.Handle("POST /auth/logout-all", user(authH.LogoutAll))
	mux.Handle("POST /auth/password", user(authH.ChangePassword))
	mux.Handle("GET /auth/me", user(authH.Me))

	// Catalog
	cat := catalog.NewHandler(catalogsvc.New(d.DB, log), d.Covers, log)

	mux.HandleFunc("GET /books", cat.ListBooks)
	mux.HandleFunc("GET /books/search/author", cat.SearchByAuthor)
	mux.HandleFunc("GET /books/search/title", cat.SearchByTitle)
	mux.HandleFunc("GET /books/search/isbn", cat.SearchByISBN)
	mux.HandleFunc("GET /books/{id}", cat.GetBook)
	mux.HandleFunc("GET /books/{id}/cover", cat.Cover)
	mux.Handle("POST /books", admin(cat.CreateBook))
	mux.Handle("PUT /books/{id}", admin(cat.UpdateBook))
	mux.Handle("DELETE /books/{id}", admin(cat.DeleteBook))

	mux.HandleFunc("GET /authors", cat.ListAuthors)
	mux.HandleFunc("GET /authors/{id}", cat.GetAuthor)
	mux.Handle("POST /authors", admin(cat.CreateAuthor))
	mux.Handle("PUT /authors/{id}", admin(cat.UpdateAuthor))
	mux.Handle("DELETE /authors/{id}", admin(cat.DeleteAuthor))

	mux.HandleFunc("GET /categories", cat.ListCategories)
	mux.HandleFunc("GET /categories/{id}", cat.GetCategory)
	mux.Handle("POST /categories", admin(cat.CreateCategory))
	mux.Handle("PUT /categories/{id}", admin(cat.UpdateCategory))
	mux.Handle("DELETE /categories/{id}", admin(cat.DeleteCategory))

	// Provider search
	sh := search.NewHandler(d.Provider, log)
	mux.HandleFunc("GET /search/books", sh.Books)
	mux.HandleFunc("GET /search/suggest", sh.Suggest)

	// Collection
	coll := collection.NewHandler(collectionsvc.New(d.DB, log), log)
	mux.Handle("POST /collection", user(coll.Add))
	mux.Handle("GET /collection", user(coll.List))
	mux.Handle("GET /collection/check", authn.OptionalAuth(http.HandlerFunc(coll.Check)))
	mux.Handle("DELETE /collection/{bookId}", user(coll.Remove))

	MountAdmin(mux, d, admin, cat)

	stack := []func(http.Handler) http.Handler{
		mw.RequestID,
		mw.Recovery(log),
		mw.AccessLog(log),
		mw.SecurityHeaders(d.Config.HTTP.StrictSecurity),
		mw.Cors(d.Config.HTTP.CORSOrigins, log),
		mw.BodySizeLimit(d.Config.HTTP.MaxBodyBytes),
	}
	if d.Config.RateLimit.Enabled {
		tb := mw.NewRedisTokenBucket(d.Redis, d.Config.RateLimit.Rate, d.Config.RateLimit.Burst, mw.PerIPKey("tb"), log)
		stack = append(stack, tb.Middleware)
	}
	return mw.Chain(mux, stack...)
}
