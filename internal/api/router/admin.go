package router

import (
	"net/http"

	admin "github.com/5w1tchy/library-api/internal/api/handlers/admin"
	"github.com/5w1tchy/library-api/internal/api/handlers/catalog"
	adminstore "github.com/5w1tchy/library-api/internal/store/admin"
)

// MountAdmin wires the /admin/* endpoints behind the ADMIN gate.
func MountAdmin(mux *http.ServeMux, d Deps, gate func(http.HandlerFunc) http.Handler, cat *catalog.Handler) {
	adminH := admin.NewHandler(adminstore.New(d.DB), d.Redis, d.Log)

	mux.Handle("GET /admin/users", gate(adminH.ListUsers))
	mux.Handle("GET /admin/users/{id}", gate(adminH.GetUser))
	mux.Handle("POST /admin/users/{id}/role", gate(adminH.SetRole))
	mux.Handle("POST /admin/users/{id}/logout-all", gate(adminH.LogoutAll))
	mux.Handle("GET /admin/stats", gate(adminH.Stats))

	mux.Handle("POST /admin/books/{id}/cover", gate(cat.UploadCover))
}
