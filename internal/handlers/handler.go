package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vaughan-dsouza/postboard/internal/db"
	"github.com/vaughan-dsouza/postboard/internal/middleware"
)

type Handler struct {
	Store db.PostStore
	Posts *PostHandler
}

func NewHandler(store db.PostStore) *Handler {
	return &Handler{
		Store: store,
		Posts: NewPostHandler(store),
	}
}

// Router wires every route. The snapshot and secured routes live under a
// trailing slash; their bare forms redirect there.
func (h *Handler) Router(tokens middleware.TokenValidator) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger)

	r.Get("/", h.Posts.Index)
	r.Get("/healthz", h.Posts.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/posts", h.Posts.ListPosts)
	r.Get("/post/{post_id}", h.Posts.GetPost)
	r.Post("/post/create-json-data", h.Posts.CreatePostJSON)
	r.Post("/post/create-form-data", h.Posts.CreatePostForm)
	r.Put("/post/edit/{post_id}", h.Posts.EditPost)
	r.Delete("/post/delete/{post_id}", h.Posts.DeletePost)

	r.With(middleware.RequireBearer(tokens)).Get("/posts/secure/", h.Posts.SecurePosts)

	r.Get("/posts/set-cookie/", h.Posts.SetPostsCookie)
	r.Get("/posts/get-cookie/", h.Posts.GetPostsCookie)
	r.Get("/posts/clear-cookie/", h.Posts.ClearPostsCookie)

	for _, path := range []string{
		"/posts/secure",
		"/posts/set-cookie",
		"/posts/get-cookie",
		"/posts/clear-cookie",
	} {
		r.Get(path, addSlash)
	}

	return r
}

// addSlash sends a client to the trailing-slash form of the path, keeping
// the method and query.
func addSlash(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
