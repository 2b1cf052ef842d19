package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	log "github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/postboard/internal/db"
	"github.com/vaughan-dsouza/postboard/internal/models"
	"github.com/vaughan-dsouza/postboard/internal/utils"
)

const (
	msgWelcome        = "Welcome to the API, Upgrade"
	msgPostNotFound   = "post not found"
	msgNoExistingPost = "No existing post"
	msgDeleteNotFound = "Post not found"
	msgDeleted        = "Post deleted successfully"
)

// maxFormMemory caps the in-memory part of a multipart create request.
const maxFormMemory = 1 << 20

type PostHandler struct {
	Store db.PostStore
}

func NewPostHandler(store db.PostStore) *PostHandler {
	return &PostHandler{Store: store}
}

type postsResponse struct {
	Total int           `json:"total"`
	Posts []models.Post `json:"posts"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// storeError logs an unexpected store failure and answers with a generic 500.
func storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.WithFields(log.Fields{
		"op":     op,
		"method": r.Method,
		"path":   r.URL.Path,
		"error":  err,
	}).Error("store operation failed")
	utils.JSONError(w, http.StatusInternalServerError, "internal error")
}

// postID validates the {post_id} URL parameter. On failure the 422 has
// already been written.
func postID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "post_id")
	if err := models.ValidatePostID(id); err != nil {
		utils.ValidationError(w, validation.Errors{"post_id": err})
		return "", false
	}
	return id, true
}

// ---------------------- INDEX ----------------------

func (h *PostHandler) Index(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, messageResponse{Message: msgWelcome})
}

func (h *PostHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		log.WithField("error", err).Warn("health check failed")
		utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---------------------- LIST ----------------------

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	titulo := ""
	if query.Has("titulo") {
		titulo = query.Get("titulo")
		if err := models.ValidateTitleFilter(titulo); err != nil {
			utils.ValidationError(w, validation.Errors{"titulo": err})
			return
		}
	}

	h.writeList(w, r, titulo)
}

// SecurePosts is the unfiltered list served behind a bearer token.
func (h *PostHandler) SecurePosts(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, "")
}

func (h *PostHandler) writeList(w http.ResponseWriter, r *http.Request, titulo string) {
	posts, err := h.Store.List(r.Context(), titulo)
	if err != nil {
		storeError(w, r, "list", err)
		return
	}

	utils.JSON(w, http.StatusOK, postsResponse{Total: len(posts), Posts: posts})
}

// ---------------------- GET ONE ----------------------

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	post, err := h.Store.Get(r.Context(), id)
	switch {
	case errors.Is(err, db.ErrNotFound):
		utils.JSONError(w, http.StatusOK, msgPostNotFound)
	case err != nil:
		storeError(w, r, "get", err)
	default:
		utils.JSON(w, http.StatusOK, post)
	}
}

// ---------------------- CREATE ----------------------

func (h *PostHandler) CreatePostJSON(w http.ResponseWriter, r *http.Request) {
	var body models.PostInput
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if err := body.Validate(); err != nil {
		utils.ValidationError(w, err)
		return
	}

	h.create(w, r, body)
}

func (h *PostHandler) CreatePostForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		utils.JSONError(w, http.StatusBadRequest, "invalid form: "+err.Error())
		return
	}

	body := models.PostInput{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}
	if err := body.ValidateForm(); err != nil {
		utils.ValidationError(w, err)
		return
	}

	h.create(w, r, body)
}

func (h *PostHandler) create(w http.ResponseWriter, r *http.Request, body models.PostInput) {
	post, err := h.Store.Insert(r.Context(), body.Title, body.Content)
	if err != nil {
		storeError(w, r, "insert", err)
		return
	}

	log.WithField("id", post.ID).Debug("post created")
	utils.JSON(w, http.StatusOK, post)
}

// ---------------------- UPDATE ----------------------

func (h *PostHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	var body models.PostInput
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}
	if err := body.Validate(); err != nil {
		utils.ValidationError(w, err)
		return
	}

	post, err := h.Store.Update(r.Context(), id, body.Title, body.Content)
	switch {
	case errors.Is(err, db.ErrNotFound):
		utils.JSONError(w, http.StatusOK, msgNoExistingPost)
	case err != nil:
		storeError(w, r, "update", err)
	default:
		utils.JSON(w, http.StatusOK, post)
	}
}

// ---------------------- DELETE ----------------------

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	err := h.Store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, db.ErrNotFound):
		utils.JSONDetail(w, http.StatusNotFound, msgDeleteNotFound)
	case err != nil:
		storeError(w, r, "delete", err)
	default:
		utils.JSON(w, http.StatusOK, messageResponse{Message: msgDeleted})
	}
}
