package handlers

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/postboard/internal/models"
	"github.com/vaughan-dsouza/postboard/internal/utils"
)

// The snapshot cookie is a point-in-time copy of the post list held by the
// client. Writes to the store never refresh or invalidate it.

const (
	msgCookieSaved     = "All posts have been saved to cookies"
	msgCookieRead      = "Posts retrieved from cookies"
	msgCookieCleared   = "Posts cookie cleared"
	msgCookieMissing   = "No posts found in cookies"
	msgCookieMalformed = "Posts cookie could not be parsed"
)

type setCookieResponse struct {
	Message    string `json:"message"`
	TotalPosts int    `json:"total_posts"`
}

type getCookieResponse struct {
	Message string        `json:"message"`
	Total   int           `json:"total"`
	Posts   []models.Post `json:"posts"`
}

func (h *PostHandler) SetPostsCookie(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Store.List(r.Context(), "")
	if err != nil {
		storeError(w, r, "list", err)
		return
	}

	value, err := utils.EncodePostsCookie(posts)
	if err != nil {
		log.WithField("error", err).Error("encode posts cookie")
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(value) > 4000 {
		log.WithFields(log.Fields{
			"bytes": len(value),
			"posts": len(posts),
		}).Warn("posts cookie exceeds what most browsers will store")
	}

	http.SetCookie(w, utils.PostsCookie(value))
	utils.JSON(w, http.StatusOK, setCookieResponse{
		Message:    msgCookieSaved,
		TotalPosts: len(posts),
	})
}

func (h *PostHandler) GetPostsCookie(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(utils.PostsCookieName)
	if err != nil {
		utils.JSONDetail(w, http.StatusNotFound, msgCookieMissing)
		return
	}

	posts, err := utils.DecodePostsCookie(cookie.Value)
	switch {
	case errors.Is(err, utils.ErrEmptySnapshot):
		utils.JSONDetail(w, http.StatusNotFound, msgCookieMissing)
	case err != nil:
		utils.JSONDetail(w, http.StatusBadRequest, msgCookieMalformed)
	default:
		utils.JSON(w, http.StatusOK, getCookieResponse{
			Message: msgCookieRead,
			Total:   len(posts),
			Posts:   posts,
		})
	}
}

func (h *PostHandler) ClearPostsCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, utils.ExpiredPostsCookie())
	utils.JSON(w, http.StatusOK, messageResponse{Message: msgCookieCleared})
}
