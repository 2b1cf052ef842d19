package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vaughan-dsouza/postboard/internal/models"
)

// PostsCookieName holds the snapshot of the post list.
const PostsCookieName = "all_posts"

// PostsCookieMaxAge is one day, in seconds.
const PostsCookieMaxAge = 86400

var ErrEmptySnapshot = errors.New("snapshot cookie is empty")

// EncodePostsCookie renders posts as a cookie-safe JSON array.
func EncodePostsCookie(posts []models.Post) (string, error) {
	if posts == nil {
		posts = []models.Post{}
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return "", err
	}
	// JSON contains quotes and commas, which are not valid cookie octets.
	return url.QueryEscape(string(raw)), nil
}

// DecodePostsCookie reverses EncodePostsCookie. An empty value or empty list
// returns ErrEmptySnapshot.
func DecodePostsCookie(value string) ([]models.Post, error) {
	if value == "" {
		return nil, ErrEmptySnapshot
	}

	raw, err := url.QueryUnescape(value)
	if err != nil {
		return nil, fmt.Errorf("unescape snapshot: %w", err)
	}

	var posts []models.Post
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if len(posts) == 0 {
		return nil, ErrEmptySnapshot
	}
	return posts, nil
}

// PostsCookie builds the snapshot cookie for value.
func PostsCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     PostsCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   PostsCookieMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredPostsCookie tells the client to drop the snapshot.
func ExpiredPostsCookie() *http.Cookie {
	return &http.Cookie{
		Name:     PostsCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
