package db

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/vaughan-dsouza/postboard/internal/models"
)

// MemoryStore holds posts in process memory, in insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	posts []models.Post
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(_ context.Context, title string) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(title)
	return lo.Filter(s.posts, func(p models.Post, _ int) bool {
		return strings.Contains(strings.ToLower(p.Title), needle)
	}), nil
}

func (s *MemoryStore) index(id string) (int, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return -1, err
	}
	_, i, ok := lo.FindIndexOf(s.posts, func(p models.Post) bool {
		return p.ID == oid.Hex()
	})
	if !ok {
		return -1, ErrNotFound
	}
	return i, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, err := s.index(id)
	if err != nil {
		return nil, err
	}
	post := s.posts[i]
	return &post, nil
}

func (s *MemoryStore) Insert(_ context.Context, title, content string) (*models.Post, error) {
	post := models.Post{
		ID:      newID(),
		Title:   title,
		Content: content,
		Created: now(),
	}

	s.mu.Lock()
	s.posts = append(s.posts, post)
	s.mu.Unlock()

	return &post, nil
}

func (s *MemoryStore) Update(_ context.Context, id, title, content string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.index(id)
	if err != nil {
		return nil, err
	}
	s.posts[i].Title = title
	s.posts[i].Content = content

	post := s.posts[i]
	return &post, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.index(id)
	if err != nil {
		return err
	}
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }
