package handlers

import (
	"errors"
	"net/http"

	"finbuddy/internal/blog"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListPosts(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "unable to load posts")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *Handler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.blog.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			respondError(w, http.StatusNotFound, "post_not_found")
			return
		}
		respondError(w, http.StatusBadGateway, "unable to load post")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"post": post})
}
