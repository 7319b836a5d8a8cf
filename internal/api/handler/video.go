package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/videopipe/gostream/internal/domain/model"
	"github.com/videopipe/gostream/internal/domain/repository"
	"github.com/videopipe/gostream/internal/usecase"
)

// VideoResponse is the wire representation of a VideoRecord.
type VideoResponse struct {
	UUID          string `json:"uuid"`
	AuthorID      int64  `json:"author_id"`
	IsComplete    bool   `json:"is_complete"`
	LikesCount    int64  `json:"likes_count"`
	DislikesCount int64  `json:"dislikes_count"`
	ViewsCount    int64  `json:"views_count"`
	CreatedAt     string `json:"created_at"`
}

func toVideoResponse(v *model.VideoRecord) VideoResponse {
	return VideoResponse{
		UUID:          v.UUID.String(),
		AuthorID:      v.AuthorID,
		IsComplete:    v.IsComplete,
		LikesCount:    v.LikesCount,
		DislikesCount: v.DislikesCount,
		ViewsCount:    v.ViewsCount,
		CreatedAt:     v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// VideoHandler serves the Metadata Store's read API.
type VideoHandler struct {
	svc usecase.VideoQueryService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoQueryService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Get handles GET /video/?uuid=... . It returns 503 while the record
// exists but is_complete is still false, per the read endpoint's
// visibility contract.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(r.URL.Query().Get("uuid"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "uuid query parameter must be a valid UUID")
		return
	}

	video, err := h.svc.GetByUUID(r.Context(), videoID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoResponse(video))
}

// GetByAuthor handles GET /videos/author/{id}.
func (h *VideoHandler) GetByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_author_id", "author id must be an integer")
		return
	}

	page, err := parseListPage(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_page", err.Error())
		return
	}

	videos, err := h.svc.GetByAuthorID(r.Context(), authorID, page)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoResponseList(videos))
}

// GetBatch handles GET /videos/batch?uuid=...&uuid=... .
func (h *VideoHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query()["uuid"]
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_video_id", "every uuid query parameter must be a valid UUID")
			return
		}
		ids = append(ids, id)
	}

	videos, err := h.svc.GetByUUIDs(r.Context(), ids)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoResponseList(videos))
}

// List handles GET /videos/ (paginated, complete records only).
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parseListPage(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_page", err.Error())
		return
	}

	videos, err := h.svc.ListComplete(r.Context(), page)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoResponseList(videos))
}

func (h *VideoHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrVideoNotFound):
		Error(w, http.StatusNotFound, "video_not_found", "Video not found")
	case errors.Is(err, repository.ErrVideoNotReady):
		Error(w, http.StatusServiceUnavailable, "video_not_ready", "Video has not finished processing")
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

func toVideoResponseList(videos []*model.VideoRecord) []VideoResponse {
	out := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, toVideoResponse(v))
	}
	return out
}

// parseListPage reads offset/count query parameters, defaulting via
// repository.DefaultListPage when absent.
func parseListPage(r *http.Request) (repository.ListPage, error) {
	page := repository.DefaultListPage()

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return page, errors.New("offset must be a non-negative integer")
		}
		page.Offset = offset
	}

	if raw := r.URL.Query().Get("count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count <= 0 {
			return page, errors.New("count must be a positive integer")
		}
		page.Count = count
	}

	return page, nil
}
