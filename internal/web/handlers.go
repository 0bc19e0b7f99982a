package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/ops"
	"github.com/hpungsan/sprig/internal/repository"
)

// Handlers contains HTTP route handlers for the prompt API.
type Handlers struct {
	repo   *repository.Repository
	cfg    *config.Config
	logger *log.Logger
}

// createBody is the JSON body of POST /api/prompts.
type createBody struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	IsFavorite bool     `json:"isFavorite"`
}

// updateBody is the JSON body of PATCH /api/prompts/{id}. Absent fields are
// left unchanged. id, createdAt and updatedAt are accepted so a fetched record
// can be sent back whole, but their values are discarded.
type updateBody struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Tags       *[]string `json:"tags"`
	RemoveTags []string  `json:"removeTags"`
	IsFavorite *bool     `json:"isFavorite"`

	ID        json.RawMessage `json:"id"`
	CreatedAt json.RawMessage `json:"createdAt"`
	UpdatedAt json.RawMessage `json:"updatedAt"`
}

// HandleList handles GET /api/prompts: search, sort and paginate summaries.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := ops.List(r.Context(), h.repo, ops.ListInput{
		Query:  q.Get("q"),
		Sort:   q.Get("sort"),
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleCreate handles POST /api/prompts.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[createBody](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := ops.Create(r.Context(), h.repo, ops.CreateInput{
		Title:      body.Title,
		Content:    body.Content,
		Tags:       body.Tags,
		IsFavorite: body.IsFavorite,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/prompts/"+result.Prompt.ID)
	renderJSON(w, http.StatusCreated, result)
}

// HandleGet handles GET /api/prompts/{id}.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Get(r.Context(), h.repo, ops.GetInput{ID: r.PathValue("id")})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleUpdate handles PATCH /api/prompts/{id}.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[updateBody](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := ops.Update(r.Context(), h.repo, ops.UpdateInput{
		ID:         r.PathValue("id"),
		Title:      body.Title,
		Content:    body.Content,
		Tags:       body.Tags,
		RemoveTags: body.RemoveTags,
		IsFavorite: body.IsFavorite,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleDelete handles DELETE /api/prompts/{id}. Unknown ids succeed with
// deleted=false.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Delete(r.Context(), h.repo, ops.DeleteInput{ID: r.PathValue("id")})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleToggleFavorite handles POST /api/prompts/{id}/favorite.
func (h *Handlers) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ToggleFavorite(r.Context(), h.repo, ops.ToggleFavoriteInput{ID: r.PathValue("id")})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleTags handles GET /api/tags.
func (h *Handlers) HandleTags(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListTags(r.Context(), h.repo, h.cfg)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleSuggestTags handles GET /api/tags/suggest?q=...&attached=...
// attached may repeat.
func (h *Handlers) HandleSuggestTags(w http.ResponseWriter, r *http.Request) {
	if _, err := h.repo.Load(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	result := ops.SuggestTags(h.repo, h.cfg, ops.SuggestTagsInput{
		Partial:  q.Get("q"),
		Attached: q["attached"],
		Limit:    parseIntParam(r, "limit", 0),
	})
	renderJSON(w, http.StatusOK, result)
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Debug("request error", "method", r.Method, "path", r.URL.Path, "err", err)
	renderError(w, err)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
