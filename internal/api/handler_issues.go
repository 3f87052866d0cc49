package api

import (
	"net/http"
	"time"

	"issuegate/internal/domain"
)

type principalResponse struct {
	ID      int64  `json:"id"`
	Login   string `json:"login,omitempty"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	IsAdmin bool   `json:"is_admin"`
	Active  bool   `json:"active"`
}

type issueResponse struct {
	ID         int64               `json:"id"`
	ProjectID  int64               `json:"project_id"`
	TrackerID  int64               `json:"tracker_id,omitempty"`
	Subject    string              `json:"subject"`
	AuthorID   int64               `json:"author_id"`
	AssignedTo *principalResponse  `json:"assigned_to,omitempty"`
	Watchers   []principalResponse `json:"watchers"`
	IsPrivate  bool                `json:"is_private"`
	CreatedAt  time.Time           `json:"created_at"`
}

func principalToAPI(p domain.Principal) principalResponse {
	return principalResponse{
		ID:      p.ID,
		Login:   p.Login,
		Name:    p.Name,
		Type:    p.Type,
		IsAdmin: p.IsAdmin,
		Active:  p.Active,
	}
}

func issueToAPI(i domain.Issue) issueResponse {
	resp := issueResponse{
		ID:        i.ID,
		ProjectID: i.ProjectID,
		TrackerID: i.TrackerID,
		Subject:   i.Subject,
		AuthorID:  i.AuthorID,
		IsPrivate: i.IsPrivate,
		CreatedAt: i.CreatedAt,
		Watchers:  make([]principalResponse, 0, len(i.Watchers)),
	}
	if i.AssignedTo != nil {
		assignee := principalToAPI(*i.AssignedTo)
		resp.AssignedTo = &assignee
	}
	for _, w := range i.Watchers {
		resp.Watchers = append(resp.Watchers, principalToAPI(w))
	}
	return resp
}

func (h *Handler) whoami(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if actor == nil {
		h.respondJSON(w, http.StatusOK, map[string]any{"anonymous": true})
		return
	}
	h.respondJSON(w, http.StatusOK, principalToAPI(actor.Principal))
}

func (h *Handler) listIssues(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	list, err := h.issues.List(r.Context(), actor)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]issueResponse, 0, len(list))
	for _, i := range list {
		out = append(out, issueToAPI(i))
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"issues": out})
}

func (h *Handler) createIssue(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req struct {
		ProjectID    int64  `json:"project_id"`
		TrackerID    int64  `json:"tracker_id"`
		Subject      string `json:"subject"`
		AssignedToID int64  `json:"assigned_to_id"`
		IsPrivate    bool   `json:"is_private"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	issue, err := h.issues.Create(r.Context(), actor, domain.CreateIssueRequest{
		ProjectID:    req.ProjectID,
		TrackerID:    req.TrackerID,
		Subject:      req.Subject,
		AssignedToID: req.AssignedToID,
		IsPrivate:    req.IsPrivate,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, issueToAPI(*issue))
}

func (h *Handler) showIssue(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	issue, err := h.issues.Show(r.Context(), actor, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, issueToAPI(*issue))
}

func (h *Handler) deleteIssue(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.issues.Delete(r.Context(), actor, id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listWatchers(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	issue, err := h.issues.Show(r.Context(), actor, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]principalResponse, 0, len(issue.Watchers))
	for _, p := range issue.Watchers {
		out = append(out, principalToAPI(p))
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"watchers": out})
}

func (h *Handler) addWatcher(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req struct {
		PrincipalID int64 `json:"principal_id"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.issues.AddWatcher(r.Context(), actor, id, req.PrincipalID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) removeWatcher(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	principalID, err := pathID(r, "principalID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.issues.RemoveWatcher(r.Context(), actor, id, principalID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) watcherCandidates(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	page := pageFromQuery(r)
	candidates, total, err := h.issues.WatcherCandidates(r.Context(), actor, id, page)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]principalResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, principalToAPI(c.Principal))
	}
	pageNum := page.Page
	if pageNum < 1 {
		pageNum = 1
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"candidates": out,
		"total":      total,
		"page":       pageNum,
		"per_page":   page.Limit(),
	})
}
