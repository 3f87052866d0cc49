package api

import (
	"net/http"
	"time"

	"issuegate/internal/domain"
)

func (h *Handler) listPrincipals(w http.ResponseWriter, r *http.Request) {
	list, err := h.principals.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]principalResponse, 0, len(list))
	for _, p := range list {
		out = append(out, principalToAPI(p))
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"principals": out})
}

func (h *Handler) createPrincipal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login   string `json:"login"`
		Name    string `json:"name"`
		Type    string `json:"type"`
		IsAdmin bool   `json:"is_admin"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	p, err := h.principals.Create(r.Context(), domain.CreatePrincipalRequest{
		Login:   req.Login,
		Name:    req.Name,
		Type:    req.Type,
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, principalToAPI(*p))
}

func (h *Handler) getPrincipal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	p, err := h.principals.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, principalToAPI(*p))
}

func (h *Handler) deletePrincipal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.principals.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) setAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.principals.SetAdmin(r.Context(), id, req.IsAdmin); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.principals.SetActive(r.Context(), id, req.Active); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) groupMembers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	members, err := h.principals.GroupMembers(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]principalResponse, 0, len(members))
	for _, m := range members {
		out = append(out, principalToAPI(m))
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"members": out})
}

func (h *Handler) addGroupMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.principals.AddGroupMember(r.Context(), id, req.UserID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) removeGroupMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.principals.RemoveGroupMember(r.Context(), id, userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

type trackerScopeResponse struct {
	AllTrackers bool    `json:"all_trackers"`
	TrackerIDs  []int64 `json:"tracker_ids,omitempty"`
}

type roleResponse struct {
	ID          int64                           `json:"id"`
	Name        string                          `json:"name"`
	Permissions map[string]trackerScopeResponse `json:"permissions"`
}

func roleToAPI(role domain.Role) roleResponse {
	resp := roleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: make(map[string]trackerScopeResponse, len(role.Permissions)),
	}
	for perm, scope := range role.Permissions {
		resp.Permissions[string(perm)] = trackerScopeResponse{
			AllTrackers: scope.AllTrackers,
			TrackerIDs:  scope.TrackerIDs,
		}
	}
	return resp
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	list, err := h.roles.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]roleResponse, 0, len(list))
	for _, role := range list {
		out = append(out, roleToAPI(role))
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"roles": out})
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	role, err := h.roles.Create(r.Context(), domain.CreateRoleRequest{Name: req.Name})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, roleToAPI(*role))
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	role, err := h.roles.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, roleToAPI(*role))
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.roles.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) setRolePermission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req struct {
		Permission  string  `json:"permission"`
		Granted     bool    `json:"granted"`
		AllTrackers bool    `json:"all_trackers"`
		TrackerIDs  []int64 `json:"tracker_ids"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	err = h.roles.SetPermission(r.Context(), domain.SetRolePermissionRequest{
		RoleID:      id,
		Permission:  domain.Permission(req.Permission),
		Granted:     req.Granted,
		AllTrackers: req.AllTrackers,
		TrackerIDs:  req.TrackerIDs,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

type projectResponse struct {
	ID         int64  `json:"id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]projectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, projectResponse{ID: p.ID, Identifier: p.Identifier, Name: p.Name})
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"projects": out})
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Name       string `json:"name"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	p, err := h.projects.Create(r.Context(), domain.CreateProjectRequest{
		Identifier: req.Identifier,
		Name:       req.Name,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, projectResponse{ID: p.ID, Identifier: p.Identifier, Name: p.Name})
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	p, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, projectResponse{ID: p.ID, Identifier: p.Identifier, Name: p.Name})
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.projects.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) projectMembers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	members, err := h.projects.Members(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]principalResponse, 0, len(members))
	for _, m := range members {
		out = append(out, principalToAPI(m.Principal))
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"members": out})
}

func (h *Handler) addMembership(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req struct {
		UserID  int64   `json:"user_id"`
		RoleIDs []int64 `json:"role_ids"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	m, err := h.projects.AddMembership(r.Context(), domain.CreateMembershipRequest{
		UserID:    req.UserID,
		ProjectID: id,
		RoleIDs:   req.RoleIDs,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]any{
		"id":         m.ID,
		"user_id":    m.UserID,
		"project_id": m.ProjectID,
	})
}

func (h *Handler) removeMembership(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.projects.RemoveMembership(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listTrackers(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.ListTrackers(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	type trackerResponse struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Position int    `json:"position"`
	}
	out := make([]trackerResponse, 0, len(list))
	for _, t := range list {
		out = append(out, trackerResponse{ID: t.ID, Name: t.Name, Position: t.Position})
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"trackers": out})
}

func (h *Handler) createTracker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Position int    `json:"position"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	t, err := h.projects.CreateTracker(r.Context(), req.Name, req.Position)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]any{
		"id":       t.ID,
		"name":     t.Name,
		"position": t.Position,
	})
}

func (h *Handler) deleteTracker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.projects.DeleteTracker(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AuditFilter{
		PrincipalName: q.Get("principal"),
		Action:        q.Get("action"),
	}
	entries, err := h.audit.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	type auditResponse struct {
		ID            string `json:"id"`
		PrincipalName string `json:"principal_name"`
		Action        string `json:"action"`
		Detail        string `json:"detail,omitempty"`
		CreatedAt     string `json:"created_at"`
	}
	out := make([]auditResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditResponse{
			ID:            e.ID,
			PrincipalName: e.PrincipalName,
			Action:        e.Action,
			Detail:        e.Detail,
			CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"entries": out})
}
