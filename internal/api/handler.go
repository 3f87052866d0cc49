// Package api exposes the HTTP surface: issue and watcher endpoints gated by
// the visibility core, and admin endpoints for principals, roles, projects
// and trackers.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"issuegate/internal/domain"
	"issuegate/internal/service/issues"
	"issuegate/internal/service/security"

	"github.com/go-chi/chi/v5"
)

// Handler holds the services the HTTP endpoints delegate to.
type Handler struct {
	issues     *issues.IssueService
	principals *security.PrincipalService
	roles      *security.RoleService
	projects   *security.ProjectService
	audit      *security.AuditService
	users      domain.PrincipalRepository
	logger     *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	issueSvc *issues.IssueService,
	principalSvc *security.PrincipalService,
	roleSvc *security.RoleService,
	projectSvc *security.ProjectService,
	auditSvc *security.AuditService,
	users domain.PrincipalRepository,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		issues:     issueSvc,
		principals: principalSvc,
		roles:      roleSvc,
		projects:   projectSvc,
		audit:      auditSvc,
		users:      users,
		logger:     logger,
	}
}

// Routes mounts every endpoint on the router. The auth middleware must
// already have run; handlers resolve the actor from the request context.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/whoami", h.whoami)

	r.Route("/issues", func(r chi.Router) {
		r.Get("/", h.listIssues)
		r.Post("/", h.createIssue)
		r.Get("/{id}", h.showIssue)
		r.Delete("/{id}", h.deleteIssue)
		r.Get("/{id}/watchers", h.listWatchers)
		r.Post("/{id}/watchers", h.addWatcher)
		r.Delete("/{id}/watchers/{principalID}", h.removeWatcher)
		r.Get("/{id}/watchers/candidates", h.watcherCandidates)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.adminOnly)

		r.Route("/principals", func(r chi.Router) {
			r.Get("/", h.listPrincipals)
			r.Post("/", h.createPrincipal)
			r.Get("/{id}", h.getPrincipal)
			r.Delete("/{id}", h.deletePrincipal)
			r.Put("/{id}/admin", h.setAdmin)
			r.Put("/{id}/active", h.setActive)
			r.Get("/{id}/members", h.groupMembers)
			r.Post("/{id}/members", h.addGroupMember)
			r.Delete("/{id}/members/{userID}", h.removeGroupMember)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Get("/", h.listRoles)
			r.Post("/", h.createRole)
			r.Get("/{id}", h.getRole)
			r.Delete("/{id}", h.deleteRole)
			r.Put("/{id}/permission", h.setRolePermission)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.listProjects)
			r.Post("/", h.createProject)
			r.Get("/{id}", h.getProject)
			r.Delete("/{id}", h.deleteProject)
			r.Get("/{id}/members", h.projectMembers)
			r.Post("/{id}/memberships", h.addMembership)
			r.Delete("/memberships/{id}", h.removeMembership)
		})

		r.Route("/trackers", func(r chi.Router) {
			r.Get("/", h.listTrackers)
			r.Post("/", h.createTracker)
			r.Delete("/{id}", h.deleteTracker)
		})

		r.Get("/audit", h.listAudit)
	})
}

// actor resolves the request's user snapshot. Anonymous requests, unknown
// logins, and locked accounts all resolve to nil.
func (h *Handler) actor(r *http.Request) (*domain.User, error) {
	login, ok := domain.PrincipalLoginFromContext(r.Context())
	if !ok {
		return nil, nil
	}
	user, err := h.users.LoadUserByLogin(r.Context(), login)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.Active {
		return nil, nil
	}
	return user, nil
}

func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := h.actor(r)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		if actor == nil || !actor.IsAdmin {
			h.respondError(w, r, domain.ErrAccessDenied("admin privileges required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	h.respondJSON(w, status, map[string]any{
		"code":    status,
		"message": err.Error(),
	})
}

func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation("invalid %s", name)
	}
	return id, nil
}

func pageFromQuery(r *http.Request) domain.PageRequest {
	q := r.URL.Query()
	page := domain.PageRequest{Query: q.Get("q")}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Page = n
		}
	}
	if v := q.Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.PerPage = n
		}
	}
	return page
}
