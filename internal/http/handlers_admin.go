package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/service"
)

// ApproveUser handles POST /admin/users/{id}/approve. The "approved" field
// defaults to true so a bare button approves.
func (h *Handlers) ApproveUser(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	approved := true
	if v := r.PostForm.Get("approved"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.RenderError(w, r, FormRender{Path: "/admin/users"}, apperrors.ValidationField("approved", "承認状態が不正です"))
			return
		}
		approved = b
	}
	if err := h.svc.Users.SetApproved(r.Context(), r.PathValue("id"), approved); err != nil {
		h.RenderError(w, r, FormRender{Path: "/admin/users"}, err)
		return
	}
	if h.svc.Admin != nil {
		h.svc.Admin.InvalidateOverview(r.Context())
	}
	seeOther(w, r, returnTo(r, "/admin/users"))
}

// SetUserRole handles POST /admin/users/{id}/role. Admins cannot demote
// themselves.
func (h *Handlers) SetUserRole(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := r.PathValue("id")
	if id == actorFromRequest(r).UserID {
		h.RenderError(w, r, FormRender{Path: "/admin/users"}, apperrors.ValidationField("role", "自分の権限は変更できません"))
		return
	}
	if err := h.svc.Users.SetRole(r.Context(), id, r.PostForm.Get("role")); err != nil {
		h.RenderError(w, r, FormRender{Path: "/admin/users"}, err)
		return
	}
	seeOther(w, r, returnTo(r, "/admin/users"))
}

// CreateAnnouncement handles POST /admin/announcements.
func (h *Handlers) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := r.PostForm
	_, err := h.svc.Announcements.Create(r.Context(), model.AnnouncementInput{
		Title:       f.Get("title"),
		Content:     f.Get("content"),
		IsPublished: f.Get("is_published") != "",
	})
	if err != nil {
		h.RenderError(w, r, FormRender{Path: "/admin/announcements"}, err)
		return
	}
	seeOther(w, r, "/admin/announcements")
}

// PublishAnnouncement handles POST /admin/announcements/{id}/publish.
func (h *Handlers) PublishAnnouncement(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	published, err := strconv.ParseBool(r.PostForm.Get("published"))
	if err != nil {
		published = true
	}
	if err := h.svc.Announcements.SetPublished(r.Context(), r.PathValue("id"), published); err != nil {
		h.RenderError(w, r, FormRender{Path: "/admin/announcements"}, err)
		return
	}
	seeOther(w, r, "/admin/announcements")
}

// DeleteAnnouncement handles POST /admin/announcements/{id}/delete.
func (h *Handlers) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Announcements.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.RenderError(w, r, FormRender{Path: "/admin/announcements"}, err)
		return
	}
	seeOther(w, r, "/admin/announcements")
}

// Broadcast handles POST /admin/notifications.
func (h *Handlers) Broadcast(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	n, err := h.svc.Notifications.Broadcast(r.Context(), model.BroadcastRequest{
		Title:   r.PostForm.Get("title"),
		Message: r.PostForm.Get("message"),
	})
	if err != nil {
		h.RenderError(w, r, FormRender{Path: "/admin/notifications"}, err)
		return
	}
	h.renderFlash(w, r, FormRender{Path: "/admin/notifications"}, fmt.Sprintf("%d件の通知を配信しました。", n))
}

var contentPaths = map[service.ContentKind]string{
	service.ContentSEO:   "/admin/seo",
	service.ContentLP:    "/admin/lp",
	service.ContentMedia: "/admin/media",
}

// GenerateContent handles POST /admin/content/{kind} and shows the draft
// on the same page.
func (h *Handlers) GenerateContent(w http.ResponseWriter, r *http.Request) {
	kind := service.ContentKind(r.PathValue("kind"))
	path, ok := contentPaths[kind]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !parseForm(w, r) {
		return
	}
	if h.svc.Content == nil {
		h.renderForm(w, r, FormRender{Path: path, Status: http.StatusServiceUnavailable},
			model.FieldErrors{FormErrorKey: "文章生成は設定されていません"})
		return
	}
	text, err := h.svc.Content.Generate(r.Context(), service.ContentRequest{
		Kind:     kind,
		Topic:    r.PostForm.Get("topic"),
		Keywords: r.PostForm.Get("keywords"),
	})
	switch {
	case errors.Is(err, service.ErrContentDisabled):
		h.renderForm(w, r, FormRender{Path: path, Status: http.StatusServiceUnavailable},
			model.FieldErrors{FormErrorKey: "文章生成は設定されていません"})
		return
	case err != nil:
		if _, userErr := fieldErrors(err); userErr {
			h.RenderError(w, r, FormRender{Path: path}, err)
			return
		}
		h.logger.WarnContext(r.Context(), "content generation failed", "kind", kind, "error", err)
		h.renderForm(w, r, FormRender{Path: path, Status: http.StatusBadGateway},
			model.FieldErrors{FormErrorKey: "文章を生成できませんでした。時間をおいて再度お試しください。"})
		return
	}
	h.renderFormResult(w, r, path, &ContentData{Kind: kind, Result: text})
}

// renderFormResult shows the page again with the submitted values and a
// result in Data.
func (h *Handlers) renderFormResult(w http.ResponseWriter, r *http.Request, path string, data any) {
	h.renderForm(w, r, FormRender{Path: path, Data: data, Status: http.StatusOK}, nil)
}
