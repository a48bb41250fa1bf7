package httpx

import (
	"errors"
	"net/http"

	"github.com/tramatch/tramatch-web/internal/domain/model"
	"github.com/tramatch/tramatch-web/internal/service"
)

// UpdateProfile handles POST /settings/profile.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := r.PostForm
	_, err := h.svc.Users.UpdateProfile(r.Context(), actorFromRequest(r).UserID, model.ProfileUpdate{
		CompanyName: f.Get("company_name"),
		ContactName: f.Get("contact_name"),
		Phone:       f.Get("phone"),
		Address:     f.Get("address"),
	})
	if err != nil {
		h.RenderError(w, r, FormRender{Path: "/settings"}, err)
		return
	}
	h.renderFlash(w, r, FormRender{Path: "/settings"}, "プロフィールを更新しました。")
}

// ChangePassword handles POST /settings/password.
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := r.PostForm
	if f.Get("new_password") != f.Get("new_password_confirm") {
		h.renderForm(w, r, FormRender{Path: "/settings"}, model.FieldErrors{
			"new_password_confirm": "パスワードが一致しません",
			FormErrorKey:           errMsgFixBelow,
		})
		return
	}
	err := h.svc.Users.ChangePassword(r.Context(), actorFromRequest(r).UserID,
		f.Get("current_password"), f.Get("new_password"))
	if errors.Is(err, service.ErrWrongPassword) {
		h.renderForm(w, r, FormRender{Path: "/settings"}, model.FieldErrors{
			"current_password": "現在のパスワードが正しくありません",
			FormErrorKey:       errMsgFixBelow,
		})
		return
	}
	if err != nil {
		h.RenderError(w, r, FormRender{Path: "/settings"}, err)
		return
	}
	h.renderFlash(w, r, FormRender{Path: "/settings"}, "パスワードを変更しました。")
}

// MarkNotificationsRead handles POST /notifications/read.
func (h *Handlers) MarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Notifications.MarkAllRead(r.Context(), actorFromRequest(r).UserID)
	if err != nil {
		h.RenderError(w, r, FormRender{Path: "/notifications"}, err)
		return
	}
	h.logger.DebugContext(r.Context(), "notifications marked read", "count", n)
	seeOther(w, r, "/notifications")
}
