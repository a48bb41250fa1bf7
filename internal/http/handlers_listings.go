package httpx

import (
	"net/http"

	"github.com/tramatch/tramatch-web/internal/domain/model"
	"github.com/tramatch/tramatch-web/internal/service"
)

func actorFromRequest(r *http.Request) service.Actor {
	st := SessionStateFromContext(r.Context())
	if st.User == nil {
		return service.Actor{}
	}
	return service.Actor{UserID: st.User.ID, IsAdmin: st.IsAdmin}
}

// withParseErrors adds the form parse errors to the validation result so
// both show at once.
func withParseErrors(parse model.FieldErrors, validate func() error) error {
	err := validate()
	if len(parse) == 0 {
		return err
	}
	out := model.FieldErrors{}
	if fe, ok := err.(model.FieldErrors); ok {
		for k, v := range fe {
			out[k] = v
		}
	}
	for k, v := range parse {
		out[k] = v
	}
	return out
}

// CreateCargo handles POST /cargo/new.
func (h *Handlers) CreateCargo(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	in, parseErrs := parseCargoForm(r.PostForm)
	if err := withParseErrors(parseErrs, in.Validate); err != nil {
		h.RenderError(w, r, FormRender{Path: "/cargo/new"}, err)
		return
	}
	c, err := h.svc.Listings.CreateCargo(r.Context(), actorFromRequest(r), in)
	if err != nil {
		h.RenderError(w, r, FormRender{Path: "/cargo/new"}, err)
		return
	}
	seeOther(w, r, "/cargo/"+c.ID)
}

// UpdateCargo handles POST /cargo/edit/{id}.
func (h *Handlers) UpdateCargo(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := r.PathValue("id")
	formPath := "/cargo/edit/" + id
	in, parseErrs := parseCargoForm(r.PostForm)
	if err := withParseErrors(parseErrs, in.Validate); err != nil {
		h.RenderError(w, r, FormRender{Path: formPath}, err)
		return
	}
	if _, err := h.svc.Listings.UpdateCargo(r.Context(), actorFromRequest(r), id, in); err != nil {
		h.RenderError(w, r, FormRender{Path: formPath}, err)
		return
	}
	seeOther(w, r, "/cargo/"+id)
}

// SetCargoStatus handles POST /cargo/{id}/status. The form may name the
// partner company when marking the cargo completed.
func (h *Handlers) SetCargoStatus(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := r.PathValue("id")
	err := h.svc.Listings.SetCargoStatus(r.Context(), actorFromRequest(r), id,
		r.PostForm.Get("status"), r.PostForm.Get("partner_id"))
	if err != nil {
		h.RenderError(w, r, FormRender{Path: "/cargo/" + id}, err)
		return
	}
	seeOther(w, r, returnTo(r, "/cargo/"+id))
}

// CreateTruck handles POST /trucks/new.
func (h *Handlers) CreateTruck(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	in, parseErrs := parseTruckForm(r.PostForm)
	if err := withParseErrors(parseErrs, in.Validate); err != nil {
		h.RenderError(w, r, FormRender{Path: "/trucks/new"}, err)
		return
	}
	t, err := h.svc.Listings.CreateTruck(r.Context(), actorFromRequest(r), in)
	if err != nil {
		h.RenderError(w, r, FormRender{Path: "/trucks/new"}, err)
		return
	}
	seeOther(w, r, "/trucks/"+t.ID)
}

// UpdateTruck handles POST /trucks/edit/{id}.
func (h *Handlers) UpdateTruck(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := r.PathValue("id")
	formPath := "/trucks/edit/" + id
	in, parseErrs := parseTruckForm(r.PostForm)
	if err := withParseErrors(parseErrs, in.Validate); err != nil {
		h.RenderError(w, r, FormRender{Path: formPath}, err)
		return
	}
	if _, err := h.svc.Listings.UpdateTruck(r.Context(), actorFromRequest(r), id, in); err != nil {
		h.RenderError(w, r, FormRender{Path: formPath}, err)
		return
	}
	seeOther(w, r, "/trucks/"+id)
}

// SetTruckStatus handles POST /trucks/{id}/status.
func (h *Handlers) SetTruckStatus(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := r.PathValue("id")
	err := h.svc.Listings.SetTruckStatus(r.Context(), actorFromRequest(r), id, r.PostForm.Get("status"))
	if err != nil {
		h.RenderError(w, r, FormRender{Path: "/trucks/" + id}, err)
		return
	}
	seeOther(w, r, returnTo(r, "/trucks/"+id))
}

// returnTo honors a same-origin "return_to" field so list pages (such as
// the admin boards) can update a status in place.
func returnTo(r *http.Request, fallback string) string {
	if v := r.PostForm.Get("return_to"); v != "" {
		if p := safeRedirectPath(v); p != "/" {
			return p
		}
	}
	return fallback
}
