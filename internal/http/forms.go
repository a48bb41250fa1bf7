package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/http/views"
)

// FormErrorKey holds the message that belongs to the whole form rather
// than one field.
const FormErrorKey = "form"

const (
	errMsgFixBelow = "入力内容を確認してください"
	errMsgSave     = "保存できませんでした。時間をおいて再度お試しください。"
	maxFormBytes   = 1 << 20
)

// parseForm reads a POST body with a size cap.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	return true
}

// fieldErrors turns a service error into form errors. ok is false for
// errors that are not the user's to fix.
func fieldErrors(err error) (model.FieldErrors, bool) {
	var fe model.FieldErrors
	if errors.As(err, &fe) {
		out := make(model.FieldErrors, len(fe)+1)
		for k, v := range fe {
			out[k] = v
		}
		out[FormErrorKey] = errMsgFixBelow
		return out, true
	}
	switch {
	case apperrors.IsValidation(err), apperrors.IsConflict(err), apperrors.IsForeignKey(err):
		msg := apperrors.UserMessage(err)
		if field := apperrors.GetField(err); field != "" {
			return model.FieldErrors{field: msg, FormErrorKey: errMsgFixBelow}, true
		}
		return model.FieldErrors{FormErrorKey: msg}, true
	}
	return nil, false
}

// FormRender names the page a failed post is shown on.
type FormRender struct {
	// Path is the GET path whose view re-renders the form.
	Path string
	// Data pre-fills PageData.Data for views whose loader keeps it.
	Data   any
	Status int
}

// RenderError re-renders the form page for a failed post with the
// submitted values and the error messages. Errors the user cannot fix get
// the generic problem page.
func (h *Handlers) RenderError(w http.ResponseWriter, r *http.Request, fr FormRender, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		http.Error(w, "request canceled", http.StatusRequestTimeout)
		return
	}
	fe, ok := fieldErrors(err)
	if !ok {
		if apperrors.IsNotFound(err) {
			h.pages.NotFound(w, r)
			return
		}
		if apperrors.IsForbidden(err) {
			h.pages.Problem(w, r, ProblemParams{Status: http.StatusForbidden, Heading: "アクセスできません", Message: "この操作を行う権限がありません。"})
			return
		}
		h.logger.ErrorContext(r.Context(), "form submission failed", "path", r.URL.Path, "error", err)
		fe = model.FieldErrors{FormErrorKey: errMsgSave}
		if fr.Status == 0 {
			fr.Status = http.StatusInternalServerError
		}
	}
	h.renderForm(w, r, fr, fe)
}

func (h *Handlers) renderForm(w http.ResponseWriter, r *http.Request, fr FormRender, fe model.FieldErrors) {
	m, ok := h.pages.table.Match(fr.Path)
	if !ok || m.Route.IsRedirect() {
		http.NotFound(w, r)
		return
	}
	pd := h.pages.NewPageData(r, m.Route.Title)
	pd.Path = fr.Path
	pd.Params = m.Params
	pd.Errors = fe
	pd.Form = cloneValues(r.PostForm)
	pd.Data = fr.Data
	status := fr.Status
	if status == 0 {
		status = http.StatusUnprocessableEntity
	}
	h.pages.Render(w, r, RenderParams{View: m.Route.View, Status: status, Data: pd})
}

// renderFlash shows a view again with a success message, for posts that
// stay on their page.
func (h *Handlers) renderFlash(w http.ResponseWriter, r *http.Request, fr FormRender, flash string) {
	m, ok := h.pages.table.Match(fr.Path)
	if !ok || m.Route.IsRedirect() {
		http.NotFound(w, r)
		return
	}
	pd := h.pages.NewPageData(r, m.Route.Title)
	pd.Path = fr.Path
	pd.Params = m.Params
	pd.Flash = flash
	pd.Data = fr.Data
	status := fr.Status
	if status == 0 {
		status = http.StatusOK
	}
	h.pages.Render(w, r, RenderParams{View: m.Route.View, Status: status, Data: pd})
}

// password fields are never echoed back.
func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		if strings.Contains(k, "password") || k == CSRFFieldName {
			continue
		}
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// intField parses an optional integer input. "85,000" and "85000" are
// the same; an empty value is nil.
func intField(form url.Values, name string, fe model.FieldErrors) *int {
	raw := strings.TrimSpace(form.Get(name))
	raw = strings.NewReplacer(",", "", "，", "", "円", "", "kg", "").Replace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fe[name] = "数値を入力してください"
		return nil
	}
	return &n
}

func parseCargoForm(form url.Values) (model.CargoInput, model.FieldErrors) {
	fe := model.FieldErrors{}
	in := model.CargoInput{
		Title:         form.Get("title"),
		DepartureArea: form.Get("departure_area"),
		ArrivalArea:   form.Get("arrival_area"),
		DepartureDate: form.Get("departure_date"),
		ArrivalDate:   form.Get("arrival_date"),
		CargoType:     strings.TrimSpace(form.Get("cargo_type")),
		WeightKg:      intField(form, "weight_kg", fe),
		VehicleType:   strings.TrimSpace(form.Get("vehicle_type")),
		PriceYen:      intField(form, "price_yen", fe),
		Description:   form.Get("description"),
	}
	return in, fe
}

func parseTruckForm(form url.Values) (model.TruckInput, model.FieldErrors) {
	fe := model.FieldErrors{}
	in := model.TruckInput{
		Title:           form.Get("title"),
		CurrentArea:     form.Get("current_area"),
		DestinationArea: strings.TrimSpace(form.Get("destination_area")),
		AvailableDate:   form.Get("available_date"),
		VehicleType:     form.Get("vehicle_type"),
		MaxWeightKg:     intField(form, "max_weight_kg", fe),
		PriceYen:        intField(form, "price_yen", fe),
		Description:     form.Get("description"),
	}
	return in, fe
}

func formDate(v any) string {
	if s := views.FormatDate(v); s != "" {
		return strings.ReplaceAll(s, "/", "-")
	}
	return ""
}

func formInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func cargoFormValues(c *model.CargoListing) url.Values {
	return url.Values{
		"title":          {c.Title},
		"departure_area": {c.DepartureArea},
		"arrival_area":   {c.ArrivalArea},
		"departure_date": {formDate(c.DepartureDate)},
		"arrival_date":   {formDate(c.ArrivalDate)},
		"cargo_type":     {c.CargoType},
		"weight_kg":      {formInt(c.WeightKg)},
		"vehicle_type":   {c.VehicleType},
		"price_yen":      {formInt(c.PriceYen)},
		"description":    {c.Description},
	}
}

func truckFormValues(t *model.TruckListing) url.Values {
	return url.Values{
		"title":            {t.Title},
		"current_area":     {t.CurrentArea},
		"destination_area": {t.DestinationArea},
		"available_date":   {formDate(t.AvailableDate)},
		"vehicle_type":     {t.VehicleType},
		"max_weight_kg":    {formInt(t.MaxWeightKg)},
		"price_yen":        {formInt(t.PriceYen)},
		"description":      {t.Description},
	}
}

func profileFormValues(u *model.User) url.Values {
	return url.Values{
		"company_name": {u.CompanyName},
		"contact_name": {u.ContactName},
		"phone":        {u.Phone},
		"address":      {u.Address},
	}
}
