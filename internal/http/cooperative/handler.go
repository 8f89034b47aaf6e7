package cooperative

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/coopledger/internal/cooperative"
	"github.com/MrJamesThe3rd/coopledger/internal/http/api"
)

type Handler struct {
	svc *cooperative.Service
}

func NewHandler(svc *cooperative.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.update)
}

type cooperativeResponse struct {
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registration_number"`
	Address            string    `json:"address"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Fax                string    `json:"fax"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toResponse(c *cooperative.Cooperative) cooperativeResponse {
	return cooperativeResponse{
		Name:               c.Name,
		RegistrationNumber: c.RegistrationNumber,
		Address:            c.Address,
		Email:              c.Email,
		Phone:              c.Phone,
		Fax:                c.Fax,
		UpdatedAt:          c.UpdatedAt,
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context())
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	raw, err := api.ReadValues(w, r)
	if err != nil {
		api.BadRequest(w, err)
		return
	}

	c, err := h.svc.Update(r.Context(), raw)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toResponse(c))
}
