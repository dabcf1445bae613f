package httpapi

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/example/cart-sync-service/internal/domain"
	"github.com/example/cart-sync-service/internal/usecase"
	"github.com/example/cart-sync-service/internal/view"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// ShopServer отдаёт витрину: HTML-страницу и JSON API поверх хранилища состояния.
type ShopServer struct {
	Router  *mux.Router
	Store   domain.Store
	Catalog []domain.Product
	Log     logrus.FieldLogger
}

type stateResponse struct {
	Cart domain.Cart `json:"cart"`
	UI   domain.UI   `json:"ui"`
	Page view.Page   `json:"page"`
}

func NewShopServer(store domain.Store, catalog []domain.Product, log logrus.FieldLogger) *ShopServer {
	s := &ShopServer{Router: mux.NewRouter(), Store: store, Catalog: catalog, Log: log}
	s.Router.Use(otelmux.Middleware("shop"))
	s.Router.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	s.Router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	// без саброутера: под middleware он отвечает 404 вместо 405
	s.Router.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	s.Router.HandleFunc("/api/cart/items", s.handleAdd).Methods(http.MethodPost)
	s.Router.HandleFunc("/api/cart/items/{id}", s.handleRemove).Methods(http.MethodDelete)
	// HTML-формы умеют только POST
	s.Router.HandleFunc("/api/cart/items/{id}/remove", s.handleRemove).Methods(http.MethodPost)
	s.Router.HandleFunc("/api/ui/cart/toggle", s.handleToggle).Methods(http.MethodPost)
	return s
}

func (s *ShopServer) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.WriteHTML(w, view.Render(s.Store.GetState(), s.Catalog)); err != nil {
		s.Log.WithError(err).Error("render page")
	}
}

func (s *ShopServer) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, http.StatusOK)
}

func (s *ShopServer) handleAdd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if isForm(r) {
		body.ID = r.PostFormValue("id")
	} else if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		body.ID = ""
	}
	if body.ID == "" {
		writeError(w, errors.Wrap(domain.ErrValidation, "body must be {\"id\": \"<product id>\"}"))
		return
	}
	uc := usecase.AddToCart{Store: s.Store, Catalog: s.Catalog}
	if err := uc.Execute(body.ID); err != nil {
		writeError(w, err)
		return
	}
	s.respond(w, r)
}

func (s *ShopServer) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := (usecase.RemoveFromCart{Store: s.Store}).Execute(id); err != nil {
		writeError(w, err)
		return
	}
	s.respond(w, r)
}

func (s *ShopServer) handleToggle(w http.ResponseWriter, r *http.Request) {
	(usecase.ToggleCart{Store: s.Store}).Execute()
	s.respond(w, r)
}

// respond возвращает форму на страницу, а JSON-клиенту отдаёт новое состояние.
func (s *ShopServer) respond(w http.ResponseWriter, r *http.Request) {
	if isForm(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.writeState(w, http.StatusOK)
}

func isForm(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/x-www-form-urlencoded"
}

func (s *ShopServer) writeState(w http.ResponseWriter, code int) {
	st := s.Store.GetState()
	writeJSON(w, code, stateResponse{Cart: st.Cart, UI: st.UI, Page: view.Render(st, s.Catalog)})
}
