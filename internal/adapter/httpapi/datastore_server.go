package httpapi

import (
	"io"
	"net/http"

	"github.com/example/cart-sync-service/internal/domain"
	"github.com/example/cart-sync-service/internal/usecase"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

const maxDocumentSize = 1 << 20

// DatastoreServer отдаёт REST-хранилище JSON-документов в духе Firebase:
// PUT/GET /{doc}.json.
type DatastoreServer struct {
	Router *mux.Router
	UCGet  usecase.GetDocument
	UCPut  usecase.PutDocument
	Log    logrus.FieldLogger
}

func NewDatastoreServer(get usecase.GetDocument, put usecase.PutDocument, log logrus.FieldLogger) *DatastoreServer {
	s := &DatastoreServer{Router: mux.NewRouter(), UCGet: get, UCPut: put, Log: log}
	s.Router.Use(otelmux.Middleware("datastore"))
	s.Router.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	s.Router.HandleFunc("/{doc:[A-Za-z0-9_-]+}.json", s.handleGet).Methods(http.MethodGet)
	s.Router.HandleFunc("/{doc:[A-Za-z0-9_-]+}.json", s.handlePut).Methods(http.MethodPut)
	return s
}

func (s *DatastoreServer) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["doc"]
	raw, err := s.UCGet.Execute(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		raw = []byte("null")
	case err != nil:
		s.Log.WithField("doc", id).WithError(err).Warn("get document")
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (s *DatastoreServer) handlePut(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["doc"]
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize+1))
	if err != nil {
		writeError(w, errors.Wrap(err, "read body"))
		return
	}
	if len(raw) > maxDocumentSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "document too large"})
		return
	}
	if err := s.UCPut.Execute(r.Context(), id, raw); err != nil {
		s.Log.WithField("doc", id).WithError(err).Warn("put document")
		writeError(w, err)
		return
	}
	s.Log.WithFields(logrus.Fields{"doc": id, "bytes": len(raw)}).Info("document stored")
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}
