package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/diagram"
	apperrors "github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/expand"
	"github.com/matzehuels/argmap/pkg/session"
	"github.com/matzehuels/argmap/pkg/viewport"
)

type ctxKey struct{}

// State is the JSON view of a diagram session.
type State struct {
	ID        string                    `json:"id"`
	Type      argument.DiagramType      `json:"type"`
	Nodes     int                       `json:"nodes"`
	Edges     int                       `json:"edges"`
	HasLayout bool                      `json:"hasLayout"`
	Viewport  viewport.Viewport         `json:"viewport"`
	Canvas    viewport.Canvas           `json:"canvas"`
	Expansion expand.State              `json:"expansion"`
	Summaries map[string]expand.Summary `json:"summaries,omitempty"`
	Hover     string                    `json:"hover,omitempty"`
	Selected  string                    `json:"selected,omitempty"`
	Notice    *apperrors.Notice         `json:"notice,omitempty"`
}

func stateOf(d *diagram.Diagram) State {
	f := d.Frame()
	st := State{
		ID:        d.ID(),
		Type:      d.Type(),
		HasLayout: f.Layout != nil,
		Viewport:  f.Viewport,
		Canvas:    f.Canvas,
		Expansion: f.Expansion,
		Summaries: f.Summaries,
		Hover:     f.Hover,
		Selected:  f.Selected,
	}
	if f.Graph != nil {
		st.Nodes, st.Edges = f.Graph.NodeCount(), len(f.Graph.DrawableEdges())
	}
	if n, ok := d.Notice(); ok {
		st.Notice = &n
	}
	return st
}

// pointerRequest is one pointer event in screen coordinates. Action is
// "down", "move", "up", "wheel" or "pan".
type pointerRequest struct {
	Action string  `json:"action"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Mode   string  `json:"mode,omitempty"`
	DY     float64 `json:"dy,omitempty"`
}

type hoverRequest struct {
	NodeID string `json:"nodeId"`
}

type expandResponse struct {
	Notice *apperrors.Notice `json:"notice,omitempty"`
	State  State             `json:"state"`
}

func (s *Server) createDiagram(w http.ResponseWriter, r *http.Request) {
	p, err := argument.DecodePayload(http.MaxBytesReader(w, r.Body, MaxPayloadBytes))
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidPayload, err, "invalid diagram payload"))
		return
	}
	// The diagram outlives the request.
	d, err := s.newDiagram(context.WithoutCancel(r.Context()), p)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.sessions.Add(d); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("created diagram", "id", d.ID(), "type", d.Type())
	w.Header().Set("Location", "/diagrams/"+d.ID())
	writeJSON(w, http.StatusCreated, stateOf(d))
}

func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func diagramFrom(r *http.Request) *diagram.Diagram {
	return r.Context().Value(ctxKey{}).(*session.Session).Diagram
}

func (s *Server) deleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(diagramFrom(r).SVG())
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateOf(diagramFrom(r)))
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	l := diagramFrom(r).Layout()
	if l == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeLayout, "no layout available"))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) pointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	d := diagramFrom(r)
	p := viewport.Point{X: req.X, Y: req.Y}
	switch req.Action {
	case "down":
		d.PointerDown(p, viewport.ParseMode(req.Mode))
	case "move":
		d.PointerMove(p)
	case "up":
		d.PointerUp()
	case "wheel":
		d.Wheel(p, req.DY)
	case "pan":
		d.Pan(p)
	default:
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown pointer action %q", req.Action))
		return
	}
	writeJSON(w, http.StatusOK, d.Viewport())
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, diagramFrom(r).ResetView())
}

func (s *Server) hover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if !decodeBody(w, r, &req) {
		return
	}
	diagramFrom(r).Hover(req.NodeID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dismissNotice(w http.ResponseWriter, r *http.Request) {
	diagramFrom(r).DismissNotice()
	w.WriteHeader(http.StatusNoContent)
}

// expandNode always answers 200: rejections and failures are notices in the
// body, not transport errors.
func (s *Server) expandNode(w http.ResponseWriter, r *http.Request) {
	nodeID, ok := nodeParam(w, r)
	if !ok {
		return
	}
	d := diagramFrom(r)
	var resp expandResponse
	if n, shown := d.Expand(r.Context(), nodeID); shown {
		resp.Notice = &n
	}
	resp.State = stateOf(d)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) clickNode(w http.ResponseWriter, r *http.Request) {
	nodeID, ok := nodeParam(w, r)
	if !ok {
		return
	}
	if !diagramFrom(r).Click(nodeID) {
		writeError(w, apperrors.New(apperrors.ErrCodeNotFound, "node %s not found", nodeID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nodeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "nodeID"))
	if err != nil || id == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid node id"))
		return "", false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := apperrors.GetCode(err)
	switch {
	case errors.Is(err, session.ErrNotFound):
		status, code = http.StatusNotFound, apperrors.ErrCodeSessionNotFound
	case errors.Is(err, session.ErrFull), errors.Is(err, session.ErrClosed):
		status, code = http.StatusServiceUnavailable, apperrors.ErrCodeInternal
	case code == apperrors.ErrCodeInvalidPayload, code == apperrors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case code == apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case code == apperrors.ErrCodeLayout:
		status = http.StatusConflict
	}
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{"code": string(code), "message": apperrors.UserMessage(err)})
}
