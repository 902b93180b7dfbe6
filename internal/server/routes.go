package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"wildfire-ca/internal/persist"
	"wildfire-ca/internal/stream"
	"wildfire-ca/internal/wildfire"
)

// Status is the JSON body of GET /state.
type Status struct {
	Tick    uint64           `json:"tick"`
	Seed    int32            `json:"seed"`
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	Burning int              `json:"burning"`
	Wind    stream.WindFrame `json:"wind"`
	Outcome string           `json:"outcome"`
	Viewers int              `json:"viewers"`
}

// StrikeResult is the JSON body returned by POST /strike.
type StrikeResult struct {
	Kind    string `json:"kind"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Ignited int    `json:"ignited"`
}

// Handler returns the HTTP routes: the websocket stream on /ws, a status
// endpoint, ignition commands and snapshot management.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", s.hub)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("POST /strike", s.handleStrike)
	mux.HandleFunc("GET /snapshots", s.handleListSnapshots)
	mux.HandleFunc("POST /snapshots", s.handleSaveSnapshot)
	return mux
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	v, err := s.Do(r.Context(), func(sim *wildfire.Sim) any {
		size := sim.Size()
		wind := sim.Wind()
		return Status{
			Tick:    sim.Tick(),
			Seed:    sim.Config().Seed,
			Width:   size.W,
			Height:  size.H,
			Burning: sim.Map().CountOnFire(),
			Wind:    stream.WindFrame{Angle: wind.Angle(), Strength: wind.Strength()},
			Outcome: s.Outcome().String(),
		}
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	st := v.(Status)
	st.Viewers = s.hub.ClientCount()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStrike(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.Atoi(q.Get("x"))
	y, errY := strconv.Atoi(q.Get("y"))
	if errX != nil || errY != nil {
		http.Error(w, "x and y must be integers", http.StatusBadRequest)
		return
	}
	kind := q.Get("kind")
	if kind == "" {
		kind = "lightning"
	}
	var apply func(*wildfire.Sim) any
	switch kind {
	case "lightning":
		apply = func(sim *wildfire.Sim) any {
			if sim.Strike(x, y) {
				return 1
			}
			return 0
		}
	case "meteor":
		apply = func(sim *wildfire.Sim) any { return sim.StrikeMeteor(x, y) }
	case "explosion":
		apply = func(sim *wildfire.Sim) any { return sim.Explode(x, y) }
	default:
		http.Error(w, "kind must be lightning, meteor or explosion", http.StatusBadRequest)
		return
	}

	v, err := s.Do(r.Context(), apply)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	res := StrikeResult{Kind: kind, X: x, Y: y, Ignited: v.(int)}
	s.log.Debug("strike command", zap.String("kind", kind), zap.Int("x", x), zap.Int("y", y), zap.Int("ignited", res.Ignited))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "snapshots disabled", http.StatusNotFound)
		return
	}
	names, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("listing snapshots", zap.Error(err))
		http.Error(w, "listing snapshots failed", http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "snapshots disabled", http.StatusNotFound)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = s.cfg.SnapshotName
	}
	v, err := s.Do(r.Context(), func(sim *wildfire.Sim) any {
		return persist.Capture(name, sim)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	snap := v.(*persist.Snapshot)
	if err := s.store.Save(r.Context(), snap); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, persist.ErrInvalidName) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"name": snap.Name, "tick": snap.Tick})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
