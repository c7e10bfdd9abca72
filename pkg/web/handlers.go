package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/pobstone/racesim/log"
	"github.com/pobstone/racesim/pkg/model"
	"github.com/pobstone/racesim/pkg/race"
	"github.com/pobstone/racesim/pkg/sessions"
	"github.com/pobstone/racesim/pkg/track"
)

type sessionInfo struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Created      time.Time `json:"created"`
	RaceClock    float64   `json:"raceClock"`
	CurrentLap   int       `json:"currentLap"`
	TotalLaps    int       `json:"totalLaps"`
	Paused       bool      `json:"paused"`
	RaceComplete bool      `json:"raceComplete"`
}

func sessionInfoOf(s *sessions.Session) sessionInfo {
	snap := s.Runner.Snapshot()
	return sessionInfo{
		Key:          s.Key,
		Name:         snap.Name,
		Created:      s.Created,
		RaceClock:    snap.RaceClock,
		CurrentLap:   snap.CurrentLap,
		TotalLaps:    snap.TotalLaps,
		Paused:       snap.Paused,
		RaceComplete: snap.RaceComplete,
	}
}

func (s *Server) listSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, lo.Map(s.registry.List(),
		func(item *sessions.Session, _ int) sessionInfo { return sessionInfoOf(item) }))
}

type createRequest struct {
	Definition      *model.RaceDefinition `json:"definition,omitempty"`
	SpeedMultiplier float64               `json:"speedMultiplier,omitempty"`
}

// createSession starts a new race. Without a definition in the body
// the built-in circuit and grid are used.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	// an empty body means "use the defaults"
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	def := req.Definition
	if def == nil {
		def = model.DefaultDefinition()
	} else {
		def.Normalize()
	}
	var opts []race.RunnerOption
	if req.SpeedMultiplier > 0 {
		opts = append(opts, race.WithSpeedMultiplier(req.SpeedMultiplier))
	}
	session, err := s.registry.Create(def, opts...)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sessionInfoOf(session))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Remove(chi.URLParam(r, "key")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Runner.Snapshot())
}

func (s *Server) getStandings(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Runner.Snapshot().Cars)
}

type trackResponse struct {
	Name     string          `json:"name"`
	Location string          `json:"location"`
	Length   float64         `json:"length"`
	Points   []model.Vec3    `json:"points"`
	DRSZones []model.ZoneDef `json:"drsZones"`
	PitLane  pitLaneResponse `json:"pitLane"`
}

type pitLaneResponse struct {
	Entry  float64      `json:"entry"`
	Exit   float64      `json:"exit"`
	Points []model.Vec3 `json:"points"`
}

const trackSamples = 200

// getTrack returns the sampled circuit geometry for map rendering.
func (s *Server) getTrack(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	def := session.Definition
	crv, err := track.NewCurve(def.Points)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	lane, err := track.NewPitLane(def.PitLane)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := trackResponse{
		Name:     def.Name,
		Location: def.Location,
		Length:   crv.Length(),
		DRSZones: def.DRSZones,
		PitLane: pitLaneResponse{
			Entry: lane.Entry,
			Exit:  lane.Exit,
		},
	}
	for i := 0; i < trackSamples; i++ {
		resp.Points = append(resp.Points,
			crv.PointAt(float64(i)/trackSamples).Vec3())
	}
	for i := 0; i <= trackSamples/4; i++ {
		resp.PitLane.Points = append(resp.PitLane.Points,
			lane.PointAt(float64(i)/(trackSamples/4)).Vec3())
	}
	writeJSON(w, http.StatusOK, resp)
}

// liveFeed streams snapshots as server-sent events until the client
// disconnects.
func (s *Server) liveFeed(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := session.Snapshots.Subscribe()
	defer session.Snapshots.CancelSubscription(sub)
	for {
		select {
		case <-r.Context().Done():
			return
		case snap, open := <-sub:
			if !open {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				s.l.Error("marshaling snapshot", log.ErrorField(err))
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) pauseRace(w http.ResponseWriter, r *http.Request) {
	s.control(w, r, func(runner *race.Runner) { runner.Pause() })
}

func (s *Server) resumeRace(w http.ResponseWriter, r *http.Request) {
	s.control(w, r, func(runner *race.Runner) { runner.Resume() })
}

func (s *Server) restartRace(w http.ResponseWriter, r *http.Request) {
	s.control(w, r, func(runner *race.Runner) { runner.Restart() })
}

type speedRequest struct {
	Multiplier float64 `json:"multiplier"`
}

func (s *Server) setSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Multiplier <= 0 || math.IsNaN(req.Multiplier) || math.IsInf(req.Multiplier, 0) {
		writeError(w, http.StatusBadRequest, "multiplier must be a positive number")
		return
	}
	s.control(w, r, func(runner *race.Runner) { runner.SetSpeed(req.Multiplier) })
}

func (s *Server) control(w http.ResponseWriter, r *http.Request, fn func(*race.Runner)) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	fn(session.Runner)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	session, err := s.registry.Get(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return session, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client gone, nothing to do
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
