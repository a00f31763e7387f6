// internal/handlers/handlers.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/alphags/alphags/engine"
	"github.com/alphags/alphags/service/internal/auth"
	"github.com/alphags/alphags/service/internal/database"
	"github.com/alphags/alphags/service/internal/game"
	"github.com/alphags/alphags/service/internal/models"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SnapshotSource loads the checkpoint of a match that is not in memory.
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context, matchID uuid.UUID) ([]byte, error)
}

// ResultSource loads the stored outcome of a finished match.
type ResultSource interface {
	LoadMatchResult(ctx context.Context, matchID uuid.UUID) (database.MatchResult, error)
}

// Server owns the running matches and serves the HTTP and websocket API.
type Server struct {
	Rules        engine.HouseRules
	TurnDuration time.Duration
	Issuer       *auth.Issuer
	Log          logrus.FieldLogger

	Publisher game.ActionPublisher
	Snapshots game.SnapshotStore
	Results   game.ResultStore
	Resume    SnapshotSource
	History   ResultSource

	// FinishedTTL is how long a finished match stays in memory.
	FinishedTTL time.Duration

	// Seed returns the seed of a new match.
	Seed func() uint64

	mu      sync.Mutex
	matches map[uuid.UUID]*game.Match
}

// NewServer creates a server with no running matches.
func NewServer(rules engine.HouseRules, issuer *auth.Issuer, log logrus.FieldLogger) *Server {
	if rules.NumPlayers == 0 {
		rules.NumPlayers = 2
	}
	return &Server{
		Rules:        rules,
		TurnDuration: 30 * time.Second,
		FinishedTTL:  time.Minute,
		Issuer:       issuer,
		Log:          log,
		Seed:         func() uint64 { return uint64(time.Now().UnixNano()) },
		matches:      make(map[uuid.UUID]*game.Match),
	}
}

// Routes returns the HTTP handler for the API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /matches", s.handleCreateMatch)
	mux.HandleFunc("GET /matches/{id}", s.handleGetMatch)
	mux.HandleFunc("GET /matches/{id}/ws", s.handleMatchWS)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

type createMatchRequest struct {
	Players  []string `json:"players"`
	Password string   `json:"password,omitempty"`
	Seed     *uint64  `json:"seed,omitempty"`
}

// SeatInfo is returned for each seat of a new match.
type SeatInfo struct {
	PlayerID uuid.UUID `json:"player_id"`
	Username string    `json:"username"`
	Seat     uint8     `json:"seat"`
	Token    string    `json:"token"`
}

type createMatchResponse struct {
	MatchID uuid.UUID  `json:"match_id"`
	Seats   []SeatInfo `json:"seats"`
}

type matchSummary struct {
	MatchID  uuid.UUID              `json:"match_id"`
	Started  bool                   `json:"started"`
	GameOver bool                   `json:"game_over"`
	Players  []*models.Player       `json:"players"`
	Rules    engine.HouseRules      `json:"rules"`
	Result   map[string]interface{} `json:"result,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleCreateMatch seats the named players and returns one token per seat.
func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if len(req.Players) != int(s.Rules.NumPlayers) {
		writeError(w, http.StatusBadRequest, "wrong number of players")
		return
	}

	seed := s.Seed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	m := game.NewMatch(s.Rules, seed)
	m.SetLogger(s.Log)
	m.TurnDuration = s.TurnDuration
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "cannot hash password")
			return
		}
		m.PasswordHash = hash
	}

	resp := createMatchResponse{MatchID: m.ID}
	for _, name := range req.Players {
		p := &models.Player{ID: uuid.New(), User: &models.User{ID: uuid.New(), Username: name}}
		if err := m.AddPlayer(p); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		tok, err := s.Issuer.IssueSeatToken(m.ID, p.ID, p.Seat)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "cannot issue token")
			return
		}
		resp.Seats = append(resp.Seats, SeatInfo{PlayerID: p.ID, Username: name, Seat: p.Seat, Token: tok})
	}

	s.register(m)
	s.Log.WithField("match", m.ID).Infof("Created match for %v.", req.Players)
	writeJSON(w, http.StatusCreated, resp)
}

// handleGetMatch returns public information about a match.
func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}
	m, err := s.lookup(r.Context(), id)
	if err != nil {
		s.writeStoredResult(r.Context(), w, id)
		return
	}

	m.Mu.Lock()
	sum := matchSummary{
		MatchID:  m.ID,
		Started:  m.Started,
		GameOver: m.GameOver,
		Players:  m.Players,
		Rules:    m.Rules,
	}
	if m.GameOver {
		winner := uuid.Nil
		if seat := m.Engine.Winner(); seat >= 0 {
			winner = m.SeatToPlayer[seat]
		}
		sum.Result = map[string]interface{}{"winner": winner, "nagari": m.Engine.IsNagari()}
	}
	data, err := json.Marshal(sum)
	m.Mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cannot encode match")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// writeStoredResult answers for a match that is no longer in memory.
func (s *Server) writeStoredResult(ctx context.Context, w http.ResponseWriter, id uuid.UUID) {
	if s.History == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	res, err := s.History.LoadMatchResult(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	if err != nil {
		s.Log.WithError(err).WithField("match", id).Error("Cannot load match result.")
		writeError(w, http.StatusInternalServerError, "cannot load match")
		return
	}
	scores := make(map[string]int, len(res.Scores))
	for pid, v := range res.Scores {
		scores[pid.String()] = v
	}
	writeJSON(w, http.StatusOK, matchSummary{
		MatchID:  res.MatchID,
		Started:  true,
		GameOver: true,
		Result: map[string]interface{}{
			"winner":      res.WinnerID,
			"nagari":      res.Nagari,
			"scores":      scores,
			"finished_at": res.FinishedAt,
		},
	})
}

// handleMatchWS binds a websocket to the seat named by the token and relays
// actions until the connection closes.
func (s *Server) handleMatchWS(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}
	claims, err := s.Issuer.ParseSeatToken(r.URL.Query().Get("token"))
	if err != nil || claims.MatchID != id {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	m, err := s.lookup(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	m.Mu.Lock()
	hash := m.PasswordHash
	m.Mu.Unlock()
	if !auth.CheckPassword(hash, r.URL.Query().Get("password")) {
		writeError(w, http.StatusForbidden, "wrong password")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.Log.WithError(err).Warn("Websocket accept failed.")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")
	log := s.Log.WithFields(logrus.Fields{"match": id, "player": claims.PlayerID})

	m.Mu.Lock()
	err = m.HandleReconnect(claims.PlayerID, conn)
	if err == nil && !m.Started && m.AllConnected() {
		err = m.Start()
	}
	m.Mu.Unlock()
	if err != nil {
		log.WithError(err).Warn("Cannot join match.")
		conn.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}

	ctx := r.Context()
	for {
		var action models.GameAction
		if err := wsjson.Read(ctx, conn, &action); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				log.WithError(err).Debug("Read failed.")
			}
			break
		}
		m.Mu.Lock()
		if seatConn(m, claims.PlayerID) != conn {
			m.Mu.Unlock()
			break
		}
		_ = m.HandlePlayerAction(claims.PlayerID, action)
		m.Mu.Unlock()
	}

	m.Mu.Lock()
	if seatConn(m, claims.PlayerID) == conn {
		m.HandleDisconnect(claims.PlayerID)
	}
	m.Mu.Unlock()
}

// seatConn returns the socket currently bound to playerID. A seat that was
// reconnected elsewhere no longer holds the old socket.
func seatConn(m *game.Match, playerID uuid.UUID) *websocket.Conn {
	for _, p := range m.Players {
		if p.ID == playerID {
			return p.Conn
		}
	}
	return nil
}

// register wires a match and makes it reachable.
func (s *Server) register(m *game.Match) {
	s.wire(m)
	s.mu.Lock()
	s.matches[m.ID] = m
	s.mu.Unlock()
}

// wire sets a match's callbacks and stores.
func (s *Server) wire(m *game.Match) {
	m.BroadcastFn = func(ev game.GameEvent) {
		for _, p := range m.Players {
			if p.Connected && p.Conn != nil {
				s.send(p.Conn, ev)
			}
		}
	}
	m.BroadcastToPlayerFn = func(playerID uuid.UUID, ev game.GameEvent) {
		for _, p := range m.Players {
			if p.ID == playerID && p.Conn != nil {
				s.send(p.Conn, ev)
			}
		}
	}
	m.OnGameEnd = func(matchID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int) {
		s.Log.WithFields(logrus.Fields{"match": matchID, "winner": winner}).Info("Match finished.")
		if s.FinishedTTL <= 0 {
			s.evict(matchID)
			return
		}
		time.AfterFunc(s.FinishedTTL, func() { s.evict(matchID) })
	}
	m.Publisher = s.Publisher
	m.Snapshots = s.Snapshots
	m.Results = s.Results
}

// send writes one event with a short deadline. Called under the match lock.
func (s *Server) send(conn *websocket.Conn, ev game.GameEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, conn, ev); err != nil {
		s.Log.WithError(err).Debugf("Dropped %s event.", ev.Type)
	}
}

// lookup finds a running match, resuming it from its checkpoint if needed.
func (s *Server) lookup(ctx context.Context, id uuid.UUID) (*game.Match, error) {
	s.mu.Lock()
	m, ok := s.matches[id]
	s.mu.Unlock()
	if ok {
		return m, nil
	}
	if s.Resume == nil {
		return nil, errMatchNotFound
	}

	data, err := s.Resume.LoadSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err = game.RestoreMatch(data)
	if err != nil {
		return nil, err
	}
	m.SetLogger(s.Log)
	m.TurnDuration = s.TurnDuration
	s.wire(m)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.matches[id]; ok {
		return existing, nil
	}
	s.matches[id] = m
	s.Log.WithField("match", id).Info("Resumed match from checkpoint.")
	return m, nil
}

var errMatchNotFound = errors.New("match not found")

// evict forgets a finished match. It may run under a match lock; the
// registry lock is never held while taking a match lock.
func (s *Server) evict(matchID uuid.UUID) {
	s.mu.Lock()
	delete(s.matches, matchID)
	s.mu.Unlock()
}

// Match returns a registered match by id.
func (s *Server) Match(id uuid.UUID) (*game.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	return m, ok
}
