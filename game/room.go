package game

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	revealDuration   = 10 * time.Second
	maxGuessAttempts = 2
	skippedClueText  = "[SKIPPED]"
)

type roomJoinRequest struct {
	roomID  string
	player  Player
	name    string
	avatar  string
	errChan chan error
}

func NewRoomJoinRequest(roomID string, player Player, name, avatar string) roomJoinRequest {
	return roomJoinRequest{
		roomID:  roomID,
		player:  player,
		name:    name,
		avatar:  avatar,
		errChan: make(chan error, 1),
	}
}

// CommandEnvelope carries one decoded client command plus the connection that
// sent it into the room's inbox.
type CommandEnvelope struct {
	cmd  Command
	from Player
}

func NewCommandEnvelope(cmd Command, from Player) CommandEnvelope {
	return CommandEnvelope{cmd: cmd, from: from}
}

type room struct {
	id          string
	parentLobby Lobby

	// Authoritative game state, mutated only on the room goroutine and
	// serialized wholesale on every broadcast.
	state *RoomState

	// Connection to seat binding. Insertion order of seats lives in
	// state.Players; conns is lookup only.
	conns map[Player]string

	// Deadline for the REVEAL to TYPING transition, checked by handleTick.
	// Owned by the room goroutine, so a deadline from a previous game can
	// never fire against a new one.
	revealDeadline time.Time

	picker      WordPicker
	rng         *rand.Rand
	now         func() time.Time
	newPlayerID func() string

	dataSendTasks []dataSendTask
	pingSendTasks []pingSendTask

	inbox                 chan CommandEnvelope
	ticks                 chan time.Time
	pingPlayers           chan struct{}
	playerRemovalRequests chan Player
	joinRequests          chan roomJoinRequest
	done                  chan struct{}
}

func NewRoom(id string, picker WordPicker, rng *rand.Rand) *room {
	return &room{
		id: id,
		state: &RoomState{
			ID:          id,
			Status:      StatusLobby,
			Players:     []*PlayerState{},
			Config:      defaultConfig(),
			Clues:       []Clue{},
			Votes:       map[string]string{},
			RoundNumber: 1,
		},
		conns:                 make(map[Player]string),
		picker:                picker,
		rng:                   rng,
		now:                   time.Now,
		newPlayerID:           uuid.NewString,
		inbox:                 make(chan CommandEnvelope, 1024),
		ticks:                 make(chan time.Time, 24),
		pingPlayers:           make(chan struct{}, 1),
		playerRemovalRequests: make(chan Player, 64),
		joinRequests:          make(chan roomJoinRequest, 8),
		done:                  make(chan struct{}),
	}
}

// handleEnvelope dispatches one client command. Every Command variant has an
// arm; a command that fails its phase or precondition check is a silent no-op.
func (r *room) handleEnvelope(e CommandEnvelope) {
	switch cmd := e.cmd.(type) {
	case JoinCommand:
		// joins travel through joinRequests, never the inbox
	case ToggleReadyCommand:
		r.handleToggleReadyEnvelope(e.from)
	case UpdateConfigCommand:
		r.handleUpdateConfigEnvelope(cmd, e.from)
	case StartGameCommand:
		r.handleStartGameEnvelope(e.from)
	case SubmitClueCommand:
		r.handleSubmitClueEnvelope(cmd, e.from)
	case SubmitVoteCommand:
		r.handleSubmitVoteEnvelope(cmd, e.from)
	case SubmitGuessCommand:
		r.handleSubmitGuessEnvelope(cmd, e.from)
	case PlayFoolCommand:
		// declared in the protocol, no handling anywhere
	case NextRoundCommand:
		r.handleNextRoundEnvelope(e.from)
	case RestartGameCommand:
		r.handleRestartGameEnvelope(e.from)
	}
}

func (r *room) handleJoinRequest(jreq roomJoinRequest) {
	if r.state.Status != StatusLobby {
		jreq.errChan <- ErrGameInProgress
		close(jreq.errChan)
		return
	}

	seat := &PlayerState{
		ID:     r.newPlayerID(),
		Name:   jreq.name,
		Avatar: jreq.avatar,
		IsHost: len(r.state.Players) == 0,
	}
	r.state.Players = append(r.state.Players, seat)
	r.conns[jreq.player] = seat.ID
	jreq.player.SetRoom(r)
	close(jreq.errChan)

	log.Debug().Str("room", r.id).Str("player", seat.ID).Str("name", seat.Name).Msg("player joined")

	// the joining connection also learns its assigned id, privately
	r.queueStateFor(jreq.player, seat.ID)
	r.queueBroadcast()
}

func (r *room) handleToggleReadyEnvelope(from Player) {
	if r.state.Status != StatusLobby {
		return
	}
	sender := r.seatOf(from)
	if sender == nil {
		return
	}
	sender.IsReady = !sender.IsReady
	r.queueBroadcast()
}

func (r *room) handleUpdateConfigEnvelope(cmd UpdateConfigCommand, from Player) {
	if r.state.Status != StatusLobby {
		return
	}
	sender := r.seatOf(from)
	if sender == nil || !sender.IsHost {
		return
	}

	cfg := &r.state.Config
	if cmd.Config.Category != nil {
		cfg.Category = *cmd.Config.Category
	}
	if cmd.Config.ImpostorCount != nil {
		cfg.ImpostorCount = *cmd.Config.ImpostorCount
	}
	if cmd.Config.TimerDuration != nil {
		cfg.TimerDuration = *cmd.Config.TimerDuration
	}
	if cmd.Config.IsAnonymousVoting != nil {
		cfg.IsAnonymousVoting = *cmd.Config.IsAnonymousVoting
	}
	if cmd.Config.IsPlayFoolMode != nil {
		cfg.IsPlayFoolMode = *cmd.Config.IsPlayFoolMode
	}
	if cmd.Config.Difficulty != nil {
		cfg.Difficulty = *cmd.Config.Difficulty
	}
	r.queueBroadcast()
}

func (r *room) handleStartGameEnvelope(from Player) {
	if r.state.Status != StatusLobby {
		return
	}
	sender := r.seatOf(from)
	if sender == nil || !sender.IsHost {
		return
	}
	for _, p := range r.state.Players {
		if !p.IsReady {
			return
		}
	}

	word, ok := r.picker.Pick(r.state.Config.Category)
	if !ok {
		log.Warn().Str("room", r.id).Str("category", r.state.Config.Category).Msg("unknown category, start ignored")
		return
	}
	r.state.SecretWord = word

	for _, p := range r.state.Players {
		p.Role = RoleCrew
		p.IsEliminated = false
		p.LastClue = ""
		p.HasVoted = false
	}

	shuffled := make([]*PlayerState, len(r.state.Players))
	copy(shuffled, r.state.Players)
	r.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	impostorCount := min(r.state.Config.ImpostorCount, len(r.state.Players)-1)
	for i := 0; i < impostorCount; i++ {
		shuffled[i].Role = RoleImpostor
	}

	now := r.now()
	r.state.Status = StatusReveal
	r.state.Clues = []Clue{}
	r.state.Votes = map[string]string{}
	r.state.CurrentTurnIndex = 0
	r.state.GuessAttempts = 0
	r.state.Winner = ""
	// roundNumber and eliminatedPlayerId are not part of the reset set; a
	// rematch continues the previous game's round count
	r.state.TurnStartTime = now.UnixMilli()
	r.revealDeadline = now.Add(revealDuration)

	log.Info().Str("room", r.id).Int("players", len(r.state.Players)).Int("impostors", impostorCount).Msg("game started")
	r.queueBroadcast()
}

func (r *room) handleSubmitClueEnvelope(cmd SubmitClueCommand, from Player) {
	if r.state.Status != StatusTyping {
		return
	}
	sender := r.seatOf(from)
	if sender == nil || !r.isCurrentTurn(sender) {
		return
	}

	norm := strings.ToLower(strings.TrimSpace(cmd.Text))
	if len(strings.Fields(norm)) != 1 {
		return
	}
	if norm == strings.ToLower(r.state.SecretWord) {
		return
	}
	for _, c := range r.state.Clues {
		if strings.ToLower(c.Text) == norm {
			return
		}
	}

	now := r.now()
	r.state.Clues = append(r.state.Clues, Clue{
		PlayerID:    sender.ID,
		PlayerName:  sender.Name,
		PlayerColor: sender.Avatar,
		Text:        cmd.Text,
		Timestamp:   now.UnixMilli(),
	})
	sender.LastClue = cmd.Text

	r.advanceTurn(now)
	r.queueBroadcast()
}

func (r *room) handleSubmitVoteEnvelope(cmd SubmitVoteCommand, from Player) {
	if r.state.Status != StatusVoting {
		return
	}
	sender := r.seatOf(from)
	if sender == nil || sender.IsEliminated || sender.HasVoted {
		return
	}

	r.state.Votes[sender.ID] = cmd.TargetID
	sender.HasVoted = true

	if len(r.state.Votes) == len(r.activePlayers()) {
		r.tallyVotes()
	}
	r.queueBroadcast()
}

func (r *room) handleSubmitGuessEnvelope(cmd SubmitGuessCommand, from Player) {
	if r.state.Status != StatusTyping {
		return
	}
	sender := r.seatOf(from)
	if sender == nil || !r.isCurrentTurn(sender) {
		return
	}
	if sender.Role != RoleImpostor || r.state.RoundNumber%2 != 0 || r.state.GuessAttempts >= maxGuessAttempts {
		return
	}

	r.state.GuessAttempts++
	if strings.EqualFold(strings.TrimSpace(cmd.Word), r.state.SecretWord) {
		r.state.Winner = RoleImpostor
		r.state.Status = StatusRecap
		sender.Score += 5
		log.Info().Str("room", r.id).Str("player", sender.ID).Msg("impostor guessed the word")
	} else {
		// wrong guess burns the turn without leaving a clue behind
		r.advanceTurn(r.now())
	}
	r.queueBroadcast()
}

func (r *room) handleNextRoundEnvelope(from Player) {
	if r.state.Status != StatusElimination {
		return
	}
	if r.seatOf(from) == nil {
		return
	}

	impostors, crew := 0, 0
	for _, p := range r.activePlayers() {
		switch p.Role {
		case RoleImpostor:
			impostors++
		case RoleCrew:
			crew++
		}
	}

	switch {
	case impostors == 0:
		r.state.Winner = RoleCrew
		r.state.Status = StatusRecap
	case crew <= impostors:
		r.state.Winner = RoleImpostor
		r.state.Status = StatusRecap
	default:
		r.startNewRound(r.now())
	}
	r.queueBroadcast()
}

func (r *room) handleRestartGameEnvelope(from Player) {
	if r.state.Status != StatusRecap {
		return
	}
	sender := r.seatOf(from)
	if sender == nil || !sender.IsHost {
		return
	}

	// secretWord, clues and votes stay as-is until the next START_GAME
	r.state.Status = StatusLobby
	for _, p := range r.state.Players {
		p.IsReady = false
		p.IsEliminated = false
		p.HasVoted = false
		p.Role = ""
	}
	r.queueBroadcast()
}

func (r *room) handleRemovePlayer(p Player) {
	id, ok := r.conns[p]
	if !ok {
		return
	}
	delete(r.conns, p)
	p.CancelAndRelease()

	for i, seat := range r.state.Players {
		if seat.ID == id {
			r.state.Players = append(r.state.Players[:i], r.state.Players[i+1:]...)
			break
		}
	}
	log.Debug().Str("room", r.id).Str("player", id).Msg("player removed")

	if len(r.state.Players) == 0 {
		r.parentLobby.RemoveRoom(r.id)
		return
	}

	hostPresent := false
	for _, seat := range r.state.Players {
		if seat.IsHost {
			hostPresent = true
			break
		}
	}
	if !hostPresent {
		r.state.Players[0].IsHost = true
	}

	// currentTurnIndex and votes are not repaired against the shrunk player
	// set; indexed reads stay bounds-guarded instead
	r.queueBroadcast()
}

// handleTick drives the two time-based transitions: the delayed REVEAL to
// TYPING switch and the stalled-turn auto-skip.
func (r *room) handleTick(now time.Time) {
	switch r.state.Status {
	case StatusReveal:
		if now.Before(r.revealDeadline) {
			return
		}
		r.state.Status = StatusTyping
		r.state.TurnStartTime = now.UnixMilli()
		r.queueBroadcast()
	case StatusTyping:
		if r.state.TurnStartTime == 0 {
			return
		}
		limit := time.Duration(r.state.Config.TimerDuration) * time.Second
		if now.Sub(time.UnixMilli(r.state.TurnStartTime)) < limit {
			return
		}
		r.autoSkipTurn(now)
		r.queueBroadcast()
	}
}

func (r *room) autoSkipTurn(now time.Time) {
	active := r.activePlayers()
	if r.state.CurrentTurnIndex < len(active) {
		current := active[r.state.CurrentTurnIndex]
		r.state.Clues = append(r.state.Clues, Clue{
			PlayerID:    current.ID,
			PlayerName:  current.Name,
			PlayerColor: current.Avatar,
			Text:        skippedClueText,
			Timestamp:   now.UnixMilli(),
		})
		current.LastClue = skippedClueText
	}
	r.advanceTurn(now)
}

// advanceTurn moves to the next active player, or into VOTING once the turn
// index passes the end of the active-player view. Shared by clue submission,
// wrong guesses and auto-skips.
func (r *room) advanceTurn(now time.Time) {
	active := r.activePlayers()
	r.state.CurrentTurnIndex++
	r.state.TurnStartTime = now.UnixMilli()
	if r.state.CurrentTurnIndex >= len(active) {
		r.state.Status = StatusVoting
		r.state.CurrentTurnIndex = 0
		r.state.TurnStartTime = 0
	}
}

func (r *room) tallyVotes() {
	counts := map[string]int{}
	for _, target := range r.state.Votes {
		counts[target]++
	}

	maxVotes, topTargets := 0, 0
	var eliminatedID string
	for id, c := range counts {
		if c > maxVotes {
			maxVotes, topTargets, eliminatedID = c, 1, id
		} else if c == maxVotes {
			topTargets++
		}
	}

	if topTargets != 1 || eliminatedID == "" {
		// tie or no votes: nobody leaves, play another round
		r.startNewRound(r.now())
		return
	}

	target := r.playerByID(eliminatedID)
	if target == nil {
		// the unique max vote named a ghost id; room stays in VOTING
		return
	}

	target.IsEliminated = true
	r.state.EliminatedPlayerID = eliminatedID
	r.state.Status = StatusElimination

	if target.Role == RoleCrew {
		for _, p := range r.state.Players {
			if p.Role == RoleCrew && r.state.Votes[p.ID] == eliminatedID {
				p.Score--
			}
		}
	} else {
		for _, p := range r.state.Players {
			if p.Role == RoleCrew && !p.IsEliminated {
				p.Score += 3
			}
		}
	}
}

func (r *room) startNewRound(now time.Time) {
	r.state.Clues = []Clue{}
	r.state.Votes = map[string]string{}
	for _, p := range r.state.Players {
		p.HasVoted = false
	}
	r.state.CurrentTurnIndex = 0
	r.state.RoundNumber++
	r.state.TurnStartTime = now.UnixMilli()
	r.state.Status = StatusTyping
}

func (r *room) activePlayers() []*PlayerState {
	active := make([]*PlayerState, 0, len(r.state.Players))
	for _, p := range r.state.Players {
		if !p.IsEliminated {
			active = append(active, p)
		}
	}
	return active
}

func (r *room) isCurrentTurn(p *PlayerState) bool {
	active := r.activePlayers()
	idx := r.state.CurrentTurnIndex
	return idx < len(active) && active[idx].ID == p.ID
}

func (r *room) seatOf(conn Player) *PlayerState {
	id, ok := r.conns[conn]
	if !ok {
		return nil
	}
	return r.playerByID(id)
}

func (r *room) playerByID(id string) *PlayerState {
	for _, p := range r.state.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}
