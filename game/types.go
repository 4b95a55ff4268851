package game

// GameStatus is the room's stage in the game lifecycle, as it appears on the
// wire. StatusGuess is part of the protocol but no transition ever enters it.
type GameStatus string

const (
	StatusLobby       GameStatus = "LOBBY"
	StatusReveal      GameStatus = "REVEAL"
	StatusTyping      GameStatus = "TYPING"
	StatusVoting      GameStatus = "VOTING"
	StatusElimination GameStatus = "ELIMINATION"
	StatusGuess       GameStatus = "GUESS"
	StatusRecap       GameStatus = "RECAP"
)

type PlayerRole string

const (
	RoleCrew     PlayerRole = "CREW"
	RoleImpostor PlayerRole = "IMPOSTOR"
)

type GameConfig struct {
	Category          string `json:"category"`
	ImpostorCount     int    `json:"impostorCount"`
	TimerDuration     int    `json:"timerDuration"`
	IsAnonymousVoting bool   `json:"isAnonymousVoting"`
	IsPlayFoolMode    bool   `json:"isPlayFoolMode"`
	Difficulty        string `json:"difficulty"`
}

func defaultConfig() GameConfig {
	return GameConfig{
		Category:          "Food",
		ImpostorCount:     1,
		TimerDuration:     40,
		IsAnonymousVoting: false,
		IsPlayFoolMode:    false,
		Difficulty:        "Easy",
	}
}

// ConfigPatch is a partial GameConfig. Only the fields present in the client
// payload are applied.
type ConfigPatch struct {
	Category          *string `json:"category"`
	ImpostorCount     *int    `json:"impostorCount"`
	TimerDuration     *int    `json:"timerDuration"`
	IsAnonymousVoting *bool   `json:"isAnonymousVoting"`
	IsPlayFoolMode    *bool   `json:"isPlayFoolMode"`
	Difficulty        *string `json:"difficulty"`
}

type PlayerState struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Avatar       string     `json:"avatar"`
	IsHost       bool       `json:"isHost"`
	IsReady      bool       `json:"isReady"`
	Role         PlayerRole `json:"role,omitempty"`
	IsEliminated bool       `json:"isEliminated"`
	Score        int        `json:"score"`
	LastClue     string     `json:"lastClue,omitempty"`
	HasVoted     bool       `json:"hasVoted"`
}

// Clue snapshots the author's identity at submission time so later player
// mutation or removal cannot change it.
type Clue struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	PlayerColor string `json:"playerColor"`
	Text        string `json:"text"`
	Timestamp   int64  `json:"timestamp"`
}

// RoomState is the full authoritative room state. It is what UPDATE_STATE
// replicates to every client; there are no delta updates.
type RoomState struct {
	ID                 string            `json:"id"`
	Status             GameStatus        `json:"status"`
	Players            []*PlayerState    `json:"players"`
	Config             GameConfig        `json:"config"`
	SecretWord         string            `json:"secretWord,omitempty"`
	CurrentTurnIndex   int               `json:"currentTurnIndex"`
	Clues              []Clue            `json:"clues"`
	Votes              map[string]string `json:"votes"`
	EliminatedPlayerID string            `json:"eliminatedPlayerId,omitempty"`
	Winner             PlayerRole        `json:"winner,omitempty"`
	RoundNumber        int               `json:"roundNumber"`
	GuessAttempts      int               `json:"guessAttempts"`
	TurnStartTime      int64             `json:"turnStartTime,omitempty"`
}
