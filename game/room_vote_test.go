package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// votingFixture drives a started four-player game into VOTING.
func votingFixture(t *testing.T) *roomFixture {
	t.Helper()
	f := newTestRoom(t)
	f.join(t, "ana")
	f.join(t, "bruno")
	f.join(t, "carla")
	f.join(t, "dana")
	f.startGame(t, "Pizza")
	f.toTyping(t)
	f.cluesToVoting(t)
	f.drainTasks()
	return f
}

func (f *roomFixture) vote(t *testing.T, voterID, targetID string) {
	t.Helper()
	f.r.handleSubmitVoteEnvelope(SubmitVoteCommand{TargetID: targetID}, f.connFor(t, voterID))
}

func TestRoom_VotePreconditions(t *testing.T) {
	f := votingFixture(t)
	ids := func() []string {
		out := []string{}
		for _, p := range f.r.state.Players {
			out = append(out, p.ID)
		}
		return out
	}()

	t.Run("double vote is dropped", func(t *testing.T) {
		f.vote(t, ids[0], ids[1])
		require.True(t, f.r.playerByID(ids[0]).HasVoted)
		f.drainTasks()

		f.vote(t, ids[0], ids[2])
		assert.Equal(t, ids[1], f.r.state.Votes[ids[0]])
		assert.Empty(t, f.drainTasks())
	})

	t.Run("eliminated player's vote is dropped", func(t *testing.T) {
		f.r.playerByID(ids[1]).IsEliminated = true
		f.vote(t, ids[1], ids[0])
		_, voted := f.r.state.Votes[ids[1]]
		assert.False(t, voted)
		f.r.playerByID(ids[1]).IsEliminated = false
	})

	t.Run("tally waits for the last active voter", func(t *testing.T) {
		assert.Equal(t, StatusVoting, f.r.state.Status)
		assert.Len(t, f.r.state.Votes, 1)
	})
}

func TestRoom_VoteTally_UniqueMax(t *testing.T) {
	f := votingFixture(t)
	players := f.r.state.Players
	a, b, c, d := players[0], players[1], players[2], players[3]
	roundBefore := f.r.state.RoundNumber

	f.vote(t, a.ID, b.ID)
	f.vote(t, c.ID, b.ID)
	f.vote(t, b.ID, a.ID)
	f.vote(t, d.ID, c.ID) // {b:2, a:1, c:1}

	assert.Equal(t, StatusElimination, f.r.state.Status)
	assert.True(t, b.IsEliminated)
	assert.Equal(t, b.ID, f.r.state.EliminatedPlayerID)
	assert.Equal(t, roundBefore, f.r.state.RoundNumber)
	assert.Len(t, f.r.state.Votes, 4)
}

func TestRoom_VoteTally_Tie(t *testing.T) {
	f := votingFixture(t)
	players := f.r.state.Players
	a, b, c, d := players[0], players[1], players[2], players[3]
	roundBefore := f.r.state.RoundNumber

	f.vote(t, a.ID, b.ID)
	f.vote(t, b.ID, a.ID)
	f.vote(t, c.ID, b.ID)
	f.vote(t, d.ID, a.ID) // {a:2, b:2}

	state := f.r.state
	assert.Equal(t, StatusTyping, state.Status)
	assert.Equal(t, roundBefore+1, state.RoundNumber)
	assert.Empty(t, state.Clues)
	assert.Empty(t, state.Votes)
	assert.Zero(t, state.CurrentTurnIndex)
	assert.Equal(t, f.clock.UnixMilli(), state.TurnStartTime)
	for _, p := range state.Players {
		assert.False(t, p.IsEliminated)
		assert.False(t, p.HasVoted)
	}
}

func TestRoom_Scoring_ImpostorEliminated(t *testing.T) {
	f := votingFixture(t)
	players := f.r.state.Players
	// fix the roles so the scoring outcome is fully determined
	for _, p := range players {
		p.Role = RoleCrew
	}
	impostor := players[2]
	impostor.Role = RoleImpostor

	for _, p := range players {
		f.vote(t, p.ID, impostor.ID)
	}

	assert.Equal(t, StatusElimination, f.r.state.Status)
	assert.True(t, impostor.IsEliminated)
	assert.Zero(t, impostor.Score)
	for _, p := range players {
		if p.Role == RoleCrew {
			assert.Equal(t, 3, p.Score, "crew player %s", p.Name)
		}
	}
}

func TestRoom_Scoring_CrewEliminated(t *testing.T) {
	f := votingFixture(t)
	players := f.r.state.Players
	for _, p := range players {
		p.Role = RoleCrew
	}
	impostor := players[0]
	impostor.Role = RoleImpostor
	victim := players[1]

	f.vote(t, impostor.ID, victim.ID)   // impostor votes victim, no deduction
	f.vote(t, players[2].ID, victim.ID) // crew voter, -1
	f.vote(t, players[3].ID, victim.ID) // crew voter, -1
	f.vote(t, victim.ID, impostor.ID)

	assert.Equal(t, StatusElimination, f.r.state.Status)
	assert.True(t, victim.IsEliminated)
	assert.Zero(t, impostor.Score)
	assert.Zero(t, victim.Score)
	assert.Equal(t, -1, players[2].Score)
	assert.Equal(t, -1, players[3].Score)
}

func TestRoom_VoteTally_GhostTargetKeepsVoting(t *testing.T) {
	f := votingFixture(t)
	players := f.r.state.Players

	for _, p := range players {
		f.vote(t, p.ID, "nobody")
	}

	assert.Equal(t, StatusVoting, f.r.state.Status)
	assert.Empty(t, f.r.state.EliminatedPlayerID)
}

func TestRoom_NextRound(t *testing.T) {
	t.Run("new round when both sides remain", func(t *testing.T) {
		f := votingFixture(t)
		players := f.r.state.Players
		for _, p := range players {
			p.Role = RoleCrew
		}
		players[0].Role = RoleImpostor
		victim := players[1]
		for _, p := range players {
			f.vote(t, p.ID, victim.ID)
		}
		require.Equal(t, StatusElimination, f.r.state.Status)
		roundBefore := f.r.state.RoundNumber
		f.drainTasks()

		f.r.handleNextRoundEnvelope(f.conns[2])

		state := f.r.state
		assert.Equal(t, StatusTyping, state.Status)
		assert.Equal(t, roundBefore+1, state.RoundNumber)
		assert.Empty(t, state.Clues)
		assert.Empty(t, state.Votes)
		assert.Zero(t, state.CurrentTurnIndex)
		// three active players left, all un-voted
		assert.Len(t, f.r.activePlayers(), 3)
	})

	t.Run("crew wins once no impostor remains", func(t *testing.T) {
		f := votingFixture(t)
		players := f.r.state.Players
		for _, p := range players {
			p.Role = RoleCrew
		}
		impostor := players[3]
		impostor.Role = RoleImpostor
		for _, p := range players {
			f.vote(t, p.ID, impostor.ID)
		}
		require.Equal(t, StatusElimination, f.r.state.Status)

		f.r.handleNextRoundEnvelope(f.conns[0])

		assert.Equal(t, RoleCrew, f.r.state.Winner)
		assert.Equal(t, StatusRecap, f.r.state.Status)
	})

	t.Run("impostors win once crew is outnumbered", func(t *testing.T) {
		f := votingFixture(t)
		players := f.r.state.Players
		players[0].Role = RoleImpostor
		players[1].Role = RoleCrew
		players[2].Role = RoleCrew
		players[3].Role = RoleCrew
		players[2].IsEliminated = true // one crew already out
		f.r.state.Status = StatusElimination
		victim := players[3]
		victim.IsEliminated = true // crew 1, impostor 1

		f.r.handleNextRoundEnvelope(f.conns[0])

		assert.Equal(t, RoleImpostor, f.r.state.Winner)
		assert.Equal(t, StatusRecap, f.r.state.Status)
	})

	t.Run("dropped outside elimination", func(t *testing.T) {
		f := votingFixture(t)
		f.drainTasks()
		f.r.handleNextRoundEnvelope(f.conns[0])
		assert.Equal(t, StatusVoting, f.r.state.Status)
		assert.Empty(t, f.drainTasks())
	})
}
