package models

import (
	"errors"
	"testing"
)

func TestTeamValidate(t *testing.T) {
	valid := &Team{CompetitionID: 1, Player1ID: "alice", Player2ID: "bob"}
	if err := valid.Validate(); err != nil {
		t.Errorf("distinct players: %v", err)
	}

	invalid := &Team{CompetitionID: 1, Player1ID: "alice", Player2ID: "alice"}
	if err := invalid.Validate(); !errors.Is(err, ErrTeamDuplicatePlayer) {
		t.Errorf("identical players: got %v, want ErrTeamDuplicatePlayer", err)
	}
}
