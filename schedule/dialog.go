package schedule

import (
	"github.com/trunkcat/fixtures/models"
	"github.com/trunkcat/fixtures/services"
)

// DialogState is the state of the match edit dialog.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogEditable
	DialogLocked
	DialogSubmitting
)

func (s DialogState) String() string {
	switch s {
	case DialogClosed:
		return "closed"
	case DialogEditable:
		return "editable"
	case DialogLocked:
		return "locked"
	case DialogSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

func (s DialogState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Operation is one of the two score mutations a match supports.
type Operation int

const (
	OpUpdateScores Operation = iota
	OpEndMatch
)

func (o Operation) String() string {
	if o == OpEndMatch {
		return "end match"
	}
	return "update scores"
}

// ScoreForm holds the two score counters of the dialog.
type ScoreForm struct {
	Team1Score int `json:"team1Score" validate:"min=0"`
	Team2Score int `json:"team2Score" validate:"min=0"`
}

func (f ScoreForm) Update() models.ScoreUpdate {
	return models.ScoreUpdate{Team1: f.Team1Score, Team2: f.Team2Score}
}

func formFor(m models.Match) ScoreForm {
	return ScoreForm{Team1Score: m.Score.Team1Score, Team2Score: m.Score.Team2Score}
}

// Submission is a mutation started by Begin. Token identifies it when the
// response comes back.
type Submission struct {
	Token uint64
	Op    Operation
	Match models.Match
	Form  ScoreForm
}

// MatchDialog is the edit state machine for at most one selected match.
// It is not safe for concurrent use; Section serializes access.
type MatchDialog struct {
	state DialogState
	match models.Match
	form  ScoreForm
	seq   uint64
	token uint64 // token of the submission in flight, 0 when none
}

func (d *MatchDialog) State() DialogState {
	return d.state
}

// Match returns the selected match; ok is false when the dialog is closed.
func (d *MatchDialog) Match() (models.Match, bool) {
	if d.state == DialogClosed {
		return models.Match{}, false
	}
	return d.match, true
}

func (d *MatchDialog) Form() ScoreForm {
	return d.form
}

// CountersDisabled reports whether the score counters accept input.
func (d *MatchDialog) CountersDisabled() bool {
	return d.state != DialogEditable
}

// Open selects m. Only one match may be selected at a time.
func (d *MatchDialog) Open(m models.Match) error {
	if d.state != DialogClosed {
		return ErrMatchAlreadySelected
	}
	d.match = m
	d.form = formFor(m)
	d.state = stateFor(m)
	return nil
}

func stateFor(m models.Match) DialogState {
	if m.Ended() {
		return DialogLocked
	}
	return DialogEditable
}

// Adjust moves one counter by delta. Counters never go below zero.
func (d *MatchDialog) Adjust(slot, delta int) error {
	switch d.state {
	case DialogClosed:
		return ErrNoMatchSelected
	case DialogLocked:
		return ErrMatchLocked
	case DialogSubmitting:
		return ErrDialogBusy
	}

	var counter *int
	switch slot {
	case 1:
		counter = &d.form.Team1Score
	case 2:
		counter = &d.form.Team2Score
	default:
		return ErrInvalidSlot
	}
	if *counter+delta < 0 {
		*counter = 0
		return nil
	}
	*counter += delta
	return nil
}

// SetForm replaces both counters, as a form submission would.
func (d *MatchDialog) SetForm(form ScoreForm) error {
	switch d.state {
	case DialogClosed:
		return ErrNoMatchSelected
	case DialogLocked:
		return ErrMatchLocked
	case DialogSubmitting:
		return ErrDialogBusy
	}
	d.form = form
	return nil
}

// Begin validates the form and moves an editable dialog to submitting.
func (d *MatchDialog) Begin(op Operation) (Submission, error) {
	switch d.state {
	case DialogClosed:
		return Submission{}, ErrNoMatchSelected
	case DialogLocked:
		return Submission{}, ErrMatchLocked
	case DialogSubmitting:
		return Submission{}, ErrDialogBusy
	}
	if err := services.ValidateStruct(d.form); err != nil {
		return Submission{}, err
	}
	d.seq++
	d.token = d.seq
	d.state = DialogSubmitting
	return Submission{Token: d.token, Op: op, Match: d.match, Form: d.form}, nil
}

// Succeed records the match returned by the submission with the given token.
// It reports false, and changes nothing, when the dialog has been closed or
// reopened since that submission began.
func (d *MatchDialog) Succeed(token uint64, updated models.Match) bool {
	if d.state != DialogSubmitting || d.token != token || d.match.ID != updated.ID {
		return false
	}
	d.token = 0
	d.match = updated
	d.form = formFor(updated)
	d.state = stateFor(updated)
	return true
}

// Fail returns a submitting dialog to editable so the user can retry.
// Failures of earlier sessions are ignored.
func (d *MatchDialog) Fail(token uint64) {
	if d.state == DialogSubmitting && d.token == token {
		d.token = 0
		d.state = DialogEditable
	}
}

// Refresh shows a newer copy of the selected match that arrived from
// elsewhere. Counters are only reset when the dialog is idle.
func (d *MatchDialog) Refresh(updated models.Match) {
	if d.state == DialogClosed || d.state == DialogSubmitting || d.match.ID != updated.ID {
		return
	}
	d.match = updated
	d.form = formFor(updated)
	d.state = stateFor(updated)
}

// Close dismisses the dialog. Always permitted.
func (d *MatchDialog) Close() {
	d.state = DialogClosed
	d.token = 0
	d.match = models.Match{}
	d.form = ScoreForm{}
}
