package models

import (
	"time"
)

// Clip is one playable video with its transition metadata. Clips are compared by identity.
type Clip struct {
	Name    string
	Looping bool
	// Next is the successor played after natural end. Always nil for looping clips.
	Next      *Clip
	Buttons   LayoutTag
	OnStart   []EventKind
	OnEnd     []EventKind
	Subtitles []SubtitleLine
}

// SubtitleLine is shown StartDelay after the previous line finished and stays visible for Duration.
type SubtitleLine struct {
	Text       string
	StartDelay time.Duration
	Duration   time.Duration
}

func (c *Clip) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.Name
}

// Flags are the four case features that unlock case menu buttons.
type Flags struct {
	SecretPassage bool
	SummonButler  bool
	ItemCard      bool
	InspectorNote bool
}

// Case is one mystery scenario.
type Case struct {
	Name string
	// Setup fills the overridable slots of the shared setup sequence, in slot order.
	Setup    []*Clip
	Players3 *Clip
	Players4 *Clip
	Players5 *Clip
	Intro    *Clip
	Menu     *Clip
	Ending   *Clip
	RoomMenu *Clip
	// StartFlags are the features enabled when the case starts fresh.
	StartFlags     Flags
	Events         []*Clip
	SecretPassages []*Clip
	Butler         []*Clip
	Rooms          []*Room
}

// Room is an observable location holding question pools.
type Room struct {
	Name         string
	Observations []*Observation
	Success      *Clip
}

// Observation is a clip shown on entering a room and the questions that may follow it.
type Observation struct {
	Clip      *Clip
	Questions []*Question
}

// Question pairs the clip asking the question with the clip revealing the answer.
type Question struct {
	Question *Clip
	Answer   *Clip
}

// QuestionCount is the size of a full no-repeat cycle for the room.
func (r *Room) QuestionCount() int {
	n := 0
	for _, o := range r.Observations {
		n += len(o.Questions)
	}
	return n
}
