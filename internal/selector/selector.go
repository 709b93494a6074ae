// Package selector picks room questions at random without repeating any until the room's pool is exhausted.
package selector

import (
	"github.com/myrjola/dvdcluedo/internal/models"
	"github.com/myrjola/dvdcluedo/internal/random"
)

type pick struct {
	observation *models.Observation
	question    *models.Question
}

// Selector keeps a used set per room. The sets live for the session and are never persisted.
type Selector struct {
	rnd  random.Source
	used map[*models.Room]map[*models.Question]struct{}
}

func New(rnd random.Source) *Selector {
	return &Selector{
		rnd:  rnd,
		used: map[*models.Room]map[*models.Question]struct{}{},
	}
}

// Pick returns an observation and one of its questions that has not been served in the current cycle.
// When every question of the room has been served the cycle restarts. A room without questions yields nils.
func (s *Selector) Pick(room *models.Room) (*models.Observation, *models.Question) {
	if room == nil || room.QuestionCount() == 0 {
		return nil, nil
	}
	used, ok := s.used[room]
	if !ok {
		used = map[*models.Question]struct{}{}
		s.used[room] = used
	}
	unused := complement(room, used)
	if len(unused) == 0 {
		clear(used)
		unused = complement(room, used)
	}
	p := unused[s.rnd.IntN(len(unused))]
	used[p.question] = struct{}{}
	return p.observation, p.question
}

// Reset forgets every served question, as when the game restarts.
func (s *Selector) Reset() {
	clear(s.used)
}

func complement(room *models.Room, used map[*models.Question]struct{}) []pick {
	var unused []pick
	for _, o := range room.Observations {
		for _, q := range o.Questions {
			if _, ok := used[q]; !ok {
				unused = append(unused, pick{observation: o, question: q})
			}
		}
	}
	return unused
}
