package catalog

import (
	"bytes"
	"fmt"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/models"
	"gopkg.in/yaml.v3"
	"log/slog"
	"os"
	"time"
)

var (
	ErrUnknownClip      = errors.NewSentinel("unknown clip")
	ErrDuplicateClip    = errors.NewSentinel("duplicate clip")
	ErrLoopingSuccessor = errors.NewSentinel("looping clip declares a successor")
	ErrMissingRole      = errors.NewSentinel("missing required clip")
	ErrInvalidSetup     = errors.NewSentinel("invalid setup sequence")
)

// LoadFile reads and resolves the catalog at path.
func LoadFile(path string) (*models.Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog", slog.String("path", path))
	}
	var c *models.Catalog
	if c, err = Parse(b); err != nil {
		return nil, errors.Wrap(err, "parse catalog", slog.String("path", path))
	}
	return c, nil
}

// Parse decodes the YAML catalog and resolves every clip reference.
//
// All problems found are reported together so that authors can fix them in one go.
func Parse(b []byte) (*models.Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	applyDefaults(&doc)

	r := resolver{clips: make(map[string]*models.Clip, len(doc.Clips))}
	r.declareClips(doc.Clips)
	r.linkClips(doc.Clips)

	c := &models.Catalog{
		MediaBaseURL: doc.MediaBaseURL,
		Clips:        r.clips,
		Roles:        r.roles(doc.Roles),
	}
	for i, cd := range doc.Cases {
		c.Cases = append(c.Cases, r.resolveCase(i, cd, c.Roles))
	}

	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}
	return c, nil
}

type resolver struct {
	clips map[string]*models.Clip
	errs  []error
}

func (r *resolver) fail(err error, msg string, attrs ...slog.Attr) {
	r.errs = append(r.errs, errors.Wrap(err, msg, attrs...))
}

func (r *resolver) declareClips(docs []clipDoc) {
	for _, d := range docs {
		if _, ok := r.clips[d.Name]; ok {
			r.fail(ErrDuplicateClip, "declare clip", slog.String("clip", d.Name))
			continue
		}
		r.clips[d.Name] = &models.Clip{Name: d.Name, Looping: d.Looping} //nolint:exhaustruct // linked below
	}
}

func (r *resolver) linkClips(docs []clipDoc) {
	for _, d := range docs {
		clip := r.clips[d.Name]
		field := fmt.Sprintf("clips.%s", d.Name)
		if d.Looping && d.Next != "" {
			r.fail(ErrLoopingSuccessor, "link clip", slog.String("clip", d.Name), slog.String("next", d.Next))
		} else {
			clip.Next = r.optional(field+".next", d.Next)
		}

		tag, err := models.ParseLayoutTag(d.Buttons)
		if err != nil {
			r.fail(err, "link clip", slog.String("clip", d.Name))
		}
		clip.Buttons = tag
		clip.OnStart = r.events(d.Name, d.OnStart)
		clip.OnEnd = r.events(d.Name, d.OnEnd)
		for _, s := range d.Subtitles {
			clip.Subtitles = append(clip.Subtitles, models.SubtitleLine{
				Text:       s.Text,
				StartDelay: seconds(s.Delay),
				Duration:   seconds(s.Duration),
			})
		}
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (r *resolver) events(clip string, names []string) []models.EventKind {
	kinds := make([]models.EventKind, 0, len(names))
	for _, name := range names {
		kind, err := models.ParseEventKind(name)
		if err != nil {
			r.fail(err, "link clip", slog.String("clip", clip))
			continue
		}
		kinds = append(kinds, kind)
	}
	return kinds
}

// optional resolves name, where an empty name means no clip.
func (r *resolver) optional(field, name string) *models.Clip {
	if name == "" {
		return nil
	}
	clip, ok := r.clips[name]
	if !ok {
		r.fail(ErrUnknownClip, "resolve reference", slog.String("field", field), slog.String("clip", name))
		return nil
	}
	return clip
}

func (r *resolver) required(field, name string) *models.Clip {
	if name == "" {
		r.fail(ErrMissingRole, "resolve reference", slog.String("field", field))
		return nil
	}
	return r.optional(field, name)
}

func (r *resolver) list(field string, names []string) []*models.Clip {
	clips := make([]*models.Clip, 0, len(names))
	for i, name := range names {
		clips = append(clips, r.required(fmt.Sprintf("%s[%d]", field, i), name))
	}
	return clips
}

func (r *resolver) roles(d rolesDoc) models.Roles {
	roles := models.Roles{
		MainMenu:             r.required("roles.main_menu", d.MainMenu),
		InspectorCall:        r.required("roles.inspector_call", d.InspectorCall),
		NoteInstructions:     r.list("roles.note_instructions", d.NoteInstructions),
		NoteMenus:            r.list("roles.note_menus", d.NoteMenus),
		NoteNumber:           r.optional("roles.note_number", d.NoteNumber),
		SelectionLetterReady: r.optional("roles.selection_letter_ready", d.SelectionLetterReady),
		PassageStart:         r.optional("roles.passage_start", d.PassageStart),
		PassageEnd:           r.optional("roles.passage_end", d.PassageEnd),
		AccusationStart:      r.optional("roles.accusation_start", d.AccusationStart),
		Results:              r.list("roles.results", d.Results),
		OverflowEvent:        r.required("roles.overflow_event", d.OverflowEvent),
		OverflowPassage:      r.required("roles.overflow_passage", d.OverflowPassage),
		OverflowButler:       r.required("roles.overflow_butler", d.OverflowButler),
		Restart:              r.required("roles.restart", d.Restart),
		Setup:                r.list("roles.setup", d.Setup),
		SetupOverrides:       d.SetupOverrides,
		LateSetupSlot:        *d.LateSetupSlot,
		DealPlaceholder:      d.DealPlaceholder,
		Deal3:                r.optional("roles.deal_3", d.Deal3),
		Deal4:                r.optional("roles.deal_4", d.Deal4),
		Deal5:                r.optional("roles.deal_5", d.Deal5),
		SelectionPages:       r.list("roles.selection_pages", d.SelectionPages),
		SelectionLetters:     d.SelectionLetters,
	}
	if len(roles.Results) != resultCount {
		r.fail(ErrMissingRole, "resolve results",
			slog.Int("want", resultCount), slog.Int("got", len(roles.Results)))
	}
	if len(roles.Setup) > 0 {
		for _, slot := range append([]int{roles.LateSetupSlot}, roles.SetupOverrides...) {
			if slot < 0 || slot >= len(roles.Setup) {
				r.fail(ErrInvalidSetup, "resolve setup slot",
					slog.Int("slot", slot), slog.Int("setupLength", len(roles.Setup)))
			}
		}
	}
	return roles
}

func (r *resolver) resolveCase(i int, d caseDoc, roles models.Roles) *models.Case {
	prefix := fmt.Sprintf("cases[%d]", i)
	c := &models.Case{
		Name:     d.Name,
		Setup:    r.list(prefix+".setup", d.Setup),
		Players3: r.optional(prefix+".players_3", d.Players3),
		Players4: r.optional(prefix+".players_4", d.Players4),
		Players5: r.optional(prefix+".players_5", d.Players5),
		Intro:    r.optional(prefix+".intro", d.Intro),
		Menu:     r.required(prefix+".menu", d.Menu),
		Ending:   r.optional(prefix+".ending", d.Ending),
		RoomMenu: r.optional(prefix+".room_menu", d.RoomMenu),
		StartFlags: models.Flags{
			SecretPassage: d.Start.SecretPassage,
			SummonButler:  d.Start.SummonButler,
			ItemCard:      d.Start.ItemCard,
			InspectorNote: d.Start.InspectorNote,
		},
		Events:         r.list(prefix+".events", d.Events),
		SecretPassages: r.list(prefix+".secret_passages", d.SecretPassages),
		Butler:         r.list(prefix+".butler", d.Butler),
		Rooms:          nil,
	}
	if len(roles.Setup) > 0 && len(c.Setup) < len(roles.SetupOverrides) {
		r.fail(ErrInvalidSetup, "resolve case setup", slog.String("case", d.Name),
			slog.Int("want", len(roles.SetupOverrides)), slog.Int("got", len(c.Setup)))
	}
	for j, rd := range d.Rooms {
		roomPrefix := fmt.Sprintf("%s.rooms[%d]", prefix, j)
		room := &models.Room{
			Name:         rd.Name,
			Success:      r.optional(roomPrefix+".success", rd.Success),
			Observations: make([]*models.Observation, 0, len(rd.Observations)),
		}
		for k, od := range rd.Observations {
			obsPrefix := fmt.Sprintf("%s.observations[%d]", roomPrefix, k)
			obs := &models.Observation{
				Clip:      r.required(obsPrefix+".clip", od.Clip),
				Questions: make([]*models.Question, 0, len(od.Questions)),
			}
			for l, qd := range od.Questions {
				qPrefix := fmt.Sprintf("%s.questions[%d]", obsPrefix, l)
				obs.Questions = append(obs.Questions, &models.Question{
					Question: r.required(qPrefix+".question", qd.Question),
					Answer:   r.required(qPrefix+".answer", qd.Answer),
				})
			}
			room.Observations = append(room.Observations, obs)
		}
		if room.QuestionCount() == 0 {
			r.fail(ErrMissingRole, "resolve room questions", slog.String("field", roomPrefix))
		}
		c.Rooms = append(c.Rooms, room)
	}
	return c
}
