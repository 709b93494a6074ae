package catalog

// The types below mirror the YAML authoring format. They are resolved into [models.Catalog] by Parse.

type document struct {
	MediaBaseURL string    `yaml:"media_base_url"`
	Roles        rolesDoc  `yaml:"roles"`
	Clips        []clipDoc `yaml:"clips"`
	Cases        []caseDoc `yaml:"cases"`
}

type clipDoc struct {
	Name      string        `yaml:"name"`
	Looping   bool          `yaml:"looping"`
	Next      string        `yaml:"next"`
	Buttons   string        `yaml:"buttons"`
	OnStart   []string      `yaml:"on_start"`
	OnEnd     []string      `yaml:"on_end"`
	Subtitles []subtitleDoc `yaml:"subtitles"`
}

// subtitleDoc timings are seconds, as exported by the subtitle tooling.
type subtitleDoc struct {
	Text     string  `yaml:"text"`
	Delay    float64 `yaml:"delay"`
	Duration float64 `yaml:"duration"`
}

type rolesDoc struct {
	MainMenu             string   `yaml:"main_menu"`
	InspectorCall        string   `yaml:"inspector_call"`
	NoteInstructions     []string `yaml:"note_instructions"`
	NoteMenus            []string `yaml:"note_menus"`
	NoteNumber           string   `yaml:"note_number"`
	SelectionLetterReady string   `yaml:"selection_letter_ready"`
	PassageStart         string   `yaml:"passage_start"`
	PassageEnd           string   `yaml:"passage_end"`
	AccusationStart      string   `yaml:"accusation_start"`
	Results              []string `yaml:"results"`
	OverflowEvent        string   `yaml:"overflow_event"`
	OverflowPassage      string   `yaml:"overflow_passage"`
	OverflowButler       string   `yaml:"overflow_butler"`
	Restart              string   `yaml:"restart"`
	Setup                []string `yaml:"setup"`
	SetupOverrides       []int    `yaml:"setup_overrides"`
	LateSetupSlot        *int     `yaml:"late_setup_slot"`
	DealPlaceholder      string   `yaml:"deal_placeholder"`
	Deal3                string   `yaml:"deal_3"`
	Deal4                string   `yaml:"deal_4"`
	Deal5                string   `yaml:"deal_5"`
	SelectionPages       []string `yaml:"selection_pages"`
	SelectionLetters     int      `yaml:"selection_letters"`
}

type caseDoc struct {
	Name           string    `yaml:"name"`
	Setup          []string  `yaml:"setup"`
	Players3       string    `yaml:"players_3"`
	Players4       string    `yaml:"players_4"`
	Players5       string    `yaml:"players_5"`
	Intro          string    `yaml:"intro"`
	Menu           string    `yaml:"menu"`
	Ending         string    `yaml:"ending"`
	RoomMenu       string    `yaml:"room_menu"`
	Start          flagsDoc  `yaml:"start"`
	Events         []string  `yaml:"events"`
	SecretPassages []string  `yaml:"secret_passages"`
	Butler         []string  `yaml:"butler"`
	Rooms          []roomDoc `yaml:"rooms"`
}

type flagsDoc struct {
	SecretPassage bool `yaml:"secret_passage"`
	SummonButler  bool `yaml:"summon_butler"`
	ItemCard      bool `yaml:"item_card"`
	InspectorNote bool `yaml:"inspector_note"`
}

type roomDoc struct {
	Name         string           `yaml:"name"`
	Success      string           `yaml:"success"`
	Observations []observationDoc `yaml:"observations"`
}

type observationDoc struct {
	Clip      string        `yaml:"clip"`
	Questions []questionDoc `yaml:"questions"`
}

type questionDoc struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

const (
	defaultLateSetupSlot    = 11
	defaultDealPlaceholder  = "DEALCLIP"
	defaultSelectionLetters = 6
	resultCount             = 5
)

var defaultSetupOverrides = []int{2, 4, 6, 11}

func applyDefaults(doc *document) {
	if len(doc.Roles.SetupOverrides) == 0 {
		doc.Roles.SetupOverrides = defaultSetupOverrides
	}
	if doc.Roles.LateSetupSlot == nil {
		v := defaultLateSetupSlot
		doc.Roles.LateSetupSlot = &v
	}
	if doc.Roles.DealPlaceholder == "" {
		doc.Roles.DealPlaceholder = defaultDealPlaceholder
	}
	if doc.Roles.SelectionLetters <= 0 {
		doc.Roles.SelectionLetters = defaultSelectionLetters
	}
}
