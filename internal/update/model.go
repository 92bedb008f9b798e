package update

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/tasklog/internal/bus"
	"github.com/sandeepkv93/tasklog/internal/clientbase"
	"github.com/sandeepkv93/tasklog/internal/config"
	"github.com/sandeepkv93/tasklog/internal/model"
	"github.com/sandeepkv93/tasklog/internal/titles"
	"github.com/sandeepkv93/tasklog/internal/tracker"
)

type View string

const (
	ViewTimer    View = "Timer"
	ViewLog      View = "Log"
	ViewShift    View = "Shift"
	ViewSettings View = "Settings"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Timer    string
	Log      string
	Shift    string
	Settings string
	Layout   string
	Help     string
	Quit     string
}

type FormKind string

const (
	FormNone FormKind = ""
	FormStop FormKind = "stop"
	FormEdit FormKind = "edit"
	FormAdd  FormKind = "add"
)

const (
	fieldName = iota
	fieldDuration
	fieldNarration
	fieldCount
)

// FormState backs the stop, edit and add-manual dialogs, which share one set
// of inputs.
type FormState struct {
	Kind    FormKind
	Focus   int
	Err     string
	Date    string
	TaskID  string
	Pending *model.Task
	Search  SearchState
}

func (f FormState) Active() bool {
	return f.Kind != FormNone
}

// SearchState holds the clientbase matches for a name input. Cursor is -1
// when no suggestion is highlighted.
type SearchState struct {
	Matches []clientbase.Match
	Cursor  int
}

type LogState struct {
	Date      string
	Tasks     []model.Task
	Cursor    int
	LoadError string
}

type TimerViewState struct {
	Editing bool
	Search  SearchState
}

type SettingsState struct {
	Cursor  int
	Editing bool
	Err     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Deps are the long-lived collaborators of the model. Only Tracker is
// required.
type Deps struct {
	Tracker  *tracker.Service
	Config   *config.Store
	Settings config.Settings
	Clients  *clientbase.Clientbase
	Titles   titles.Source
	Events   *bus.Subscription
	Logger   *slog.Logger
}

type Model struct {
	CurrentView View
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error
	Settings    config.Settings
	Timer       TimerViewState
	Log         LogState
	Form        FormState
	SettingsUI  SettingsState
	Pending     int

	tracker *tracker.Service
	config  *config.Store
	clients *clientbase.Clientbase
	titles  titles.Source
	events  *bus.Subscription
	logger  *slog.Logger

	// Generation counters let stale tick and poll chains die out after a
	// pause, stop or restart.
	tickGen int
	pollGen int

	taskInput     textinput.Model
	nameInput     textinput.Model
	durationInput textinput.Model
	narrationArea textarea.Model
	settingInput  textinput.Model
	commandInput  textinput.Model
	logTable      table.Model
	loggedBar     progress.Model
	shiftBar      progress.Model
	savingSpinner spinner.Model
	helpModel     help.Model
	narrationView viewport.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// TimerTickMsg drives the elapsed-time display once per second.
type TimerTickMsg struct {
	Gen int
}

// TitlePollMsg schedules a window title fetch.
type TitlePollMsg struct {
	Gen int
}

type TitleObservedMsg struct {
	Gen   int
	Title string
	Added bool
}

type TimerActionMsg struct {
	Action string
	Task   model.Task
	Err    error
}

type TaskStoppedMsg struct {
	Task model.Task
	Err  error
}

type LogsLoadedMsg struct {
	Date  string
	Tasks []model.Task
	Err   error
}

type LogSavedMsg struct {
	Action string
	Date   string
	Task   model.Task
	Err    error
}

type SettingsSavedMsg struct {
	Settings config.Settings
	Err      error
}

type ClientsLoadedMsg struct {
	Clients *clientbase.Clientbase
	Err     error
}

type BusEventMsg struct {
	Event bus.Event
}

func NewModel(deps Deps) Model {
	settings := deps.Settings
	if settings.WorkShiftStart == "" {
		settings = config.Default()
	}
	m := Model{
		CurrentView: ViewTimer,
		Settings:    settings,
		Keys: GlobalKeyMap{
			Timer:    "1",
			Log:      "2",
			Shift:    "3",
			Settings: "4",
			Layout:   "L",
			Help:     "?",
			Quit:     "q",
		},
		tracker: deps.Tracker,
		config:  deps.Config,
		clients: deps.Clients,
		titles:  deps.Titles,
		events:  deps.Events,
		logger:  deps.Logger,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.clients == nil {
		m.clients = &clientbase.Clientbase{}
	}
	m.Log.Date = m.today()
	m.Timer.Search.Cursor = -1
	m.Form.Search.Cursor = -1
	m.initBubbleComponents()
	return m
}

func (m Model) now() time.Time {
	if m.tracker != nil {
		return m.tracker.Now()
	}
	return time.Now()
}

func (m Model) today() string {
	return model.DayKey(m.now())
}
