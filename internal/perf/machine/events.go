package machine

import (
	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/runner"
)

type EventType string

const (
	EventSetValues    EventType = "SET_VALUES"
	EventStartAll     EventType = "START_ALL"
	EventCancel       EventType = "CANCEL"
	EventPin          EventType = "PIN"
	EventUnpin        EventType = "UNPIN"
	EventSave         EventType = "SAVE"
	EventLoadFromFile EventType = "LOAD_FROM_FILE"
	EventSelectStory  EventType = "SELECT_STORY"

	eventRunProgress EventType = "RUN.PROGRESS"
	eventRunFinished EventType = "RUN.FINISHED"
)

// publicEvents is the command surface, in the order NextEvents reports it.
var publicEvents = []EventType{
	EventStartAll,
	EventCancel,
	EventSetValues,
	EventPin,
	EventUnpin,
	EventSave,
	EventLoadFromFile,
	EventSelectStory,
}

type Event interface {
	Type() EventType
}

type SetValues struct {
	Copies  int
	Samples int
}

type StartAll struct{}

type Cancel struct{}

type Pin struct{}

type Unpin struct{}

type Save struct{}

// LoadFromFile carries the bytes of a previously saved result file. FileName
// is only used in status messages.
type LoadFromFile struct {
	Data     []byte
	FileName string
}

type SelectStory struct {
	StoryID string
}

type runProgress struct {
	runID    string
	progress runner.Progress
}

type runFinished struct {
	runID  string
	result *result.StoryResult
	err    error
}

func (SetValues) Type() EventType    { return EventSetValues }
func (StartAll) Type() EventType     { return EventStartAll }
func (Cancel) Type() EventType       { return EventCancel }
func (Pin) Type() EventType          { return EventPin }
func (Unpin) Type() EventType        { return EventUnpin }
func (Save) Type() EventType         { return EventSave }
func (LoadFromFile) Type() EventType { return EventLoadFromFile }
func (SelectStory) Type() EventType  { return EventSelectStory }
func (runProgress) Type() EventType  { return eventRunProgress }
func (runFinished) Type() EventType  { return eventRunFinished }
