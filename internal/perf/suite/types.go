package suite

import "time"

type Suite struct {
	BaseURL    string     `yaml:"base_url"`
	RenderPath string     `yaml:"render_path"`
	Stories    []StoryDef `yaml:"stories"`
}

type StoryDef struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Interactions []InteractionDef `yaml:"interactions"`
}

type InteractionDef struct {
	Name    string        `yaml:"name"`
	Timeout time.Duration `yaml:"timeout"`
	Steps   []StepDef     `yaml:"steps"`
}

// StepDef holds exactly one of its fields.
type StepDef struct {
	Request     *RequestStep `yaml:"request,omitempty"`
	ExpectText  string       `yaml:"expect_text,omitempty"`
	WaitForText string       `yaml:"wait_for_text,omitempty"`
}

type RequestStep struct {
	Method string            `yaml:"method"`
	Path   string            `yaml:"path"`
	Body   string            `yaml:"body,omitempty"`
	Header map[string]string `yaml:"header,omitempty"`
}

func (s StepDef) Kind() string {
	switch {
	case s.Request != nil:
		return "request"
	case s.ExpectText != "":
		return "expect_text"
	case s.WaitForText != "":
		return "wait_for_text"
	default:
		return ""
	}
}
