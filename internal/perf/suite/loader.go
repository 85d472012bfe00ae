package suite

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRenderPath = "/iframe.html?id={id}"
	DefaultTimeout    = 20 * time.Second
)

func LoadFromFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse suite YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

var validMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

func validate(s *Suite) error {
	if s.BaseURL == "" {
		return fmt.Errorf("suite has no base_url")
	}
	if _, err := url.ParseRequestURI(s.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url %q: %w", s.BaseURL, err)
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	if s.RenderPath == "" {
		s.RenderPath = DefaultRenderPath
	}
	if len(s.Stories) == 0 {
		return fmt.Errorf("suite has no stories")
	}

	ids := make(map[string]bool, len(s.Stories))
	for i := range s.Stories {
		st := &s.Stories[i]
		if st.ID == "" {
			return fmt.Errorf("story at index %d has no id", i)
		}
		if ids[st.ID] {
			return fmt.Errorf("duplicate story id %q", st.ID)
		}
		ids[st.ID] = true
		if st.Name == "" {
			st.Name = st.ID
		}

		names := make(map[string]bool, len(st.Interactions))
		for j := range st.Interactions {
			in := &st.Interactions[j]
			if in.Name == "" {
				return fmt.Errorf("story %q: interaction at index %d has no name", st.ID, j)
			}
			if names[in.Name] {
				return fmt.Errorf("story %q: duplicate interaction %q", st.ID, in.Name)
			}
			names[in.Name] = true
			if in.Timeout <= 0 {
				in.Timeout = DefaultTimeout
			}
			if len(in.Steps) == 0 {
				return fmt.Errorf("story %q: interaction %q has no steps", st.ID, in.Name)
			}
			for k := range in.Steps {
				if err := validateStep(&in.Steps[k]); err != nil {
					return fmt.Errorf("story %q: interaction %q: step %d: %w", st.ID, in.Name, k, err)
				}
			}
		}
	}
	return nil
}

func validateStep(step *StepDef) error {
	set := 0
	if step.Request != nil {
		set++
	}
	if step.ExpectText != "" {
		set++
	}
	if step.WaitForText != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("exactly one of request, expect_text or wait_for_text must be set")
	}

	if req := step.Request; req != nil {
		if req.Method == "" {
			req.Method = http.MethodGet
		}
		req.Method = strings.ToUpper(req.Method)
		if !validMethods[req.Method] {
			return fmt.Errorf("invalid method %q", req.Method)
		}
		if !strings.HasPrefix(req.Path, "/") {
			return fmt.Errorf("request path %q must start with /", req.Path)
		}
	}
	return nil
}
