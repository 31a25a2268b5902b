// Package plan builds the fixed, ordered step table a run executes.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gindownload/pkg/config"
	"gindownload/pkg/gin"
)

// Kind is the type of side effect a step performs
type Kind string

const (
	KindMkdir    Kind = "mkdir"
	KindDownload Kind = "download"
)

// Step is one entry of the plan. Index is its 0-based ordinal and is always
// assigned from position, never read from a plan file.
type Step struct {
	Index int    `yaml:"-" json:"index"`
	Kind  Kind   `yaml:"kind" json:"kind"`
	Path  string `yaml:"path" json:"path"`
	URL   string `yaml:"url,omitempty" json:"url,omitempty"`
}

// Plan is the ordered list of steps of a run
type Plan struct {
	Steps []Step `yaml:"steps" json:"steps"`
}

// New numbers steps by position and validates them
func New(steps []Step) (*Plan, error) {
	p := &Plan{Steps: make([]Step, len(steps))}
	for i, s := range steps {
		s.Index = i
		p.Steps[i] = s
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Len returns the number of steps
func (p *Plan) Len() int {
	return len(p.Steps)
}

// Counts returns the number of mkdir and download steps
func (p *Plan) Counts() (mkdirs, downloads int) {
	for _, s := range p.Steps {
		switch s.Kind {
		case KindMkdir:
			mkdirs++
		case KindDownload:
			downloads++
		}
	}
	return mkdirs, downloads
}

// Validate checks that the plan can be executed
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("plan has no steps")
	}
	for _, s := range p.Steps {
		if s.Path == "" {
			return fmt.Errorf("step %d: path is required", s.Index)
		}
		switch s.Kind {
		case KindMkdir:
		case KindDownload:
			if s.URL == "" {
				return fmt.Errorf("step %d: download needs a url", s.Index)
			}
		default:
			return fmt.Errorf("step %d: unknown kind %q", s.Index, s.Kind)
		}
	}
	return nil
}

// Build creates the plan described by cfg: one directory per station under
// <base>/<year>/<STATION>, then the downloads for every station
func Build(cfg *config.Config) (*Plan, error) {
	if cfg.Plan.PlanFile != "" {
		return LoadFile(cfg.Plan.PlanFile)
	}

	start, err := time.Parse(gin.DateLayout, cfg.Plan.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}

	var mkdirs, downloads []Step
	for _, station := range cfg.Plan.Stations {
		station = strings.ToUpper(strings.TrimSpace(station))
		dir := filepath.Join(cfg.Output.BaseDirectory, strconv.Itoa(start.Year()), station)
		mkdirs = append(mkdirs, Step{Kind: KindMkdir, Path: dir})

		for _, req := range requests(cfg.Plan, station, start) {
			name, err := req.FileName()
			if err != nil {
				return nil, err
			}
			downloads = append(downloads, Step{
				Kind: KindDownload,
				Path: filepath.Join(dir, name),
				URL:  req.URL(cfg.GIN.BaseURL),
			})
		}
	}

	return New(append(mkdirs, downloads...))
}

func requests(pc config.PlanConfig, station string, start time.Time) []gin.DataRequest {
	base := gin.DataRequest{
		Station:           station,
		SamplesPerDay:     pc.SamplesPerDay,
		Orientation:       pc.Orientation,
		PublicationState:  pc.PublicationState,
		Format:            pc.Format,
		RecordTermination: pc.RecordTermination,
		TestObservatories: pc.TestObservatories,
		StartDate:         start,
		DurationDays:      pc.DurationDays,
	}
	if pc.Split != config.SplitDay {
		return []gin.DataRequest{base}
	}

	out := make([]gin.DataRequest, 0, pc.DurationDays)
	for day := 0; day < pc.DurationDays; day++ {
		r := base
		r.StartDate = start.AddDate(0, 0, day)
		r.DurationDays = 1
		out = append(out, r)
	}
	return out
}

// LoadFile reads an explicit step list from a YAML plan file
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}
	return New(p.Steps)
}

// Save writes the plan as YAML so it can be edited and replayed
func (p *Plan) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}
