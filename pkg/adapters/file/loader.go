// Package file loads maze definitions from a file on disk.
package file

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/mazerunner/internal/validator"
	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/aretw0/mazerunner/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Format identifies the serialization of a maze resource.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// FormatFromPath picks the format from the file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".xml":
		return FormatXML
	default:
		return FormatYAML
	}
}

// Loader implements ports.MazeLoader for a single file.
type Loader struct {
	Path   string
	logger *slog.Logger
}

// Option configures the Loader.
type Option func(*Loader)

// WithLogger sets the logger used to report what was loaded.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader for the given path.
func NewLoader(path string, opts ...Option) *Loader {
	l := &Loader{
		Path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadMazes reads, parses and validates the maze resource.
func (l *Loader) LoadMazes(ctx context.Context) ([]domain.Maze, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read maze file: %w", err)
	}

	mazes, err := Parse(data, FormatFromPath(l.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", l.Path, err)
	}

	l.logger.Debug("mazes loaded", "path", l.Path, "count", len(mazes))
	return mazes, nil
}

// Parse decodes a maze resource and enforces the content invariants.
func Parse(data []byte, format Format) ([]domain.Maze, error) {
	var (
		mazes []domain.Maze
		err   error
	)
	switch format {
	case FormatXML:
		mazes, err = parseXML(data)
	case FormatJSON:
		mazes, err = parseJSON(data)
	default:
		mazes, err = parseYAML(data)
	}
	if err != nil {
		return nil, err
	}

	if err := validator.ValidateMazes(mazes); err != nil {
		return nil, err
	}
	return mazes, nil
}

type document struct {
	Mazes []mazeDoc `json:"mazes"`
}

type mazeDoc struct {
	Name  string        `json:"name"`
	Start int           `json:"start"`
	End   int           `json:"end"`
	Rooms []domain.Room `json:"rooms"`
}

func parseYAML(data []byte) ([]domain.Maze, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: failed to parse yaml: %w", domain.ErrInvalidMaze, err)
	}
	// Re-encode as JSON so both formats share one schema and one decoder.
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: yaml document is not representable as json: %w", domain.ErrInvalidMaze, err)
	}
	return parseJSON(raw)
}

func parseJSON(data []byte) ([]domain.Maze, error) {
	if err := schema.ValidateMazeJSON(data); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidMaze, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode maze document: %w", domain.ErrInvalidMaze, err)
	}

	mazes := make([]domain.Maze, 0, len(doc.Mazes))
	for _, m := range doc.Mazes {
		mazes = append(mazes, *domain.NewMaze(m.Name, m.Start, m.End, m.Rooms))
	}
	return mazes, nil
}

// XML layout:
//
//	<mazes>
//	  <maze name="Closet" start="1" end="2">
//	    <room id="1">
//	      <description>A dark closet.</description>
//	      <exit name="left" to="2"/>
//	    </room>
//	  </maze>
//	</mazes>
type xmlDocument struct {
	Mazes []xmlMaze `xml:"maze"`
}

type xmlMaze struct {
	Name  string    `xml:"name,attr"`
	Start *int      `xml:"start,attr"`
	End   *int      `xml:"end,attr"`
	Rooms []xmlRoom `xml:"room"`
}

type xmlRoom struct {
	ID          int       `xml:"id,attr"`
	Description string    `xml:"description"`
	Exits       []xmlExit `xml:"exit"`
}

type xmlExit struct {
	Name string `xml:"name,attr"`
	To   int    `xml:"to,attr"`
}

func parseXML(data []byte) ([]domain.Maze, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse xml: %w", domain.ErrInvalidMaze, err)
	}

	mazes := make([]domain.Maze, 0, len(doc.Mazes))
	for i, xm := range doc.Mazes {
		if xm.Start == nil || xm.End == nil {
			return nil, fmt.Errorf("%w: maze #%d (%q) is missing its start or end attribute", domain.ErrInvalidMaze, i+1, xm.Name)
		}
		rooms := make([]domain.Room, 0, len(xm.Rooms))
		for _, xr := range xm.Rooms {
			room := domain.Room{ID: xr.ID, Description: strings.TrimSpace(xr.Description)}
			for _, xe := range xr.Exits {
				room.Exits = append(room.Exits, domain.Exit{Name: xe.Name, To: xe.To})
			}
			rooms = append(rooms, room)
		}
		mazes = append(mazes, *domain.NewMaze(xm.Name, *xm.Start, *xm.End, rooms))
	}
	return mazes, nil
}
