package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/mazerunner/internal/validator"
	"github.com/aretw0/mazerunner/pkg/adapters/file"
	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Formats(t *testing.T) {
	tests := []struct {
		path      string
		wantMazes int
	}{
		{"testdata/closet.yaml", 2},
		{"testdata/closet.json", 1},
		{"testdata/closet.xml", 1},
	}

	for _, tt := range tests {
		t.Run(filepath.Ext(tt.path), func(t *testing.T) {
			mazes, err := file.NewLoader(tt.path).LoadMazes(context.Background())
			require.NoError(t, err)
			require.Len(t, mazes, tt.wantMazes)

			closet := mazes[0]
			assert.Equal(t, "The Closet", closet.Name)
			assert.Equal(t, 1, closet.StartID)
			assert.Equal(t, 2, closet.EndID)

			start, err := closet.Room(1)
			require.NoError(t, err)
			to, ok := start.Destination("LEFT")
			assert.True(t, ok)
			assert.Equal(t, 2, to)
		})
	}
}

func TestLoader_XMLTrimsDescriptionAndKeepsExitOrder(t *testing.T) {
	mazes, err := file.NewLoader("testdata/closet.xml").LoadMazes(context.Background())
	require.NoError(t, err)

	room, err := mazes[0].Room(1)
	require.NoError(t, err)
	assert.Equal(t, "You are in a dark closet.", room.Description)
	assert.Equal(t, []string{"left", "Right"}, room.ExitNames())
}

func TestLoader_ClosureProperty(t *testing.T) {
	mazes, err := file.NewLoader("testdata/closet.yaml").LoadMazes(context.Background())
	require.NoError(t, err)

	for _, m := range mazes {
		for _, r := range m.Rooms {
			for _, e := range r.Exits {
				assert.True(t, m.HasRoom(e.To), "maze %q room %d exit %q dangles", m.Name, r.ID, e.Name)
			}
		}
	}
}

func TestLoader_DanglingReferenceFailsFast(t *testing.T) {
	_, err := file.NewLoader("testdata/dangling.yaml").LoadMazes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidMaze)

	report, ok := validator.AsReport(err)
	require.True(t, ok)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, 1, report.Issues[0].RoomID)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format file.Format
		data   string
	}{
		{"YAML Syntax", file.FormatYAML, "mazes: [\n"},
		{"YAML Schema", file.FormatYAML, "mazes:\n  - name: x\n    start: 1\n"},
		{"JSON Empty List", file.FormatJSON, `{"mazes": []}`},
		{"XML Missing End", file.FormatXML, `<mazes><maze name="x" start="1"><room id="1"><exit name="a" to="2"/></room><room id="2"/></maze></mazes>`},
		{"XML No Mazes", file.FormatXML, `<mazes></mazes>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := file.Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidMaze), "expected ErrInvalidMaze, got %v", err)
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := file.NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).LoadMazes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, file.FormatJSON, file.FormatFromPath("a/b.JSON"))
	assert.Equal(t, file.FormatXML, file.FormatFromPath("MazeDescription.xml"))
	assert.Equal(t, file.FormatYAML, file.FormatFromPath("mazes.yml"))
	assert.Equal(t, file.FormatYAML, file.FormatFromPath("mazes"))
}
