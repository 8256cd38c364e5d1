// Package graph exports a maze as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/mazerunner/pkg/domain"
)

// Overlay contains run state to visualize on the maze.
type Overlay struct {
	VisitedRooms []int
	CurrentRoom  int
}

// OverlayFromState builds the overlay of a run.
func OverlayFromState(s *domain.RunState) *Overlay {
	if s == nil {
		return nil
	}
	return &Overlay{VisitedRooms: s.History, CurrentRoom: s.CurrentRoomID}
}

// GenerateMermaid produces a Mermaid flowchart from a maze.
// It applies semantic styling:
// - Start: ((Circle))
// - End: [(Database)] so the bed stands out
// - Dead end (no exits, not the end): [/Parallelogram/]
// - Default: [Rectangle]
// Exit names label the edges. Visited and current rooms are styled when an
// overlay is provided.
func GenerateMermaid(m *domain.Maze, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, room := range m.Rooms {
		id := roomID(room.ID)

		opener, closer := "[", "]"
		switch {
		case room.ID == m.StartID:
			opener, closer = "((", "))"
		case room.ID == m.EndID:
			opener, closer = "[(", ")]"
		case len(room.Exits) == 0:
			opener, closer = "[/", "/]"
		}

		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label(room), closer)

		for _, e := range room.Exits {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", id, escape(e.Name), roomID(e.To))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, v := range overlay.VisitedRooms {
			if seen[v] || !m.HasRoom(v) {
				continue
			}
			seen[v] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", roomID(v))
		}
		if m.HasRoom(overlay.CurrentRoom) {
			fmt.Fprintf(&sb, "    class %s current;\n", roomID(overlay.CurrentRoom))
		}
	}

	return sb.String()
}

func roomID(id int) string {
	if id < 0 {
		return fmt.Sprintf("room_m%d", -id)
	}
	return fmt.Sprintf("room_%d", id)
}

func label(r domain.Room) string {
	desc := strings.Join(strings.Fields(r.Description), " ")
	if len(desc) > 40 {
		desc = strings.TrimSpace(desc[:37]) + "..."
	}
	if desc == "" {
		return fmt.Sprintf("%d", r.ID)
	}
	return fmt.Sprintf("%d: %s", r.ID, escape(desc))
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
