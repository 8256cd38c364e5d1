// Package post renders the announcements the runner publishes to the feed.
//
// Every message except the optional intro starts with the bracketed move
// number so that two otherwise identical posts never collide with the feed's
// duplicate-content policy.
package post

import (
	"fmt"
	"strings"

	"github.com/aretw0/mazerunner/pkg/domain"
)

// Farewell closes the game-over announcement.
const Farewell = "My bed!  I finally get to sleep!  Thank you.  Zzzzzzz...."

// Intro announces the selected maze before the first room.
func Intro(mazeName string) string {
	return fmt.Sprintf("Help me!  I woke up in %s.  Where should I go?", mazeName)
}

// Arrival describes a room and lists its exits.
func Arrival(room domain.Room, move int) string {
	names := room.ExitNames()
	switch len(names) {
	case 0:
		return fmt.Sprintf("[%d]%s", move, room.Description)
	case 1:
		return fmt.Sprintf("[%d]%s\n\nThe only exit is %s.", move, room.Description, names[0])
	default:
		return fmt.Sprintf("[%d]%s\n\nExits are %s.", move, room.Description, JoinWithOxfordComma(names))
	}
}

// Move announces the exit the run is taking.
func Move(exit string, move int) string {
	return fmt.Sprintf("[%d] I'm moving %s.", move, exit)
}

// GameOver describes the end room and says goodbye.
func GameOver(end domain.Room, move int) string {
	if strings.TrimSpace(end.Description) == "" {
		return fmt.Sprintf("[%d] %s", move, Farewell)
	}
	return fmt.Sprintf("[%d]%s\n\n%s", move, end.Description, Farewell)
}

// JoinWithOxfordComma joins items as "A", "A and B" or "A, B, and C".
func JoinWithOxfordComma(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}
