package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Command is an interface for application commands.
type Command interface {
	Definition() *discordgo.ApplicationCommand
}

// AllCommands holds all the command instances. The registry is static;
// commands are never discovered at runtime.
var AllCommands = []Command{
	&ServerCommand{},
	&UserCommand{},
	&StatsCommand{},
}

// GetCommandDefinitions returns a slice of all command definitions.
func GetCommandDefinitions() []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, len(AllCommands))
	for i, cmd := range AllCommands {
		defs[i] = cmd.Definition()
	}
	return defs
}

// Register overwrites the application's full command set with the static
// registry.
func Register(s *discordgo.Session) error {
	if s.State.User == nil {
		return fmt.Errorf("session not ready, cannot register commands")
	}
	_, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", GetCommandDefinitions())
	if err != nil {
		return fmt.Errorf("failed to overwrite application commands: %w", err)
	}
	return nil
}
