package command

import "github.com/bwmarrin/discordgo"

// ServerCommand defines the structure for the /server command.
type ServerCommand struct{}

// Definition returns the application command definition.
func (c *ServerCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "server",
		Description: "Replies with server information",
	}
}

// UserCommand defines the structure for the /user command.
type UserCommand struct{}

// Definition returns the application command definition.
func (c *UserCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "user",
		Description: "Replies with user information",
	}
}

// StatsCommand defines the structure for the /stats command.
type StatsCommand struct{}

// Definition returns the application command definition.
func (c *StatsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "stats",
		Description: "Replies with reddit request statistics",
	}
}
