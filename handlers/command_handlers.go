package handlers

import (
	"fmt"
	"log"
	"strings"

	"redditrequest-bot/bot"

	"github.com/bwmarrin/discordgo"
)

// CommandDispatcher routes application command interactions to their
// handlers. Errors are reflected to the user as an ephemeral message, never
// as raw error text.
func CommandDispatcher(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "server":
		HandleServer(s, i)
	case "user":
		HandleUser(s, i)
	case "stats":
		HandleStats(b, s, i)
	default:
		s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "There was an error executing this command!",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
	}
}

// HandleServer replies with basic information about the guild.
func HandleServer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		guild, err = s.Guild(i.GuildID)
	}
	if err != nil {
		log.Printf("Failed to fetch guild %s: %v", i.GuildID, err)
		respondEphemeral(s, i, "There was an error executing this command!")
		return
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Server name: %s\nServer id: %s\nTotal members: %d",
				guild.Name, guild.ID, guild.MemberCount),
		},
	})
}

// HandleUser replies with the invoking user's tag and identifier.
func HandleUser(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	respondEphemeral(s, i, fmt.Sprintf("Your tag: %s\nYour id: %s", user.Mention(), user.ID))
}

// HandleStats replies with request statistics from the record store.
func HandleStats(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	counts, err := b.Store.StatusCounts()
	if err != nil {
		log.Printf("Failed to load status counts: %v", err)
		respondEphemeral(s, i, "There was an error executing this command!")
		return
	}
	redditors, err := b.Store.TopRedditors(5)
	if err != nil {
		log.Printf("Failed to load top redditors: %v", err)
		respondEphemeral(s, i, "There was an error executing this command!")
		return
	}

	var total int64
	var statusLines []string
	for _, count := range counts {
		total += count.Count
		statusLines = append(statusLines, fmt.Sprintf("%s: **%d**", count.Status, count.Count))
	}
	if len(statusLines) == 0 {
		statusLines = append(statusLines, "-")
	}

	var requesterLines []string
	for _, redditor := range redditors {
		requesterLines = append(requesterLines, fmt.Sprintf("u/%s (%d requests)", redditor.UserName, redditor.RequestCount))
	}
	if len(requesterLines) == 0 {
		requesterLines = append(requesterLines, "-")
	}

	embed := &discordgo.MessageEmbed{
		Title: "Reddit request statistics",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Tracked submissions", Value: fmt.Sprintf("%d", total), Inline: true},
			{Name: "By status", Value: strings.Join(statusLines, "\n")},
			{Name: "Top requesters", Value: strings.Join(requesterLines, "\n")},
		},
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}
