package bot

import (
	"log"
	"strings"

	"redditrequest-bot/scanner"

	"github.com/bwmarrin/discordgo"
)

// discordMessenger adapts a discordgo session to the chat-platform surface
// the scanner loops depend on.
type discordMessenger struct {
	session *discordgo.Session
}

func (m *discordMessenger) TargetChannels(pattern string) []scanner.Channel {
	var channels []scanner.Channel
	for _, guild := range m.session.State.Guilds {
		guildChannels, err := m.session.GuildChannels(guild.ID)
		if err != nil {
			log.Printf("Failed to get channels for guild %s: %v", guild.ID, err)
			continue
		}
		for _, channel := range guildChannels {
			if channel.Type != discordgo.ChannelTypeGuildText {
				continue
			}
			if !strings.Contains(channel.Name, pattern) {
				continue
			}
			channels = append(channels, scanner.Channel{
				ID:      channel.ID,
				GuildID: guild.ID,
				Name:    channel.Name,
			})
		}
	}
	return channels
}

func (m *discordMessenger) SendNotification(channel scanner.Channel, msg *discordgo.MessageSend) (*scanner.SentMessage, error) {
	sent, err := m.session.ChannelMessageSendComplex(channel.ID, msg)
	if err != nil {
		return nil, err
	}
	return &scanner.SentMessage{
		ID:        sent.ID,
		ChannelID: channel.ID,
		GuildID:   channel.GuildID,
	}, nil
}

func (m *discordMessenger) SendThreadMessage(threadID, content string, embed *discordgo.MessageEmbed) error {
	msg := &discordgo.MessageSend{Content: content}
	if embed != nil {
		msg.Embeds = []*discordgo.MessageEmbed{embed}
	}
	_, err := m.session.ChannelMessageSendComplex(threadID, msg)
	return err
}

func (m *discordMessenger) LockAndArchive(threadID string) error {
	locked := true
	archived := true
	_, err := m.session.ChannelEditComplex(threadID, &discordgo.ChannelEdit{
		Archived: &archived,
		Locked:   &locked,
	})
	return err
}
