package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/quantum-box/urushiri/internal/models"
)

type Notifier interface {
	NotifyRegistration(event models.Event, registration models.Registration) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyRegistration(event models.Event, registration models.Registration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	ageGroup := models.AgeGroupLabels[registration.AgeGroup]
	occupation := models.OccupationLabels[registration.Occupation]

	attendees := ""
	if registration.ID != 0 {
		attendees = fmt.Sprintf("\n**Attendees:** %d / %d", attendeeCount(event), event.MaxAttendees)
	}

	message := fmt.Sprintf("🎉 **New Registration**\n**Event:** %s (%s)\n**Name:** %s\n**Age Group:** %s\n**Occupation:** %s%s",
		event.Title,
		event.Date,
		registration.Name,
		ageGroup,
		occupation,
		attendees,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}

func attendeeCount(event models.Event) int {
	if event.CurrentAttendees == nil {
		return 0
	}
	return *event.CurrentAttendees
}
