package help

import (
	"github.com/bwmarrin/discordgo"
)

// AccumulationHelp explains the /accumulation commands
func AccumulationHelp() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🧪 Accumulation Help",
		Description: "Accumulative states build up with every hit and activate once the gauge reaches 100%. Each activation makes the character more resistant to that state.",
		Color:       0x3498db, // Blue
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "🎯 Targets",
				Value:  "Commands take a character ID, `party` for every ally or `troop` for every enemy.",
				Inline: false,
			},
			{
				Name:   "⚗️ Adjusting",
				Value:  "`/accumulation add <character> <state> <percent>` - Raise or lower accumulation by -100 to 100 percent\n`/accumulation inflict <target> <state> <percent>` - Simulate a hit using state rates, luck and resistance\n`/accumulation remove <character> <state>` - Cure a state and empty its gauge",
				Inline: false,
			},
			{
				Name:   "📊 Watching",
				Value:  "`/accumulation gauge <character>` - Show gauges",
				Inline: false,
			},
			{
				Name:   "🏁 Battle",
				Value:  "`/accumulation end-battle` - Reset states that clear at battle end",
				Inline: false,
			},
			{
				Name:   "💾 Persistence",
				Value:  "`/accumulation save` - Store every record\n`/accumulation load` - Restore the last save",
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Stored accumulation is never capped; gauges show at most 100%.",
		},
	}
}
