package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show server health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newClient().Health(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(boxStyle.Render(strings.Join([]string{
			titleStyle.Render("voicelink " + h.Status),
			mutedStyle.Render("uptime      ") + h.Uptime,
			mutedStyle.Render("connections ") + fmt.Sprint(h.Connections),
			mutedStyle.Render("rooms       ") + fmt.Sprint(h.Rooms),
		}, "\n")))
		return nil
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Ask the server for an unused room code",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := newClient().MintCode(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(codeStyle.Render(code))
		return nil
	},
}

var roomCmd = &cobra.Command{
	Use:   "room <code>",
	Short: "Show who is in a room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		room, err := newClient().Room(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		state := successStyle.Render("open")
		if room.Full {
			state = warningStyle.Render("full")
		}
		fmt.Println(boxStyle.Render(strings.Join([]string{
			codeStyle.Render(room.RoomID) + " " + state,
			mutedStyle.Render("created ") + room.CreatedAt.Local().Format("15:04:05"),
			mutedStyle.Render("members ") + strings.Join(room.Members, ", "),
		}, "\n")))
		return nil
	},
}
