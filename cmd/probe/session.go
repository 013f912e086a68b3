package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hilthontt/voicelink/pkg/signalclient"
	"github.com/spf13/cobra"
)

var flagRespond bool

var createCmd = &cobra.Command{
	Use:   "create [code]",
	Short: "Create a room and print everything the server sends",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := ""
		if len(args) == 1 {
			code = args[0]
		}
		return runSession(cmd.Context(), func(s *signalclient.Session) error {
			return s.CreateRoom(code)
		})
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <code>",
	Short: "Join a room and print everything the server sends",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd.Context(), func(s *signalclient.Session) error {
			return s.JoinRoom(args[0])
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{createCmd, joinCmd} {
		c.Flags().BoolVar(&flagRespond, "respond", true, "play the negotiation with dummy offer/answer payloads")
	}
}

func runSession(parent context.Context, start func(*signalclient.Session) error) error {
	ctx, cancel := commandContext(parent)
	defer cancel()

	s, err := newClient().Connect(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := start(s); err != nil {
		return err
	}

	var room string
	err = s.Listen(ctx, func(ev signalclient.Event) {
		fmt.Println(formatEvent(ev))

		if code := roomOf(ev); code != "" {
			room = code
		}
		if !flagRespond {
			return
		}
		if kind, payload, ok := respond(ev); ok && room != "" {
			if err := s.Signal(kind, room, payload); err != nil {
				printError(err.Error())
			}
		}
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func roomOf(ev signalclient.Event) string {
	switch ev.Type {
	case signalclient.RoomCreated, signalclient.RoomJoined:
		var d signalclient.RoomData
		if ev.Decode(&d) == nil {
			return d.RoomID
		}
	}
	return ""
}

// respond plays the peer side of a negotiation: the initiator offers when a
// peer arrives, the other side answers an offer.
func respond(ev signalclient.Event) (kind string, payload any, ok bool) {
	switch ev.Type {
	case signalclient.UserJoined:
		var d signalclient.RoomData
		if ev.Decode(&d) == nil && d.Initiator {
			return signalclient.Offer, map[string]string{"type": "offer", "sdp": "v=0 probe"}, true
		}
	case signalclient.Offer:
		return signalclient.Answer, map[string]string{"type": "answer", "sdp": "v=0 probe"}, true
	}
	return "", nil, false
}
