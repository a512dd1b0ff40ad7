package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wfunc/tictacgoal/network"
)

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:3000", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			switch msgID {
			case network.MsgTypePublicState:
				log.Printf("<- PUB: %s", string(data))
			case network.MsgTypePrivateInfo:
				log.Printf("<- ME:  %s", string(data))
			default:
				log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
			}
		}
	}()

	log.Println("Commands: join <token> | seat <name> | play <i> <j> | next")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}

			var msgID uint16
			var payload interface{}
			switch fields[0] {
			case "join":
				if len(fields) != 2 {
					continue
				}
				msgID = network.MsgTypeJoin
				payload = map[string]string{"room": fields[1]}
			case "seat":
				if len(fields) < 2 {
					continue
				}
				msgID = network.MsgTypeSeat
				payload = map[string]string{"name": strings.Join(fields[1:], " ")}
			case "play":
				if len(fields) != 3 {
					continue
				}
				i, err1 := strconv.Atoi(fields[1])
				j, err2 := strconv.Atoi(fields[2])
				if err1 != nil || err2 != nil {
					continue
				}
				msgID = network.MsgTypePlay
				payload = map[string]int{"i": i, "j": j}
			case "next":
				msgID = network.MsgTypeNext
				payload = map[string]string{}
			default:
				log.Printf("Unknown command %q", fields[0])
				continue
			}

			data, _ := json.Marshal(payload)
			if err := send(c, msgID, data); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
