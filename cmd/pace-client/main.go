package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

// Console client for the PACE dispatch server: prints every frame the server
// pushes and forwards stdin lines as messages. Typing "exit" closes locally;
// the server treats it like any other message.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	url := flag.String("url", "ws://127.0.0.1:9001/ws", "dispatch server websocket URL")
	timeout := flag.Duration("timeout", 10*time.Second, "dial timeout")
	flag.Parse()

	dialer := websocket.Dialer{HandshakeTimeout: *timeout}
	conn, _, err := dialer.Dial(*url, nil)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", *url, err)
	}
	defer conn.Close()

	fmt.Println("PACE connected")

	done := make(chan struct{})
	go readLoop(conn, done)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := scanner.Text()
		if text == "" {
			continue
		}
		if text == "exit" {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			break
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
			log.Printf("send failed: %v", err)
			break
		}
	}

	conn.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
	}
}

type serverFrame struct {
	Type string `json:"type"`
	Data struct {
		Text    string `json:"text"`
		Echo    string `json:"echo"`
		Reply   string `json:"reply"`
		Message string `json:"message"`
	} `json:"data"`
}

func readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	for {
		var frame serverFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			log.Printf("connection closed: %v", err)
			return
		}

		switch frame.Type {
		case "opener":
			fmt.Printf("\nPACE: %s\n> ", frame.Data.Text)
		case "exchange":
			fmt.Printf("\n%s\nPACE: %s\n> ", frame.Data.Echo, frame.Data.Reply)
		case "error":
			fmt.Printf("\nserver error: %s\n> ", frame.Data.Message)
		}
	}
}
