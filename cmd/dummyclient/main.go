// Command dummyclient connects to a running torii server and prints
// auth-state events as they arrive. It is a development tool for watching
// the /api/authState stream.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	endpoint := flag.String("endpoint", "ws://localhost:8080/api/authState", "WebSocket endpoint URL")
	cookie := flag.String("session", "", "Session cookie value (required)")
	flag.Parse()

	if *cookie == "" {
		log.Fatal("-session is required: pass the value of the session cookie")
	}

	header := http.Header{}
	header.Set("Cookie", "session="+*cookie)

	log.Printf("Connecting to %s ...", *endpoint)
	conn, _, err := websocket.DefaultDialer.Dial(*endpoint, header)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	log.Println("Connected. Waiting for auth-state events...")

	for {
		var event map[string]any
		if err := conn.ReadJSON(&event); err != nil {
			log.Fatalf("Connection closed: %v", err)
		}

		formatted, _ := json.MarshalIndent(event, "", "  ")
		log.Printf("\n=== Auth state change at %s ===\n%s\n",
			time.Now().Format("15:04:05"), string(formatted))
	}
}
