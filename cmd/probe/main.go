// Probe tails a running stagesense dashboard's event stream from the
// terminal, for checking thresholds without opening a browser.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "Dashboard host:port")
	stream := flag.String("stream", "events", "Stream to tail: events or bands")
	raw := flag.Bool("raw", false, "Print raw JSON instead of formatted lines")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws/" + *stream}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: dial %s: %v\n", u.String(), err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("connected to %s\n", u.String())

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fmt.Fprintf(os.Stderr, "Error: read: %v\n", err)
			os.Exit(1)
		}

		if *raw {
			fmt.Println(string(data))
			continue
		}
		fmt.Println(format(data))
	}
}

// format renders one stream message as a single readable line.
func format(data []byte) string {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return string(data)
	}

	// Event log entries carry a kind; band updates carry energies.
	if kind, ok := m["kind"].(string); ok {
		line := fmt.Sprintf("%v  %-6s %v", m["time"], kind, m["detail"])
		if payload, ok := m["payload"]; ok && payload != nil {
			compact, _ := json.Marshal(payload)
			line += " " + string(compact)
		}
		return line
	}
	if _, ok := m["bass"]; ok {
		return fmt.Sprintf("bass=%.2f mid=%.2f treble=%.2f overall=%.2f",
			num(m["bass"]), num(m["mid"]), num(m["treble"]), num(m["overall"]))
	}
	return string(data)
}

func num(v any) float64 {
	f, _ := v.(float64)
	return f
}
