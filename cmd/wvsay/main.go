// wvsay publishes a speak request to a running worldvoiced instance and
// waits for the dispatch completion message.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/George-br/WorldVoice/internal/protocol"
	"github.com/nats-io/nats.go"
)

var version = "0.1.0-dev"

func main() {
	var (
		servers     string
		session     string
		sayAll      bool
		wait        time.Duration
		showVersion bool
	)
	flag.StringVar(&servers, "servers", "nats://localhost:4222", "Comma-separated NATS servers")
	flag.StringVar(&session, "session", "wvsay", "Session identifier")
	flag.BoolVar(&sayAll, "say-all", false, "Mark the request as continuous reading")
	flag.DurationVar(&wait, "wait", 30*time.Second, "How long to wait for completion")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: wvsay [flags] <text>")
		os.Exit(2)
	}

	if err := run(servers, session, text, sayAll, wait); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(servers, session, text string, sayAll bool, wait time.Duration) error {
	conn, err := nats.Connect(servers, nats.Name("wvsay"))
	if err != nil {
		return fmt.Errorf("connect to nats: %w", err)
	}
	defer conn.Close()

	done := make(chan protocol.SpeakDone, 1)
	sub, err := conn.Subscribe(protocol.SubjectSpeakDone, func(msg *nats.Msg) {
		var d protocol.SpeakDone
		if err := json.Unmarshal(msg.Data, &d); err != nil {
			return
		}
		if d.SessionID == session {
			select {
			case done <- d:
			default:
			}
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer sub.Drain()

	req := protocol.SpeakRequest{
		SessionID: session,
		Text:      text,
		SayAll:    sayAll,
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if err := conn.Publish(protocol.SubjectSpeak, data); err != nil {
		return fmt.Errorf("publish speak request: %w", err)
	}

	select {
	case d := <-done:
		fmt.Printf("dispatched %d directives (completed=%v)\n", d.Directives, d.Completed)
		return nil
	case <-time.After(wait):
		return fmt.Errorf("timed out after %s waiting for completion", wait)
	}
}
