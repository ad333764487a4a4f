package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	var (
		url     = flag.String("url", "ws://localhost:8080/v1/engine", "engine ws url")
		stepMS  = flag.Int("step_ms", 250, "engine frame interval in milliseconds")
		finds   = flag.Int("find_every", 20, "pick up a random consumable every N seconds (0 disables)")
		wanders = flag.Int("wander_every", 15, "walk to a random nearby point every N seconds (0 disables)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	actions := make(chan []byte, 64)
	go func() {
		defer close(actions)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				logger.Printf("read: %v", err)
				return
			}
			actions <- msg
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	e := newEngine(rand.New(rand.NewSource(time.Now().UnixNano())))
	step := time.Duration(*stepMS) * time.Millisecond
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	start := time.Now()
	lastFind, lastWander := start, start

	send := func(msgs [][]byte) {
		for _, b := range msgs {
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				logger.Printf("write: %v", err)
				return
			}
		}
	}

	for {
		select {
		case <-stop:
			return
		case msg, ok := <-actions:
			if !ok {
				return
			}
			out, desc := e.handle(msg)
			if desc != "" {
				logger.Printf("%s", desc)
			}
			send(out)
		case now := <-ticker.C:
			send(e.step(step.Seconds()))
			if *finds > 0 && now.Sub(lastFind) >= time.Duration(*finds)*time.Second {
				lastFind = now
				send(e.find())
			}
			if *wanders > 0 && now.Sub(lastWander) >= time.Duration(*wanders)*time.Second {
				lastWander = now
				send(e.wander())
			}
		}
	}
}
