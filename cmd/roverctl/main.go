// roverctl is an interactive sender for the rover link: it reads command
// lines, frames them into fixed-size paced segments, and prints the bridge's
// replies.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mbocsi/roverlink/client"
)

func main() {
	addr := flag.String("addr", "", "bridge address (host:port); empty uses mDNS discovery")
	size := flag.Int("size", 800, "segment size in bytes")
	rate := flag.Int("rate", 400000, "link bitrate in bits per second (0 disables pacing)")
	wait := flag.Duration("wait", 2*time.Second, "how long to linger for replies after each message")
	flag.Parse()

	target := *addr
	if target == "" {
		fmt.Println("Discovering bridge over mDNS...")
		discovered, err := client.Discover(5 * time.Second)
		if err != nil {
			fmt.Fprintf(os.Stderr, "discovery failed: %v (use -addr)\n", err)
			os.Exit(1)
		}
		target = discovered
	}

	s, err := client.Dial(target, *size, *rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	fmt.Printf("Ready to send commands to %s (%dB segments at %.1f kbps)\n",
		target, *size, float64(*rate)/1000)
	fmt.Println("Type a command, or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") {
			break
		}

		n, err := s.Send(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "send: %v\n", err)
			continue
		}
		fmt.Printf("Message sent. (%d segments)\n", n)

		for _, reply := range s.Replies(*wait) {
			fmt.Println(reply)
		}
	}
}
