// Package bridge ties the link together: it reassembles framed messages from
// raw datagrams, parses them into commands, and dispatches each one to an
// immediate velocity publish or an asynchronous motion goal, replying to the
// sender at every lifecycle phase.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mbocsi/roverlink/command"
	"github.com/mbocsi/roverlink/frame"
	"github.com/mbocsi/roverlink/motion"
	"github.com/mbocsi/roverlink/transport"
)

// replyFunc delivers one status line back to whoever issued the command.
type replyFunc func(text string)

// Options tunes bridge behavior. Zero values fall back to the original
// bridge defaults.
type Options struct {
	DefaultDriveSpeed  float64       // m/s, default 0.25
	DefaultRotateSpeed float64       // rad/s, default 0.8
	ReadyTimeout       time.Duration // action readiness wait, default 500ms
}

// Bridge is the command dispatcher. It owns the receiver-side framing state
// machine and the set of outstanding action handles. Synchronous commands
// are handled inline on the reception path; motion goals run on their own
// goroutines and reply as their lifecycle advances.
type Bridge struct {
	parser *command.Parser
	vel    motion.VelocityPublisher
	drive  motion.ActionClient
	rotate motion.ActionClient

	readyTimeout time.Duration

	feed    *Feed
	tracker *actionTracker

	reply func(addr net.Addr, text string) error

	mu  sync.Mutex
	asm *frame.Assembler

	datagrams   atomic.Int64
	messages    atomic.Int64
	commands    atomic.Int64
	replies     atomic.Int64
	parseErrors atomic.Int64
}

func NewBridge(vel motion.VelocityPublisher, drive, rotate motion.ActionClient, opts Options) *Bridge {
	if opts.DefaultDriveSpeed == 0 {
		opts.DefaultDriveSpeed = 0.25
	}
	if opts.DefaultRotateSpeed == 0 {
		opts.DefaultRotateSpeed = 0.8
	}
	if opts.ReadyTimeout == 0 {
		opts.ReadyTimeout = 500 * time.Millisecond
	}

	return &Bridge{
		parser:       command.NewParser(opts.DefaultDriveSpeed, opts.DefaultRotateSpeed),
		vel:          vel,
		drive:        drive,
		rotate:       rotate,
		readyTimeout: opts.ReadyTimeout,
		feed:         NewFeed(),
		tracker:      newActionTracker(),
		asm:          frame.NewAssembler(),
	}
}

// AttachTransport wires the bridge to a datagram listener: received packets
// flow into HandleDatagram and replies go back out through the transport.
func (b *Bridge) AttachTransport(t transport.Transport) {
	t.OnDatagram(b.HandleDatagram)
	b.reply = t.Reply
}

// Events returns the bridge's event feed.
func (b *Bridge) Events() *Feed {
	return b.feed
}

// Actions returns snapshots of the outstanding action handles.
func (b *Bridge) Actions() []ActionInfo {
	return b.tracker.list()
}

// Stats is a point-in-time view of the bridge counters.
type Stats struct {
	Datagrams          int64 `json:"datagrams"`
	Messages           int64 `json:"messages"`
	Commands           int64 `json:"commands"`
	Replies            int64 `json:"replies"`
	ParseErrors        int64 `json:"parse_errors"`
	ActionsOutstanding int   `json:"actions_outstanding"`
}

func (b *Bridge) Stats() Stats {
	return Stats{
		Datagrams:          b.datagrams.Load(),
		Messages:           b.messages.Load(),
		Commands:           b.commands.Load(),
		Replies:            b.replies.Load(),
		ParseErrors:        b.parseErrors.Load(),
		ActionsOutstanding: len(b.tracker.list()),
	}
}

// StartReporter logs the bridge counters every interval until ctx is done.
func (b *Bridge) StartReporter(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := b.Stats()
				slog.Info("Bridge report",
					"datagrams", s.Datagrams,
					"messages", s.Messages,
					"commands", s.Commands,
					"replies", s.Replies,
					"parse_errors", s.ParseErrors,
					"actions_outstanding", s.ActionsOutstanding,
				)
			}
		}
	}()
}

// HandleDatagram is the reception entry point. A datagram is either part of
// a framed multi-segment message or a standalone command; framed content
// goes through the assembler, anything arriving outside a frame is treated
// as a command on its own.
func (b *Bridge) HandleDatagram(d transport.Datagram) {
	b.datagrams.Add(1)

	b.mu.Lock()
	msg, res := b.asm.Push(d.Data)
	b.mu.Unlock()

	switch res {
	case frame.Completed:
		b.messages.Add(1)
		slog.Debug("Message reassembled", "addr", addrString(d.Addr), "bytes", len(msg))
		b.process(msg, d.Addr, b.udpReply(d.Addr))
	case frame.Collecting:
		// Mid-message segment, keep collecting.
	case frame.Ignored:
		b.process(frame.DecodeText(d.Data), d.Addr, b.udpReply(d.Addr))
	}
}

// InjectCommand feeds one command line into the dispatcher as if it had
// arrived over the link, returning the first reply. Later action-phase
// replies are observable on the event feed. It returns "" if no reply was
// produced before ctx expired.
func (b *Bridge) InjectCommand(ctx context.Context, text string) string {
	ch := make(chan string, 4)
	reply := func(s string) {
		b.replies.Add(1)
		b.feed.Publish(Event{Type: EventReply, Text: s})
		select {
		case ch <- s:
		default:
		}
	}

	b.process(text, nil, reply)

	select {
	case s := <-ch:
		return s
	case <-ctx.Done():
		return ""
	}
}

// process sanitizes, parses, and dispatches one text unit. Empty text is
// dropped silently; a failed command never affects later datagrams.
func (b *Bridge) process(text string, addr net.Addr, reply replyFunc) {
	text = frame.Sanitize(text)
	if text == "" {
		return
	}

	b.commands.Add(1)
	slog.Info("Received command", "text", text, "addr", addrString(addr))
	b.feed.Publish(Event{Type: EventCommand, Addr: addrString(addr), Text: text})

	cmd, err := b.parser.Parse(text)
	if err != nil {
		b.parseErrors.Add(1)
		reply("error: could not parse command\n" + command.HelpText)
		return
	}

	switch c := cmd.(type) {
	case command.Stop:
		b.vel.Publish(0, 0)
		reply("ok: stopped")

	case command.Velocity:
		b.vel.Publish(c.VX, c.WZ)
		reply(fmt.Sprintf("ok: vel %.3f %.3f", c.VX, c.WZ))

	case command.Drive:
		b.submitGoal(b.drive, "drive", motion.Goal{Amount: c.Meters, Speed: c.Speed}, addr, reply)

	case command.Rotate:
		b.submitGoal(b.rotate, "rotate", motion.Goal{Amount: c.Radians, Speed: c.Speed}, addr, reply)
	}
}

// submitGoal starts the asynchronous goal lifecycle: readiness check inline,
// then submission, acknowledgement, and completion on a goroutine of its
// own. Each phase transition emits a reply.
func (b *Bridge) submitGoal(client motion.ActionClient, verb string, goal motion.Goal, addr net.Addr, reply replyFunc) {
	if !client.WaitReady(b.readyTimeout) {
		reply(fmt.Sprintf("error: %s server not ready", client.Name()))
		return
	}

	h := newActionHandle(verb, goal, addr)
	b.tracker.add(h)
	b.emitAction(h)

	go b.runGoal(client, h, reply)
}

func (b *Bridge) runGoal(client motion.ActionClient, h *ActionHandle, reply replyFunc) {
	ack := client.Submit(h.Goal)
	if !ack.Accepted || ack.Result == nil {
		h.advance(ActionRejected)
		b.emitAction(h)
		reply(fmt.Sprintf("error: %s goal rejected", h.Verb))
		b.tracker.remove(h.ID)
		return
	}

	h.advance(ActionAccepted)
	b.emitAction(h)
	reply(fmt.Sprintf("ok: %s goal accepted", h.Verb))

	// No timeout here: a submitted goal is awaited until the collaborator
	// reports completion.
	<-ack.Result

	h.advance(ActionCompleted)
	b.emitAction(h)
	reply(fmt.Sprintf("ok: %s done", h.Verb))
	b.tracker.remove(h.ID)
}

// udpReply builds the reply path for a peer address. Send failures are
// swallowed; an unreachable sender must not interrupt the reception loop.
func (b *Bridge) udpReply(addr net.Addr) replyFunc {
	return func(text string) {
		b.replies.Add(1)
		b.feed.Publish(Event{Type: EventReply, Addr: addrString(addr), Text: text})
		if b.reply == nil {
			return
		}
		if err := b.reply(addr, text); err != nil {
			slog.Debug("Reply failed", "addr", addrString(addr), "error", err.Error())
		}
	}
}

func (b *Bridge) emitAction(h *ActionHandle) {
	state := h.State()
	slog.Info("Action state", "verb", h.Verb, "state", state.String(), "id", h.ID)
	b.feed.Publish(Event{
		Type: EventAction,
		Addr: addrString(h.Addr),
		Text: fmt.Sprintf("%s goal %s", h.Verb, state),
	})
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}
