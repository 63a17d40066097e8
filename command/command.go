// Package command defines the rover command grammar and its parser. The
// grammar is the public surface exposed to any UDP peer; numeric parameters
// are validated and clamped rather than rejected.
package command

import "fmt"

// Clamp ranges for command parameters. Out-of-range values are clamped, not
// rejected.
const (
	MaxLinearVel  = 0.6 // m/s
	MaxAngularVel = 2.0 // rad/s

	MinDriveSpeed = 0.05 // m/s
	MaxDriveSpeed = 0.5  // m/s

	MinRotateSpeed = 0.1 // rad/s
	MaxRotateSpeed = 1.5 // rad/s
)

// HelpText is the command reference sent back to a peer whose input could
// not be parsed.
const HelpText = `
Commands:
  drive forward <meters> [speed <mps>]
  drive backward <meters> [speed <mps>]
  rotate clockwise <degrees> [speed <radps>]
  rotate counterclockwise <degrees> [speed <radps>]
  vel <linear_x_mps> <angular_z_radps>
  stop

Examples:
  drive forward 0.5 speed 0.25
  rotate clockwise 90
  vel 0.2 -0.3
`

// Command is one parsed rover command. Concrete types are Stop, Velocity,
// Drive, and Rotate.
type Command interface {
	command()
}

// Stop halts the robot immediately.
type Stop struct{}

// Velocity sets an instantaneous linear/angular velocity.
type Velocity struct {
	VX float64 // linear x, m/s, clamped to +-MaxLinearVel
	WZ float64 // angular z, rad/s, clamped to +-MaxAngularVel
}

// Drive moves a fixed distance. A negative Meters means backward; the sign
// encodes the direction.
type Drive struct {
	Meters float64
	Speed  float64 // m/s, clamped to [MinDriveSpeed, MaxDriveSpeed]
}

// Rotate turns through a fixed angle. Clockwise is negative by the
// right-hand-rule z-up convention.
type Rotate struct {
	Radians float64
	Speed   float64 // rad/s, clamped to [MinRotateSpeed, MaxRotateSpeed]
}

func (Stop) command()     {}
func (Velocity) command() {}
func (Drive) command()    {}
func (Rotate) command()   {}

// ParseError reports text that matched no production of the grammar. It
// carries the original text for the diagnostic reply.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse command %q", e.Text)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
