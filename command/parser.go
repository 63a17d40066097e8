package command

import (
	"math"
	"strconv"
	"strings"
)

// Parser turns normalized command text into Command values. It is a
// hand-written tokenizer over a four-production grammar; keywords are
// case-insensitive.
type Parser struct {
	defaultDriveSpeed  float64
	defaultRotateSpeed float64
}

// NewParser returns a parser with the given default speeds, used when a
// drive/rotate command omits its optional speed clause. Defaults are still
// subject to the clamp ranges.
func NewParser(defaultDriveSpeed, defaultRotateSpeed float64) *Parser {
	return &Parser{
		defaultDriveSpeed:  defaultDriveSpeed,
		defaultRotateSpeed: defaultRotateSpeed,
	}
}

// Parse matches text against the grammar. It returns a *ParseError carrying
// the original text when nothing matches.
func (p *Parser) Parse(text string) (Command, error) {
	tokens := strings.Fields(strings.ToLower(text))

	if len(tokens) == 1 {
		switch tokens[0] {
		case "stop", "e-stop", "estop":
			return Stop{}, nil
		}
	}

	if len(tokens) == 3 && (tokens[0] == "vel" || tokens[0] == "velocity") {
		vx, ok1 := parseNumber(tokens[1])
		wz, ok2 := parseNumber(tokens[2])
		if ok1 && ok2 {
			return Velocity{
				VX: clamp(vx, -MaxLinearVel, MaxLinearVel),
				WZ: clamp(wz, -MaxAngularVel, MaxAngularVel),
			}, nil
		}
	}

	if len(tokens) >= 3 && tokens[0] == "drive" {
		if cmd, ok := p.parseDrive(tokens[1:]); ok {
			return cmd, nil
		}
	}

	if len(tokens) >= 3 && tokens[0] == "rotate" {
		if cmd, ok := p.parseRotate(tokens[1:]); ok {
			return cmd, nil
		}
	}

	return nil, &ParseError{Text: text}
}

// parseDrive handles: (forward|backward) <num> [speed <num>]
func (p *Parser) parseDrive(args []string) (Command, bool) {
	if args[0] != "forward" && args[0] != "backward" {
		return nil, false
	}
	meters, ok := parseNumber(args[1])
	if !ok {
		return nil, false
	}
	speed, ok := parseSpeedClause(args[2:], p.defaultDriveSpeed)
	if !ok {
		return nil, false
	}

	meters = math.Abs(meters)
	if args[0] == "backward" {
		meters = -meters
	}
	return Drive{
		Meters: meters,
		Speed:  clamp(speed, MinDriveSpeed, MaxDriveSpeed),
	}, true
}

// parseRotate handles: (clockwise|counterclockwise|anticlockwise) <num> [speed <num>]
func (p *Parser) parseRotate(args []string) (Command, bool) {
	sense := args[0]
	if sense != "clockwise" && sense != "counterclockwise" && sense != "anticlockwise" {
		return nil, false
	}
	degrees, ok := parseNumber(args[1])
	if !ok {
		return nil, false
	}
	speed, ok := parseSpeedClause(args[2:], p.defaultRotateSpeed)
	if !ok {
		return nil, false
	}

	radians := math.Abs(degrees) * math.Pi / 180
	if sense == "clockwise" {
		// Right-hand rule, z up: clockwise is negative.
		radians = -radians
	}
	return Rotate{
		Radians: radians,
		Speed:   clamp(speed, MinRotateSpeed, MaxRotateSpeed),
	}, true
}

// parseSpeedClause parses an optional trailing "speed <num>". An absent
// clause yields the default; anything else trailing is a mismatch.
func parseSpeedClause(args []string, def float64) (float64, bool) {
	if len(args) == 0 {
		return def, true
	}
	if len(args) != 2 || args[0] != "speed" {
		return 0, false
	}
	return parseNumber(args[1])
}

// parseNumber accepts an optional sign and optional fractional part, no
// exponent notation.
func parseNumber(tok string) (float64, bool) {
	if !validNumber(tok) {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func validNumber(tok string) bool {
	i := 0
	if i < len(tok) && (tok[i] == '+' || tok[i] == '-') {
		i++
	}
	digits := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
		digits++
	}
	if digits == 0 {
		return false
	}
	if i < len(tok) && tok[i] == '.' {
		i++
		frac := 0
		for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
			i++
			frac++
		}
		if frac == 0 {
			return false
		}
	}
	return i == len(tok)
}
