package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode"
)

// EventKind tells key events and pauses apart
type EventKind int

const (
	EventKey EventKind = iota
	EventPause
)

// KeyEvent is one step of a key sequence: a key going down or up, or a pause.
type KeyEvent struct {
	Kind    EventKind
	Code    int
	Pressed bool
	Delay   time.Duration
}

// KeyDown returns a press of the given virtual key.
func KeyDown(code int) KeyEvent {
	return KeyEvent{Kind: EventKey, Code: code, Pressed: true}
}

// KeyUp returns a release of the given virtual key.
func KeyUp(code int) KeyEvent {
	return KeyEvent{Kind: EventKey, Code: code}
}

// PauseFor returns a pause of d.
func PauseFor(d time.Duration) KeyEvent {
	return KeyEvent{Kind: EventPause, Delay: d}
}

func (e KeyEvent) String() string {
	if e.Kind == EventPause {
		return "pause " + e.Delay.String()
	}
	if e.Pressed {
		return "down " + KeyName(e.Code)
	}
	return "up " + KeyName(e.Code)
}

// ParseOptions controls how whitespace in the key string is treated.
// Whitespace is dropped unless the matching option is set.
type ParseOptions struct {
	WithSpaces   bool
	WithTabs     bool
	WithNewlines bool
}

var (
	ErrUnterminatedGroup = errors.New("unterminated group")
	ErrEmptyGroup        = errors.New("empty group")
	ErrNestedGroup       = errors.New("nested group")
	ErrUnterminatedBrace = errors.New("unterminated brace")
	ErrUnexpectedParen   = errors.New("unexpected `)`")
	ErrUnexpectedBrace   = errors.New("unexpected `}`")
	ErrUnknownCode       = errors.New("unknown code")
	ErrInvalidCount      = errors.New("invalid count")
	ErrUnmappedChar      = errors.New("unmapped character")
)

// KeySequenceError reports a syntax error in a key string
type KeySequenceError struct {
	Offset int // rune offset of the offending construct
	Msg    string
	Err    error
}

func (e *KeySequenceError) Error() string {
	return fmt.Sprintf("key sequence error at offset %d: %s", e.Offset, e.Msg)
}

func (e *KeySequenceError) Unwrap() error {
	return e.Err
}

// ParseKeys converts a key string such as "+hello{SPACE}+world+1" into the
// key events that type it. Characters are resolved to key codes with mapper.
//
// Syntax:
//
//	+ ^ %            hold shift, control, alt for what follows
//	(abc)            type abc with the held modifiers, then release them
//	{NAME} {NAME n}  named key, n times; {PAUSE n} waits n seconds
//	{c} {c n}        literal character c, n times ({+}, {{}, {}} ...)
//	~                enter
//
// On error no events are returned.
func ParseKeys(keys string, opts ParseOptions, mapper CharMapper) ([]KeyEvent, error) {
	p := &keyParser{
		input:  []rune(keys),
		opts:   opts,
		mapper: mapper,
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.events, nil
}

// shiftSlot is the index of '+' in modifierOrder
const shiftSlot = 0

type keyParser struct {
	input  []rune
	pos    int
	opts   ParseOptions
	mapper CharMapper
	events []KeyEvent
	held   [len(modifierOrder)]bool
}

func (p *keyParser) parse() error {
	for p.pos < len(p.input) {
		start := p.pos
		c := p.next()

		switch {
		case isModifier(c):
			p.hold(c)
		case c == '(':
			if err := p.parseGroup(start); err != nil {
				return err
			}
		case c == '{':
			if err := p.parseBrace(start); err != nil {
				return err
			}
			p.releaseModifiers()
		case c == ')':
			return p.fail(start, ErrUnexpectedParen, "`)` should be preceded by `(`")
		case c == '}':
			return p.fail(start, ErrUnexpectedBrace, "`}` should be preceded by `{`")
		default:
			typed, err := p.parseChar(c, start)
			if err != nil {
				return err
			}
			if typed {
				p.releaseModifiers()
			}
		}
	}
	p.releaseModifiers()
	return nil
}

// parseGroup handles everything after an opening parenthesis at open.
// Held modifiers stay down until the closing parenthesis.
func (p *keyParser) parseGroup(open int) error {
	items := 0
	for {
		if p.pos >= len(p.input) {
			return p.fail(open, ErrUnterminatedGroup, "`(` without `)`")
		}
		start := p.pos
		c := p.next()

		switch {
		case c == ')':
			if items == 0 {
				return p.fail(start, ErrEmptyGroup, "expected a character before `)`")
			}
			p.releaseModifiers()
			return nil
		case c == '(':
			return p.fail(start, ErrNestedGroup, "`(` inside a group")
		case c == '}':
			return p.fail(start, ErrUnexpectedBrace, "`}` should be preceded by `{`")
		case isModifier(c):
			p.hold(c)
		case c == '{':
			if err := p.parseBrace(start); err != nil {
				return err
			}
			items++
		default:
			typed, err := p.parseChar(c, start)
			if err != nil {
				return err
			}
			if typed {
				items++
			}
		}
	}
}

// parseBrace handles {NAME} and {NAME count} after the opening brace at open.
// The first rune always belongs to the name so {{} and {}} escape braces.
func (p *keyParser) parseBrace(open int) error {
	if p.pos >= len(p.input) {
		return p.fail(open, ErrUnterminatedBrace, "`{` without `}`")
	}
	name := []rune{p.next()}
	var count []rune
	sawSpace := false
	for {
		if p.pos >= len(p.input) {
			return p.fail(open, ErrUnterminatedBrace, "`{` without `}`")
		}
		c := p.next()
		switch {
		case c == '}':
			return p.emitBrace(open, name, count)
		case c == ' ':
			sawSpace = true
		case sawSpace:
			count = append(count, c)
		default:
			name = append(name, c)
		}
	}
}

func (p *keyParser) emitBrace(open int, name, countText []rune) error {
	code := string(name)
	count, err := parseCount(countText)
	if err != nil {
		return p.fail(open, ErrInvalidCount, fmt.Sprintf("invalid count %q in {%s}", string(countText), code))
	}

	if code == "PAUSE" {
		if count > maxPauseSeconds {
			return p.fail(open, ErrInvalidCount, fmt.Sprintf("pause %s in {%s} is longer than %d seconds", string(countText), code, maxPauseSeconds))
		}
		if count == 0 {
			count = defaultPauseSeconds
		}
		p.events = append(p.events, PauseFor(time.Duration(count*float64(time.Second))))
		return nil
	}

	if count > maxBraceRepeat {
		return p.fail(open, ErrInvalidCount, fmt.Sprintf("count %s in {%s} is above the maximum of %d", string(countText), code, maxBraceRepeat))
	}
	repeat := int(count)
	if repeat == 0 {
		repeat = 1
	}
	if vk, ok := LookupKeyCode(code); ok {
		for range repeat {
			p.tap(vk)
		}
		return nil
	}
	if len(name) > 1 {
		return p.fail(open, ErrUnknownCode, "unknown code: "+code)
	}
	for range repeat {
		if err := p.typeChar(name[0], open); err != nil {
			return err
		}
	}
	return nil
}

// parseCount reads the optional number after the space in {NAME count}.
func parseCount(text []rune) (float64, error) {
	if len(text) == 0 {
		return 0, nil
	}
	for _, r := range text {
		if r != '.' && (r < '0' || r > '9') {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.ParseFloat(string(text), 64)
}

// parseChar types a plain character. It reports false when the character
// was dropped (whitespace without the matching option).
func (p *keyParser) parseChar(c rune, pos int) (bool, error) {
	switch c {
	case ' ':
		if !p.opts.WithSpaces {
			return false, nil
		}
		p.tap(vkSpace)
	case '\t':
		if !p.opts.WithTabs {
			return false, nil
		}
		p.tap(vkTab)
	case '\n':
		if !p.opts.WithNewlines {
			return false, nil
		}
		p.tap(vkEnter)
	case '\r':
		return false, nil
	case '~':
		p.tap(vkEnter)
	default:
		if err := p.typeChar(c, pos); err != nil {
			return false, err
		}
	}
	return true, nil
}

// typeChar emits the key for c, wrapped in shift when c needs it and
// shift is not already held.
func (p *keyParser) typeChar(c rune, pos int) error {
	shift := unicode.IsUpper(c)
	base := unicode.ToLower(c)
	if unshifted, ok := shiftedChars[c]; ok {
		base = unshifted
		shift = true
	}

	vk, err := p.mapper.CharToKeyCode(base)
	if err != nil {
		return &KeySequenceError{Offset: pos, Msg: err.Error(), Err: ErrUnmappedChar}
	}

	if shift && !p.held[shiftSlot] {
		p.events = append(p.events, KeyDown(vkShift))
		p.tap(vk)
		p.events = append(p.events, KeyUp(vkShift))
		return nil
	}
	p.tap(vk)
	return nil
}

func (p *keyParser) next() rune {
	c := p.input[p.pos]
	p.pos++
	return c
}

func (p *keyParser) tap(vk int) {
	p.events = append(p.events, KeyDown(vk), KeyUp(vk))
}

func (p *keyParser) hold(c rune) {
	i := modifierIndex(c)
	if p.held[i] {
		return
	}
	p.held[i] = true
	p.events = append(p.events, KeyDown(modifierKeys[c]))
}

func (p *keyParser) releaseModifiers() {
	for i, c := range modifierOrder {
		if p.held[i] {
			p.events = append(p.events, KeyUp(modifierKeys[c]))
			p.held[i] = false
		}
	}
}

func (p *keyParser) fail(offset int, err error, msg string) error {
	return &KeySequenceError{Offset: offset, Msg: msg, Err: err}
}

func isModifier(c rune) bool {
	_, ok := modifierKeys[c]
	return ok
}

func modifierIndex(c rune) int {
	for i, m := range modifierOrder {
		if m == c {
			return i
		}
	}
	return -1
}
