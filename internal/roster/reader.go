package roster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInputExhausted  = errors.New("roster: input exhausted while reading record")
	ErrAttemptsExpired = errors.New("roster: attempts expired while reading record")
)

// LineSource yields one input line at a time. The script controller
// implements it so record fields embedded in scripts are consumed from the
// script itself.
type LineSource interface {
	ReadLine() (string, bool)
	Scripted() bool
}

// PromptFunc presents one field prompt; suppressed entirely in script mode.
type PromptFunc func(text string)

// Reader collects one Person field by field from a line source.
//
// Interactive mode re-asks each field up to the configured attempt count.
// Script mode consumes exactly one line per field and fails on the first
// invalid value, because a faulty script has no operator to correct it.
type Reader struct {
	src      LineSource
	prompt   PromptFunc
	attempts int
}

func NewReader(src LineSource, prompt PromptFunc, attempts int) *Reader {
	if attempts < 1 {
		attempts = 1
	}
	if prompt == nil {
		prompt = func(string) {}
	}
	return &Reader{src: src, prompt: prompt, attempts: attempts}
}

// ReadPerson collects and validates a full record.
func (r *Reader) ReadPerson() (Person, error) {
	var p Person
	var err error

	if p.Name, err = readField(r, "name", parseName); err != nil {
		return Person{}, err
	}
	if p.Coordinates.X, err = readField(r, fmt.Sprintf("coordinate x (> %v)", MinCoordinateX), parseX); err != nil {
		return Person{}, err
	}
	if p.Coordinates.Y, err = readField(r, "coordinate y", parseY); err != nil {
		return Person{}, err
	}
	if p.Height, err = readField(r, "height (> 0)", parseHeight); err != nil {
		return Person{}, err
	}
	if p.Birthday, err = readField(r, "birthday (YYYY-MM-DD, empty for none)", parseBirthday); err != nil {
		return Person{}, err
	}
	if p.EyeColor, err = readField(r, "eye color ("+strings.Join(EyeColorNames(), "/")+")", ParseEyeColor); err != nil {
		return Person{}, err
	}
	if p.Nationality, err = readField(r, "nationality ("+strings.Join(CountryNames(), "/")+")", ParseCountry); err != nil {
		return Person{}, err
	}

	if err := p.Validate(); err != nil {
		return Person{}, err
	}
	return p, nil
}

func readField[T any](r *Reader, label string, parse func(string) (T, error)) (T, error) {
	var zero T
	attempts := r.attempts
	if r.src.Scripted() {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		r.prompt(label + ": ")
		line, ok := r.src.ReadLine()
		if !ok {
			return zero, fmt.Errorf("%w: %s", ErrInputExhausted, label)
		}
		v, err := parse(strings.TrimSpace(line))
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !r.src.Scripted() {
			r.prompt(fmt.Sprintf("invalid %s, try again\n", label))
		}
	}
	return zero, fmt.Errorf("%w: %s: %v", ErrAttemptsExpired, label, lastErr)
}

func parseName(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: name must not be empty", ErrInvalidRecord)
	}
	return raw, nil
}

func parseX(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= MinCoordinateX {
		return 0, fmt.Errorf("%w: x must be a number greater than %v", ErrInvalidRecord, MinCoordinateX)
	}
	return v, nil
}

func parseY(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: y must be a number", ErrInvalidRecord)
	}
	return v, nil
}

func parseHeight(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(v > 0) {
		return 0, fmt.Errorf("%w: height must be a number greater than zero", ErrInvalidRecord)
	}
	return v, nil
}

func parseBirthday(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse(BirthdayLayout, raw); err != nil {
		return "", fmt.Errorf("%w: birthday must be %s", ErrInvalidRecord, BirthdayLayout)
	}
	return raw, nil
}
