package roster

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrInvalidRecord = errors.New("roster: invalid record")

// MinCoordinateX is the lower bound accepted by the server for x.
const MinCoordinateX = -375.0

// BirthdayLayout is the accepted date format for birthdays.
const BirthdayLayout = "2006-01-02"

type EyeColor string

const (
	EyeGreen EyeColor = "GREEN"
	EyeBlue  EyeColor = "BLUE"
	EyeBrown EyeColor = "BROWN"
	EyeGray  EyeColor = "GRAY"
)

type Country string

const (
	CountryFrance  Country = "FRANCE"
	CountrySpain   Country = "SPAIN"
	CountryIndia   Country = "INDIA"
	CountryVatican Country = "VATICAN_CITY"
)

// Coordinates locates a person on the roster map.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Person is one roster record as sent to the server. The id is assigned
// server-side and never travels in a request.
type Person struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Height      float64     `json:"height"`
	Birthday    string      `json:"birthday,omitempty"`
	EyeColor    EyeColor    `json:"eye_color"`
	Nationality Country     `json:"nationality"`
}

func (p Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidRecord)
	}
	if math.IsNaN(p.Coordinates.X) || math.IsInf(p.Coordinates.X, 0) || p.Coordinates.X <= MinCoordinateX {
		return fmt.Errorf("%w: x must be a finite number greater than %v", ErrInvalidRecord, MinCoordinateX)
	}
	if math.IsNaN(p.Coordinates.Y) || math.IsInf(p.Coordinates.Y, 0) {
		return fmt.Errorf("%w: y must be a finite number", ErrInvalidRecord)
	}
	if !(p.Height > 0) {
		return fmt.Errorf("%w: height must be greater than zero", ErrInvalidRecord)
	}
	if p.Birthday != "" {
		if _, err := time.Parse(BirthdayLayout, p.Birthday); err != nil {
			return fmt.Errorf("%w: birthday must be %s", ErrInvalidRecord, BirthdayLayout)
		}
	}
	if _, ok := eyeColors[p.EyeColor]; !ok {
		return fmt.Errorf("%w: eye color must be one of %s", ErrInvalidRecord, strings.Join(EyeColorNames(), ", "))
	}
	if _, ok := countries[p.Nationality]; !ok {
		return fmt.Errorf("%w: nationality must be one of %s", ErrInvalidRecord, strings.Join(CountryNames(), ", "))
	}
	return nil
}

var eyeColors = map[EyeColor]struct{}{
	EyeGreen: {},
	EyeBlue:  {},
	EyeBrown: {},
	EyeGray:  {},
}

var countries = map[Country]struct{}{
	CountryFrance:  {},
	CountrySpain:   {},
	CountryIndia:   {},
	CountryVatican: {},
}

func EyeColorNames() []string {
	return []string{string(EyeGreen), string(EyeBlue), string(EyeBrown), string(EyeGray)}
}

func CountryNames() []string {
	return []string{string(CountryFrance), string(CountrySpain), string(CountryIndia), string(CountryVatican)}
}

// ParseEyeColor accepts any case and surrounding whitespace.
func ParseEyeColor(raw string) (EyeColor, error) {
	c := EyeColor(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := eyeColors[c]; !ok {
		return "", fmt.Errorf("%w: unknown eye color %q", ErrInvalidRecord, raw)
	}
	return c, nil
}

// ParseCountry accepts any case and surrounding whitespace.
func ParseCountry(raw string) (Country, error) {
	c := Country(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := countries[c]; !ok {
		return "", fmt.Errorf("%w: unknown nationality %q", ErrInvalidRecord, raw)
	}
	return c, nil
}
