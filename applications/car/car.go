package car

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

type Car struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Category    pq.StringArray `db:"category" json:"category"`
	Price       float64        `db:"price" json:"price"`
	Description string         `db:"description" json:"description"`
	Features    pq.StringArray `db:"features" json:"features"`
	Image       string         `db:"image" json:"image"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
}

// Catalog categories offered by the category filter.
const (
	CategoryAll       = "All cars"
	CategoryBusiness  = "Business"
	CategoryFamily    = "Family"
	CategoryAdventure = "Adventure"
	CategoryWedding   = "Wedding"
)

var Categories = []string{CategoryAll, CategoryBusiness, CategoryFamily, CategoryAdventure, CategoryWedding}

var (
	ErrCarNotFound     = errors.New("car not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidCar      = errors.New("invalid car")
)

// IsCategory reports whether c is one of the fixed filter categories.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// HasCategory is a case-sensitive membership test on the car's category set.
func (c *Car) HasCategory(category string) bool {
	for _, have := range c.Category {
		if have == category {
			return true
		}
	}
	return false
}

// FilterByCategory returns the whole catalog for "All cars" and otherwise
// the cars whose category set contains category.
func FilterByCategory(cars []*Car, category string) []*Car {
	if category == CategoryAll {
		return cars
	}
	out := make([]*Car, 0, len(cars))
	for _, c := range cars {
		if c.HasCategory(category) {
			out = append(out, c)
		}
	}
	return out
}

// StringList accepts either a JSON array of strings or a single
// comma-separated string, as typed into the admin form.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = cleanList(arr)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = cleanList(strings.Split(s, ","))
	return nil
}

func cleanList(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, item := range in {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Amount accepts a JSON number or a numeric string.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*a = Amount(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected number: %w", err)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", s, err)
	}
	*a = Amount(f)
	return nil
}

// CarParams is the admin form payload for create and update.
type CarParams struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       Amount     `json:"price"`
	Image       string     `json:"image"`
	Category    StringList `json:"category"`
	Features    StringList `json:"features"`
}

func (p *CarParams) validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidCar)
	case strings.TrimSpace(p.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidCar)
	case strings.TrimSpace(p.Image) == "":
		return fmt.Errorf("%w: image is required", ErrInvalidCar)
	case len(p.Category) == 0:
		return fmt.Errorf("%w: at least one category is required", ErrInvalidCar)
	case len(p.Features) == 0:
		return fmt.Errorf("%w: at least one feature is required", ErrInvalidCar)
	}
	price := float64(p.Price)
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return fmt.Errorf("%w: price must be a non-negative number", ErrInvalidCar)
	}
	return nil
}

func (p *CarParams) apply(c *Car) {
	c.Name = strings.TrimSpace(p.Name)
	c.Description = strings.TrimSpace(p.Description)
	c.Price = float64(p.Price)
	c.Image = strings.TrimSpace(p.Image)
	c.Category = pq.StringArray(p.Category)
	c.Features = pq.StringArray(p.Features)
}

func parseParams(payload []byte) (*CarParams, error) {
	var p CarParams
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal payload: %v", ErrInvalidCar, err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseID parses a path parameter into a car id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid car ID format %q", ErrInvalidCar, raw)
	}
	return id, nil
}
