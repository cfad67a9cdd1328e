package styles

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrUnknownStyle  = errors.New("unknown style")
	ErrInvalidWeight = errors.New("weight must be a positive integer")
	ErrInvalidFactor = errors.New("factor must be greater than zero")
	ErrEmpty         = errors.New("no styles with positive weight")
)

// Style is a named play style with its selection weight
type Style struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// Store is the persisted style list. Styles keep insertion order in memory and on disk.
type Store struct {
	mu     sync.RWMutex
	path   string
	styles []Style
	index  map[string]int
	intN   func(n int) int
}

// Open loads the store at path. A missing file yields an empty store.
// An empty path keeps the store in memory only.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		index: make(map[string]int),
		intN:  rand.IntN,
	}
	if path == "" {
		return s, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open styles: %w", err)
	}
	defer func() { _ = f.Close() }()

	styles, err := decodeStyles(f)
	if err != nil {
		return nil, fmt.Errorf("decode styles %s: %w", path, err)
	}
	for _, st := range styles {
		s.put(st.Name, st.Weight)
	}
	return s, nil
}

// WithRand replaces the random source used by Roll; intN must return a value in [0, n)
func (s *Store) WithRand(intN func(n int) int) *Store {
	s.intN = intN
	return s
}

// Add inserts or overwrites a style. An overwritten style keeps its position.
func (s *Store) Add(name string, weight int) error {
	if weight <= 0 {
		return ErrInvalidWeight
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	others := total(s.styles)
	if i, ok := s.index[name]; ok {
		others -= s.styles[i].Weight
	}
	if weight > math.MaxInt-others {
		return ErrInvalidWeight
	}
	s.put(name, weight)
	return s.save()
}

// Delete removes a style and returns its weight
func (s *Store) Delete(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[name]
	if !ok {
		return 0, ErrUnknownStyle
	}
	weight := s.styles[i].Weight

	s.styles = append(s.styles[:i], s.styles[i+1:]...)
	delete(s.index, name)
	for j := i; j < len(s.styles); j++ {
		s.index[s.styles[j].Name] = j
	}
	return weight, s.save()
}

// Edit changes the weight of an existing style and returns the previous weight
func (s *Store) Edit(name string, weight int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[name]
	if !ok {
		return 0, ErrUnknownStyle
	}
	old := s.styles[i].Weight
	if weight <= 0 || weight > math.MaxInt-(total(s.styles)-old) {
		return 0, ErrInvalidWeight
	}
	s.styles[i].Weight = weight
	return old, s.save()
}

// Scale multiplies every weight by factor, rounding half to even.
// Weights that round to zero are kept. A factor that would push a weight or
// the total past math.MaxInt leaves the list unchanged.
func (s *Store) Scale(factor float64) error {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return ErrInvalidFactor
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	scaled := make([]int, len(s.styles))
	sum := 0
	for i, st := range s.styles {
		w := math.RoundToEven(float64(st.Weight) * factor)
		// float64(math.MaxInt) rounds up to 2^63, which is already out of range
		if w >= float64(math.MaxInt) {
			return ErrInvalidFactor
		}
		scaled[i] = int(w)
		if scaled[i] > math.MaxInt-sum {
			return ErrInvalidFactor
		}
		sum += scaled[i]
	}

	for i := range s.styles {
		s.styles[i].Weight = scaled[i]
	}
	return s.save()
}

// List returns a copy of the styles in insertion order
func (s *Store) List() []Style {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Style, len(s.styles))
	copy(out, s.styles)
	return out
}

// Total returns the sum of all weights
func (s *Store) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return total(s.styles)
}

// Roll draws a style with probability proportional to its weight
func (s *Store) Roll() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := total(s.styles)
	if sum <= 0 {
		return "", ErrEmpty
	}
	return pick(s.styles, s.intN(sum)), nil
}

// pick scans cumulative weights and returns the first style whose running sum exceeds roll
func pick(styles []Style, roll int) string {
	cumulative := 0
	for _, st := range styles {
		cumulative += st.Weight
		if roll < cumulative {
			return st.Name
		}
	}
	return styles[len(styles)-1].Name
}

func total(styles []Style) int {
	sum := 0
	for _, st := range styles {
		sum += st.Weight
	}
	return sum
}

func (s *Store) put(name string, weight int) {
	if i, ok := s.index[name]; ok {
		s.styles[i].Weight = weight
		return
	}
	s.index[name] = len(s.styles)
	s.styles = append(s.styles, Style{Name: name, Weight: weight})
}

// save writes the list atomically. Callers hold the write lock.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}

	data, err := encodeStyles(s.styles)
	if err != nil {
		return fmt.Errorf("save styles: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".styles-*.json")
	if err != nil {
		return fmt.Errorf("save styles: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save styles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save styles: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save styles: %w", err)
	}
	return nil
}

// encodeStyles writes a JSON object whose keys follow slice order
func encodeStyles(styles []Style) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, st := range styles {
		if i > 0 {
			buf.WriteString(", ")
		}
		key, err := json.Marshal(st.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ": %d", st.Weight)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeStyles reads a JSON object of name to weight, keeping key order
func decodeStyles(r io.Reader) ([]Style, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var styles []Style
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected style name, got %v", tok)
		}
		var weight int
		if err := dec.Decode(&weight); err != nil {
			return nil, fmt.Errorf("weight of %q: %w", name, err)
		}
		styles = append(styles, Style{Name: name, Weight: weight})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return styles, nil
}
