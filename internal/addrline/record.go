// Package addrline defines the newline-delimited JSON record that flows
// between the address extractor and the world builder.
package addrline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Record is one address-bearing OSM entity. Country, City and Postcode
// are optional at extraction time; Street and Housenumber are always
// present (entities missing either are never emitted).
type Record struct {
	Country     *string `json:"country,omitempty"`
	City        *string `json:"city,omitempty"`
	Postcode    *string `json:"postcode,omitempty"`
	Street      string  `json:"street"`
	Housenumber string  `json:"housenumber"`
	Long        int32   `json:"long"`
	Lat         int32   `json:"lat"`
}

// Encode writes the record as a single LF-terminated JSON line.
func (r Record) Encode(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode address record: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// Scan reads newline-delimited Records from r, invoking fn for each.
// Scanning stops and the first error (from fn or from a malformed line)
// is returned; a malformed line's error names its 1-based line number.
func Scan(r io.Reader, fn func(Record) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(text, &rec); err != nil {
			return fmt.Errorf("malformed address record at line %d: %w", line, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading address records: %w", err)
	}
	return nil
}
