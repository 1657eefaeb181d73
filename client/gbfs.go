package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/hsbacot/bysykkel/fetch"
)

// Timestamp is a POSIX timestamp in whole seconds, as used by GBFS feeds
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts an integer number of seconds since the epoch
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	secs, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", string(data), err)
	}
	t.Time = time.Unix(secs, 0).UTC()
	return nil
}

// MarshalJSON writes the timestamp back as seconds
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(t.Unix(), 10)), nil
}

// MarshalYAML writes the timestamp as seconds
func (t Timestamp) MarshalYAML() (any, error) {
	return t.Unix(), nil
}

// Envelope is the wrapper every GBFS feed shares
type Envelope[T any] struct {
	LastUpdated Timestamp `json:"last_updated" yaml:"last_updated"`
	TTL         int       `json:"ttl" yaml:"ttl"`
	Version     string    `json:"version,omitempty" yaml:"version,omitempty"`
	Data        T         `json:"data" yaml:"data"`
}

type envelopeJSON struct {
	LastUpdated *Timestamp      `json:"last_updated"`
	TTL         int             `json:"ttl"`
	Version     string          `json:"version"`
	Data        json.RawMessage `json:"data"`
}

// UnmarshalJSON requires last_updated and data to be present
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var raw envelopeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.LastUpdated == nil {
		return errMissingField("last_updated")
	}
	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return errMissingField("data")
	}
	var data T
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		return err
	}
	*e = Envelope[T]{LastUpdated: *raw.LastUpdated, TTL: raw.TTL, Version: raw.Version, Data: data}
	return nil
}

func errMissingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}

// SystemInformation is the payload of system_information.json
type SystemInformation struct {
	SystemID    string `json:"system_id" yaml:"system_id"`
	Language    string `json:"language" yaml:"language"`
	Name        string `json:"name" yaml:"name"`
	Operator    string `json:"operator" yaml:"operator"`
	Timezone    string `json:"timezone" yaml:"timezone"`
	PhoneNumber string `json:"phone_number" yaml:"phone_number"`
	Email       string `json:"email" yaml:"email"`
}

type systemInformationJSON struct {
	SystemID    *string `json:"system_id"`
	Language    *string `json:"language"`
	Name        *string `json:"name"`
	Operator    *string `json:"operator"`
	Timezone    *string `json:"timezone"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
}

// UnmarshalJSON requires every field to be present
func (s *SystemInformation) UnmarshalJSON(b []byte) error {
	var raw systemInformationJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	fields := []struct {
		name string
		src  *string
		dst  *string
	}{
		{"system_id", raw.SystemID, &s.SystemID},
		{"language", raw.Language, &s.Language},
		{"name", raw.Name, &s.Name},
		{"operator", raw.Operator, &s.Operator},
		{"timezone", raw.Timezone, &s.Timezone},
		{"phone_number", raw.PhoneNumber, &s.PhoneNumber},
		{"email", raw.Email, &s.Email},
	}
	for _, f := range fields {
		if f.src == nil {
			return errMissingField(f.name)
		}
	}
	for _, f := range fields {
		*f.dst = *f.src
	}
	return nil
}

// Location resolves the system's IANA time zone, falling back to UTC
func (s SystemInformation) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SystemInfo is the decoded system_information.json feed
type SystemInfo = Envelope[SystemInformation]

// FetchSystemInfo fetches system_information.json for a GBFS system such as
// "oslobysykkel.no"
func (c *Client) FetchSystemInfo(ctx context.Context, system string) (SystemInfo, error) {
	u := fmt.Sprintf("%s/%s/system_information.json", c.gbfsBaseURL, url.PathEscape(system))

	var info SystemInfo
	if err := c.getJSON(ctx, u, &info); err != nil {
		return SystemInfo{}, err
	}
	if info.Data.SystemID == "" {
		return SystemInfo{}, fetch.Serialization(nil, "system information has an empty data.system_id")
	}
	return info, nil
}
