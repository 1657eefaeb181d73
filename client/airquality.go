package client

import (
	"context"
	"fmt"
	"net/url"
	"sort"
)

// Reading is one measurement from NILU's "up to date" endpoint
type Reading struct {
	Zone         string  `json:"zone" yaml:"zone"`
	Municipality string  `json:"municipality" yaml:"municipality"`
	Area         string  `json:"area" yaml:"area"`
	Station      string  `json:"station" yaml:"station"`
	Component    string  `json:"component" yaml:"component"`
	FromTime     string  `json:"fromTime" yaml:"from_time"`
	ToTime       string  `json:"toTime" yaml:"to_time"`
	Value        float64 `json:"value" yaml:"value"`
	Unit         string  `json:"unit" yaml:"unit"`
	Index        int     `json:"index" yaml:"index"`
	Color        string  `json:"color" yaml:"color"`
	Latitude     float64 `json:"latitude" yaml:"latitude"`
	Longitude    float64 `json:"longitude" yaml:"longitude"`
}

// FetchAirQuality fetches the latest readings for an area such as "Oslo".
// Readings are ordered by station, then component.
func (c *Client) FetchAirQuality(ctx context.Context, area string) ([]Reading, error) {
	u := fmt.Sprintf("%s/aq/utd?areas=%s", c.airQualityBaseURL, url.QueryEscape(area))

	var readings []Reading
	if err := c.getJSON(ctx, u, &readings); err != nil {
		return nil, err
	}

	sort.SliceStable(readings, func(i, j int) bool {
		if readings[i].Station != readings[j].Station {
			return readings[i].Station < readings[j].Station
		}
		return readings[i].Component < readings[j].Component
	})
	return readings, nil
}
