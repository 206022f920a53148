// Package geocode resolves coordinates into human readable addresses.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"
)

var (
	ErrNoAddress = errors.New("no address found for coordinates")
	ErrDisabled  = errors.New("reverse geocoding is disabled")
)

// Address is the result of a reverse lookup.
type Address struct {
	ShortAddress string
	FullAddress  string
	BuildingHint *string
}

// ReverseGeocoder turns a coordinate pair into an Address.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, latitude, longitude float64) (Address, error)
}

// Config configures the Nominatim client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NominatimClient reverse geocodes against an OpenStreetMap Nominatim compatible server.
type NominatimClient struct {
	geocoder geo.Geocoder
	timeout  time.Duration
}

func NewNominatimClient(cfg Config) *NominatimClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NominatimClient{
		geocoder: openstreetmap.GeocoderWithURL(strings.TrimRight(cfg.BaseURL, "/") + "/"),
		timeout:  timeout,
	}
}

type lookupResult struct {
	addr *geo.Address
	err  error
}

// Reverse implements ReverseGeocoder.
func (c *NominatimClient) Reverse(ctx context.Context, latitude, longitude float64) (Address, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// the provider takes no context, so the caller's deadline is enforced here
	ch := make(chan lookupResult, 1)
	go func() {
		addr, err := c.geocoder.ReverseGeocode(latitude, longitude)
		ch <- lookupResult{addr: addr, err: err}
	}()

	var res lookupResult
	select {
	case <-ctx.Done():
		return Address{}, fmt.Errorf("reverse geocode request: %w", ctx.Err())
	case res = <-ch:
	}

	if res.err != nil {
		return Address{}, fmt.Errorf("reverse geocode request: %w", res.err)
	}
	if res.addr == nil || strings.TrimSpace(res.addr.FormattedAddress) == "" {
		return Address{}, ErrNoAddress
	}
	return toAddress(*res.addr), nil
}

// toAddress shortens a Nominatim result to "<place>, <number> <street>". The
// place is the leading display name segment when it names something other
// than the street or area.
func toAddress(a geo.Address) Address {
	segments := strings.Split(a.FormattedAddress, ",")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	var hint *string
	if first := segments[0]; first != "" && !isAddressPart(first, a) {
		hint = &first
	}

	var parts []string
	if hint != nil {
		parts = append(parts, *hint)
	}
	street := strings.TrimSpace(a.HouseNumber + " " + a.Street)
	if street != "" {
		parts = append(parts, street)
	}

	short := strings.Join(parts, ", ")
	if short == "" {
		if len(segments) > 2 {
			segments = segments[:2]
		}
		short = strings.Join(segments, ", ")
	}

	return Address{
		ShortAddress: short,
		FullAddress:  a.FormattedAddress,
		BuildingHint: hint,
	}
}

func isAddressPart(s string, a geo.Address) bool {
	for _, part := range []string{a.HouseNumber, a.Street, a.Suburb, a.City, a.County, a.StateDistrict, a.State, a.Country, a.Postcode} {
		if part != "" && strings.EqualFold(s, part) {
			return true
		}
	}
	return false
}

// Disabled is a ReverseGeocoder that always fails with ErrDisabled.
type Disabled struct{}

func (Disabled) Reverse(ctx context.Context, latitude, longitude float64) (Address, error) {
	return Address{}, ErrDisabled
}
