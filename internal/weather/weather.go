// Package weather answers current-conditions and 7-day forecast questions
// using IP geolocation and the OpenWeatherMap API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/alexanderramin/agrobot/internal/collab"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const forecastDays = 7

// Config locates the remote services.
type Config struct {
	GeoURL  string
	BaseURL string
	APIKey  string
	// Zone renders forecast dates; nil means the local zone.
	Zone *time.Location
}

// DefaultConfig points at ipinfo.io and OpenWeatherMap with no API key.
func DefaultConfig() Config {
	return Config{
		GeoURL:  "https://ipinfo.io/",
		BaseURL: "https://api.openweathermap.org/data/2.5",
	}
}

// Location is the caller's approximate position. City may be empty even
// when coordinates are known, and the reverse.
type Location struct {
	City      string
	Lat, Lon  float64
	HasCoords bool
}

// Service fetches weather text. Methods return an error only when the
// remote call fails outright; "not found" style answers come back as text.
type Service struct {
	client collab.Client
	cfg    Config
	title  cases.Caser
}

func NewService(client collab.Client, cfg Config) *Service {
	if cfg.Zone == nil {
		cfg.Zone = time.Local
	}
	return &Service{client: client, cfg: cfg, title: cases.Title(language.Und)}
}

type geoResponse struct {
	City string `json:"city"`
	Loc  string `json:"loc"`
}

// Locate asks the geolocation service where this machine is. A "loc"
// value that does not parse as "lat,lon" is an error.
func (s *Service) Locate(ctx context.Context) (Location, error) {
	resp, err := s.client.Get(ctx, collab.CallGeo, s.cfg.GeoURL)
	if err != nil {
		return Location{}, fmt.Errorf("locating: %w", err)
	}
	var geo geoResponse
	if err := resp.DecodeJSON(&geo); err != nil {
		return Location{}, fmt.Errorf("locating: %w", err)
	}

	loc := Location{City: geo.City}
	if geo.Loc == "" {
		return loc, nil
	}
	latStr, lonStr, ok := strings.Cut(geo.Loc, ",")
	if !ok {
		return Location{}, fmt.Errorf("locating: %w: loc %q", collab.ErrBadResponse, geo.Loc)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Location{}, fmt.Errorf("locating: %w: latitude %q", collab.ErrBadResponse, latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Location{}, fmt.Errorf("locating: %w: longitude %q", collab.ErrBadResponse, lonStr)
	}
	loc.Lat, loc.Lon, loc.HasCoords = lat, lon, true
	return loc, nil
}

type currentResponse struct {
	Cod     json.RawMessage `json:"cod"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp json.Number `json:"temp"`
	} `json:"main"`
}

// ByCity reports current weather for a named city.
func (s *Service) ByCity(ctx context.Context, city string) (string, error) {
	q := url.Values{"q": {city}}
	desc, temp, found, err := s.current(ctx, q)
	if err != nil {
		return "", err
	}
	if !found {
		return fmt.Sprintf("Could not find weather for '%s'.", city), nil
	}
	return fmt.Sprintf("Weather in %s: %s, %s°C", s.title.String(city), desc, temp), nil
}

// ByCoordinates reports current weather at a position.
func (s *Service) ByCoordinates(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{"lat": {formatCoord(lat)}, "lon": {formatCoord(lon)}}
	desc, temp, found, err := s.current(ctx, q)
	if err != nil {
		return "", err
	}
	if !found {
		return "Could not find weather for the location.", nil
	}
	return fmt.Sprintf("Current Weather: %s, %s°C", desc, temp), nil
}

func (s *Service) current(ctx context.Context, q url.Values) (desc, temp string, found bool, err error) {
	resp, err := s.client.Get(ctx, collab.CallWeather, s.endpoint("weather", q))
	if err != nil {
		return "", "", false, fmt.Errorf("fetching weather: %w", err)
	}
	var body currentResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return "", "", false, fmt.Errorf("fetching weather: %w", err)
	}
	if !codIsOK(body.Cod) {
		return "", "", false, nil
	}
	if len(body.Weather) == 0 || body.Main == nil || body.Main.Temp == "" {
		return "", "", false, fmt.Errorf("fetching weather: %w: missing fields", collab.ErrBadResponse)
	}
	return capitalize(body.Weather[0].Description), formatTemp(body.Main.Temp), true, nil
}

type forecastDay struct {
	Dt      *int64 `json:"dt"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Temp *struct {
		Day   json.Number `json:"day"`
		Night json.Number `json:"night"`
	} `json:"temp"`
}

// Forecast returns up to seven lines, one per day starting today.
func (s *Service) Forecast(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{
		"lat":     {formatCoord(lat)},
		"lon":     {formatCoord(lon)},
		"exclude": {"current,minutely,hourly,alerts"},
	}
	resp, err := s.client.Get(ctx, collab.CallForecast, s.endpoint("onecall", q))
	if err != nil {
		return "", fmt.Errorf("fetching forecast: %w", err)
	}
	var top map[string]json.RawMessage
	if err := resp.DecodeJSON(&top); err != nil {
		return "", fmt.Errorf("fetching forecast: %w", err)
	}
	rawDaily, ok := top["daily"]
	if !ok {
		return "Could not retrieve forecast data.", nil
	}

	var days []forecastDay
	if err := (&collab.Response{Body: rawDaily}).DecodeJSON(&days); err != nil || days == nil {
		return "", fmt.Errorf("fetching forecast: %w: daily is not a list", collab.ErrBadResponse)
	}
	if len(days) > forecastDays {
		days = days[:forecastDays]
	}

	lines := make([]string, 0, len(days))
	for i, d := range days {
		if d.Dt == nil || len(d.Weather) == 0 || d.Temp == nil || d.Temp.Day == "" || d.Temp.Night == "" {
			return "", fmt.Errorf("fetching forecast: %w: day %d incomplete", collab.ErrBadResponse, i)
		}
		date := time.Unix(*d.Dt, 0).In(s.cfg.Zone).Format("Monday, Jan 02")
		lines = append(lines, fmt.Sprintf("%s: %s, Day %s°C / Night %s°C",
			date, capitalize(d.Weather[0].Description), formatTemp(d.Temp.Day), formatTemp(d.Temp.Night)))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Service) endpoint(path string, q url.Values) string {
	q.Set("appid", s.cfg.APIKey)
	q.Set("units", "metric")
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/" + path + "?" + q.Encode()
}

// codIsOK reports whether the "cod" field is the number 200. The service
// sends error codes as strings, so "200" as a string does not count.
func codIsOK(raw json.RawMessage) bool {
	if len(raw) == 0 || raw[0] == '"' {
		return false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	f, err := n.Float64()
	return err == nil && f == 200
}

// capitalize upper-cases the first character and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// formatTemp renders a JSON number: integers stay integers, decimals keep
// at least one fractional digit (21 -> "21", 21.50 -> "21.5", 21.0 -> "21.0").
func formatTemp(n json.Number) string {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
