// Package resolver turns a user message into the bot's reply by trying a
// fixed sequence of routes: weekly forecast, weather in a named city, local
// weather, pest advice, then canned intent replies.
package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/agrobot/internal/weather"
	"go.uber.org/zap"
)

// Route names the branch that produced a reply.
type Route string

const (
	RouteWeeklyForecast Route = "weekly-forecast"
	RouteCityWeather    Route = "city-weather"
	RouteLocalWeather   Route = "local-weather"
	RoutePestAdvice     Route = "pest-advice"
	RouteIntent         Route = "intent"
)

// Fixed replies used when a collaborator fails or input is incomplete.
const (
	MsgWeatherUnavailable  = "Sorry, I couldn't fetch the weather right now."
	MsgForecastUnavailable = "Sorry, I couldn't fetch the forecast data right now."
	MsgPestUnavailable     = "Error fetching pest advice."
	MsgNoForecastLocation  = "Could not determine your location to provide the 7-day forecast."
	MsgNoWeatherLocation   = "Could not determine your location to provide the weather."
	MsgPestNeedsCrop       = "Please specify the crop you want pest control advice for (e.g., 'pest control for wheat')."
	MsgGenericApology      = "Sorry, I didn't quite understand that. Could you rephrase?"
)

// WeatherService is the subset of *weather.Service the resolver needs.
type WeatherService interface {
	Locate(ctx context.Context) (weather.Location, error)
	ByCity(ctx context.Context, city string) (string, error)
	ByCoordinates(ctx context.Context, lat, lon float64) (string, error)
	Forecast(ctx context.Context, lat, lon float64) (string, error)
}

// PestAdvisor returns advice text for a crop.
type PestAdvisor interface {
	Advice(ctx context.Context, crop string) (string, error)
}

// IntentMatcher classifies lowered text and picks a reply for an intent.
type IntentMatcher interface {
	Classify(lowered string) string
	Reply(intent string) string
}

// Result is a reply plus the route that produced it.
type Result struct {
	Route Route
	Reply string
}

var weeklyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`7[- ]?day forecast`),
	regexp.MustCompile(`seven day forecast`),
	regexp.MustCompile(`weekly forecast`),
	regexp.MustCompile(`weekly weather`),
	regexp.MustCompile(`weather for next 7 days`),
	regexp.MustCompile(`weather for the week`),
	regexp.MustCompile(`week's weather`),
	regexp.MustCompile(`weather next week`),
}

// wordRunes is a Unicode-aware \w. RE2's \b only knows ASCII, so "for" and
// "in" are delimited explicitly: a non-word rune (or the start) before and
// whitespace after.
const wordRunes = `\p{L}\p{M}\p{N}_`

var (
	cityWeatherPattern  = regexp.MustCompile(`^(?:what(?:'s| is) the )?weather in ([` + wordRunes + `\s]+)\??`)
	localWeatherPhrases = []string{"weather here", "current weather", "weather now", "weather"}
	pestPattern         = regexp.MustCompile(`pest\s*(control|advice|problem|management|remedy|solution|issue|treatment).*[^` + wordRunes + `](for|in)\s`)
	cropPattern         = regexp.MustCompile(`(?:^|[^` + wordRunes + `])(for|in)(\s[` + wordRunes + `\s]*)`)
)

// Resolver routes messages. It is safe for concurrent use if its
// collaborators are.
type Resolver struct {
	weather WeatherService
	pests   PestAdvisor
	intents IntentMatcher
	logger  *zap.Logger
	routes  []route
}

type route struct {
	name  Route
	match func(text string) bool
	reply func(ctx context.Context, text string) string
}

func New(w WeatherService, p PestAdvisor, m IntentMatcher, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{weather: w, pests: p, intents: m, logger: logger}
	r.routes = []route{
		{RouteWeeklyForecast, isWeeklyForecast, r.weeklyForecast},
		{RouteCityWeather, cityWeatherPattern.MatchString, r.cityWeather},
		{RouteLocalWeather, isLocalWeather, r.localWeather},
		{RoutePestAdvice, pestPattern.MatchString, r.pestAdvice},
		{RouteIntent, func(string) bool { return true }, r.intentReply},
	}
	return r
}

// Routes lists route names in evaluation order.
func (r *Resolver) Routes() []Route {
	names := make([]Route, len(r.routes))
	for i, rt := range r.routes {
		names[i] = rt.name
	}
	return names
}

// Resolve lowercases and trims text, then returns the reply of the first
// matching route. It always returns a reply; a panicking route yields the
// generic apology.
func (r *Resolver) Resolve(ctx context.Context, text string) Result {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, rt := range r.routes {
		if !rt.match(lowered) {
			continue
		}
		return Result{Route: rt.name, Reply: r.run(ctx, rt, lowered)}
	}
	return Result{Route: RouteIntent, Reply: MsgGenericApology}
}

func (r *Resolver) run(ctx context.Context, rt route, lowered string) (reply string) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("route panicked",
				zap.String("route", string(rt.name)),
				zap.String("panic", fmt.Sprint(p)),
			)
			reply = MsgGenericApology
		}
	}()
	return rt.reply(ctx, lowered)
}

func isWeeklyForecast(text string) bool {
	for _, p := range weeklyPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func isLocalWeather(text string) bool {
	for _, phrase := range localWeatherPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// locate treats any geolocation failure as an unknown location.
func (r *Resolver) locate(ctx context.Context) (weather.Location, bool) {
	loc, err := r.weather.Locate(ctx)
	if err != nil {
		r.logger.Warn("geolocation failed", zap.Error(err))
		return weather.Location{}, false
	}
	return loc, loc.HasCoords
}

func (r *Resolver) weeklyForecast(ctx context.Context, _ string) string {
	loc, ok := r.locate(ctx)
	if !ok {
		return MsgNoForecastLocation
	}
	forecast, err := r.weather.Forecast(ctx, loc.Lat, loc.Lon)
	if err != nil {
		r.logger.Warn("forecast failed", zap.Error(err))
		forecast = MsgForecastUnavailable
	}
	place := loc.City
	if place == "" {
		place = "your location"
	}
	return "7-Day Forecast for " + place + ":\n" + forecast
}

func (r *Resolver) cityWeather(ctx context.Context, text string) string {
	m := cityWeatherPattern.FindStringSubmatch(text)
	city := strings.TrimSpace(m[1])
	reply, err := r.weather.ByCity(ctx, city)
	if err != nil {
		r.logger.Warn("weather by city failed", zap.String("city", city), zap.Error(err))
		return MsgWeatherUnavailable
	}
	return reply
}

func (r *Resolver) localWeather(ctx context.Context, _ string) string {
	loc, ok := r.locate(ctx)
	if !ok {
		return MsgNoWeatherLocation
	}
	reply, err := r.weather.ByCoordinates(ctx, loc.Lat, loc.Lon)
	if err != nil {
		r.logger.Warn("weather by coordinates failed", zap.Error(err))
		reply = MsgWeatherUnavailable
	}
	if loc.City != "" {
		reply = "Weather in " + loc.City + ": " + strings.Replace(reply, "Current Weather: ", "", 1)
	}
	return reply
}

func (r *Resolver) pestAdvice(ctx context.Context, text string) string {
	crop := ""
	if m := cropPattern.FindStringSubmatch(text); m != nil {
		crop = strings.TrimSpace(m[2])
	}
	if crop == "" {
		return MsgPestNeedsCrop
	}
	advice, err := r.pests.Advice(ctx, crop)
	if err != nil {
		r.logger.Warn("pest advice failed", zap.String("crop", crop), zap.Error(err))
		return MsgPestUnavailable
	}
	return advice
}

func (r *Resolver) intentReply(_ context.Context, text string) string {
	return r.intents.Reply(r.intents.Classify(text))
}
