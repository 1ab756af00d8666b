package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/client"
	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/orchestrator"
	"github.com/restaurant-roulette/internal/pkg/logger"
)

type options struct {
	apiURL   string
	lat      float64
	lng      float64
	address  string
	radius   int
	cuisines string
	openNow  bool
	sortBy   string
	pick     bool
	logLevel string
	timeout  time.Duration
}

func parseFlags(args []string) (options, error) {
	defaults := domain.DefaultFilters()

	var opts options
	fs := flag.NewFlagSet("picker", flag.ContinueOnError)
	fs.StringVar(&opts.apiURL, "api", "http://localhost:8080", "base URL of the restaurant API")
	fs.Float64Var(&opts.lat, "lat", 0, "latitude of the search center")
	fs.Float64Var(&opts.lng, "lng", 0, "longitude of the search center")
	fs.StringVar(&opts.address, "address", "", "address to geocode instead of -lat/-lng")
	fs.IntVar(&opts.radius, "radius", int(defaults.RadiusMeters), "search radius in meters (1500, 3000, 4500, 6000)")
	fs.StringVar(&opts.cuisines, "cuisines", "", "comma separated cuisine ids, e.g. thai,italian")
	fs.BoolVar(&opts.openNow, "open-now", defaults.OpenNow, "only restaurants open right now")
	fs.StringVar(&opts.sortBy, "sort", string(defaults.SortBy), "sort order: distance or rating")
	fs.BoolVar(&opts.pick, "pick", false, "spin the roulette and print the winner")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall timeout")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	log, err := logger.NewCLI(opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	if err := run(ctx, opts, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, log *zap.Logger) error {
	api := client.New(opts.apiURL, log)

	var lastHighlight string
	o := orchestrator.New(api,
		orchestrator.WithAutoSearch(),
		orchestrator.WithLogger(log),
		orchestrator.WithObserver(func(s orchestrator.State) {
			if !s.IsSelectingWinner || s.HighlightedRestaurantID == "" || s.HighlightedRestaurantID == lastHighlight {
				return
			}
			lastHighlight = s.HighlightedRestaurantID
			if r, ok := find(s.Restaurants, s.HighlightedRestaurantID); ok {
				fmt.Fprintf(os.Stderr, "\r\033[K  %s", r.Name)
			}
		}),
	)
	defer o.Close()

	if err := applyFilters(o, opts); err != nil {
		return err
	}

	switch {
	case opts.address != "":
		if err := o.GeocodeAddress(ctx, opts.address); err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				if suggestErr := printSuggestions(ctx, api, opts.address, os.Stderr); suggestErr != nil {
					log.Debug("Autocomplete failed", zap.Error(suggestErr))
				}
			}
			return fmt.Errorf("geocode %q: %w", opts.address, err)
		}
	case opts.lat != 0 || opts.lng != 0:
		o.MoveTo(ctx, domain.Coordinates{Latitude: opts.lat, Longitude: opts.lng})
	default:
		return errors.New("set -address or -lat/-lng")
	}

	state := o.State()
	if state.ErrorMessage != "" {
		return errors.New(state.ErrorMessage)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	printRestaurants(state)

	if !opts.pick {
		return nil
	}
	if len(state.Restaurants) == 0 {
		return errors.New("nothing to pick from")
	}

	if err := o.SearchAndPickWinner(ctx); err != nil {
		return err
	}
	if err := o.WaitSelection(ctx); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr)

	state = o.State()
	if state.Winner == nil {
		return errors.New("no winner selected")
	}
	fmt.Printf("\nWinner: %s\n  %s\n", state.Winner.Name, state.Winner.Address)
	return nil
}

func applyFilters(o *orchestrator.Orchestrator, opts options) error {
	if err := o.UpdateRadius(domain.RadiusMeters(opts.radius)); err != nil {
		return fmt.Errorf("-radius %d: %w", opts.radius, err)
	}
	if err := o.UpdateSort(domain.SortBy(opts.sortBy)); err != nil {
		return fmt.Errorf("-sort %q: %w", opts.sortBy, err)
	}
	o.UpdateOpenNow(opts.openNow)

	for _, raw := range strings.Split(opts.cuisines, ",") {
		id := domain.CuisineID(strings.TrimSpace(raw))
		if id == "" {
			continue
		}
		if err := o.ToggleCuisine(id); err != nil {
			return fmt.Errorf("-cuisines %q: %w", id, err)
		}
	}
	return nil
}

func printRestaurants(s orchestrator.State) {
	if len(s.Restaurants) == 0 {
		fmt.Println("No restaurants found.")
		return
	}

	for i, r := range s.Restaurants {
		line := fmt.Sprintf("%2d. %s", i+1, r.Name)
		if r.DistanceMeters != nil {
			line += fmt.Sprintf("  %dm", *r.DistanceMeters)
		}
		if r.Rating != nil {
			line += fmt.Sprintf("  ★ %.1f", *r.Rating)
			if r.UserRatingsTotal != nil {
				line += fmt.Sprintf(" (%d)", *r.UserRatingsTotal)
			}
		}
		if r.PriceLevel != nil && *r.PriceLevel > 0 {
			line += "  " + strings.Repeat("$", *r.PriceLevel)
		}
		fmt.Println(line)
		if r.Address != "" {
			fmt.Printf("    %s\n", r.Address)
		}
	}
}

// printSuggestions подсказывает похожие адреса, когда геокодирование ничего не нашло
func printSuggestions(ctx context.Context, api *client.Client, address string, w io.Writer) error {
	resp, err := api.Autocomplete(ctx, address)
	if err != nil {
		return err
	}
	if len(resp.Predictions) == 0 {
		return nil
	}

	fmt.Fprintln(w, "Did you mean:")
	for _, p := range resp.Predictions {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
	return nil
}

func find(list []domain.RestaurantCard, id string) (domain.RestaurantCard, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return domain.RestaurantCard{}, false
}
