// Command railtrack tracks Italian train journeys. Three modes:
//
//	serve      poll tracked journeys and expose the HTTP API
//	lookup     derive one journey and print it as JSON
//	replicate  derive one journey, project it onto another date, print it
//
// Lookup and replicate read live feeds by default; -file substitutes a
// saved status document (path or URL) for offline use.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theoremus-urban-solutions/railtrack/config"
	"github.com/theoremus-urban-solutions/railtrack/gtfsrt"
	"github.com/theoremus-urban-solutions/railtrack/internal"
	"github.com/theoremus-urban-solutions/railtrack/journey"
	"github.com/theoremus-urban-solutions/railtrack/metrics"
	"github.com/theoremus-urban-solutions/railtrack/provider"
	"github.com/theoremus-urban-solutions/railtrack/publisher"
	"github.com/theoremus-urban-solutions/railtrack/server"
	"github.com/theoremus-urban-solutions/railtrack/stations"
	"github.com/theoremus-urban-solutions/railtrack/timeutil"
	"github.com/theoremus-urban-solutions/railtrack/tracker"
)

func main() {
	mode := flag.String("mode", "serve", "serve|lookup|replicate")
	configPath := flag.String("config", "config.yml", "configuration file path")
	prov := flag.String("provider", "trenitalia", "trenitalia|italo")
	number := flag.String("number", "", "train number (lookup, replicate)")
	file := flag.String("file", "", "status document path or URL instead of a number search")
	date := flag.String("date", "", "target service date YYYY-MM-DD (replicate)")
	format := flag.String("format", "json", "json|gtfsrt (lookup output)")
	flag.Parse()

	internal.InitLogging()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	timeout := time.Duration(cfg.Poll.TimeoutMS) * time.Millisecond
	client := provider.NewClient(&http.Client{Timeout: timeout}, cfg.ViaggiaTreno.BaseURL, cfg.Italo.BaseURL)

	switch *mode {
	case "serve":
		runServe(cfg, client)
	case "lookup":
		j, err := lookupJourney(context.Background(), client, journey.Provider(*prov), *number, *file)
		if err != nil {
			log.Fatalf("lookup: %v", err)
		}
		switch *format {
		case "json":
			printJSON(j)
		case "gtfsrt":
			b, err := gtfsrt.Marshal(j, time.Now())
			if err != nil {
				log.Fatalf("lookup: %v", err)
			}
			if _, err := os.Stdout.Write(b); err != nil {
				log.Fatalf("lookup: %v", err)
			}
		default:
			log.Fatalf("unknown format %q", *format)
		}
	case "replicate":
		target, err := time.ParseInLocation("2006-01-02", *date, timeutil.ProviderZone)
		if err != nil {
			log.Fatalf("replicate: invalid -date %q, want YYYY-MM-DD", *date)
		}
		j, err := lookupJourney(context.Background(), client, journey.Provider(*prov), *number, *file)
		if err != nil {
			log.Fatalf("replicate: %v", err)
		}
		replicated, err := journey.Replicate(j, target)
		if errors.Is(err, journey.ErrIdentifierNotReplicated) {
			log.Printf("replicate: %v", err)
		} else if err != nil {
			log.Fatalf("replicate: %v", err)
		}
		printJSON(replicated)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func runServe(cfg config.AppConfig, client *provider.Client) {
	interval := time.Duration(cfg.Poll.IntervalMS) * time.Millisecond
	collector := metrics.NewCollector(interval)

	var idx *stations.Index
	if cfg.Stations.CSVPath != "" {
		var err error
		idx, err = stations.LoadFile(cfg.Stations.CSVPath)
		if err != nil {
			log.Fatalf("stations: %v", err)
		}
		log.Printf("loaded %d stations from %s", idx.Len(), cfg.Stations.CSVPath)
	}

	var pub *publisher.JourneyPublisher
	if cfg.NATS.URL != "" {
		var err error
		pub, err = publisher.New(cfg.NATS.URL, cfg.NATS.Stream, collector)
		if err != nil {
			log.Fatalf("publisher: %v", err)
		}
		defer pub.Close()
	}

	opts := tracker.Options{
		PollInterval:       interval,
		PollTimeout:        time.Duration(cfg.Poll.TimeoutMS) * time.Millisecond,
		MaxBackoffExponent: cfg.Poll.MaxBackoffExponent,
		Metrics:            collector,
	}
	if pub != nil {
		opts.Publisher = pub
	}
	tr := tracker.New(client, opts)
	defer tr.Close()

	srv := server.New(tr, client, collector, idx)
	srv.Start(cfg.Server.Port)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}

// lookupJourney derives one journey, either from a saved document or by
// searching the live feed for the train number.
func lookupJourney(ctx context.Context, client *provider.Client, p journey.Provider, number, file string) (journey.Journey, error) {
	now := time.Now().In(timeutil.ProviderZone)

	if file != "" {
		body, err := fetchDocument(file)
		if err != nil {
			return journey.Journey{}, err
		}
		j, ok, err := journey.DeriveJourney(body, p, "", now, nil)
		if err != nil {
			return journey.Journey{}, err
		}
		if !ok {
			return journey.Journey{}, fmt.Errorf("document %s matched no train", file)
		}
		return j, nil
	}

	switch p {
	case journey.ProviderViaggiaTreno:
		matches, err := client.SearchTrainNumber(ctx, number, now)
		if err != nil {
			return journey.Journey{}, err
		}
		if len(matches) == 0 {
			return journey.Journey{}, fmt.Errorf("no service found for train %s today", number)
		}
		identifier := matches[0].Identifier()
		doc, err := client.FetchTrainStatus(ctx, identifier)
		if err != nil {
			return journey.Journey{}, err
		}
		j, ok := journey.DeriveViaggiaTrenoJourney(doc, identifier, now, nil)
		if !ok {
			return journey.Journey{}, fmt.Errorf("train %s has no stop data yet", number)
		}
		return j, nil

	case journey.ProviderItalo:
		doc, err := client.FetchItaloStatus(ctx, number)
		if err != nil {
			return journey.Journey{}, err
		}
		j, ok := journey.DeriveItaloJourney(doc, now, nil)
		if !ok {
			return journey.Journey{}, fmt.Errorf("no Italo data for train %s", number)
		}
		return j, nil

	default:
		return journey.Journey{}, fmt.Errorf("unknown provider %q", p)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encode: %v", err)
	}
}
