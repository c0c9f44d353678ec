// Command ldmrs connects to a SICK LD-MRS scanner, or replays a capture of
// one, and decodes its scan stream into per-layer point sets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/ldmrs/internal/config"
	"github.com/banshee-data/ldmrs/internal/lidar"
	"github.com/banshee-data/ldmrs/internal/lidar/l1packets/network"
	"github.com/banshee-data/ldmrs/internal/lidar/l1packets/parse"
	"github.com/banshee-data/ldmrs/internal/lidar/ldmrs"
	"github.com/banshee-data/ldmrs/internal/version"
)

var (
	address     = flag.String("addr", network.DefaultAddress, "Scanner IP address")
	port        = flag.Int("port", network.DefaultPort, "Scanner TCP port")
	configFile  = flag.String("config", "", "Path to a JSON driver config (flags given explicitly take precedence)")
	pcapFile    = flag.String("pcap", "", "Replay the scanner stream from a capture file instead of connecting")
	count       = flag.Int("count", 0, "Stop after this many scans (0 = run until interrupted)")
	forwardAddr = flag.String("forward-addr", "localhost", "Address to mirror raw frames to over UDP")
	forwardPort = flag.Int("forward-port", 0, "UDP port to mirror raw frames to (0 = disabled)")
	logInterval = flag.Duration("log-interval", 10*time.Second, "Statistics logging interval")
	verbose     = flag.Bool("v", false, "Log a per-layer range summary for every scan")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Printf("ldmrs: %v", err)
		stop()
		os.Exit(1)
	}
	log.Printf("Graceful shutdown complete")
}

// loadConfig reads -config when given and lets explicitly set flags
// override the file.
func loadConfig() (*config.DriverConfig, error) {
	cfg := config.EmptyDriverConfig()
	if *configFile != "" {
		var err error
		if cfg, err = config.LoadDriverConfig(*configFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Address = address
		case "port":
			cfg.Port = port
		case "forward-addr":
			cfg.ForwardAddress = forwardAddr
		case "forward-port":
			cfg.ForwardPort = forwardPort
		case "log-interval":
			s := logInterval.String()
			cfg.LogInterval = &s
		}
	})
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg *config.DriverConfig) error {
	log.Printf("Starting %s", version.String())
	stats := lidar.NewFrameStats()

	dcfg := ldmrs.Config{
		Address:            cfg.GetAddress(),
		Port:               cfg.GetPort(),
		ConnectTimeout:     cfg.GetConnectTimeout(),
		LayerElevationsDeg: cfg.GetLayerElevationsDeg(),
		MaxBodySize:        cfg.GetMaxBodySize(),
		StrictBounds:       cfg.GetStrictBounds(),
		Stats:              stats,
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	if p := cfg.GetForwardPort(); p > 0 {
		fwd, err := network.NewFrameForwarder(cfg.GetForwardAddress(), p, stats, cfg.GetLogInterval())
		if err != nil {
			return err
		}
		fwd.Start(ctx)
		defer func() {
			fwd.Close()
			fwd.Wait()
		}()
		dcfg.Sink = fwd
	}

	driver := ldmrs.New(dcfg)
	replay := *pcapFile != ""
	if replay {
		stream, err := network.OpenPCAPStream(*pcapFile, cfg.GetPort())
		if err != nil {
			return err
		}
		log.Printf("Replaying %d bytes of scanner stream from %s", stream.Len(), *pcapFile)
		driver.UseStream(stream)
	} else if err := driver.Setup(ctx); err != nil {
		return err
	}

	// Close unblocks a pending read when the process is interrupted.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-runCtx.Done()
		driver.Close()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(cfg.GetLogInterval())
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				stats.LogStats()
				return
			case <-ticker.C:
				stats.LogStats()
			}
		}
	}()

	var scans [lidar.NumLayers]lidar.LaserScan
	scanned := 0
	for ctx.Err() == nil && (*count == 0 || scanned < *count) {
		if err := driver.Measure(&scans); err != nil {
			switch {
			case ctx.Err() != nil:
				return nil
			case replay && errors.Is(err, io.EOF):
				log.Printf("Replay finished after %d scans", scanned)
				return nil
			}
			return err
		}

		// Non-scan frames leave the scans as they were.
		if driver.LastHeader().Type != parse.MsgScanData {
			continue
		}
		scanned++
		if *verbose {
			logScan(&scans)
		}
	}
	return nil
}

func logScan(scans *[lidar.NumLayers]lidar.LaserScan) {
	s := &scans[0]
	log.Printf("Scan %d at %s: %d points kept of %d, %.1f ms sweep",
		s.MeasurementID, s.StartTimestamp.Format(time.RFC3339Nano),
		lidar.TotalPoints(scans), s.NumPoints, float64(s.Duration())/float64(time.Millisecond))
	for _, l := range lidar.Summarize(scans) {
		if l.Points == 0 {
			continue
		}
		log.Printf("  layer %d: %4d points, range %.2f..%.2f m, mean %.2f m, std %.2f m",
			l.Layer, l.Points, l.MinRange, l.MaxRange, l.MeanRange, l.StdRange)
	}
}
