package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/fraud"
	"github.com/persimmonlabs/optimist/internal/height"
	"github.com/persimmonlabs/optimist/internal/ism"
	"github.com/persimmonlabs/optimist/internal/routing"
	"github.com/persimmonlabs/optimist/internal/store"
	"github.com/persimmonlabs/optimist/internal/window"
	"github.com/persimmonlabs/optimist/pkg/db"
	"github.com/persimmonlabs/optimist/pkg/db/pebble"
	"github.com/persimmonlabs/optimist/pkg/log"
	"github.com/persimmonlabs/optimist/pkg/network/gateway"
)

// RouteConfig configures one origin domain: its delegate attester and the
// watcher set guarding its fraud window.
type RouteConfig struct {
	Origin      uint32   `json:"origin"`
	AttesterPub string   `json:"attester_public_key"`
	Threshold   uint8    `json:"threshold"`
	FraudWindow uint32   `json:"fraud_window"`
	Watchers    []string `json:"watchers"`
}

// NodeConfig is the JSON configuration file loaded at startup.
type NodeConfig struct {
	// NodePrv is the hex-encoded ed25519 private key identifying the
	// gateway to its peers.
	NodePrv string `json:"node_private_key"`
	// GenesisUnix anchors height zero on the wall clock.
	GenesisUnix int64 `json:"genesis_unix"`
	// SlotPeriodSeconds is the duration of one height unit.
	SlotPeriodSeconds int64         `json:"slot_period_seconds"`
	Routes            []RouteConfig `json:"routes"`
}

func loadNodeConfig(filename string) (*NodeConfig, error) {
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	var config NodeConfig
	if err := json.Unmarshal(jsonData, &config); err != nil {
		return nil, fmt.Errorf("error unmarshaling JSON: %w", err)
	}
	if len(config.Routes) == 0 {
		return nil, fmt.Errorf("config defines no routes")
	}
	return &config, nil
}

func buildRouter(config *NodeConfig) (routing.Router, error) {
	routes := make(map[uint32]routing.Route, len(config.Routes))
	for _, rc := range config.Routes {
		attester, err := hex.DecodeString(rc.AttesterPub)
		if err != nil {
			return nil, fmt.Errorf("route %d: bad attester key: %w", rc.Origin, err)
		}
		if len(attester) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("route %d: attester key must be %d bytes", rc.Origin, ed25519.PublicKeySize)
		}
		watchers := make([]crypto.WatcherKey, 0, len(rc.Watchers))
		for _, w := range rc.Watchers {
			key, err := hex.DecodeString(w)
			if err != nil {
				return nil, fmt.Errorf("route %d: bad watcher key: %w", rc.Origin, err)
			}
			if len(key) != ed25519.PublicKeySize {
				return nil, fmt.Errorf("route %d: watcher key must be %d bytes", rc.Origin, ed25519.PublicKeySize)
			}
			watchers = append(watchers, crypto.WatcherKey(key))
		}
		routes[rc.Origin] = routing.Route{
			Checker: routing.NewEd25519Checker(ed25519.PublicKey(attester)),
			Params: routing.Params{
				Watchers:    watchers,
				Threshold:   rc.Threshold,
				FraudWindow: rc.FraudWindow,
			},
		}
	}
	return routing.NewDomainRouter(routes), nil
}

func openStore(datadir string) (db.KVStore, error) {
	if datadir == "" {
		return pebble.NewKVStore()
	}
	return pebble.NewPersistentKVStore(datadir)
}

// main starts a verification node.
// go run main.go -config node.json -listen :9650
func main() {
	listen := flag.String("listen", ":9650", "gateway listen address")
	datadir := flag.String("datadir", "", "database directory, in-memory when empty")
	configPath := flag.String("config", "node.json", "node configuration file")
	loglevel := flag.String("loglevel", "info", "log level")
	flag.Parse()

	level, err := log.ParseLogLevel(*loglevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q: %v\n", *loglevel, err)
		os.Exit(1)
	}
	log.Init(log.Options{LogLevel: level, Type: log.ConsoleLogger})

	config, err := loadNodeConfig(*configPath)
	if err != nil {
		log.Root.Fatal().Err(err).Msg("failed to load configuration")
	}

	prvBytes, err := hex.DecodeString(config.NodePrv)
	if err != nil || len(prvBytes) != ed25519.PrivateKeySize {
		log.Root.Fatal().Msg("node private key must be a hex-encoded ed25519 private key")
	}
	prv := ed25519.PrivateKey(prvBytes)
	pub := prv.Public().(ed25519.PublicKey)

	router, err := buildRouter(config)
	if err != nil {
		log.Root.Fatal().Err(err).Msg("failed to build router")
	}

	slotPeriod := time.Duration(config.SlotPeriodSeconds) * time.Second
	heights, err := height.NewWall(time.Unix(config.GenesisUnix, 0), slotPeriod)
	if err != nil {
		log.Root.Fatal().Err(err).Msg("failed to configure height source")
	}

	kv, err := openStore(*datadir)
	if err != nil {
		log.Root.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Store.Error().Err(err).Msg("failed to close store")
		}
	}()

	registry := window.NewRegistry(store.NewWindow(kv), router, heights)
	ledger := fraud.NewLedger(store.NewFraud(kv), router)
	module := ism.New(router, registry, ledger, log.ISM)

	gw := gateway.New(gateway.Config{
		ListenAddr: *listen,
		PublicKey:  pub,
		PrivateKey: prv,
	}, module, log.Gateway)
	if err := gw.Start(); err != nil {
		log.Root.Fatal().Err(err).Msg("failed to start gateway")
	}
	log.Root.Info().
		Uint8("module_type", ism.ModuleTypeOptimistic).
		Int("routes", len(config.Routes)).
		Msg("verification module running")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Root.Info().Msg("shutting down")
	if err := gw.Stop(); err != nil {
		log.Gateway.Error().Err(err).Msg("failed to stop gateway")
	}
}
