package main

import (
	"crypto/ed25519"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vigilchain/doomslug/consensus/doomslug"
	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/consensus/doomslug/notifications"
	"github.com/vigilchain/doomslug/consensus/doomslug/notifications/pubsub"
	"github.com/vigilchain/doomslug/consensus/doomslug/timer"
	"github.com/vigilchain/doomslug/consensus/doomslug/verification"
	"github.com/vigilchain/doomslug/engine/liveness"
	"github.com/vigilchain/doomslug/model/chain"
	"github.com/vigilchain/doomslug/module/metrics"
)

type config struct {
	nodeID           string
	level            string
	metricsAddr      string
	genesisID        string
	tickInterval     time.Duration
	endorsementDelay time.Duration
	minDelay         time.Duration
	delayStep        time.Duration
	maxDelay         time.Duration
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var conf config
	def := timer.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "doomslug",
		Short: "Runs the doomslug liveness gadget as a standalone node loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(conf)
		},
	}
	bindFlags(cmd.Flags(), &conf, def)
	return cmd
}

func bindFlags(flags *pflag.FlagSet, conf *config, def timer.Config) {
	flags.StringVarP(&conf.nodeID, "nodeid", "n", "node1", "identity of our node")
	flags.StringVarP(&conf.level, "loglevel", "l", "info", "level for logging output")
	flags.StringVarP(&conf.metricsAddr, "metrics-addr", "m", ":8080", "address for the metrics server")
	flags.StringVar(&conf.genesisID, "genesis-id", "", "hex-encoded identifier of the starting tip (derived when empty)")
	flags.DurationVar(&conf.tickInterval, "tick-interval", 100*time.Millisecond, "how often to service the approval timer")
	flags.DurationVar(&conf.endorsementDelay, "endorsement-delay", def.EndorsementDelay, "wait before endorsing a fresh tip")
	flags.DurationVar(&conf.minDelay, "min-delay", def.MinDelay, "shortest wait before skipping a height")
	flags.DurationVar(&conf.delayStep, "delay-step", def.DelayStep, "skip delay increase per height of drift from finality")
	flags.DurationVar(&conf.maxDelay, "max-delay", def.MaxDelay, "cap on the skip delay")
}

func run(conf config) error {
	log, err := initLogger(conf)
	if err != nil {
		return err
	}
	log.Info().Msg("doomslug node starting up")

	cfg, err := timer.NewConfig(conf.endorsementDelay, conf.minDelay, conf.delayStep, conf.maxDelay)
	if err != nil {
		log.Error().Err(err).Msg("invalid delay configuration")
		return err
	}

	genesisID := chain.MakeID([]byte("genesis"))
	if conf.genesisID != "" {
		genesisID, err = chain.HexStringToIdentifier(conf.genesisID)
		if err != nil {
			log.Error().Err(err).Msg("invalid genesis identifier")
			return err
		}
	}

	registry := prometheus.NewRegistry()
	distributor := pubsub.NewDistributor()
	distributor.AddConsumer(notifications.NewLogConsumer(log))
	distributor.AddConsumer(metrics.NewDoomslugCollector(registry))

	clk := clock.New()
	ds, err := doomslug.New(log, clk, distributor, 0, cfg)
	if err != nil {
		return err
	}

	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return err
	}
	signer := verification.NewEd25519Signer(priv)
	log.Info().Str("signer_id", signer.SignerID().String()).Msg("approval signer initialized")

	engine, err := liveness.New(log, ds, signer, &logCommunicator{log: log}, clk, conf.tickInterval)
	if err != nil {
		return err
	}

	go serveMetrics(log, conf.metricsAddr, registry)

	// without a consensus engine feeding tips, run from the starting tip; the
	// gadget will emit escalating skips, which exercises the full schedule
	engine.OnBlockAccepted(genesisID, 0, 0)

	<-engine.Ready()
	log.Info().Msg("liveness engine ready")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")
	<-engine.Done()
	return nil
}

func initLogger(conf config) (zerolog.Logger, error) {
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Str("node_id", conf.nodeID).Logger()

	lvl, err := zerolog.ParseLevel(strings.ToLower(conf.level))
	if err != nil {
		return zerolog.Nop(), err
	}
	return log.Level(lvl), nil
}

func serveMetrics(log zerolog.Logger, addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	err := http.ListenAndServe(addr, mux)
	if err != nil {
		log.Error().Err(err).Msg("metrics server failed")
	}
}

// logCommunicator stands in for the network broadcast collaborator: it logs
// every approval that would be delivered to the target height's producer.
type logCommunicator struct {
	log zerolog.Logger
}

func (lc *logCommunicator) BroadcastApproval(signed *model.SignedApproval) error {
	lc.log.Info().
		Str("approval", signed.Approval.String()).
		Str("signer_id", signed.SignerID.String()).
		Msg("broadcasting approval")
	return nil
}
