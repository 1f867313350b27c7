package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"sol-dex-stream/internal/decode"
	"sol-dex-stream/internal/event"
	"sol-dex-stream/internal/idhash"
	"sol-dex-stream/internal/observability"
	"sol-dex-stream/internal/pipeline"
	"sol-dex-stream/internal/queue"
	"sol-dex-stream/internal/stream"
)

// DEX aliases mapped to program IDs.
var dexAliases = map[string]solana.PublicKey{
	"pumpfun":      decode.PumpFunProgram,
	"pumpswap":     decode.PumpSwapProgram,
	"raydium-cpmm": decode.RaydiumCpmmProgram,
	"raydium-clmm": decode.RaydiumClmmProgram,
	"bonk":         decode.BonkProgram,
}

func main() {
	wsEndpoint := flag.String("ws-endpoint", "", "Solana WebSocket endpoint")
	dex := flag.String("dex", "pumpfun,pumpswap,raydium-cpmm,raydium-clmm,bonk", "Comma-separated DEX aliases to monitor")
	commitment := flag.String("commitment", "confirmed", "Subscription commitment level")
	queueSize := flag.Int("queue-size", 4096, "Delivery queue capacity")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Setup logger
	logCfg := zap.NewProductionConfig()
	if *debug {
		logCfg = zap.NewDevelopmentConfig()
	}
	logger, err := logCfg.Build()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if *wsEndpoint == "" {
		logger.Fatal("--ws-endpoint is required")
	}

	programs := resolvePrograms(*dex)
	if len(programs) == 0 {
		logger.Fatal("no known DEX aliases in --dex", zap.String("dex", *dex))
	}
	logger.Info("monitoring DEX programs", zap.Stringers("programs", programs))

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Info("starting metrics server", zap.String("addr", *metricsAddr))
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.Stringer("signal", sig))
		cancel()

		select {
		case sig := <-sigCh:
			logger.Warn("received second signal, forcing exit", zap.Stringer("signal", sig))
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Warn("shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		}
	}()

	ring := queue.NewRing(*queueSize)
	dec := pipeline.NewDecoder(decode.NewRegistry(), logger)
	p := pipeline.New(dec, ring, nil, logger)

	// Consumer: spin briefly on an empty queue, yield when idle.
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		ring.Consume(func(ev event.Event) {
			printEvent(logger, ev)
		}, func() bool {
			return ctx.Err() != nil
		})
	}()

	cfg := stream.DefaultConfig(*wsEndpoint)
	cfg.Commitment = *commitment
	client := stream.NewClient(cfg, programs, p.Handle, logger)

	logger.Info("starting event stream")
	if err := client.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal("stream error", zap.Error(err))
	}

	<-consumerDone
	logger.Info("shutdown complete", zap.Uint64("dropped", ring.Dropped()))
}

// resolvePrograms maps DEX aliases to their program IDs, dropping
// duplicates and unknown names.
func resolvePrograms(dex string) []solana.PublicKey {
	seen := make(map[solana.PublicKey]bool)
	var list []solana.PublicKey
	for _, alias := range strings.Split(dex, ",") {
		alias = strings.TrimSpace(strings.ToLower(alias))
		pk, ok := dexAliases[alias]
		if !ok || seen[pk] {
			continue
		}
		seen[pk] = true
		list = append(list, pk)
	}
	return list
}

// printEvent logs one canonical event, with trade detail for the kinds
// that carry amounts.
func printEvent(logger *zap.Logger, ev event.Event) {
	meta := ev.Meta()
	fields := []zap.Field{
		zap.Stringer("kind", ev.Kind()),
		zap.Uint64("slot", meta.Slot),
		zap.Stringer("signature", meta.Signature),
		zap.String("event_id", idhash.ComputeEventID(ev)),
	}
	if meta.RecvUS > 0 {
		fields = append(fields, zap.Int64("latency_us", time.Now().UnixMicro()-meta.RecvUS))
	}

	switch e := ev.(type) {
	case *event.PumpFunTradeEvent:
		fields = append(fields,
			zap.Stringer("mint", e.Mint),
			zap.Bool("is_buy", e.IsBuy),
			zap.Uint64("sol_amount", e.SolAmount),
			zap.Uint64("token_amount", e.TokenAmount),
			zap.Bool("is_bot", e.IsBot),
			zap.Bool("large_trade", e.IsLargeTrade()),
		)
		if price, ok := e.PriceInSOL(); ok {
			fields = append(fields, zap.Float64("price_sol", price))
		}
	case *event.PumpFunCreateEvent:
		fields = append(fields,
			zap.String("name", e.Name),
			zap.String("symbol", e.Symbol),
			zap.Stringer("mint", e.Mint),
		)
	case *event.PumpSwapBuyEvent:
		fields = append(fields,
			zap.Stringer("pool", e.Pool),
			zap.Uint64("sol_amount", e.SolAmount),
			zap.Uint64("token_amount", e.TokenAmount),
		)
	case *event.PumpSwapSellEvent:
		fields = append(fields,
			zap.Stringer("pool", e.Pool),
			zap.Uint64("sol_amount", e.SolAmount),
			zap.Uint64("token_amount", e.TokenAmount),
		)
	case *event.RaydiumCpmmSwapEvent:
		fields = append(fields,
			zap.Stringer("pool", e.Pool),
			zap.Uint64("amount_in", e.AmountIn),
			zap.Uint64("amount_out", e.AmountOut),
		)
	case *event.BonkTradeEvent:
		fields = append(fields,
			zap.Stringer("pool", e.PoolState),
			zap.Bool("is_buy", e.IsBuy),
			zap.Uint64("amount_in", e.AmountIn),
			zap.Uint64("amount_out", e.AmountOut),
		)
	case *event.ErrorEvent:
		logger.Warn("decode error event", append(fields, zap.String("message", e.Message))...)
		return
	}

	logger.Info("event", fields...)
}
