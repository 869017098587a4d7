package bot

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/arugio/arugio/errors"
	"github.com/arugio/arugio/game"
)

// steerExport is the function a steering module must export.
const steerExport = "steer"

// WASMDriver runs steering logic from a core WebAssembly module. Calls are
// serialized on the tick goroutine; a failing call falls back to RandomWalk
// for that tick.
type WASMDriver struct {
	runtime  wazero.Runtime
	module   api.Module
	steer    api.Function
	fallback *RandomWalk
	log      *zap.Logger
}

// NewWASMDriver compiles and instantiates a steering module. The host
// function env.random is available to the guest.
func NewWASMDriver(ctx context.Context, wasmBytes []byte, log *zap.Logger) (*WASMDriver, error) {
	if log == nil {
		log = zap.NewNop()
	}

	r := wazero.NewRuntime(ctx)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	_, err := r.NewHostModuleBuilder("env").
		NewFunctionBuilder().
		WithFunc(func(_ context.Context) float32 { return rng.Float32() }).
		Export("random").
		Instantiate(ctx)
	if err != nil {
		r.Close(ctx)
		return nil, errors.New(errors.PhaseBot, errors.KindBadModule).
			Detail("register host functions").
			Cause(err).
			Build()
	}

	mod, err := r.Instantiate(ctx, wasmBytes)
	if err != nil {
		r.Close(ctx)
		return nil, errors.New(errors.PhaseBot, errors.KindBadModule).
			Detail("instantiate steering module").
			Cause(err).
			Build()
	}

	steer := mod.ExportedFunction(steerExport)
	if steer == nil {
		r.Close(ctx)
		return nil, errors.New(errors.PhaseBot, errors.KindBadModule).
			Detail("module does not export %q", steerExport).
			Build()
	}

	return &WASMDriver{
		runtime:  r,
		module:   mod,
		steer:    steer,
		fallback: NewRandomWalk(nil),
		log:      log,
	}, nil
}

func (d *WASMDriver) Steer(ctx context.Context, b *game.Ball, dt float32) game.Vec2 {
	results, err := d.steer.Call(ctx,
		api.EncodeF32(b.Pos.X),
		api.EncodeF32(b.Pos.Y),
		api.EncodeF32(b.Vel.X),
		api.EncodeF32(b.Vel.Y),
		api.EncodeF32(dt),
	)
	if err != nil || len(results) != 1 {
		d.log.Warn("steer call failed, falling back to random walk",
			zap.Uint32("ball", uint32(b.ID)), zap.Error(err))
		return d.fallback.Steer(ctx, b, dt)
	}

	packed := results[0]
	return game.Vec2{
		X: math.Float32frombits(uint32(packed >> 32)),
		Y: math.Float32frombits(uint32(packed)),
	}
}

// Close releases the underlying wazero runtime.
func (d *WASMDriver) Close(ctx context.Context) error {
	return d.runtime.Close(ctx)
}
