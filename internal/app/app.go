package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/k1LoW/errors"
	"github.com/rook-computer/titlecard/internal/app/screens"
	"github.com/rook-computer/titlecard/internal/assets"
	"github.com/rook-computer/titlecard/internal/config"
	"github.com/rook-computer/titlecard/internal/render"
	"github.com/rook-computer/titlecard/internal/render/layout"
	"github.com/rook-computer/titlecard/internal/state"
	"github.com/rook-computer/titlecard/internal/system"
)

const outputPerm = 0644

// App renders one title card per Run.
type App struct {
	Store  *state.Store
	Render render.Imaging
	Logger *slog.Logger
}

func New(store *state.Store, imaging render.Imaging, logger *slog.Logger) *App {
	if store == nil {
		store = state.NewStore()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{Store: store, Render: imaging, Logger: logger}
}

// Run loads the background and font, wraps cfg.Title, draws the lines and
// writes the PNG to cfg.OutputPath. Any failure aborts the run and nothing is
// written. cfg is expected to be validated already.
func (app *App) Run(ctx context.Context, cfg config.Config) (err error) {
	logger := app.Logger.With("component", "app")
	app.Store.UpdateRun(state.RunInfo{Title: cfg.Title, Output: cfg.OutputPath})
	defer func() {
		if err != nil {
			app.Store.Fail(err)
			logger.Error("render failed", "phase", app.failedPhase(), "error", err)
		}
		err = errors.WithStack(err)
	}()
	if app.Render == nil {
		return NewError(UsageError, state.START, fmt.Errorf("imaging not configured"))
	}

	enter := func(phase state.Phase) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		app.Store.SetPhase(phase)
		logger.Debug("phase", "phase", phase.String())
		return nil
	}

	if err := enter(state.LOAD_BACKGROUND); err != nil {
		return err
	}
	canvas, err := app.Render.LoadImage(assets.Resolve(cfg.BackgroundPath))
	if err != nil {
		return NewError(ResourceMissing, state.LOAD_BACKGROUND, err)
	}

	if err := enter(state.LOAD_FONT); err != nil {
		return err
	}
	face, err := app.Render.LoadFont(assets.Resolve(cfg.FontPath), cfg.FontSize)
	if err != nil {
		return NewError(ResourceMissing, state.LOAD_FONT, err)
	}
	defer face.Close()

	if err := enter(state.WRAP); err != nil {
		return err
	}
	lines := layout.Wrap(cfg.Title, cfg.WrapWidth)
	app.Store.SetLines(lines)
	logger.Info("title wrapped", "lines", len(lines), "width", cfg.WrapWidth)

	if err := enter(state.DRAW); err != nil {
		return err
	}
	qr, err := render.GenerateQRCodeImage(cfg.QRPayload, cfg.QRSize, cfg.TextColor)
	if err != nil {
		return NewError(UsageError, state.DRAW, fmt.Errorf("failed to generate qr code: %w", err))
	}
	card := screens.TitleCard{
		Placements: layout.Place(lines, cfg.Origin, cfg.LineStep),
		Face:       face,
		Color:      cfg.TextColor,
		QR:         qr,
		QRSize:     cfg.QRSize,
		QRMargin:   cfg.QRMargin,
	}
	metrics := card.Draw(app.Render, canvas)
	app.Store.AddDraws(len(metrics))

	if err := enter(state.ENCODE); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := app.Render.Encode(&buf, canvas); err != nil {
		return NewError(WriteError, state.ENCODE, err)
	}

	if err := enter(state.SAVE); err != nil {
		return err
	}
	if err := system.WriteFileAtomic(cfg.OutputPath, outputPerm, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	}); err != nil {
		return NewError(WriteError, state.SAVE, err)
	}

	app.Store.SetPhase(state.DONE)
	logger.Info("title card written", "path", cfg.OutputPath, "lines", len(lines))
	return nil
}

// failedPhase is the phase that was active when the run moved to FAILED.
func (app *App) failedPhase() string {
	history := app.Store.Snapshot().History
	if len(history) < 2 {
		return state.START.String()
	}
	return history[len(history)-2].String()
}
