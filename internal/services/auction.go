package services

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/abrezinsky/auctiondesk/internal/auction"
	"github.com/abrezinsky/auctiondesk/internal/errors"
	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/internal/models"
	"github.com/abrezinsky/auctiondesk/internal/telemetry"
)

const instrumentationName = "github.com/abrezinsky/auctiondesk/internal/services"

// RosterLoader imports players and teams
type RosterLoader interface {
	Load(ctx context.Context) ([]models.Player, []models.Team, error)
	RosterCap() int
}

// SyncChannel persists and broadcasts controller state
type SyncChannel interface {
	Publish(ctx context.Context, state *models.AuctionState) error
	Reset(ctx context.Context) error
	Restore(ctx context.Context) (*models.AuctionState, bool, error)
}

// IncrementSource supplies the configured default raise
type IncrementSource interface {
	BidIncrement(ctx context.Context) (int64, error)
}

// AuctionService is the controller. It is the only writer of auction state:
// operations are serialized and each successful one is published before the
// next starts.
type AuctionService struct {
	log      logger.Logger
	roster   RosterLoader
	channel  SyncChannel
	settings IncrementSource

	tracer    trace.Tracer
	mutations metric.Int64Counter
	rejected  metric.Int64Counter
	soldValue metric.Int64Counter

	mu    sync.Mutex
	state *models.AuctionState
}

// NewAuctionService creates the controller with an empty, idle state.
// Nil providers fall back to the global OpenTelemetry providers.
func NewAuctionService(log logger.Logger, roster RosterLoader, channel SyncChannel, settings IncrementSource, tp trace.TracerProvider, mp metric.MeterProvider) (*AuctionService, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	mutations, err := meter.Int64Counter("auction.mutations",
		metric.WithDescription("Accepted controller operations"))
	if err != nil {
		return nil, err
	}
	rejected, err := meter.Int64Counter("auction.rejections",
		metric.WithDescription("Controller operations rejected by a precondition"))
	if err != nil {
		return nil, err
	}
	soldValue, err := meter.Int64Counter("auction.sold.value",
		metric.WithDescription("Sum of winning bids"))
	if err != nil {
		return nil, err
	}

	return &AuctionService{
		log:       log,
		roster:    roster,
		channel:   channel,
		settings:  settings,
		tracer:    tp.Tracer(instrumentationName),
		mutations: mutations,
		rejected:  rejected,
		soldValue: soldValue,
		state:     auction.Empty(),
	}, nil
}

// Init restores the last published state, or imports the roster when there is
// none. An import failure leaves the controller idle and is returned.
func (s *AuctionService) Init(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "AuctionService.Init")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	restored, ok, err := s.channel.Restore(ctx)
	if err != nil {
		s.log.Warn("Could not read snapshot, importing roster", "error", err)
	}
	if ok {
		s.state = restored
		s.log.Info("Auction restored from snapshot",
			"remaining", len(restored.RemainingPlayers), "teams", len(restored.Teams))
		return nil
	}

	return s.importLocked(ctx, span)
}

func (s *AuctionService) importLocked(ctx context.Context, span trace.Span) error {
	players, teams, err := s.roster.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.state = auction.Empty()
		return err
	}
	s.state = auction.New(players, teams)
	s.publishLocked(ctx)
	return nil
}

// State returns a copy of the current state
func (s *AuctionService) State() *models.AuctionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Queue returns the players still to be auctioned, in order
func (s *AuctionService) Queue() []models.Player {
	state := s.State()
	if state == nil {
		return []models.Player{}
	}
	return state.RemainingPlayers
}

// Report summarizes sold and unsold players
func (s *AuctionService) Report() Report {
	return BuildReport(s.State())
}

// Preview reads the roster without touching the auction
func (s *AuctionService) Preview(ctx context.Context) ([]models.Player, []models.Team, error) {
	return s.roster.Load(ctx)
}

// SelectBySerial opens bidding on the player with the given serial number
func (s *AuctionService) SelectBySerial(ctx context.Context, serial int) (*models.AuctionState, error) {
	return s.mutate(ctx, "select", func(st *models.AuctionState) (*models.AuctionState, error) {
		return auction.SelectBySerial(st, serial)
	}, attribute.Int("serial", serial))
}

// OverrideBase replaces the current bid
func (s *AuctionService) OverrideBase(ctx context.Context, amount int64) (*models.AuctionState, error) {
	return s.mutate(ctx, "override", func(st *models.AuctionState) (*models.AuctionState, error) {
		return auction.OverrideBase(st, amount)
	}, attribute.Int64("amount", amount))
}

// RaiseBid adds increment to the current bid
func (s *AuctionService) RaiseBid(ctx context.Context, increment int64) (*models.AuctionState, error) {
	return s.mutate(ctx, "raise", func(st *models.AuctionState) (*models.AuctionState, error) {
		return auction.RaiseBid(st, increment)
	}, attribute.Int64("increment", increment))
}

// RaiseBidDefault raises by the configured increment
func (s *AuctionService) RaiseBidDefault(ctx context.Context) (*models.AuctionState, error) {
	inc, err := s.settings.BidIncrement(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "reading bid increment")
	}
	return s.RaiseBid(ctx, inc)
}

// FinalizeBid locks the current bid
func (s *AuctionService) FinalizeBid(ctx context.Context) (*models.AuctionState, error) {
	return s.mutate(ctx, "finalize", auction.FinalizeBid)
}

// AwardTo sells the current player to the team at teamIndex for the finalized bid
func (s *AuctionService) AwardTo(ctx context.Context, teamIndex int) (*models.AuctionState, error) {
	var sold models.Player
	var price int64
	next, err := s.mutate(ctx, "award", func(st *models.AuctionState) (*models.AuctionState, error) {
		if st.CurrentPlayer != nil {
			sold, price = *st.CurrentPlayer, st.CurrentBid
		}
		return auction.AwardTo(st, teamIndex, s.roster.RosterCap())
	}, attribute.Int("team_index", teamIndex))
	if err != nil {
		return nil, err
	}

	team := next.Teams[teamIndex]
	s.soldValue.Add(ctx, price, metric.WithAttributes(attribute.String("team", team.Name)))
	s.log.Info("Lot awarded",
		"player", sold.Name, "serial", sold.SerialNumber, "team", team.Name,
		"price", price, "balance", team.Balance)
	return next, nil
}

// MarkUnsold passes on the current player and returns to the top of the queue
func (s *AuctionService) MarkUnsold(ctx context.Context) (*models.AuctionState, error) {
	return s.mutate(ctx, "unsold", auction.MarkUnsold)
}

// Reset clears the snapshot, signals observers and re-imports the roster.
// If the import fails the controller stays idle and the error is returned.
func (s *AuctionService) Reset(ctx context.Context) (*models.AuctionState, error) {
	ctx, span := s.tracer.Start(ctx, "AuctionService.Reset")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.channel.Reset(ctx); err != nil {
		telemetry.LogWithTrace(ctx, s.log).Error("Reset was not fully propagated", "error", err)
	}
	s.state = auction.Empty()
	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "reset")))

	if err := s.importLocked(ctx, span); err != nil {
		s.log.Warn("Re-import after reset failed", "error", err)
		return nil, err
	}
	s.log.Info("Auction reset", "players", len(s.state.RemainingPlayers), "teams", len(s.state.Teams))
	return s.state.Clone(), nil
}

func (s *AuctionService) mutate(ctx context.Context, op string, fn func(*models.AuctionState) (*models.AuctionState, error), attrs ...attribute.KeyValue) (*models.AuctionState, error) {
	ctx, span := s.tracer.Start(ctx, "AuctionService."+op, trace.WithAttributes(attrs...))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state
	if current == nil {
		current = auction.Empty()
	}
	next, err := fn(current)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.rejected.Add(ctx, 1, metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("kind", errors.KindOf(err).String()),
		))
		telemetry.LogWithTrace(ctx, s.log).Debug("Operation rejected", "op", op, "error", err)
		return nil, err
	}

	s.state = next
	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	s.publishLocked(ctx)
	return next.Clone(), nil
}

// publishLocked pushes the current state to observers. Failures are logged:
// the controller's state stays authoritative whether or not anyone received it.
func (s *AuctionService) publishLocked(ctx context.Context) {
	if err := s.channel.Publish(ctx, s.state); err != nil {
		telemetry.LogWithTrace(ctx, s.log).Error("Publishing state failed", "error", err)
	}
}
