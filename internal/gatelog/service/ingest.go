package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gatelog/internal/gatelog/store"
	"gatelog/internal/gatelog/types"
)

// Publisher fans a serialized event out to connected observers.  The call
// must not block on slow observers; delivery is best-effort.
type Publisher interface {
	Publish(msg []byte)
}

// Notifier receives unauthorized scans after they are persisted.  The call
// must return immediately; delivery happens in the background.
type Notifier interface {
	NotifyUnauthorized(scan types.ScanRequest)
}

// IngestService is the scan pipeline: validate, authorize, persist,
// broadcast, and (for unauthorized scans) alert, in that order.  Broadcast
// and alert failures never reach the caller; once the append succeeds the
// scan is recorded and the response says so.
type IngestService struct {
	authorizer *Authorizer
	events     store.AccessLogStore
	hub        Publisher
	notifier   Notifier
	logger     *slog.Logger

	now func() time.Time // injectable for tests
}

func NewIngestService(
	authorizer *Authorizer,
	events store.AccessLogStore,
	hub Publisher,
	notifier Notifier,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		authorizer: authorizer,
		events:     events,
		hub:        hub,
		notifier:   notifier,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *IngestService) Ingest(ctx context.Context, req types.ScanRequest) (types.ScanResponse, error) {
	req.UID = strings.TrimSpace(req.UID)
	req.Direction = types.Direction(strings.ToUpper(strings.TrimSpace(string(req.Direction))))
	req.DeviceName = strings.TrimSpace(req.DeviceName)
	req.DeviceTime = strings.TrimSpace(req.DeviceTime)

	if err := validateScan(req); err != nil {
		return types.ScanResponse{}, err
	}

	authorized, owner, err := s.authorizer.Resolve(ctx, req.UID)
	if err != nil {
		return types.ScanResponse{}, fmt.Errorf("%w: %w", ErrAuthorizationLookup, err)
	}

	serverTime := s.now()
	id, err := s.events.Append(ctx, store.AccessEventRecord{
		UID:        req.UID,
		Direction:  req.Direction,
		DeviceName: req.DeviceName,
		DeviceTime: req.DeviceTime,
		ServerTime: serverTime,
		Authorized: authorized,
	})
	if err != nil {
		return types.ScanResponse{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	// The scan is durable from here on.  Downstream effects are
	// best-effort and must not change the outcome already decided.
	s.broadcast(req, authorized, owner)
	if !authorized {
		s.notifier.NotifyUnauthorized(req)
		s.logger.Warn("unauthorized scan recorded",
			"uid", req.UID, "device", req.DeviceName, "direction", req.Direction)
	} else {
		s.logger.Info("scan recorded",
			"uid", req.UID, "device", req.DeviceName, "direction", req.Direction, "owner", owner)
	}

	return types.ScanResponse{
		Authorized: authorized,
		Owner:      owner,
		EventID:    id,
		ServerTime: serverTime,
	}, nil
}

func (s *IngestService) broadcast(req types.ScanRequest, authorized bool, owner string) {
	msg := types.NewLogMessage(types.LogRecord{
		UID:        req.UID,
		Direction:  string(req.Direction),
		DeviceName: req.DeviceName,
		DeviceTime: req.DeviceTime,
		Authorized: authorized,
		Username:   owner,
	})
	b, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("marshal broadcast message", "err", err)
		return
	}
	s.hub.Publish(b)
}

func validateScan(req types.ScanRequest) error {
	switch {
	case req.UID == "":
		return fmt.Errorf("%w: uid is required", ErrValidation)
	case req.Direction == "":
		return fmt.Errorf("%w: direction is required", ErrValidation)
	case req.DeviceName == "":
		return fmt.Errorf("%w: device_name is required", ErrValidation)
	case req.DeviceTime == "":
		return fmt.Errorf("%w: device_time is required", ErrValidation)
	case !types.ValidDirection(req.Direction):
		return fmt.Errorf("%w: direction must be IN or OUT", ErrValidation)
	}
	return nil
}
