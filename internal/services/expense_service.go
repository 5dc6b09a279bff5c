package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"portfolio/internal/amqp"
	"portfolio/internal/core"
	"portfolio/internal/ports"
)

// EventPublisher is satisfied by *amqp.Client.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, ev amqp.ExpenseEvent) error
	Close() error
}

// ExpenseService writes expenses to the store and announces them on the
// message bus. The store is authoritative; publishing is best-effort.
type ExpenseService struct {
	storage   ports.ExpenseStore
	publisher EventPublisher
}

// NewExpenseService returns a service; publisher may be nil.
func NewExpenseService(storage ports.ExpenseStore, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
	}
}

func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	saved, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	if err := s.publish(ctx, amqp.ExpenseCreated, saved.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"id", saved.ID, "type", amqp.ExpenseCreated, "error", err)
	}
	return saved, nil
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateExpense(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	// Re-export the edited row.
	if err := s.publish(ctx, amqp.ExpenseCreated, e.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"id", e.ID, "type", amqp.ExpenseCreated, "error", err)
	}
	return nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.storage.DeleteExpense(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete expense: %w", err)
	}

	if err := s.publish(ctx, amqp.ExpenseDeleted, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"id", id, "type", amqp.ExpenseDeleted, "error", err)
	}
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, t amqp.EventType, id int64) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP publisher not configured, skipping event", "id", id, "type", t)
		return nil
	}
	return s.publisher.PublishExpenseEvent(ctx, amqp.NewExpenseEvent(t, id))
}

// Close releases the publisher connection.
func (s *ExpenseService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
