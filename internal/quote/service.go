// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package quote

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// Service accepts and lists move requests.
type Service struct {
	requests RequestRepository
	logger   *slog.Logger
}

// NewService creates a quote Service.
func NewService(requests RequestRepository, logger *slog.Logger) (*Service, error) {
	if requests == nil {
		return nil, oops.Errorf("request repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{requests: requests, logger: logger}, nil
}

// Submit validates and stores a new move request.
func (s *Service) Submit(ctx context.Context, sub Submission) (*MoveRequest, error) {
	req, err := NewMoveRequest(sub)
	if err != nil {
		return nil, err
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, oops.Code("QUOTE_SUBMIT_FAILED").
			With("email", sub.Customer.Email).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "move request submitted",
		"request_id", req.ID.String(),
		"move_type", req.MoveType)
	return req, nil
}

// List returns all stored move requests, newest first.
func (s *Service) List(ctx context.Context) ([]*MoveRequest, error) {
	reqs, err := s.requests.List(ctx)
	if err != nil {
		return nil, oops.Code("QUOTE_LIST_FAILED").Wrap(err)
	}
	return reqs, nil
}
