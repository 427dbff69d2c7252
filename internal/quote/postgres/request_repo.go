// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

// Package postgres implements quote repositories backed by PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/zusammen-umzuege/zusammen/internal/quote"
)

// poolIface is the subset of pgxpool.Pool the repository uses; pgxmock
// implements it for unit tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ poolIface = (*pgxpool.Pool)(nil)

// RequestRepository implements quote.RequestRepository using PostgreSQL.
// Nested form sections go into jsonb columns.
type RequestRepository struct {
	pool poolIface
}

// NewRequestRepository creates a PostgreSQL request repository.
func NewRequestRepository(pool poolIface) *RequestRepository {
	return &RequestRepository{pool: pool}
}

var _ quote.RequestRepository = (*RequestRepository)(nil)

// Create stores a new move request.
func (r *RequestRepository) Create(ctx context.Context, req *quote.MoveRequest) error {
	services, err := json.Marshal(req.Services)
	if err != nil {
		return oops.Code("QUOTE_CREATE_FAILED").With("field", "services").Wrap(err)
	}
	details, err := json.Marshal(req.Details)
	if err != nil {
		return oops.Code("QUOTE_CREATE_FAILED").With("field", "details").Wrap(err)
	}
	items, err := json.Marshal(req.Items)
	if err != nil {
		return oops.Code("QUOTE_CREATE_FAILED").With("field", "items").Wrap(err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO move_requests (
		    id, first_name, last_name, phone, email, move_type,
		    services, address_from, address_to, details, items,
		    message, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		req.ID.String(),
		req.Customer.FirstName,
		req.Customer.LastName,
		req.Customer.Phone,
		req.Customer.Email,
		req.MoveType,
		services,
		req.Addresses.From,
		req.Addresses.To,
		details,
		items,
		req.Message,
		req.Status,
		req.CreatedAt,
	)
	if err != nil {
		return oops.Code("QUOTE_CREATE_FAILED").
			With("request_id", req.ID.String()).
			Wrap(err)
	}
	return nil
}

// List returns all move requests, newest first.
func (r *RequestRepository) List(ctx context.Context) ([]*quote.MoveRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, first_name, last_name, phone, email, move_type,
		        services, address_from, address_to, details, items,
		        message, status, created_at
		 FROM move_requests
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, oops.Code("QUOTE_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	var reqs []*quote.MoveRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("QUOTE_LIST_FAILED").Wrap(err)
	}
	return reqs, nil
}

func scanRequest(row pgx.Row) (*quote.MoveRequest, error) {
	var (
		req      quote.MoveRequest
		id       string
		services []byte
		details  []byte
		items    []byte
	)
	err := row.Scan(&id, &req.Customer.FirstName, &req.Customer.LastName,
		&req.Customer.Phone, &req.Customer.Email, &req.MoveType,
		&services, &req.Addresses.From, &req.Addresses.To,
		&details, &items, &req.Message, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, oops.Code("QUOTE_SCAN_FAILED").Wrap(err)
	}

	req.ID, err = ulid.Parse(id)
	if err != nil {
		return nil, oops.Code("QUOTE_SCAN_FAILED").With("id", id).Wrap(err)
	}
	if err := json.Unmarshal(services, &req.Services); err != nil {
		return nil, oops.Code("QUOTE_SCAN_FAILED").With("field", "services").Wrap(err)
	}
	if err := json.Unmarshal(details, &req.Details); err != nil {
		return nil, oops.Code("QUOTE_SCAN_FAILED").With("field", "details").Wrap(err)
	}
	if err := json.Unmarshal(items, &req.Items); err != nil {
		return nil, oops.Code("QUOTE_SCAN_FAILED").With("field", "items").Wrap(err)
	}
	return &req, nil
}
