// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

// Package quote models customer move requests submitted through the
// public website form.
package quote

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/zusammen-umzuege/zusammen/internal/auth"
)

// StatusNew is the status of a freshly submitted request.
const StatusNew = "new"

// Customer holds the contact block of a move request.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Addresses holds the origin and destination of the move.
type Addresses struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Details holds the logistics section of the form. Floors and date come in
// as free text; the form does not constrain them.
type Details struct {
	FloorsFrom   string `json:"floorsFrom"`
	FloorsTo     string `json:"floorsTo"`
	ElevatorFrom bool   `json:"elevatorFrom"`
	ElevatorTo   bool   `json:"elevatorTo"`
	Parking      bool   `json:"parking"`
	Assembly     bool   `json:"assembly"`
	Date         string `json:"date"`
}

// Item is one inventory entry picked in the form.
type Item struct {
	Key   string         `json:"key"`
	Qty   int            `json:"qty"`
	Label string         `json:"label"`
	Size  map[string]any `json:"size,omitempty"`
}

// Submission is the raw form payload.
type Submission struct {
	Customer  Customer  `json:"customer"`
	MoveType  string    `json:"moveType"`
	Services  []string  `json:"services"`
	Addresses Addresses `json:"addresses"`
	Details   Details   `json:"details"`
	Items     []Item    `json:"items"`
	Message   string    `json:"message"`
}

// MoveRequest is a stored quote request.
type MoveRequest struct {
	ID        ulid.ULID `json:"id"`
	Customer  Customer  `json:"customer"`
	MoveType  string    `json:"moveType"`
	Services  []string  `json:"services"`
	Addresses Addresses `json:"addresses"`
	Details   Details   `json:"details"`
	Items     []Item    `json:"items"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMoveRequest validates a submission and builds a MoveRequest with
// status "new". Contact name, phone and a well-formed email are required;
// everything else is taken as submitted.
func NewMoveRequest(sub Submission) (*MoveRequest, error) {
	if sub.Customer.FirstName == "" || sub.Customer.LastName == "" {
		return nil, oops.Code("QUOTE_INVALID").Errorf("customer name is required")
	}
	if sub.Customer.Phone == "" {
		return nil, oops.Code("QUOTE_INVALID").Errorf("customer phone is required")
	}
	if err := auth.ValidateEmail(sub.Customer.Email); err != nil {
		return nil, oops.Code("QUOTE_INVALID").
			With("email", sub.Customer.Email).
			Errorf("customer email is not valid")
	}

	req := &MoveRequest{
		ID:        ulid.Make(),
		Customer:  sub.Customer,
		MoveType:  sub.MoveType,
		Services:  sub.Services,
		Addresses: sub.Addresses,
		Details:   sub.Details,
		Items:     sub.Items,
		Message:   sub.Message,
		Status:    StatusNew,
		CreatedAt: time.Now(),
	}
	if req.Services == nil {
		req.Services = []string{}
	}
	if req.Items == nil {
		req.Items = []Item{}
	}
	return req, nil
}

// RequestRepository manages move request persistence.
type RequestRepository interface {
	// Create stores a new move request.
	Create(ctx context.Context, req *MoveRequest) error

	// List returns all move requests, newest first.
	List(ctx context.Context) ([]*MoveRequest, error)
}
