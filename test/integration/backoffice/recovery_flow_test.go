// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

//go:build integration

package backoffice_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/zusammen-umzuege/zusammen/internal/auth"
	authpg "github.com/zusammen-umzuege/zusammen/internal/auth/postgres"
	"github.com/zusammen-umzuege/zusammen/internal/quote"
	quotepg "github.com/zusammen-umzuege/zusammen/internal/quote/postgres"
)

// captureMailer records the issued reset token instead of sending mail.
type captureMailer struct {
	email string
	token string
}

func (m *captureMailer) SendPasswordResetEmail(_ context.Context, email, token string) bool {
	m.email = email
	m.token = token
	return true
}

var _ = Describe("Account recovery flow", func() {
	var (
		ctx    context.Context
		svc    *auth.Service
		mailer *captureMailer
	)

	BeforeEach(func() {
		ctx = context.Background()
		cleanupDatabase(ctx, env.pool)

		mailer = &captureMailer{}
		var err error
		svc, err = auth.NewService(
			authpg.NewUserRepository(env.pool),
			authpg.NewResetTokenRepository(env.pool),
			auth.NewBcryptHasher(),
			mailer,
			false,
			slog.New(slog.NewTextHandler(io.Discard, nil)),
			// Repeated wrong-password attempts would otherwise wait out the
			// progressive throttle for real.
			auth.WithLoginThrottleWait(func(context.Context, time.Duration) {}),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	It("registers, resets the password, and logs in with the new one", func() {
		_, err := svc.Register(ctx, "Admin", "admin@example.com", "altespasswort", "altespasswort")
		Expect(err).NotTo(HaveOccurred())

		// Old password works
		ttl, err := svc.Login(ctx, "admin@example.com", "altespasswort")
		Expect(err).NotTo(HaveOccurred())
		Expect(ttl).To(Equal(auth.SessionTTL))

		// Request a reset; the mail carries the plaintext token
		Expect(svc.RequestPasswordReset(ctx, "admin@example.com")).To(Succeed())
		Expect(mailer.email).To(Equal("admin@example.com"))
		Expect(mailer.token).NotTo(BeEmpty())

		// Consume the token
		Expect(svc.ResetPassword(ctx, mailer.token, "neuespasswort", "neuespasswort")).To(Succeed())

		// Old password is dead, new one works
		_, err = svc.Login(ctx, "admin@example.com", "altespasswort")
		Expect(err).To(HaveOccurred())

		_, err = svc.Login(ctx, "admin@example.com", "neuespasswort")
		Expect(err).NotTo(HaveOccurred())

		// The token is single-use
		err = svc.ResetPassword(ctx, mailer.token, "nochmal123", "nochmal123")
		Expect(err).To(HaveOccurred())
	})

	It("issues a fresh token per request, invalidating the previous one", func() {
		_, err := svc.Register(ctx, "Admin", "admin@example.com", "altespasswort", "altespasswort")
		Expect(err).NotTo(HaveOccurred())

		Expect(svc.RequestPasswordReset(ctx, "admin@example.com")).To(Succeed())
		firstToken := mailer.token

		Expect(svc.RequestPasswordReset(ctx, "admin@example.com")).To(Succeed())
		secondToken := mailer.token
		Expect(secondToken).NotTo(Equal(firstToken))

		// Only the latest token is live
		err = svc.ResetPassword(ctx, firstToken, "neuespasswort", "neuespasswort")
		Expect(err).To(HaveOccurred())
		Expect(svc.ResetPassword(ctx, secondToken, "neuespasswort", "neuespasswort")).To(Succeed())
	})

	It("locks the account after repeated failures", func() {
		_, err := svc.Register(ctx, "Admin", "admin@example.com", "richtig123", "richtig123")
		Expect(err).NotTo(HaveOccurred())

		for range 7 {
			_, err = svc.Login(ctx, "admin@example.com", "falsch1234")
			Expect(err).To(HaveOccurred())
		}

		// Even the correct password is refused while locked
		_, err = svc.Login(ctx, "admin@example.com", "richtig123")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Quote intake", func() {
	var (
		ctx context.Context
		svc *quote.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		cleanupDatabase(ctx, env.pool)

		var err error
		svc, err = quote.NewService(
			quotepg.NewRequestRepository(env.pool),
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	It("stores a submission and lists it with nested sections intact", func() {
		sub := quote.Submission{
			Customer: quote.Customer{
				FirstName: "Lena",
				LastName:  "Schmidt",
				Phone:     "+49 30 1234567",
				Email:     "lena@example.com",
			},
			MoveType: "private",
			Services: []string{"packing", "transport"},
			Addresses: quote.Addresses{
				From: "Berliner Str. 12, 10715 Berlin",
				To:   "Hauptstr. 3, 20095 Hamburg",
			},
			Details: quote.Details{
				FloorsFrom:   "3",
				FloorsTo:     "1",
				ElevatorFrom: true,
				Assembly:     true,
				Date:         "2026-09-15",
			},
			Items:   []quote.Item{{Key: "sofa", Qty: 1, Label: "Sofa"}},
			Message: "Bitte morgens.",
		}

		created, err := svc.Submit(ctx, sub)
		Expect(err).NotTo(HaveOccurred())

		reqs, err := svc.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(reqs).To(HaveLen(1))

		got := reqs[0]
		Expect(got.ID).To(Equal(created.ID))
		Expect(got.Status).To(Equal(quote.StatusNew))
		Expect(got.Services).To(Equal([]string{"packing", "transport"}))
		Expect(got.Details.ElevatorFrom).To(BeTrue())
		Expect(got.Items).To(HaveLen(1))
		Expect(got.Items[0].Key).To(Equal("sofa"))
	})

	It("lists newest first", func() {
		for _, name := range []string{"Erste", "Zweite"} {
			_, err := svc.Submit(ctx, quote.Submission{
				Customer: quote.Customer{
					FirstName: name, LastName: "Kundin",
					Phone: "123", Email: "k@example.com",
				},
			})
			Expect(err).NotTo(HaveOccurred())
		}

		// Backdate the first submission so ordering is deterministic.
		_, err := env.pool.Exec(ctx,
			`UPDATE move_requests SET created_at = created_at - interval '1 hour' WHERE first_name = 'Erste'`)
		Expect(err).NotTo(HaveOccurred())

		reqs, listErr := svc.List(ctx)
		Expect(listErr).NotTo(HaveOccurred())
		Expect(reqs).To(HaveLen(2))
		Expect(reqs[0].Customer.FirstName).To(Equal("Zweite"))
	})
})
