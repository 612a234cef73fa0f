package notify

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/suprmushrooms/storefront/internal/models"
	"github.com/suprmushrooms/storefront/internal/store"
)

const orderChannel = "order_created"

// Sender is satisfied by Mailer; tests substitute a recorder.
type Sender interface {
	SendOrderConfirmation(to string, order *models.Order) error
}

// Dispatcher consumes order-created notifications from Postgres and sends
// confirmation emails. It is fully decoupled from checkout: a failure here
// is logged and never rolls back or delays an order.
type Dispatcher struct {
	db     *sql.DB
	sender Sender
	dsn    string
}

func NewDispatcher(db *sql.DB, dsn string, sender Sender) *Dispatcher {
	return &Dispatcher{
		db:     db,
		sender: sender,
		dsn:    dsn,
	}
}

// Run blocks until ctx is cancelled. On start and whenever the connection is
// re-established it sweeps orders whose notification never went out, so a
// NOTIFY dropped while disconnected is not lost.
func (d *Dispatcher) Run(ctx context.Context) error {
	listener := pq.NewListener(d.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("listener event %d: %v", ev, err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(orderChannel); err != nil {
		return err
	}

	d.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case n := <-listener.Notify:
			if n == nil {
				// nil means the connection was re-established; anything
				// committed in the gap never reached us.
				d.sweep(ctx)
				continue
			}
			id, err := uuid.Parse(n.Extra)
			if err != nil {
				log.Printf("ignoring malformed order notification %q: %v", n.Extra, err)
				continue
			}
			d.process(ctx, id)

		case <-time.After(90 * time.Second):
			if err := listener.Ping(); err != nil {
				log.Printf("listener ping: %v", err)
			}
		}
	}
}

func (d *Dispatcher) sweep(ctx context.Context) {
	ids, err := store.ListUnnotifiedOrders(ctx, d.db, 100)
	if err != nil {
		log.Printf("sweep unnotified orders: %v", err)
		return
	}
	for _, id := range ids {
		d.process(ctx, id)
	}
}

func (d *Dispatcher) process(ctx context.Context, id uuid.UUID) {
	// Claim before sending so two dispatcher processes cannot double-send.
	claimed, err := store.MarkNotified(ctx, d.db, id)
	if err != nil {
		log.Printf("claim order %s: %v", id, err)
		return
	}
	if !claimed {
		return
	}

	order, err := store.GetOrder(ctx, d.db, id)
	if err != nil {
		log.Printf("fetch order %s: %v", id, err)
		return
	}

	recipient, err := d.resolveRecipient(ctx, order)
	if err != nil {
		log.Printf("resolve recipient for order %s: %v", id, err)
		return
	}
	if recipient == "" {
		log.Printf("no email for order %s, skipping confirmation", id)
		return
	}

	if err := d.sender.SendOrderConfirmation(recipient, order); err != nil {
		log.Printf("send confirmation for order %s: %v", id, err)
		return
	}

	log.Printf("confirmation sent for order %s to %s", order.Reference(), recipient)
}

func (d *Dispatcher) resolveRecipient(ctx context.Context, order *models.Order) (string, error) {
	if order.GuestEmail != nil && *order.GuestEmail != "" {
		return *order.GuestEmail, nil
	}
	if order.UserID != nil {
		return store.GetUserEmail(ctx, d.db, *order.UserID)
	}
	return "", nil
}
