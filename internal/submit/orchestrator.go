// Package submit sequences an order submission: availability check,
// shortage resolution, order creation, transfer batching. Network calls run
// strictly one at a time; the only automatic retry is the single
// force-create reissue after a shortage-shaped create failure.
package submit

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rizkyamr/order-console/internal/backend"
	"github.com/rizkyamr/order-console/internal/draft"
	"github.com/rizkyamr/order-console/internal/stock"
)

// StockChecker is the pre-submission availability check.
type StockChecker interface {
	Check(ctx context.Context, storeID string, items []draft.Item) (stock.CheckResult, error)
}

// OrderAPI is the slice of the backend client the orchestrator drives.
type OrderAPI interface {
	CreateOrder(ctx context.Context, d draft.Draft, force bool) (backend.Order, error)
	CreateTransferBatch(ctx context.Context, batch backend.TransferBatch) error
}

// Resolution is what the dialog (or any Resolver) hands back: either a
// decision list or the force-create signal, never both.
type Resolution struct {
	Force     bool
	Decisions []stock.Decision
}

// Resolver stands in for the shortage dialog in single-call submissions.
type Resolver interface {
	Resolve(ctx context.Context, suggestions []stock.Suggestion) (Resolution, error)
}

// Pending reports that a submission is waiting on shortage decisions.
type Pending struct {
	Suggestions []stock.Suggestion
}

type Orchestrator struct {
	Stock StockChecker
	API   OrderAPI
	Log   *logrus.Logger
}

// Submit validates and checks stock. No shortage creates the order
// directly; a shortage returns Pending without creating anything. A check
// transport failure is treated as "shortage uncertain": proceed to create
// and let the create endpoint's own re-validation decide.
func (o *Orchestrator) Submit(ctx context.Context, d draft.Draft) (Outcome, *Pending, error) {
	if err := d.Validate(); err != nil {
		return Outcome{}, nil, err
	}
	a := newAttempt(o.entry(d))

	a.to(stateCheckingStock)
	res, err := o.Stock.Check(ctx, d.StoreID, d.Items)
	if err != nil {
		a.log.WithError(err).Warn("stock check failed, deferring to create-side validation")
		return o.create(ctx, a, d, nil, false), nil, nil
	}
	if res.HasShortage {
		a.to(stateAwaitingDecision)
		return Outcome{}, &Pending{Suggestions: shortageOnly(res.Suggestions)}, nil
	}
	return o.create(ctx, a, d, nil, false), nil, nil
}

// Resume finishes a submission after the shortage dialog: either a
// force-create backorder or a normal create followed by the transfer batch
// the decisions call for.
func (o *Orchestrator) Resume(ctx context.Context, d draft.Draft, decisions []stock.Decision, force bool) (Outcome, error) {
	if err := d.Validate(); err != nil {
		return Outcome{}, err
	}
	a := newAttempt(o.entry(d))
	a.state = stateAwaitingDecision
	if force {
		decisions = nil
	}
	return o.create(ctx, a, d, decisions, force), nil
}

// SubmitWith is the single-call form: the resolver plays the dialog.
func (o *Orchestrator) SubmitWith(ctx context.Context, d draft.Draft, r Resolver) (Outcome, error) {
	out, pending, err := o.Submit(ctx, d)
	if err != nil {
		return Outcome{}, err
	}
	if pending == nil {
		return out, nil
	}
	res, err := r.Resolve(ctx, pending.Suggestions)
	if err != nil {
		return Outcome{}, err
	}
	return o.Resume(ctx, d, res.Decisions, res.Force)
}

// create issues the order, retrying exactly once with the force flag when a
// non-forced attempt fails with the shortage shape, then issues transfers
// for any decisions (forced attempts never issue transfers).
func (o *Orchestrator) create(ctx context.Context, a *attempt, d draft.Draft, decisions []stock.Decision, force bool) Outcome {
	a.to(stateCreatingOrder)
	ord, err := o.API.CreateOrder(ctx, d, force)
	forced := force
	if err != nil {
		var shortage *backend.StockShortageError
		if !force && errors.As(err, &shortage) {
			// the create endpoint re-validated stock and disagreed with
			// the earlier check; reissue as backorder, once
			a.log.Info("shortage on create, reissuing as backorder")
			forced = true
			decisions = nil
			ord, err = o.API.CreateOrder(ctx, d, true)
		}
		if err != nil {
			a.to(stateFailed)
			out := Outcome{Status: StatusFailed, Err: fmt.Errorf("create order: %w", err)}
			a.log.WithError(out.Err).WithField("kind", Kind(err)).Info("submission failed")
			return out
		}
	}

	if forced {
		a.to(stateSucceeded)
		a.log.WithField("order_id", ord.ID).Info("backorder created")
		return Outcome{Status: StatusBackordered, Order: ord, Forced: true}
	}

	transfers := buildTransfers(d.StoreID, decisions)
	if len(transfers) == 0 {
		a.to(stateSucceeded)
		a.log.WithField("order_id", ord.ID).Info("order created")
		return Outcome{Status: StatusSucceeded, Order: ord}
	}

	a.to(stateCreatingTransfers)
	err = o.API.CreateTransferBatch(ctx, backend.TransferBatch{OrderID: ord.ID, Transfers: transfers})
	if err != nil {
		// the order exists and stays; report distinctly, never roll back
		a.to(stateSucceeded)
		a.log.WithError(err).WithField("order_id", ord.ID).Warn("order created but transfer batch failed")
		return Outcome{
			Status:          StatusPartialSuccess,
			Order:           ord,
			TransferWarning: fmt.Sprintf("stock transfers could not be created: %v", err),
		}
	}
	a.to(stateSucceeded)
	a.log.WithField("order_id", ord.ID).WithField("transfers", len(transfers)).Info("order and transfers created")
	return Outcome{Status: StatusSucceeded, Order: ord}
}

// buildTransfers flattens transfer/mixed decisions into the batch request.
// Destination is always the ordering store.
func buildTransfers(storeID string, decisions []stock.Decision) []backend.Transfer {
	var out []backend.Transfer
	for _, dec := range decisions {
		if dec.Action != stock.ActionTransfer && dec.Action != stock.ActionMixed {
			continue
		}
		for _, src := range dec.Transfers {
			if src.Quantity <= 0 {
				continue
			}
			out = append(out, backend.Transfer{
				FromStoreID:      src.SourceStoreID,
				ToStoreID:        storeID,
				ProductVariantID: dec.ProductVariantID,
				Quantity:         src.Quantity,
				Notes:            "covering order shortage",
				Status:           "pending",
			})
		}
	}
	return out
}

func shortageOnly(suggestions []stock.Suggestion) []stock.Suggestion {
	out := make([]stock.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if s.ShortageQuantity > 0 {
			out = append(out, s)
		}
	}
	return out
}

func (o *Orchestrator) entry(d draft.Draft) *logrus.Entry {
	log := o.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return log.WithFields(logrus.Fields{"store_id": d.StoreID, "customer_id": d.CustomerID})
}
