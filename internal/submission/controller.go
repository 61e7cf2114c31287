// Package submission wires the analysis form to the classifier: input
// validation, the per-session in-flight guard, the result card and the
// history reload that follows a verdict.
package submission

import (
	"context"

	"newsdesk/domain/prediction"
	"newsdesk/internal"
	"newsdesk/internal/errors"
	"newsdesk/internal/notify"
	"newsdesk/internal/session"
	"newsdesk/ports"
)

// User-facing messages of the submission flow
const (
	MsgBlankInput = "Please enter a title or text to analyze."
	MsgBusy       = "Analysis already in progress. Please wait."
	MsgComplete   = "Analysis complete!"
)

// Controller runs form submissions for every session.
type Controller struct {
	client   ports.ClassifierPort
	notifier *notify.Notifier
	logger   *internal.Logger
}

// NewController creates a submission controller.
func NewController(client ports.ClassifierPort, notifier *notify.Notifier, logger *internal.Logger) *Controller {
	return &Controller{
		client:   client,
		notifier: notifier,
		logger:   logger.With("Submission"),
	}
}

// Submit sends req for classification on behalf of the session owning state.
//
// Blank input and a second submission while one is in flight are rejected
// with a warning and never reach the backend. Any other failure is reported
// as an error notification and leaves the last result untouched. On success
// the new card is stored, a success notification is shown and the history is
// reloaded exactly once.
func (c *Controller) Submit(ctx context.Context, state *session.AppState, sessionID string, req prediction.PredictRequest) (*ResultCard, error) {
	if req.Blank() {
		c.notifier.Warning(sessionID, MsgBlankInput)
		return nil, errors.ValidationError(MsgBlankInput)
	}
	if !state.TryBegin() {
		c.notifier.Warning(sessionID, MsgBusy)
		return nil, errors.Busy(MsgBusy)
	}
	defer state.End()

	resp, err := c.client.Predict(ctx, req)
	if err != nil {
		c.logger.Warn("Prediction failed for session %s: %v", sessionID, err)
		c.notifier.FromError(sessionID, err)
		return nil, err
	}

	card := NewResultCard(resp)
	if card == nil {
		err := errors.ApplicationError("Prediction failed. Please try again.")
		c.notifier.FromError(sessionID, err)
		return nil, err
	}
	state.SetLastResult(resp)
	c.notifier.Success(sessionID, MsgComplete)
	c.logger.Info("Session %s: %s (%s)", sessionID, card.Label, card.ConfidencePercentage)

	if _, err := c.ReloadHistory(ctx, state, sessionID); err != nil {
		c.logger.Warn("History reload after prediction failed: %v", err)
	}
	return card, nil
}

// ReloadHistory fetches the history into the session cache. On failure the
// cache keeps its previous snapshot and an error notification is shown.
func (c *Controller) ReloadHistory(ctx context.Context, state *session.AppState, sessionID string) ([]prediction.Record, error) {
	records, err := c.client.History(ctx)
	if err != nil {
		c.notifier.FromError(sessionID, err)
		cached, _ := state.History()
		return cached, err
	}
	state.SetHistory(records)
	return records, nil
}

// LastCard rebuilds the card of the session's last successful prediction.
func (c *Controller) LastCard(state *session.AppState) *ResultCard {
	return NewResultCard(state.LastResult())
}
