package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"buildquote/models"
	"buildquote/repository"
	"buildquote/utils"
)

var (
	ErrDraftNotFound     = errors.New("draft not found")
	ErrWrongStep         = errors.New("operation not valid in current step")
	ErrItemNotFound      = errors.New("item not found")
	ErrValidationBlocked = errors.New("validation failed")
)

// itemFields are the line item fields the wizard lets the user edit, one
// field per update.
var itemFields = map[string]bool{
	"name": true, "sku": true, "productId": true, "desc": true, "uom": true, "qty": true,
}

// WizardService owns all in-progress RFQ drafts. Drafts live in memory
// only; a successful send keeps the draft around (step done) just long
// enough to show the confirmation, and the sweep removes idle ones.
type WizardService struct {
	mu     sync.Mutex
	drafts map[string]*models.RFQDraft
	now    func() time.Time
}

func NewWizardService() *WizardService {
	return &WizardService{
		drafts: make(map[string]*models.RFQDraft),
		now:    time.Now,
	}
}

// CreateDraft opens a new wizard session at the upload step.
func (w *WizardService) CreateDraft() models.RFQDraft {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	draft := &models.RFQDraft{
		DraftID:   repository.NewDraftID(),
		Step:      models.StepUpload,
		Items:     []models.LineItem{},
		Delivery:  models.DeliveryModeDelivery,
		CreatedAt: now,
		UpdatedAt: now,
	}
	w.drafts[draft.DraftID] = draft
	return snapshot(draft)
}

// GetDraft returns the current state of one draft.
func (w *WizardService) GetDraft(draftID string) (models.RFQDraft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	draft, ok := w.drafts[draftID]
	if !ok {
		return models.RFQDraft{}, ErrDraftNotFound
	}
	return snapshot(draft), nil
}

// AttachItems appends extracted items to the draft and advances an
// upload-step draft to review. Appending keeps items from earlier
// uploads; extraction output is never deduplicated.
func (w *WizardService) AttachItems(draftID string, items []models.LineItem) (models.RFQDraft, error) {
	return w.update(draftID, func(d *models.RFQDraft) error {
		if d.Step != models.StepUpload && d.Step != models.StepReview {
			return fmt.Errorf("%w: cannot attach items at step %s", ErrWrongStep, d.Step)
		}
		d.Items = append(d.Items, items...)
		d.Step = models.StepReview
		return nil
	})
}

// SkipUpload advances to review with whatever items the draft has,
// including none. Manual entry starts from an empty table.
func (w *WizardService) SkipUpload(draftID string) (models.RFQDraft, error) {
	return w.update(draftID, func(d *models.RFQDraft) error {
		if d.Step != models.StepUpload {
			return fmt.Errorf("%w: cannot skip upload at step %s", ErrWrongStep, d.Step)
		}
		d.Step = models.StepReview
		return nil
	})
}

// AddItem appends one blank row with a fresh identifier.
func (w *WizardService) AddItem(draftID string) (models.RFQDraft, error) {
	return w.update(draftID, func(d *models.RFQDraft) error {
		if d.Step != models.StepReview {
			return fmt.Errorf("%w: cannot add items at step %s", ErrWrongStep, d.Step)
		}
		d.Items = append(d.Items, models.LineItem{ID: repository.NewItemID()})
		return nil
	})
}

// UpdateItemField sets exactly one field of one item. Unknown fields and
// unknown items are rejected; values are stored verbatim, including qty.
func (w *WizardService) UpdateItemField(draftID, itemID, field, value string) (models.RFQDraft, error) {
	return w.update(draftID, func(d *models.RFQDraft) error {
		if d.Step != models.StepReview {
			return fmt.Errorf("%w: cannot edit items at step %s", ErrWrongStep, d.Step)
		}
		if !itemFields[field] {
			return fmt.Errorf("%w: unknown item field %q", ErrValidationBlocked, field)
		}
		for i := range d.Items {
			if d.Items[i].ID != itemID {
				continue
			}
			switch field {
			case "name":
				d.Items[i].Name = value
			case "sku":
				d.Items[i].SKU = value
			case "productId":
				d.Items[i].ProductID = value
			case "desc":
				d.Items[i].Desc = value
			case "uom":
				d.Items[i].UOM = value
			case "qty":
				d.Items[i].Qty = value
			}
			return nil
		}
		return ErrItemNotFound
	})
}

// RemoveItem deletes one item by identifier. Remaining items keep their
// order and identifiers.
func (w *WizardService) RemoveItem(draftID, itemID string) (models.RFQDraft, error) {
	return w.update(draftID, func(d *models.RFQDraft) error {
		if d.Step != models.StepReview {
			return fmt.Errorf("%w: cannot remove items at step %s", ErrWrongStep, d.Step)
		}
		for i := range d.Items {
			if d.Items[i].ID == itemID {
				d.Items = append(d.Items[:i], d.Items[i+1:]...)
				return nil
			}
		}
		return ErrItemNotFound
	})
}

// Back moves the wizard one step towards upload. All entered data stays
// on the draft.
func (w *WizardService) Back(draftID string) (models.RFQDraft, error) {
	return w.update(draftID, func(d *models.RFQDraft) error {
		switch d.Step {
		case models.StepReview:
			d.Step = models.StepUpload
		case models.StepSend:
			d.Step = models.StepReview
		default:
			return fmt.Errorf("%w: cannot go back from step %s", ErrWrongStep, d.Step)
		}
		return nil
	})
}

// ToSend advances a review-step draft with at least one item to the send
// step.
func (w *WizardService) ToSend(draftID string) (models.RFQDraft, error) {
	return w.update(draftID, func(d *models.RFQDraft) error {
		if d.Step != models.StepReview {
			return fmt.Errorf("%w: cannot continue at step %s", ErrWrongStep, d.Step)
		}
		if len(d.Items) == 0 {
			return fmt.Errorf("%w: add at least one item before continuing", ErrValidationBlocked)
		}
		d.Step = models.StepSend
		return nil
	})
}

// UpdateDetails merges the provided send-stage fields into the draft.
// Only fields present in the request change.
func (w *WizardService) UpdateDetails(draftID string, req models.DetailsUpdateRequest) (models.RFQDraft, error) {
	return w.update(draftID, func(d *models.RFQDraft) error {
		if d.Step == models.StepDone {
			return fmt.Errorf("%w: draft already sent", ErrWrongStep)
		}
		if req.Builder != nil {
			d.Builder = *req.Builder
		}
		if req.Supplier != nil {
			d.Supplier = *req.Supplier
		}
		if req.Delivery != nil {
			if *req.Delivery != models.DeliveryModeDelivery && *req.Delivery != models.DeliveryModePickup {
				return fmt.Errorf("%w: unknown delivery mode %q", ErrValidationBlocked, *req.Delivery)
			}
			d.Delivery = *req.Delivery
		}
		if req.DateRequired != nil {
			d.DateRequired = *req.DateRequired
		}
		if req.Message != nil {
			d.Message = *req.Message
		}
		if req.SendCopyToSelf != nil {
			d.SendCopyToSelf = *req.SendCopyToSelf
		}
		return nil
	})
}

// Submit runs the transactional send for a send-step draft. On success
// the draft moves to done carrying its RFQ reference; on failure it stays
// at send with everything intact, and a resubmit gets a fresh reference.
func (w *WizardService) Submit(draftID string, sender *SendService) (models.RFQDraft, error) {
	w.mu.Lock()
	draft, ok := w.drafts[draftID]
	if !ok {
		w.mu.Unlock()
		return models.RFQDraft{}, ErrDraftNotFound
	}
	if draft.Step != models.StepSend {
		w.mu.Unlock()
		return models.RFQDraft{}, fmt.Errorf("%w: cannot send at step %s", ErrWrongStep, draft.Step)
	}
	if !utils.HasEmail(draft.Builder.Email) || !utils.HasEmail(draft.Supplier.SupplierEmail) {
		w.mu.Unlock()
		return models.RFQDraft{}, fmt.Errorf("%w: builder and supplier email are required", ErrValidationBlocked)
	}
	payload := draft.Payload()
	w.mu.Unlock()

	// Send outside the lock; generation and SMTP can take seconds.
	rfqID, err := sender.SendRFQ(payload)
	if err != nil {
		return models.RFQDraft{}, err
	}

	return w.update(draftID, func(d *models.RFQDraft) error {
		d.RFQID = rfqID
		d.Step = models.StepDone
		return nil
	})
}

// Reset returns a done-step draft to a fresh upload state under the same
// draft identifier.
func (w *WizardService) Reset(draftID string) (models.RFQDraft, error) {
	return w.update(draftID, func(d *models.RFQDraft) error {
		created := d.CreatedAt
		*d = models.RFQDraft{
			DraftID:   d.DraftID,
			Step:      models.StepUpload,
			Items:     []models.LineItem{},
			Delivery:  models.DeliveryModeDelivery,
			CreatedAt: created,
		}
		return nil
	})
}

// Cleanup removes drafts idle for longer than olderThan and reports how
// many were dropped.
func (w *WizardService) Cleanup(olderThan time.Duration) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := w.now().Add(-olderThan)
	removed := 0
	for id, draft := range w.drafts {
		if draft.UpdatedAt.Before(cutoff) {
			delete(w.drafts, id)
			removed++
		}
	}
	return removed
}

func (w *WizardService) update(draftID string, fn func(*models.RFQDraft) error) (models.RFQDraft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	draft, ok := w.drafts[draftID]
	if !ok {
		return models.RFQDraft{}, ErrDraftNotFound
	}
	if err := fn(draft); err != nil {
		return models.RFQDraft{}, err
	}
	draft.UpdatedAt = w.now()
	return snapshot(draft), nil
}

// snapshot copies a draft so callers never share the stored slice.
func snapshot(d *models.RFQDraft) models.RFQDraft {
	out := *d
	out.Items = make([]models.LineItem, len(d.Items))
	copy(out.Items, d.Items)
	return out
}
