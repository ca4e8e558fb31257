package service

import (
	"context"
	"errors"

	"github.com/rl1809/stockroom/internal/core/domain"
)

var (
	ErrFormNotOpen = errors.New("form is not open")
	ErrFormBusy    = errors.New("form is already submitting")
)

type FormState int

const (
	FormClosed FormState = iota
	FormComposing
	FormSubmitting
)

func (s FormState) String() string {
	switch s {
	case FormClosed:
		return "closed"
	case FormComposing:
		return "composing"
	case FormSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

type FormMode int

const (
	FormAdd FormMode = iota
	FormEdit
)

// formState is shared by the item and issuance forms:
//
//	Closed -> Composing(Add|Edit) -> Submitting -> Closed     on success
//	                                            -> Composing  on failure
type formState struct {
	state  FormState
	mode   FormMode
	editID string
	err    error
}

func (f *formState) open(mode FormMode, id string) {
	f.state, f.mode, f.editID, f.err = FormComposing, mode, id, nil
}

func (f *formState) begin() error {
	switch f.state {
	case FormClosed:
		return ErrFormNotOpen
	case FormSubmitting:
		return ErrFormBusy
	}
	f.state = FormSubmitting
	f.err = nil
	return nil
}

func (f *formState) finish(err error) bool {
	if err != nil {
		f.state, f.err = FormComposing, err
		return false
	}
	f.state, f.editID, f.err = FormClosed, "", nil
	return true
}

func (f *formState) State() FormState { return f.state }
func (f *formState) Mode() FormMode   { return f.mode }

// EditID is the record being edited, empty when adding.
func (f *formState) EditID() string { return f.editID }

// Err is the failure of the last submit, kept until the next one.
func (f *formState) Err() error { return f.err }

// ItemForm drives the add/edit item dialog. Draft never aliases the cache
// entry being edited.
type ItemForm struct {
	formState
	svc   *InventoryService
	Draft ItemDraft
}

func NewItemForm(svc *InventoryService) *ItemForm {
	return &ItemForm{svc: svc}
}

func (f *ItemForm) OpenAdd() {
	f.open(FormAdd, "")
	f.Draft = ItemDraft{Quantity: "1"}
}

func (f *ItemForm) OpenEdit(item domain.Item) {
	f.open(FormEdit, item.ID)
	f.Draft = DraftFromItem(item)
}

func (f *ItemForm) Title() string {
	if f.mode == FormEdit {
		return "Edit item"
	}
	return "Add item"
}

func (f *ItemForm) SubmitLabel() string {
	if f.mode == FormEdit {
		return "Update"
	}
	return "Save"
}

// Submit sends the draft. On failure the form stays open with its fields.
func (f *ItemForm) Submit(ctx context.Context) (domain.Item, error) {
	if err := f.begin(); err != nil {
		return domain.Item{}, err
	}

	var (
		item domain.Item
		err  error
	)
	if f.mode == FormEdit {
		item, err = f.svc.UpdateItem(ctx, f.editID, f.Draft)
	} else {
		item, err = f.svc.AddItem(ctx, f.Draft)
	}
	if f.finish(err) {
		f.Draft = ItemDraft{}
	}
	return item, err
}

func (f *ItemForm) Cancel() {
	f.state, f.editID, f.err = FormClosed, "", nil
	f.Draft = ItemDraft{}
}

type IssuanceForm struct {
	formState
	svc   *InventoryService
	Draft IssuanceDraft
}

func NewIssuanceForm(svc *InventoryService) *IssuanceForm {
	return &IssuanceForm{svc: svc}
}

func (f *IssuanceForm) OpenAdd() {
	f.open(FormAdd, "")
	f.Draft = IssuanceDraft{ReturnQuantity: "0"}
}

func (f *IssuanceForm) OpenEdit(rec domain.Issuance) {
	f.open(FormEdit, rec.ID)
	f.Draft = DraftFromIssuance(rec)
}

func (f *IssuanceForm) Title() string {
	if f.mode == FormEdit {
		return "Edit issuance"
	}
	return "Issue item"
}

func (f *IssuanceForm) SubmitLabel() string {
	if f.mode == FormEdit {
		return "Update"
	}
	return "Save"
}

func (f *IssuanceForm) Submit(ctx context.Context) (domain.Issuance, error) {
	if err := f.begin(); err != nil {
		return domain.Issuance{}, err
	}

	var (
		rec domain.Issuance
		err error
	)
	if f.mode == FormEdit {
		rec, err = f.svc.UpdateIssuance(ctx, f.editID, f.Draft)
	} else {
		rec, err = f.svc.AddIssuance(ctx, f.Draft)
	}
	if f.finish(err) {
		f.Draft = IssuanceDraft{}
	}
	return rec, err
}

func (f *IssuanceForm) Cancel() {
	f.state, f.editID, f.err = FormClosed, "", nil
	f.Draft = IssuanceDraft{}
}
